package runner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/seb-h2o/automlbenchmark/pkg/job"
)

const defaultPollInterval = 100 * time.Millisecond

// Pool executes up to Workers jobs concurrently. Submissions are staggered by
// StaggerDelay to avoid a thundering-herd start, and completions are drained
// asynchronously as they arrive, so completion order does not match
// submission order. Each job still runs at most once.
type Pool struct {
	Workers      int
	StaggerDelay time.Duration
	PollInterval time.Duration
	Logger       *zap.Logger
	Progress     func(completed, total int)
}

func (p *Pool) Run(ctx context.Context, jobs []*job.Job) []Completion {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := p.Workers
	if workers <= 0 {
		workers = 1
	}
	poll := p.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}

	queue := make(chan *job.Job, len(jobs))
	out := make(chan Completion, len(jobs))

	for i := 0; i < workers; i++ {
		go p.worker(ctx, queue, out, logger)
	}

	// Staggered submission. The queue is buffered for the whole batch, so
	// sends never block and every job is eventually handed to a worker even
	// when the context is cancelled mid-submission.
	go func() {
		for i, j := range jobs {
			if i > 0 && p.StaggerDelay > 0 && ctx.Err() == nil {
				select {
				case <-time.After(p.StaggerDelay):
				case <-ctx.Done():
				}
			}
			queue <- j
		}
		close(queue)
	}()

	// Asynchronous drain: poll for completions as they arrive.
	completions := make([]Completion, 0, len(jobs))
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for len(completions) < len(jobs) {
		select {
		case c := <-out:
			completions = append(completions, c)
			if p.Progress != nil {
				p.Progress(len(completions), len(jobs))
			}
		case <-ticker.C:
		}
	}
	return completions
}

func (p *Pool) worker(ctx context.Context, queue <-chan *job.Job, out chan<- Completion, logger *zap.Logger) {
	for j := range queue {
		if err := ctx.Err(); err != nil {
			out <- Completion{Job: j, Err: err}
			continue
		}
		start := time.Now()
		result, err := j.Invoke(ctx)
		if err != nil {
			logger.Error("job failed", zap.String("job", j.Name), zap.Error(err))
		}
		out <- Completion{
			Job:      j,
			Result:   result,
			Duration: time.Since(start),
			Err:      err,
		}
	}
}
