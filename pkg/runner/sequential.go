package runner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/seb-h2o/automlbenchmark/pkg/job"
)

// Sequential executes jobs one at a time in submission order. Completion
// order equals submission order.
type Sequential struct {
	Logger   *zap.Logger
	Progress func(completed, total int)
}

func (s *Sequential) Run(ctx context.Context, jobs []*job.Job) []Completion {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	completions := make([]Completion, 0, len(jobs))
	for _, j := range jobs {
		start := time.Now()
		result, err := j.Invoke(ctx)
		completion := Completion{
			Job:      j,
			Result:   result,
			Duration: time.Since(start),
			Err:      err,
		}
		if err != nil {
			logger.Error("job failed", zap.String("job", j.Name), zap.Error(err))
		}
		completions = append(completions, completion)
		if s.Progress != nil {
			s.Progress(len(completions), len(jobs))
		}
	}
	return completions
}
