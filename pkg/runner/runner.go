// Package runner drives batches of jobs to completion under pluggable
// concurrency strategies.
package runner

import (
	"context"
	"math"
	"time"

	"github.com/seb-h2o/automlbenchmark/pkg/job"
	"github.com/seb-h2o/automlbenchmark/pkg/results"
)

// Completion pairs a job with its measured wall-clock duration and result.
// Err is set only for failures that escaped the executor's safety net
// (dataset loading); such completions carry no result.
type Completion struct {
	Job      *job.Job
	Result   results.Result
	Duration time.Duration
	Err      error
}

// Runner is a concurrency strategy. Every submitted job yields exactly one
// completion; one job's failure never affects its siblings.
type Runner interface {
	Run(ctx context.Context, jobs []*job.Job) []Completion
}

// Reconcile fills in runner-measured wall-clock durations for results whose
// adapter-reported duration is not a number. Adapter-reported durations are
// preserved.
func Reconcile(completions []Completion) {
	for i := range completions {
		c := &completions[i]
		if c.Err != nil || c.Result.IsZero() {
			continue
		}
		if math.IsNaN(c.Result.Duration) {
			c.Result.Duration = c.Duration.Seconds()
		}
	}
}
