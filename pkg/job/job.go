// Package job expands task definitions into runnable jobs and executes them
// with fault isolation.
package job

import (
	"context"

	"github.com/seb-h2o/automlbenchmark/pkg/results"
)

// Job is one concrete (task, fold, framework) execution unit. It is invoked
// at most once; there is no automatic retry.
type Job struct {
	Name      string
	Task      string
	Fold      int
	Framework string

	run func(ctx context.Context) (results.Result, error)
}

// New builds a job around a deferred runnable.
func New(name, task string, fold int, framework string, run func(ctx context.Context) (results.Result, error)) *Job {
	return &Job{Name: name, Task: task, Fold: fold, Framework: framework, run: run}
}

// Invoke runs the job's deferred work: dataset loading first, then the
// framework execution. The returned error is non-nil only for failures that
// precede fault isolation (dataset loading).
func (j *Job) Invoke(ctx context.Context) (results.Result, error) {
	return j.run(ctx)
}
