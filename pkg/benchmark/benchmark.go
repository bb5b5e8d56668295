// Package benchmark composes the catalog, job factory, runner, and result
// collector into one run of a framework against a benchmark.
package benchmark

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seb-h2o/automlbenchmark/pkg/catalog"
	"github.com/seb-h2o/automlbenchmark/pkg/core"
	"github.com/seb-h2o/automlbenchmark/pkg/framework"
	"github.com/seb-h2o/automlbenchmark/pkg/job"
	"github.com/seb-h2o/automlbenchmark/pkg/results"
	"github.com/seb-h2o/automlbenchmark/pkg/runner"
)

// Benchmark holds everything needed to run one framework against one
// benchmark definition. The framework adapter and definition are resolved
// once at construction.
type Benchmark struct {
	UID string

	registry *framework.Registry
	adapter  core.Framework
	def      framework.Definition
	catalog  *catalog.Catalog
	runner   runner.Runner
	executor *job.Executor
	store    *results.Store
	save     bool
	logger   *zap.Logger
}

// Options configures a Benchmark.
type Options struct {
	Registry      *framework.Registry
	FrameworkName string
	Catalog       *catalog.Catalog
	Runner        runner.Runner
	Executor      *job.Executor
	Store         *results.Store
	SaveResults   bool
	Logger        *zap.Logger
}

// New resolves the framework and builds a Benchmark with a unique run scope.
func New(opts Options) (*Benchmark, error) {
	adapter, err := opts.Registry.Adapter(opts.FrameworkName)
	if err != nil {
		return nil, err
	}
	def, err := opts.Registry.Definition(opts.FrameworkName)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	uid := strings.ToLower(fmt.Sprintf("%s-%s-%s",
		def.Name, opts.Catalog.Name, uuid.NewString()[:8]))

	return &Benchmark{
		UID:      uid,
		registry: opts.Registry,
		adapter:  adapter,
		def:      def,
		catalog:  opts.Catalog,
		runner:   opts.Runner,
		executor: opts.Executor,
		store:    opts.Store,
		save:     opts.SaveResults,
		logger:   logger,
	}, nil
}

// Setup ensures the framework's dependencies are available.
func (b *Benchmark) Setup(ctx context.Context, mode framework.SetupMode, cacheDir string) error {
	return b.registry.Setup(ctx, b.def.Name, mode, cacheDir, b.logger)
}

// Run executes the benchmark for the requested tasks and folds. Empty
// taskNames means the whole enabled catalog; nil folds means all folds of
// each task. It returns the resulting scoreboard, or nil when no job
// produced a result.
func (b *Benchmark) Run(ctx context.Context, taskNames []string, folds []int) (*results.Scoreboard, error) {
	defs, err := b.resolveTasks(taskNames)
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, core.ErrNoTaskAvailable
	}

	factory := &job.Factory{
		Scope:           b.UID,
		Executor:        b.executor,
		Framework:       b.adapter,
		FrameworkParams: b.def.Params,
	}

	var jobs []*job.Job
	for _, def := range defs {
		expanded, err := factory.Expand(def, folds)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, expanded...)
	}

	b.logger.Info("starting benchmark run",
		zap.String("uid", b.UID),
		zap.String("framework", b.def.Name),
		zap.Int("jobs", len(jobs)))

	completions := b.runner.Run(ctx, jobs)
	runner.Reconcile(completions)

	rows := make([]results.Result, 0, len(completions))
	for _, c := range completions {
		rows = append(rows, c.Result)
	}

	if len(taskNames) == 0 {
		board := results.Collect(rows, b.def.Name, "", b.catalog.Name)
		return board, b.persist(board)
	}

	// Per-task boards when explicit tasks were requested; the last one is
	// returned to the caller.
	var board *results.Scoreboard
	for _, def := range defs {
		var taskRows []results.Result
		for _, r := range rows {
			if !r.IsZero() && r.Task == def.Name {
				taskRows = append(taskRows, r)
			}
		}
		taskBoard := results.Collect(taskRows, b.def.Name, def.Name, "")
		if err := b.persist(taskBoard); err != nil {
			return nil, err
		}
		if taskBoard != nil {
			board = taskBoard
		}
	}
	return board, nil
}

func (b *Benchmark) resolveTasks(taskNames []string) ([]core.TaskDefinition, error) {
	if len(taskNames) == 0 {
		return b.catalog.ListEnabled(), nil
	}
	defs := make([]core.TaskDefinition, 0, len(taskNames))
	for _, name := range taskNames {
		def, err := b.catalog.Get(name)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (b *Benchmark) persist(board *results.Scoreboard) error {
	if !b.save || board == nil || b.store == nil {
		return nil
	}
	return b.store.Save(board)
}
