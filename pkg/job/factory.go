package job

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/seb-h2o/automlbenchmark/pkg/core"
	"github.com/seb-h2o/automlbenchmark/pkg/results"
)

// Factory expands task definitions into jobs for one framework.
type Factory struct {
	// Scope identifies the run; it prefixes every job name.
	Scope     string
	Executor  *Executor
	Framework core.Framework
	// FrameworkParams is the framework definition's params map, used as the
	// base before command-line overrides.
	FrameworkParams map[string]any
}

// Expand produces one job per requested fold. A nil fold list means all folds
// of the definition. Every requested fold must lie in [0, def.Folds).
func (f *Factory) Expand(def core.TaskDefinition, folds []int) ([]*Job, error) {
	if folds == nil {
		folds = make([]int, def.Folds)
		for i := range folds {
			folds[i] = i
		}
	}

	scope := f.Scope
	if scope == "" {
		scope = "local"
	}

	jobs := make([]*Job, 0, len(folds))
	for _, fold := range folds {
		if fold < 0 || fold >= def.Folds {
			return nil, fmt.Errorf("%w: fold %d for task %s (folds=%d)",
				core.ErrFoldOutOfRange, fold, def.Name, def.Folds)
		}
		def, fold := def, fold
		jobs = append(jobs, &Job{
			Name:      strings.Join([]string{scope, def.Name, strconv.Itoa(fold), f.Framework.Name()}, "_"),
			Task:      def.Name,
			Fold:      fold,
			Framework: f.Framework.Name(),
			run: func(ctx context.Context) (results.Result, error) {
				return f.Executor.Execute(ctx, def, fold, f.Framework, f.FrameworkParams)
			},
		})
	}
	return jobs, nil
}

// ParseFoldSpec parses a command-line fold selector: empty (all folds), a
// single fold, or a comma-separated list.
func ParseFoldSpec(spec string) ([]int, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	parts := strings.Split(spec, ",")
	folds := make([]int, 0, len(parts))
	for _, part := range parts {
		fold, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%w: %q (want an int or a list of ints)", core.ErrInvalidFoldSpec, spec)
		}
		folds = append(folds, fold)
	}
	return folds, nil
}
