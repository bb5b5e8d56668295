// Package catalog loads benchmark definition files and looks up task
// definitions by name. Definition order is preserved from the source file.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/seb-h2o/automlbenchmark/pkg/core"
)

// Defaults fills task fields left unset in the definition file.
type Defaults struct {
	Folds             int
	Cores             int
	MaxMemSizeMB      int
	MaxRuntimeSeconds int
	Seed              int64
}

// Catalog is an ordered collection of task definitions for one benchmark.
type Catalog struct {
	Name  string
	tasks []core.TaskDefinition
}

// New builds a catalog from already-constructed definitions, preserving their
// order.
func New(name string, tasks []core.TaskDefinition) *Catalog {
	return &Catalog{Name: name, tasks: tasks}
}

// Load reads a benchmark definition file (YAML list of tasks), validates it
// against the benchmark schema, and fills missing fields from defaults.
func Load(path string, defaults Defaults) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read benchmark definition: %w", err)
	}

	if err := validateDefinition(data); err != nil {
		return nil, fmt.Errorf("benchmark definition %s: %w", path, err)
	}

	var tasks []core.TaskDefinition
	if err := yaml.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse benchmark definition %s: %w", path, err)
	}

	for i := range tasks {
		if err := applyDefaults(&tasks[i], defaults); err != nil {
			return nil, fmt.Errorf("benchmark definition %s: %w", path, err)
		}
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &Catalog{Name: name, tasks: tasks}, nil
}

func applyDefaults(task *core.TaskDefinition, defaults Defaults) error {
	if task.Name == "" {
		return fmt.Errorf("task definition is missing a name")
	}
	if len(task.Metrics) == 0 {
		return fmt.Errorf("task %s is missing a metric", task.Name)
	}
	if task.TaskID == "" && task.DatasetID == "" && task.DatasetPath == "" {
		return fmt.Errorf("task %s needs one of [task_id, dataset_id, dataset]", task.Name)
	}
	if task.Folds == 0 {
		task.Folds = defaults.Folds
	}
	if task.Cores == 0 {
		task.Cores = defaults.Cores
	}
	if task.MaxMemSizeMB == 0 {
		task.MaxMemSizeMB = defaults.MaxMemSizeMB
	}
	if task.MaxRuntimeSeconds == 0 {
		task.MaxRuntimeSeconds = defaults.MaxRuntimeSeconds
	}
	if task.Seed == 0 {
		task.Seed = defaults.Seed
	}
	return nil
}

// Tasks returns all definitions in source order.
func (c *Catalog) Tasks() []core.TaskDefinition {
	return c.tasks
}

// ListEnabled returns the definitions whose enabled flag is absent or
// true-like, in source order.
func (c *Catalog) ListEnabled() []core.TaskDefinition {
	var enabled []core.TaskDefinition
	for _, task := range c.tasks {
		if task.IsEnabled() {
			enabled = append(enabled, task)
		}
	}
	return enabled
}

// Get returns the definition for name. It fails with core.ErrUnknownTask when
// no definition matches and core.ErrTaskDisabled when the match is disabled.
func (c *Catalog) Get(name string) (core.TaskDefinition, error) {
	for _, task := range c.tasks {
		if task.Name == name {
			if !task.IsEnabled() {
				return core.TaskDefinition{}, fmt.Errorf("%w: %s, please enable it first", core.ErrTaskDisabled, name)
			}
			return task, nil
		}
	}
	return core.TaskDefinition{}, fmt.Errorf("%w: %s", core.ErrUnknownTask, name)
}
