package core

import "path/filepath"

// TaskType classifies a task from the dataset's target column.
type TaskType string

const (
	Classification TaskType = "classification"
	Regression     TaskType = "regression"
)

// TaskConfig is the resolved, job-specific configuration handed to a
// framework adapter. It is built once from a TaskDefinition and a fold, then
// specialized per framework run; specialization works on a copy so the
// template is never mutated.
type TaskConfig struct {
	Name                  string
	Fold                  int
	Type                  TaskType
	Metrics               []string
	Metric                string
	Seed                  int64
	MaxRuntimeSeconds     int
	Cores                 int
	MaxMemSizeMB          int
	InputDir              string
	OutputDir             string
	OutputPredictionsFile string
	Framework             string
	FrameworkParams       map[string]any
}

// TaskConfigFromDefinition builds the template TaskConfig for one
// (task, fold) pair.
func TaskConfigFromDefinition(def TaskDefinition, fold int, inputDir, outputDir string) TaskConfig {
	cfg := TaskConfig{
		Name:              def.Name,
		Fold:              fold,
		Metrics:           append([]string(nil), def.Metrics...),
		Seed:              def.Seed,
		MaxRuntimeSeconds: def.MaxRuntimeSeconds,
		Cores:             def.Cores,
		MaxMemSizeMB:      def.MaxMemSizeMB,
		InputDir:          inputDir,
		OutputDir:         outputDir,
	}
	if len(cfg.Metrics) > 0 {
		cfg.Metric = cfg.Metrics[0]
	}
	cfg.OutputPredictionsFile = filepath.Join(outputDir, "predictions.csv")
	return cfg
}

// TaskOverrides carries command-line overrides for a handful of task
// parameters (the t.* surface). Nil fields leave the definition value alone.
type TaskOverrides struct {
	MaxRuntimeSeconds *int
	Metric            *string
	Metrics           []string
	Seed              *int64
}

// Apply merges the overrides into the config, in field order.
func (o TaskOverrides) Apply(cfg *TaskConfig) {
	if o.MaxRuntimeSeconds != nil {
		cfg.MaxRuntimeSeconds = *o.MaxRuntimeSeconds
	}
	if o.Metric != nil {
		cfg.Metric = *o.Metric
	}
	if len(o.Metrics) > 0 {
		cfg.Metrics = append([]string(nil), o.Metrics...)
	}
	if o.Seed != nil {
		cfg.Seed = *o.Seed
	}
}

// CloneParams deep-copies a framework-params map so a specialized config
// cannot mutate the template's map.
func CloneParams(params map[string]any) map[string]any {
	if params == nil {
		return nil
	}
	clone := make(map[string]any, len(params))
	for k, v := range params {
		clone[k] = v
	}
	return clone
}
