package job

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/seb-h2o/automlbenchmark/pkg/core"
	"github.com/seb-h2o/automlbenchmark/pkg/resource"
	"github.com/seb-h2o/automlbenchmark/pkg/results"
)

// defaultMaxErrorLength caps NoResult diagnostics when the settings leave it
// unset.
const defaultMaxErrorLength = 200

// Settings is the configuration surface the executor consumes but does not
// own.
type Settings struct {
	InputDir        string
	OutputDir       string
	MaxErrorLength  int
	OSMemHeadroomMB int
	// FrameworkParams are the f.* command-line overrides, merged over the
	// framework definition's params.
	FrameworkParams map[string]any
	// TaskOverrides are the t.* command-line overrides.
	TaskOverrides core.TaskOverrides
}

// Executor wraps a single job's framework invocation with dataset lifecycle
// management and error-message normalization. Once the dataset has loaded,
// Execute always returns a Result, never an error: adapter failures become
// NoResult rows.
type Executor struct {
	Datasets core.DatasetService
	Probe    resource.Probe
	Settings Settings
	Logger   *zap.Logger
}

// Execute runs one (task, fold) against a framework adapter.
func (e *Executor) Execute(ctx context.Context, def core.TaskDefinition, fold int, fw core.Framework, baseParams map[string]any) (results.Result, error) {
	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ds, err := e.Datasets.Load(ctx, def.Dataset(), fold)
	if err != nil {
		// Loading failures precede fault isolation: fatal for this job.
		return results.Result{}, err
	}
	defer ds.Release()

	cfg := e.specialize(def, fold, fw.Name(), baseParams, ds, logger)

	logger.Info("running task on framework",
		zap.String("task", cfg.Name),
		zap.Int("fold", cfg.Fold),
		zap.String("framework", cfg.Framework),
		zap.Int("cores", cfg.Cores),
		zap.Int("max_mem_size_mb", cfg.MaxMemSizeMB))

	meta, err := invoke(ctx, fw, ds, cfg)
	if err != nil {
		logger.Error("framework run failed",
			zap.String("task", cfg.Name),
			zap.Int("fold", cfg.Fold),
			zap.String("framework", cfg.Framework),
			zap.Error(err))
		maxLen := e.Settings.MaxErrorLength
		if maxLen <= 0 {
			maxLen = defaultMaxErrorLength
		}
		info := results.Truncate("Error: "+err.Error(), maxLen)
		return results.NoResultOf(cfg, info), nil
	}

	ds.Release()
	return results.ComputeScores(cfg, meta), nil
}

// invoke calls the adapter, converting a panic into an error so one job's
// crash cannot take down the batch.
func invoke(ctx context.Context, fw core.Framework, ds core.Dataset, cfg core.TaskConfig) (meta core.MetaResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("framework panic: %v", r)
		}
	}()
	return fw.Run(ctx, ds, cfg)
}

// specialize builds the job-specific TaskConfig from the definition template:
// task type from the dataset target, merged overrides, a predictions path
// embedding the lower-cased framework name, and a fresh resource budget. The
// template is copied, never mutated.
func (e *Executor) specialize(def core.TaskDefinition, fold int, frameworkName string, baseParams map[string]any, ds core.Dataset, logger *zap.Logger) core.TaskConfig {
	cfg := core.TaskConfigFromDefinition(def, fold, e.Settings.InputDir, e.Settings.OutputDir)

	if ds.Target().IsCategorical() {
		cfg.Type = core.Classification
	} else {
		cfg.Type = core.Regression
	}

	cfg.Framework = frameworkName
	cfg.FrameworkParams = core.CloneParams(baseParams)
	if len(e.Settings.FrameworkParams) > 0 {
		if cfg.FrameworkParams == nil {
			cfg.FrameworkParams = map[string]any{}
		}
		for k, v := range e.Settings.FrameworkParams {
			cfg.FrameworkParams[k] = v
		}
	}
	e.Settings.TaskOverrides.Apply(&cfg)

	cfg.OutputPredictionsFile = filepath.Join(e.Settings.OutputDir, "predictions",
		fmt.Sprintf("%s_%s_%d.csv", strings.ToLower(frameworkName), cfg.Name, fold))

	// System load changes between jobs: the budget is recomputed at every
	// dispatch, never cached.
	budget, advisories, err := resource.Estimate(e.Probe, cfg.Cores, cfg.MaxMemSizeMB, e.Settings.OSMemHeadroomMB)
	if err != nil {
		logger.Warn("resource estimation failed, using requested values", zap.Error(err))
	} else {
		cfg.Cores = budget.Cores
		cfg.MaxMemSizeMB = budget.MemMB
	}
	for _, advisory := range advisories {
		logger.Warn(advisory,
			zap.String("task", cfg.Name),
			zap.Int("fold", cfg.Fold))
	}
	return cfg
}
