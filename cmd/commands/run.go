package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seb-h2o/automlbenchmark/pkg/benchmark"
	"github.com/seb-h2o/automlbenchmark/pkg/catalog"
	"github.com/seb-h2o/automlbenchmark/pkg/core"
	"github.com/seb-h2o/automlbenchmark/pkg/dataset"
	"github.com/seb-h2o/automlbenchmark/pkg/framework"
	"github.com/seb-h2o/automlbenchmark/pkg/job"
	"github.com/seb-h2o/automlbenchmark/pkg/reporter"
	"github.com/seb-h2o/automlbenchmark/pkg/resource"
	"github.com/seb-h2o/automlbenchmark/pkg/results"
	"github.com/seb-h2o/automlbenchmark/pkg/runner"
)

func newRunCommand() *cobra.Command {
	var (
		frameworkName string
		benchmarkName string
		taskNames     []string
		foldSpec      string
		parallel      int
		staggerSecs   float64
		setupMode     string
		format        string
		outputPath    string
		overrides     []string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a framework against a benchmark",
		RunE: func(cmd *cobra.Command, args []string) error {
			if frameworkName == "" {
				return fmt.Errorf("framework name is required")
			}
			if benchmarkName == "" {
				return fmt.Errorf("benchmark name is required")
			}

			mode, err := framework.ParseSetupMode(setupMode)
			if err != nil {
				return err
			}
			folds, err := job.ParseFoldSpec(foldSpec)
			if err != nil {
				return err
			}
			frameworkParams, taskOverrides, err := parseOverrides(overrides)
			if err != nil {
				return err
			}

			defs, err := framework.LoadDefinitions(appConfig.Frameworks.DefinitionFile, logger)
			if err != nil {
				return err
			}
			registry := framework.NewRegistry(defs)
			registry.Register(framework.ConstantPredictor{})

			cat, err := catalog.Load(benchmarkPath(benchmarkName), catalog.Defaults{
				Folds:             appConfig.Benchmarks.Defaults.Folds,
				Cores:             appConfig.Benchmarks.Defaults.Cores,
				MaxMemSizeMB:      appConfig.Benchmarks.Defaults.MaxMemSizeMB,
				MaxRuntimeSeconds: appConfig.Benchmarks.Defaults.MaxRuntimeSeconds,
				Seed:              appConfig.Benchmarks.Defaults.Seed,
			})
			if err != nil {
				return err
			}

			executor := &job.Executor{
				Datasets: &dataset.FileService{Dir: appConfig.InputDir},
				Probe:    resource.SystemProbe(),
				Settings: job.Settings{
					InputDir:        appConfig.InputDir,
					OutputDir:       appConfig.OutputDir,
					MaxErrorLength:  appConfig.Results.ErrorMaxLength,
					OSMemHeadroomMB: appConfig.Benchmarks.OSMemSizeMB,
					FrameworkParams: frameworkParams,
					TaskOverrides:   taskOverrides,
				},
				Logger: logger,
			}

			progress := newProgressBar(progressWriter(cmd))
			jobRunner := buildRunner(resolveInt(parallel, appConfig.ParallelJobs, 1), staggerSecs, progress)

			b, err := benchmark.New(benchmark.Options{
				Registry:      registry,
				FrameworkName: frameworkName,
				Catalog:       cat,
				Runner:        jobRunner,
				Executor:      executor,
				Store:         &results.Store{Dir: filepath.Join(appConfig.OutputDir, "scores")},
				SaveResults:   appConfig.Results.Save,
				Logger:        logger,
			})
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := b.Setup(ctx, mode, appConfig.Frameworks.CacheDir); err != nil {
				return err
			}
			if mode == framework.SetupOnly {
				logger.Info("setup complete", zap.String("framework", frameworkName))
				return nil
			}

			board, err := b.Run(ctx, taskNames, folds)
			if err != nil {
				return err
			}

			writer := os.Stdout
			if outputPath != "" {
				file, err := os.Create(outputPath)
				if err != nil {
					return err
				}
				defer file.Close()
				writer = file
			}

			rep, err := buildReporter(resolveString(format, reporter.FormatTable), writer)
			if err != nil {
				return err
			}
			return rep.Report(board)
		},
	}

	cmd.Flags().StringVarP(&frameworkName, "framework", "f", "", "framework to benchmark")
	cmd.Flags().StringVarP(&benchmarkName, "benchmark", "b", "", "benchmark definition name")
	cmd.Flags().StringSliceVarP(&taskNames, "task", "t", nil, "restrict the run to these tasks")
	cmd.Flags().StringVar(&foldSpec, "fold", "", "comma-separated fold indices (default: all folds)")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 0, "number of jobs run in parallel")
	cmd.Flags().Float64Var(&staggerSecs, "job-stagger", 0, "delay in seconds between parallel job submissions")
	cmd.Flags().StringVar(&setupMode, "setup", "auto", "framework setup mode (auto, skip, force, only)")
	cmd.Flags().StringVar(&format, "format", "", "report format (table, json, csv)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "report file path (default: stdout)")
	cmd.Flags().StringArrayVar(&overrides, "set", nil, "parameter override, f.<key>=<value> or t.<key>=<value>; repeatable")

	return cmd
}

func (c Config) staggerDelay(flagSecs float64) time.Duration {
	secs := flagSecs
	if secs <= 0 {
		secs = c.JobStaggerSeconds
	}
	if secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

func buildRunner(parallel int, staggerSecs float64, progress *progressBar) runner.Runner {
	if parallel <= 1 {
		return &runner.Sequential{Logger: logger, Progress: progress.Update}
	}
	return &runner.Pool{
		Workers:      parallel,
		StaggerDelay: appConfig.staggerDelay(staggerSecs),
		Logger:       logger,
		Progress:     progress.Update,
	}
}

func benchmarkPath(name string) string {
	if strings.ContainsAny(name, "/\\") || strings.HasSuffix(name, ".yaml") {
		return name
	}
	return filepath.Join(appConfig.Benchmarks.DefinitionDir, name+".yaml")
}

// parseOverrides splits the --set surface into framework params (f.*) and
// task overrides (t.*).
func parseOverrides(pairs []string) (map[string]any, core.TaskOverrides, error) {
	var params map[string]any
	var overrides core.TaskOverrides

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, overrides, fmt.Errorf("invalid override %q: expected key=value", pair)
		}
		switch {
		case strings.HasPrefix(key, "f."):
			if params == nil {
				params = map[string]any{}
			}
			params[strings.TrimPrefix(key, "f.")] = coerce(value)
		case strings.HasPrefix(key, "t."):
			if err := applyTaskOverride(&overrides, strings.TrimPrefix(key, "t."), value); err != nil {
				return nil, overrides, err
			}
		default:
			return nil, overrides, fmt.Errorf("invalid override %q: key must start with f. or t.", pair)
		}
	}
	return params, overrides, nil
}

func applyTaskOverride(o *core.TaskOverrides, key, value string) error {
	switch key {
	case "max_runtime_seconds":
		secs, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid t.max_runtime_seconds %q: %w", value, err)
		}
		o.MaxRuntimeSeconds = &secs
	case "metric":
		metrics := splitMetrics(value)
		if len(metrics) == 0 {
			return fmt.Errorf("invalid t.metric %q: empty metric list", value)
		}
		o.Metric = &metrics[0]
		o.Metrics = metrics
	case "metrics":
		metrics := splitMetrics(value)
		if len(metrics) == 0 {
			return fmt.Errorf("invalid t.metrics %q: empty metric list", value)
		}
		o.Metrics = metrics
	case "seed":
		seed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid t.seed %q: %w", value, err)
		}
		o.Seed = &seed
	default:
		return fmt.Errorf("unknown task override t.%s", key)
	}
	return nil
}

func splitMetrics(value string) []string {
	var metrics []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			metrics = append(metrics, part)
		}
	}
	return metrics
}

// coerce interprets an override value as a bool, int, or float before falling
// back to the raw string.
func coerce(value string) any {
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	if i, err := strconv.Atoi(value); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}

func buildReporter(format string, writer io.Writer) (reporter.Reporter, error) {
	switch format {
	case reporter.FormatJSON:
		return reporter.JSONReporter{Writer: writer, Pretty: true}, nil
	case reporter.FormatTable:
		return reporter.TableReporter{Writer: writer}, nil
	case reporter.FormatCSV:
		return reporter.CSVReporter{Writer: writer}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

type progressBar struct {
	writer io.Writer
	start  time.Time
	isTTY  bool
}

func newProgressBar(writer io.Writer) *progressBar {
	return &progressBar{
		writer: writer,
		start:  time.Now(),
		isTTY:  isTerminal(writer),
	}
}

func (p *progressBar) Update(completed, total int) {
	width := 30
	if total <= 0 {
		return
	}

	ratio := float64(completed) / float64(total)
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))

	bar := strings.Repeat("=", filled) + strings.Repeat(".", width-filled)
	percent := int(ratio * 100)
	elapsed := time.Since(p.start).Truncate(time.Second)

	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	line := fmt.Sprintf("[%s] %3d%% (%d/%d) %s", barStyle.Render(bar), percent, completed, total, elapsed)
	if p.isTTY {
		fmt.Fprintf(p.writer, "\r%s", line)
	} else {
		fmt.Fprintf(p.writer, "%s\n", line)
	}

	if completed >= total {
		fmt.Fprintln(p.writer)
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func progressWriter(cmd *cobra.Command) io.Writer {
	stderr := cmd.ErrOrStderr()
	stdout := cmd.OutOrStdout()

	if isTerminal(stderr) {
		return stderr
	}
	if isTerminal(stdout) {
		return stdout
	}
	return stderr
}

func resolveString(value string, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func resolveInt(value int, fallback int, defaultValue int) int {
	if value > 0 {
		return value
	}
	if fallback > 0 {
		return fallback
	}
	return defaultValue
}
