package benchmark

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/seb-h2o/automlbenchmark/pkg/catalog"
	"github.com/seb-h2o/automlbenchmark/pkg/core"
	"github.com/seb-h2o/automlbenchmark/pkg/framework"
	"github.com/seb-h2o/automlbenchmark/pkg/job"
	"github.com/seb-h2o/automlbenchmark/pkg/resource"
	"github.com/seb-h2o/automlbenchmark/pkg/results"
	"github.com/seb-h2o/automlbenchmark/pkg/runner"
)

type fakeTarget struct{ categorical bool }

func (t fakeTarget) IsCategorical() bool { return t.categorical }

type fakeDataset struct{ target fakeTarget }

func (d *fakeDataset) Target() core.Target { return d.target }
func (d *fakeDataset) TrainPath() string   { return "train.csv" }
func (d *fakeDataset) TestPath() string    { return "test.csv" }
func (d *fakeDataset) Release()            {}

type fakeService struct{}

func (s *fakeService) Load(ctx context.Context, ref core.DatasetRef, fold int) (core.Dataset, error) {
	return &fakeDataset{target: fakeTarget{categorical: true}}, nil
}

type stubProbe struct{}

func (stubProbe) Cores() int { return 8 }
func (stubProbe) Memory() (resource.Memory, error) {
	return resource.Memory{TotalMB: 16384, AvailableMB: 12288}, nil
}

type perfectFramework struct{ invocations int }

func (f *perfectFramework) Name() string { return "perfect" }

func (f *perfectFramework) Run(ctx context.Context, ds core.Dataset, cfg core.TaskConfig) (core.MetaResult, error) {
	f.invocations++
	return core.MetaResult{
		Predictions: []core.Prediction{{Predicted: "a", Truth: "a"}},
		Duration:    math.NaN(),
	}, nil
}

func testBenchmark(t *testing.T, tasks []core.TaskDefinition) (*Benchmark, *perfectFramework) {
	t.Helper()
	fw := &perfectFramework{}
	registry := framework.NewRegistry(nil)
	registry.Register(fw)

	exec := &job.Executor{
		Datasets: &fakeService{},
		Probe:    stubProbe{},
		Settings: job.Settings{OutputDir: t.TempDir()},
		Logger:   zaptest.NewLogger(t),
	}
	b, err := New(Options{
		Registry:      registry,
		FrameworkName: "perfect",
		Catalog:       catalog.New("validation", tasks),
		Runner:        &runner.Sequential{},
		Executor:      exec,
		Store:         &results.Store{Dir: t.TempDir()},
		SaveResults:   false,
		Logger:        zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	return b, fw
}

func twoTasks() []core.TaskDefinition {
	return []core.TaskDefinition{
		{Name: "iris", TaskID: "59", Metrics: core.MetricList{"acc"}, Folds: 2, MaxRuntimeSeconds: 60, Cores: 1, MaxMemSizeMB: 1024},
		{Name: "cholesterol", TaskID: "2295", Metrics: core.MetricList{"acc"}, Folds: 3, MaxRuntimeSeconds: 60, Cores: 1, MaxMemSizeMB: 1024},
	}
}

func TestRunWholeBenchmark(t *testing.T) {
	b, fw := testBenchmark(t, twoTasks())

	board, err := b.Run(context.Background(), nil, nil)
	require.NoError(t, err)
	require.NotNil(t, board)

	// 2 folds of iris plus 3 of cholesterol.
	require.Len(t, board.Rows, 5)
	require.Equal(t, 5, fw.invocations)
	require.Equal(t, "validation", board.Benchmark)
	require.Empty(t, board.Task)
}

func TestRunSingleTaskBindsBoardToTask(t *testing.T) {
	b, _ := testBenchmark(t, twoTasks())

	board, err := b.Run(context.Background(), []string{"iris"}, nil)
	require.NoError(t, err)
	require.NotNil(t, board)
	require.Len(t, board.Rows, 2)
	require.Equal(t, "iris", board.Task)
	require.Empty(t, board.Benchmark)
}

func TestRunExplicitFolds(t *testing.T) {
	b, fw := testBenchmark(t, twoTasks())

	board, err := b.Run(context.Background(), []string{"cholesterol"}, []int{1})
	require.NoError(t, err)
	require.Len(t, board.Rows, 1)
	require.Equal(t, 1, board.Rows[0].Fold)
	require.Equal(t, 1, fw.invocations)
}

func TestRunUnknownTask(t *testing.T) {
	b, fw := testBenchmark(t, twoTasks())

	_, err := b.Run(context.Background(), []string{"does-not-exist"}, nil)
	require.ErrorIs(t, err, core.ErrUnknownTask)
	require.Zero(t, fw.invocations)
}

func TestRunEmptyCatalog(t *testing.T) {
	off := core.BoolFlag{Set: true, Value: false}
	tasks := []core.TaskDefinition{
		{Name: "iris", TaskID: "59", Metrics: core.MetricList{"acc"}, Folds: 2, Enabled: off},
	}
	b, _ := testBenchmark(t, tasks)

	_, err := b.Run(context.Background(), nil, nil)
	require.ErrorIs(t, err, core.ErrNoTaskAvailable)
}

func TestUIDEmbedsFrameworkAndBenchmark(t *testing.T) {
	b, _ := testBenchmark(t, twoTasks())

	require.True(t, strings.HasPrefix(b.UID, "perfect-validation-"))
	require.Equal(t, strings.ToLower(b.UID), b.UID)
}

func TestNewUnknownFramework(t *testing.T) {
	_, err := New(Options{
		Registry:      framework.NewRegistry(nil),
		FrameworkName: "missing",
		Catalog:       catalog.New("validation", nil),
	})
	require.Error(t, err)
}

func TestJobNamesCarryRunScope(t *testing.T) {
	b, _ := testBenchmark(t, twoTasks())

	factory := &job.Factory{Scope: b.UID, Executor: b.executor, Framework: b.adapter}
	def, err := b.catalog.Get("iris")
	require.NoError(t, err)
	jobs, err := factory.Expand(def, nil)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	require.Equal(t, b.UID+"_iris_0_perfect", jobs[0].Name)
}
