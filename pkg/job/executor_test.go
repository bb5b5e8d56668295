package job

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/seb-h2o/automlbenchmark/pkg/core"
	"github.com/seb-h2o/automlbenchmark/pkg/resource"
)

type fakeTarget struct{ categorical bool }

func (t fakeTarget) IsCategorical() bool { return t.categorical }

type fakeDataset struct {
	target   fakeTarget
	releases int
}

func (d *fakeDataset) Target() core.Target { return d.target }
func (d *fakeDataset) TrainPath() string   { return "train.csv" }
func (d *fakeDataset) TestPath() string    { return "test.csv" }
func (d *fakeDataset) Release()            { d.releases++ }

type fakeService struct {
	dataset *fakeDataset
	err     error
}

func (s *fakeService) Load(context.Context, core.DatasetRef, int) (core.Dataset, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.dataset, nil
}

type stubProbe struct{}

func (stubProbe) Cores() int { return 4 }
func (stubProbe) Memory() (resource.Memory, error) {
	return resource.Memory{TotalMB: 16000, AvailableMB: 12000}, nil
}

type runFunc func(ctx context.Context, ds core.Dataset, cfg core.TaskConfig) (core.MetaResult, error)

type fakeFramework struct {
	name string
	run  runFunc
}

func (f fakeFramework) Name() string { return f.name }
func (f fakeFramework) Run(ctx context.Context, ds core.Dataset, cfg core.TaskConfig) (core.MetaResult, error) {
	return f.run(ctx, ds, cfg)
}

func okFramework(name string) fakeFramework {
	return fakeFramework{name: name, run: func(_ context.Context, _ core.Dataset, _ core.TaskConfig) (core.MetaResult, error) {
		return core.MetaResult{
			Predictions: []core.Prediction{{Predicted: "a", Truth: "a"}},
			Duration:    0.5,
		}, nil
	}}
}

func newExecutor(t *testing.T, svc *fakeService, settings Settings) *Executor {
	t.Helper()
	return &Executor{
		Datasets: svc,
		Probe:    stubProbe{},
		Settings: settings,
		Logger:   zaptest.NewLogger(t),
	}
}

func irisDef() core.TaskDefinition {
	return core.TaskDefinition{
		Name:              "iris",
		TaskID:            "59",
		Folds:             2,
		Metrics:           core.MetricList{"acc"},
		Seed:              1,
		MaxRuntimeSeconds: 600,
	}
}

func TestExecuteSuccess(t *testing.T) {
	ds := &fakeDataset{target: fakeTarget{categorical: true}}
	e := newExecutor(t, &fakeService{dataset: ds}, Settings{OutputDir: t.TempDir()})

	r, err := e.Execute(context.Background(), irisDef(), 0, okFramework("Constant"), nil)
	require.NoError(t, err)
	require.False(t, r.NoResult)
	require.Equal(t, "iris", r.Task)
	require.Equal(t, core.Classification, r.Type)
	require.Equal(t, 1.0, r.Value)
	// Released after the successful run and again in the cleanup path.
	require.Equal(t, 2, ds.releases)
}

func TestExecuteAdapterFailureIsIsolated(t *testing.T) {
	ds := &fakeDataset{}
	failing := fakeFramework{name: "broken", run: func(_ context.Context, _ core.Dataset, _ core.TaskConfig) (core.MetaResult, error) {
		return core.MetaResult{}, errors.New(strings.Repeat("boom ", 100))
	}}
	e := newExecutor(t, &fakeService{dataset: ds}, Settings{MaxErrorLength: 50})

	r, err := e.Execute(context.Background(), irisDef(), 1, failing, nil)
	require.NoError(t, err)
	require.True(t, r.NoResult)
	require.Len(t, r.Info, 50)
	require.True(t, strings.HasSuffix(r.Info, "..."))
	require.True(t, strings.HasPrefix(r.Info, "Error: "))
	require.Equal(t, 1, ds.releases)
}

func TestExecuteAdapterPanicIsIsolated(t *testing.T) {
	ds := &fakeDataset{}
	panicking := fakeFramework{name: "panicky", run: func(_ context.Context, _ core.Dataset, _ core.TaskConfig) (core.MetaResult, error) {
		panic("unexpected state")
	}}
	e := newExecutor(t, &fakeService{dataset: ds}, Settings{})

	r, err := e.Execute(context.Background(), irisDef(), 0, panicking, nil)
	require.NoError(t, err)
	require.True(t, r.NoResult)
	require.Contains(t, r.Info, "framework panic")
}

func TestExecuteLoadFailurePropagates(t *testing.T) {
	loadErr := errors.New("no such fold")
	e := newExecutor(t, &fakeService{err: loadErr}, Settings{})

	_, err := e.Execute(context.Background(), irisDef(), 0, okFramework("constant"), nil)
	require.ErrorIs(t, err, loadErr)
}

func TestExecuteSpecialization(t *testing.T) {
	ds := &fakeDataset{target: fakeTarget{categorical: false}}
	var seen core.TaskConfig
	capture := fakeFramework{name: "TunedRF", run: func(_ context.Context, _ core.Dataset, cfg core.TaskConfig) (core.MetaResult, error) {
		seen = cfg
		return core.MetaResult{Predictions: []core.Prediction{{Predicted: "1", Truth: "1"}}}, nil
	}}

	maxRuntime := 60
	seed := int64(42)
	e := newExecutor(t, &fakeService{dataset: ds}, Settings{
		OutputDir:      "/tmp/out",
		MaxErrorLength: 100,
		FrameworkParams: map[string]any{
			"verbose": true,
		},
		TaskOverrides: core.TaskOverrides{
			MaxRuntimeSeconds: &maxRuntime,
			Seed:              &seed,
		},
	})

	base := map[string]any{"n_estimators": 100, "verbose": false}
	_, err := e.Execute(context.Background(), irisDef(), 1, capture, base)
	require.NoError(t, err)

	require.Equal(t, core.Regression, seen.Type)
	require.Equal(t, "TunedRF", seen.Framework)
	require.Contains(t, seen.OutputPredictionsFile, "tunedrf")
	require.Equal(t, 60, seen.MaxRuntimeSeconds)
	require.Equal(t, int64(42), seen.Seed)
	// f.* override wins over the definition params.
	require.Equal(t, true, seen.FrameworkParams["verbose"])
	require.Equal(t, 100, seen.FrameworkParams["n_estimators"])
	// The base params map is never mutated.
	require.Equal(t, false, base["verbose"])

	// Resource budget resolved against the probe.
	require.Equal(t, 4, seen.Cores)
	require.Positive(t, seen.MaxMemSizeMB)
}
