package framework

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/seb-h2o/automlbenchmark/pkg/core"
)

func writeDefinitions(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frameworks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func findDef(t *testing.T, defs []Definition, name string) Definition {
	t.Helper()
	for _, def := range defs {
		if def.Name == name {
			return def
		}
	}
	t.Fatalf("definition %s not found", name)
	return Definition{}
}

func TestLoadDefinitionsInheritance(t *testing.T) {
	path := writeDefinitions(t, `
constant:
  version: "1.2"
  params:
    verbose: false
    n_estimators: 100
constant_tuned:
  extends: constant
  params:
    n_estimators: 500
orphan:
  extends: does_not_exist
`)
	defs, err := LoadDefinitions(path, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Len(t, defs, 2) // orphan dropped

	tuned := findDef(t, defs, "constant_tuned")
	require.Equal(t, "1.2", tuned.Version)
	require.Equal(t, 500, tuned.Params["n_estimators"])
	require.Equal(t, false, tuned.Params["verbose"])
}

func TestLoadDefinitionsCircularExtends(t *testing.T) {
	path := writeDefinitions(t, `
a:
  extends: b
b:
  extends: a
`)
	_, err := LoadDefinitions(path, zaptest.NewLogger(t))
	require.Error(t, err)
	require.Contains(t, err.Error(), "circular extends")
}

func TestRegistryLookupIsCaseInsensitive(t *testing.T) {
	r := NewRegistry([]Definition{{Name: "Constant", Version: "latest"}})
	r.Register(ConstantPredictor{})

	def, err := r.Definition("CONSTANT")
	require.NoError(t, err)
	require.Equal(t, "Constant", def.Name)

	adapter, err := r.Adapter("constant")
	require.NoError(t, err)
	require.Equal(t, "constant", adapter.Name())

	_, err = r.Adapter("h2o")
	require.Error(t, err)
}

type countingAdapter struct {
	setups int
}

func (a *countingAdapter) Name() string { return "counting" }

func (a *countingAdapter) Run(context.Context, core.Dataset, core.TaskConfig) (core.MetaResult, error) {
	return core.MetaResult{}, nil
}

func (a *countingAdapter) Setup([]string) error {
	a.setups++
	return nil
}

func TestSetupModes(t *testing.T) {
	cacheDir := t.TempDir()
	adapter := &countingAdapter{}
	r := NewRegistry(nil)
	r.Register(adapter)
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	// auto: runs once, then the marker short-circuits.
	require.NoError(t, r.Setup(ctx, "counting", SetupAuto, cacheDir, logger))
	require.Equal(t, 1, adapter.setups)
	require.NoError(t, r.Setup(ctx, "counting", SetupAuto, cacheDir, logger))
	require.Equal(t, 1, adapter.setups)

	// force ignores the marker.
	require.NoError(t, r.Setup(ctx, "counting", SetupForce, cacheDir, logger))
	require.Equal(t, 2, adapter.setups)

	// skip bypasses everything.
	require.NoError(t, r.Setup(ctx, "counting", SetupSkip, cacheDir, logger))
	require.Equal(t, 2, adapter.setups)

	marker := filepath.Join(cacheDir, "counting", ".setup-complete")
	_, err := os.Stat(marker)
	require.NoError(t, err)
}

func TestParseSetupMode(t *testing.T) {
	mode, err := ParseSetupMode("AUTO")
	require.NoError(t, err)
	require.Equal(t, SetupAuto, mode)

	_, err = ParseSetupMode("never")
	require.Error(t, err)
}
