package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seb-h2o/automlbenchmark/pkg/core"
)

var testDefaults = Defaults{
	Folds:             10,
	Cores:             -1,
	MaxMemSizeMB:      -1,
	MaxRuntimeSeconds: 3600,
	Seed:              1,
}

func writeBenchmark(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "small.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFillsDefaultsAndPreservesOrder(t *testing.T) {
	path := writeBenchmark(t, `
- name: iris
  task_id: "59"
  metric: [acc, balacc]
  folds: 2
- name: cholesterol
  task_id: "2295"
  metric: rmse
`)
	cat, err := Load(path, testDefaults)
	require.NoError(t, err)
	require.Equal(t, "small", cat.Name)

	tasks := cat.Tasks()
	require.Len(t, tasks, 2)
	require.Equal(t, "iris", tasks[0].Name)
	require.Equal(t, "cholesterol", tasks[1].Name)

	require.Equal(t, 2, tasks[0].Folds)
	require.Equal(t, []string{"acc", "balacc"}, []string(tasks[0].Metrics))
	require.Equal(t, 10, tasks[1].Folds)
	require.Equal(t, []string{"rmse"}, []string(tasks[1].Metrics))
	require.Equal(t, 3600, tasks[1].MaxRuntimeSeconds)
	require.Equal(t, int64(1), tasks[1].Seed)
}

func TestLoadRejectsMalformedDefinition(t *testing.T) {
	path := writeBenchmark(t, `
- name: iris
  task_id: "59"
  metric: acc
  folds: two
`)
	_, err := Load(path, testDefaults)
	require.Error(t, err)
	require.Contains(t, err.Error(), "schema validation failed")
}

func TestLoadRejectsMissingDatasetRef(t *testing.T) {
	path := writeBenchmark(t, `
- name: iris
  metric: acc
`)
	_, err := Load(path, testDefaults)
	require.Error(t, err)
	require.Contains(t, err.Error(), "one of [task_id, dataset_id, dataset]")
}

func TestGet(t *testing.T) {
	disabled := core.BoolFlag{Set: true, Value: false}
	cat := New("bench", []core.TaskDefinition{
		{Name: "iris", Folds: 2},
		{Name: "eucalyptus", Folds: 10, Enabled: disabled},
	})

	task, err := cat.Get("iris")
	require.NoError(t, err)
	require.Equal(t, "iris", task.Name)

	_, err = cat.Get("does-not-exist")
	require.ErrorIs(t, err, core.ErrUnknownTask)

	_, err = cat.Get("eucalyptus")
	require.ErrorIs(t, err, core.ErrTaskDisabled)
}

func TestListEnabled(t *testing.T) {
	disabled := core.BoolFlag{Set: true, Value: false}
	cat := New("bench", []core.TaskDefinition{
		{Name: "a"},
		{Name: "b", Enabled: disabled},
		{Name: "c", Enabled: core.BoolFlag{Set: true, Value: true}},
	})

	enabled := cat.ListEnabled()
	require.Len(t, enabled, 2)
	require.Equal(t, "a", enabled[0].Name)
	require.Equal(t, "c", enabled[1].Name)
}

func TestEnabledFlagAcceptsStrings(t *testing.T) {
	path := writeBenchmark(t, `
- name: iris
  task_id: "59"
  metric: acc
  enabled: "yes"
- name: eucalyptus
  task_id: "2079"
  metric: acc
  enabled: "no"
`)
	cat, err := Load(path, testDefaults)
	require.NoError(t, err)

	enabled := cat.ListEnabled()
	require.Len(t, enabled, 1)
	require.Equal(t, "iris", enabled[0].Name)
}
