package core

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// TaskDefinition is one named unit of benchmark work as declared in a
// benchmark definition file. Immutable once loaded.
type TaskDefinition struct {
	Name              string     `yaml:"name"`
	TaskID            string     `yaml:"task_id"`
	DatasetID         string     `yaml:"dataset_id"`
	DatasetPath       string     `yaml:"dataset"`
	Metrics           MetricList `yaml:"metric"`
	Folds             int        `yaml:"folds"`
	MaxRuntimeSeconds int        `yaml:"max_runtime_seconds"`
	Cores             int        `yaml:"cores"`
	MaxMemSizeMB      int        `yaml:"max_mem_size_mb"`
	Seed              int64      `yaml:"seed"`
	Enabled           BoolFlag   `yaml:"enabled"`
}

// IsEnabled reports whether the task should run: the enabled flag is either
// absent or true-like.
func (d TaskDefinition) IsEnabled() bool {
	return !d.Enabled.Set || d.Enabled.Value
}

// Dataset returns the dataset reference declared by the definition.
func (d TaskDefinition) Dataset() DatasetRef {
	return DatasetRef{TaskID: d.TaskID, DatasetID: d.DatasetID, Path: d.DatasetPath}
}

// DatasetRef points at the data backing a task. Exactly one field is expected
// to be set.
type DatasetRef struct {
	TaskID    string
	DatasetID string
	Path      string
}

// MetricList accepts either a single metric name or a list of names in YAML.
type MetricList []string

func (m *MetricList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var single string
		if err := value.Decode(&single); err != nil {
			return err
		}
		*m = MetricList{single}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*m = MetricList(list)
		return nil
	default:
		return fmt.Errorf("metric: expected string or list, got %s", value.Tag)
	}
}

// BoolFlag is a tri-state boolean that records whether it was present in the
// source document. It accepts booleans and true-like strings ("yes", "on",
// "t", "1").
type BoolFlag struct {
	Set   bool
	Value bool
}

func (b *BoolFlag) UnmarshalYAML(value *yaml.Node) error {
	var asBool bool
	if err := value.Decode(&asBool); err == nil {
		*b = BoolFlag{Set: true, Value: asBool}
		return nil
	}
	var asString string
	if err := value.Decode(&asString); err != nil {
		return fmt.Errorf("enabled: expected bool or string, got %s", value.Tag)
	}
	switch strings.ToLower(strings.TrimSpace(asString)) {
	case "true", "t", "yes", "y", "on", "1":
		*b = BoolFlag{Set: true, Value: true}
	default:
		*b = BoolFlag{Set: true, Value: false}
	}
	return nil
}
