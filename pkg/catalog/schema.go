package catalog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// benchmarkSchema constrains the shape of benchmark definition files before
// they are decoded into task definitions.
const benchmarkSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["name", "metric"],
    "properties": {
      "name": {"type": "string", "minLength": 1},
      "task_id": {"type": "string"},
      "dataset_id": {"type": "string"},
      "dataset": {"type": "string"},
      "metric": {
        "anyOf": [
          {"type": "string"},
          {"type": "array", "items": {"type": "string"}, "minItems": 1}
        ]
      },
      "folds": {"type": "integer", "minimum": 1},
      "max_runtime_seconds": {"type": "integer", "minimum": 0},
      "cores": {"type": "integer"},
      "max_mem_size_mb": {"type": "integer"},
      "seed": {"type": "integer"},
      "enabled": {"anyOf": [{"type": "boolean"}, {"type": "string"}]}
    }
  }
}`

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

func compileSchema() error {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(benchmarkSchema))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal benchmark schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("benchmark.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("add benchmark schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("benchmark.schema.json")
	})
	return compileErr
}

func validateDefinition(data []byte) error {
	if err := compileSchema(); err != nil {
		return err
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}
	if err := compiledSchema.Validate(normalize(doc)); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// normalize converts yaml.v3 generic values into the JSON-style tree the
// schema validator expects (string keys, no map[any]any).
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case int:
		return float64(val)
	case int64:
		return float64(val)
	default:
		return v
	}
}
