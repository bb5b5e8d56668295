// Package framework holds framework adapter definitions, the adapter
// registry, and the one-time setup lifecycle.
package framework

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/seb-h2o/automlbenchmark/pkg/core"
)

// Definition is the declared configuration for one named framework.
type Definition struct {
	Name      string         `yaml:"-"`
	Extends   string         `yaml:"extends"`
	Version   string         `yaml:"version"`
	Params    map[string]any `yaml:"params"`
	SetupArgs []string       `yaml:"setup_args"`
	SetupCmd  string         `yaml:"setup_cmd"`
}

// LoadDefinitions reads a framework definition file: a YAML mapping of
// framework name to definition. Definitions may extend a parent; missing keys
// are inherited. A definition whose parent does not exist is dropped with a
// warning.
func LoadDefinitions(path string, logger *zap.Logger) ([]Definition, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read framework definitions: %w", err)
	}

	var raw map[string]Definition
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse framework definitions %s: %w", path, err)
	}

	byName := make(map[string]Definition, len(raw))
	names := make([]string, 0, len(raw))
	for name, def := range raw {
		def.Name = name
		byName[strings.ToLower(name)] = def
		names = append(names, name)
	}
	sort.Strings(names)

	resolved := make(map[string]bool, len(byName))
	var defs []Definition
	pending := names
	for len(pending) > 0 {
		var later []string
		progressed := false
		for _, name := range pending {
			def := byName[strings.ToLower(name)]
			if def.Extends != "" {
				parent, ok := byName[strings.ToLower(def.Extends)]
				if !ok {
					logger.Warn("removing framework definition, parent does not exist",
						zap.String("framework", name), zap.String("parent", def.Extends))
					progressed = true
					continue
				}
				if !resolved[strings.ToLower(def.Extends)] {
					later = append(later, name)
					continue
				}
				def = inherit(def, parent)
				byName[strings.ToLower(name)] = def
			}
			if def.Version == "" {
				def.Version = "latest"
			}
			resolved[strings.ToLower(name)] = true
			defs = append(defs, def)
			progressed = true
		}
		if !progressed {
			return nil, fmt.Errorf("framework definitions %s: circular extends chain involving %s",
				path, strings.Join(later, ", "))
		}
		pending = later
	}
	return defs, nil
}

// inherit fills the child's missing keys from the parent; params merge with
// the child winning on conflicts.
func inherit(child, parent Definition) Definition {
	if child.Version == "" {
		child.Version = parent.Version
	}
	if child.SetupCmd == "" {
		child.SetupCmd = parent.SetupCmd
	}
	if len(child.SetupArgs) == 0 {
		child.SetupArgs = append([]string(nil), parent.SetupArgs...)
	}
	merged := core.CloneParams(parent.Params)
	if merged == nil {
		merged = map[string]any{}
	}
	for k, v := range child.Params {
		merged[k] = v
	}
	if len(merged) > 0 {
		child.Params = merged
	}
	return child
}

// Registry resolves framework names to definitions and adapters. Adapters are
// registered once at startup; lookups are case-insensitive.
type Registry struct {
	defs     map[string]Definition
	adapters map[string]core.Framework
}

func NewRegistry(defs []Definition) *Registry {
	r := &Registry{
		defs:     make(map[string]Definition, len(defs)),
		adapters: make(map[string]core.Framework),
	}
	for _, def := range defs {
		r.defs[strings.ToLower(def.Name)] = def
	}
	return r
}

// Register binds an adapter implementation to a framework name. A definition
// is created on the fly when the definition file did not declare one.
func (r *Registry) Register(adapter core.Framework) {
	key := strings.ToLower(adapter.Name())
	if _, ok := r.defs[key]; !ok {
		r.defs[key] = Definition{Name: adapter.Name(), Version: "latest"}
	}
	r.adapters[key] = adapter
}

// Definition returns the definition for a framework name.
func (r *Registry) Definition(name string) (Definition, error) {
	def, ok := r.defs[strings.ToLower(name)]
	if !ok {
		return Definition{}, fmt.Errorf("unknown framework: %s", name)
	}
	return def, nil
}

// Adapter returns the registered adapter for a framework name.
func (r *Registry) Adapter(name string) (core.Framework, error) {
	adapter, ok := r.adapters[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for framework: %s", name)
	}
	return adapter, nil
}

// Names returns all known framework names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for _, def := range r.defs {
		names = append(names, def.Name)
	}
	sort.Strings(names)
	return names
}
