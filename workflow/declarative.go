// Copyright (c) Microsoft. All rights reserved.

package workflow

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// definitionSchema validates declarative workflow documents before any
// executor is constructed, so malformed documents fail with a schema path
// rather than a nil-map panic deep in the builder.
const definitionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "start", "executors"],
  "additionalProperties": false,
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "start": {"type": "string", "minLength": 1},
    "executors": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "kind"],
        "additionalProperties": false,
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "kind": {"type": "string", "minLength": 1},
          "with": {"type": "object"}
        }
      }
    },
    "edges": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["from", "to"],
        "additionalProperties": false,
        "properties": {
          "from": {"type": "string", "minLength": 1},
          "to": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`

// Definition is a declarative workflow document.
type Definition struct {
	Name      string        `yaml:"name" json:"name"`
	Start     string        `yaml:"start" json:"start"`
	Executors []ExecutorDef `yaml:"executors" json:"executors"`
	Edges     []EdgeDef     `yaml:"edges,omitempty" json:"edges,omitempty"`
}

// ExecutorDef declares one executor: its graph id, the registered factory
// kind that constructs it, and the factory's configuration.
type ExecutorDef struct {
	ID   string         `yaml:"id" json:"id"`
	Kind string         `yaml:"kind" json:"kind"`
	With map[string]any `yaml:"with,omitempty" json:"with,omitempty"`
}

// EdgeDef declares a directed edge between two executor ids.
type EdgeDef struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// Factory constructs an executor from its declarative configuration.
type Factory func(id string, with map[string]any) (*Executor, error)

// Registry maps declarative executor kinds to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register binds a factory to a kind. Registering the same kind twice is a
// definition conflict and fails immediately.
func (r *Registry) Register(kind string, f Factory) error {
	if kind == "" || f == nil {
		return fmt.Errorf("%w: registry needs a kind and a factory", ErrDefinition)
	}
	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("%w: kind %q already registered", ErrDefinition, kind)
	}
	r.factories[kind] = f
	return nil
}

// ParseDefinition decodes and schema-validates a YAML workflow document.
func ParseDefinition(data []byte) (*Definition, error) {
	// YAML -> generic -> JSON, so the JSON Schema validator can see it.
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse yaml: %v", ErrDefinition, err)
	}
	jsonDoc, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: convert to json: %v", ErrDefinition, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(definitionSchema),
		gojsonschema.NewBytesLoader(jsonDoc),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: validate: %v", ErrDefinition, err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrDefinition, result.Errors()[0])
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrDefinition, err)
	}
	return &def, nil
}

// Build constructs the workflow graph from the definition, using reg to
// instantiate executors.
func (d *Definition) Build(reg *Registry) (*Workflow, error) {
	executors := make(map[string]*Executor, len(d.Executors))
	for _, def := range d.Executors {
		if _, dup := executors[def.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate executor id %q", ErrDefinition, def.ID)
		}
		factory, ok := reg.factories[def.Kind]
		if !ok {
			return nil, fmt.Errorf("%w: unknown executor kind %q", ErrDefinition, def.Kind)
		}
		e, err := factory(def.ID, def.With)
		if err != nil {
			return nil, fmt.Errorf("%w: build executor %q: %v", ErrDefinition, def.ID, err)
		}
		executors[def.ID] = e
	}

	start, ok := executors[d.Start]
	if !ok {
		return nil, fmt.Errorf("%w: start %q is not a declared executor", ErrDefinition, d.Start)
	}

	b := NewBuilder(d.Name).SetStart(start)
	// Register every declared executor so one left out of the edge list is
	// caught as unreachable rather than silently dropped.
	for _, def := range d.Executors {
		b.AddExecutor(executors[def.ID])
	}
	for _, edge := range d.Edges {
		from, ok := executors[edge.From]
		if !ok {
			return nil, fmt.Errorf("%w: edge from unknown executor %q", ErrDefinition, edge.From)
		}
		to, ok := executors[edge.To]
		if !ok {
			return nil, fmt.Errorf("%w: edge to unknown executor %q", ErrDefinition, edge.To)
		}
		b.AddEdge(from, to)
	}
	return b.Build()
}

// LoadWorkflow reads, validates, and builds a YAML workflow file.
func LoadWorkflow(path string, reg *Registry) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow file: %w", err)
	}
	def, err := ParseDefinition(data)
	if err != nil {
		return nil, err
	}
	return def.Build(reg)
}
