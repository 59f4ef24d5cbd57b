package schemagen

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

const (
	draft7 = "http://json-schema.org/draft-07/schema#"
	idBase = "https://flagc.dev/schemas/"
)

// scalar is the value space for flag defaults, variation values, and
// served values.
func scalar() *jsonschema.Schema {
	return &jsonschema.Schema{Types: []string{"string", "boolean", "number"}}
}

func ref(name string) *jsonschema.Schema {
	return &jsonschema.Schema{Ref: "#/definitions/" + name}
}

// Definitions builds the flag definitions document schema.
func Definitions() *jsonschema.Schema {
	flagDefinition := &jsonschema.Schema{
		Type:     "object",
		Required: []string{"name", "type", "defaultValue"},
		Properties: map[string]*jsonschema.Schema{
			"name": {
				Type:    "string",
				Pattern: "^[a-z_][a-z0-9_]*$",
			},
			"type":         {Enum: []any{"boolean", "multivariate"}},
			"defaultValue": ref("scalar"),
			"description":  {Type: "string"},
			"variations": {
				Type:     "array",
				MinItems: ptr(1),
				Items:    ref("variation"),
			},
			"kind":      {Type: "string"},
			"metadata":  {Type: "object"},
			"lifecycle": {Type: "string"},
		},
	}

	variation := &jsonschema.Schema{
		Type:     "object",
		Required: []string{"name", "value"},
		Properties: map[string]*jsonschema.Schema{
			"name":        {Type: "string"},
			"value":       ref("scalar"),
			"description": {Type: "string"},
		},
	}

	return &jsonschema.Schema{
		Schema:      draft7,
		ID:          idBase + "flag-definitions.schema.v1.json",
		Title:       "Flag definitions",
		Description: "Catalog of flag declarations: name, type, default value, and variations.",
		Type:        "object",
		Required:    []string{"flags"},
		Properties: map[string]*jsonschema.Schema{
			"flags": {
				Type:  "array",
				Items: ref("flagDefinition"),
			},
			"context": {Type: "object"},
		},
		Definitions: map[string]*jsonschema.Schema{
			"flagDefinition": flagDefinition,
			"variation":      variation,
			"scalar":         scalar(),
		},
	}
}

// Deployment builds the flag deployment document schema.
func Deployment() *jsonschema.Schema {
	flagRules := &jsonschema.Schema{
		Types: []string{"object", "null"},
		Properties: map[string]*jsonschema.Schema{
			"rules": {
				Type:  "array",
				Items: ref("rule"),
			},
			"default": ref("scalar"),
		},
	}

	rule := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"name":  {Type: "string"},
			"when":  {Type: "string"},
			"serve": ref("scalar"),
			"variations": {
				Type:  "array",
				Items: ref("weightedVariation"),
			},
			"rollout": ref("rollout"),
		},
	}

	weightedVariation := &jsonschema.Schema{
		Type:     "object",
		Required: []string{"variation", "weight"},
		Properties: map[string]*jsonschema.Schema{
			"variation": {Type: "string"},
			"weight": {
				Type:    "number",
				Minimum: ptr(0.0),
				Maximum: ptr(100.0),
			},
		},
	}

	rollout := &jsonschema.Schema{
		Type:     "object",
		Required: []string{"variation", "percentage"},
		Properties: map[string]*jsonschema.Schema{
			"variation": ref("scalar"),
			"percentage": {
				Type:    "number",
				Minimum: ptr(0.0),
				Maximum: ptr(100.0),
			},
		},
	}

	segment := &jsonschema.Schema{
		Type:     "object",
		Required: []string{"when"},
		Properties: map[string]*jsonschema.Schema{
			"when": {
				Type:      "string",
				MinLength: ptr(1),
			},
		},
	}

	return &jsonschema.Schema{
		Schema:      draft7,
		ID:          idBase + "flag-deployment.schema.v1.json",
		Title:       "Flag deployment",
		Description: "Per-environment deployment rules keyed by flag name, plus reusable segments.",
		Type:        "object",
		Required:    []string{"environment", "rules"},
		Properties: map[string]*jsonschema.Schema{
			"environment": {
				Type:      "string",
				MinLength: ptr(1),
			},
			"rules": {
				Type:                 "object",
				AdditionalProperties: ref("flagRules"),
			},
			"segments": {
				Type:                 "object",
				AdditionalProperties: ref("segment"),
			},
		},
		Definitions: map[string]*jsonschema.Schema{
			"flagRules":         flagRules,
			"rule":              rule,
			"weightedVariation": weightedVariation,
			"rollout":           rollout,
			"segment":           segment,
			"scalar":            scalar(),
		},
	}
}

// Render marshals a schema as indented JSON with a trailing newline,
// the form the schema package embeds.
func Render(s *jsonschema.Schema) ([]byte, error) {
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}

	return append(out, '\n'), nil
}

func ptr[T any](v T) *T {
	return &v
}
