package config

// FlagType is the declared type of a flag.
type FlagType string

// Flag types.
const (
	FlagBoolean      FlagType = "boolean"
	FlagMultivariate FlagType = "multivariate"
)

// Definitions is the typed flag definitions catalog.
type Definitions struct {
	Flags   []FlagDefinition
	Context map[string]any
}

// FlagDefinition declares one flag: its name, type, default value,
// and (for multivariate flags) the enumerated variations.
type FlagDefinition struct {
	Name         string
	Description  string
	Type         FlagType
	DefaultValue any
	Variations   []Variation
	Kind         string
	Metadata     map[string]any
	Lifecycle    string
}

// Variation looks up a variation by name.
func (d *FlagDefinition) Variation(name string) (*Variation, bool) {
	for i := range d.Variations {
		if d.Variations[i].Name == name {
			return &d.Variations[i], true
		}
	}

	return nil, false
}

// Variation is one enumerated value of a multivariate flag.
type Variation struct {
	Name        string
	Value       any
	Description string
}

// Deployment is the typed per-environment deployment document. Rules
// and Segments preserve the document's mapping order.
type Deployment struct {
	Environment string
	Rules       []FlagRules
	Segments    []SegmentDef
}

// FlagRules holds the deployment rules for one flag.
type FlagRules struct {
	Flag  string
	Rules []Rule
	// Default is the historical per-flag default hint. Lowering
	// ignores it; the definitions' default value is authoritative.
	Default any
}

// SegmentDef is a named, reusable predicate expression.
type SegmentDef struct {
	Name string
	When string
}

// Rule is one deployment rule. Exactly one of Serve (guarded by
// HasServe, since `serve: false` is a present value), Variations, or
// Rollout carries the payload.
type Rule struct {
	Name       string
	When       string
	Serve      any
	HasServe   bool
	Variations []WeightedVariationRef
	Rollout    *Rollout
}

// WeightedVariationRef references a defined variation with a weight
// in [0, 100].
type WeightedVariationRef struct {
	Variation string
	Weight    float64
}

// Rollout targets a single variation for a percentage of the
// population.
type Rollout struct {
	Variation  any
	Percentage float64
}
