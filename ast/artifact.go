package ast

// Artifact is the compiled evaluation document for one environment.
//
// Flags[i] holds the lowered rules for the i-th flag definition, in
// definition order, and always ends with an unconditional serve rule
// carrying the flag's default value. FlagNames[i] is the string-table
// index of that flag's name. Segments is nil when the deployment
// defines none; the encoder omits the field entirely in that case.
type Artifact struct {
	Version     string
	Environment string
	Strings     []string
	Flags       [][]Rule
	FlagNames   []uint32
	Segments    []Segment
}

// Segment pairs a segment name (string-table index) with its interned
// predicate expression.
type Segment struct {
	When Expr
	Name uint32
}

// Rule is one lowered deployment rule. The concrete types are
// [ServeRule], [VariationsRule], and [RolloutRule].
type Rule interface {
	isRule()

	// Type returns the rule's wire code.
	Type() RuleType
	// Condition returns the rule's when-expression, or nil when the
	// rule is unconditional.
	Condition() Expr
}

// ServeRule returns a fixed value (string-table index) when its
// condition holds.
type ServeRule struct {
	When  Expr
	Value uint32
}

// WeightedVariation pairs a variation value (string-table index) with
// its integer weight in [0, 100].
type WeightedVariation struct {
	Value  uint32
	Weight uint8
}

// VariationsRule distributes between several values by weight.
type VariationsRule struct {
	When       Expr
	Variations []WeightedVariation
}

// RolloutRule serves a single value to a percentage of the population.
type RolloutRule struct {
	When       Expr
	Value      uint32
	Percentage uint8
}

func (*ServeRule) isRule()      {}
func (*VariationsRule) isRule() {}
func (*RolloutRule) isRule()    {}

// Type implements [Rule].
func (*ServeRule) Type() RuleType { return RuleServe }

// Type implements [Rule].
func (*VariationsRule) Type() RuleType { return RuleVariations }

// Type implements [Rule].
func (*RolloutRule) Type() RuleType { return RuleRollout }

// Condition implements [Rule].
func (r *ServeRule) Condition() Expr { return r.When }

// Condition implements [Rule].
func (r *VariationsRule) Condition() Expr { return r.When }

// Condition implements [Rule].
func (r *RolloutRule) Condition() Expr { return r.When }
