package compiler

import (
	"fmt"
	"math"

	"go.flagc.dev/flagc/ast"
	"go.flagc.dev/flagc/config"
	"go.flagc.dev/flagc/strtab"
)

// lowerRule lowers one deployment rule. Rules carrying none of the
// three payloads lower to nil; the validator reports them, but a
// caller that skipped validation still gets a well-formed artifact.
func lowerRule(rule config.Rule, def *config.FlagDefinition, table *strtab.Table) (ast.Rule, error) {
	var when ast.Expr

	if rule.When != "" {
		parsed, err := lowerCondition(rule.When, table)
		if err != nil {
			return nil, err
		}

		when = parsed
	}

	switch {
	case rule.HasServe:
		return &ast.ServeRule{
			When:  when,
			Value: table.Add(normalizeValue(rule.Serve, def)),
		}, nil

	case len(rule.Variations) > 0:
		return lowerVariations(rule, def, when, table)

	case rule.Rollout != nil:
		return lowerRollout(rule.Rollout, def, when, table)
	}

	return nil, nil
}

func lowerVariations(rule config.Rule, def *config.FlagDefinition, when ast.Expr, table *strtab.Table) (ast.Rule, error) {
	if def.Type != config.FlagMultivariate || len(def.Variations) == 0 {
		return nil, fmt.Errorf("%w, but rule uses variations: flag %q", ErrNotMultivariate, def.Name)
	}

	variations := make([]ast.WeightedVariation, 0, len(rule.Variations))

	for _, ref := range rule.Variations {
		variation, ok := def.Variation(ref.Variation)
		if !ok {
			return nil, fmt.Errorf("%w: variation %q in flag %q", ErrUnknownVariation, ref.Variation, def.Name)
		}

		variations = append(variations, ast.WeightedVariation{
			Value:  table.Add(stringify(variation.Value)),
			Weight: clampPercent(ref.Weight),
		})
	}

	return &ast.VariationsRule{When: when, Variations: variations}, nil
}

func lowerRollout(rollout *config.Rollout, def *config.FlagDefinition, when ast.Expr, table *strtab.Table) (ast.Rule, error) {
	var value uint32

	if def.Type == config.FlagBoolean {
		// A boolean rollout targets ON or OFF directly; the variation
		// field holds a boolean-ish value, not a variation name.
		value = table.Add(normalizeValue(rollout.Variation, def))
	} else {
		name := stringify(rollout.Variation)

		variation, ok := def.Variation(name)
		if !ok {
			return nil, fmt.Errorf("%w: variation %q in flag %q", ErrUnknownVariation, name, def.Name)
		}

		value = table.Add(stringify(variation.Value))
	}

	return &ast.RolloutRule{
		When:       when,
		Value:      value,
		Percentage: clampPercent(rollout.Percentage),
	}, nil
}

// clampPercent rounds to the nearest integer and clamps into the wire
// range [0, 100].
func clampPercent(v float64) uint8 {
	rounded := math.Round(v)

	if rounded < 0 {
		return 0
	}

	if rounded > 100 {
		return 100
	}

	return uint8(rounded)
}
