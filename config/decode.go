package config

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// DecodeDefinitions converts a parsed definitions document into the
// typed model. It assumes the document passed structural validation
// and reports [ErrInvalidDoc] for shapes it cannot interpret.
func DecodeDefinitions(doc *Document) (*Definitions, error) {
	root, ok := mapping(doc.Tree)
	if !ok {
		return nil, fmt.Errorf("%w: top level is not a mapping", ErrInvalidDoc)
	}

	defs := &Definitions{}

	flags, ok := get(root, "flags").([]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing flags list", ErrInvalidDoc)
	}

	defs.Flags = make([]FlagDefinition, 0, len(flags))

	for i, raw := range flags {
		flag, err := decodeFlagDefinition(raw)
		if err != nil {
			return nil, fmt.Errorf("flags[%d]: %w", i, err)
		}

		defs.Flags = append(defs.Flags, flag)
	}

	if ctx, ok := mapping(get(root, "context")); ok {
		defs.Context = plainMap(ctx)
	}

	return defs, nil
}

func decodeFlagDefinition(raw any) (FlagDefinition, error) {
	m, ok := mapping(raw)
	if !ok {
		return FlagDefinition{}, fmt.Errorf("%w: flag is not a mapping", ErrInvalidDoc)
	}

	flag := FlagDefinition{
		Name:         stringOr(get(m, "name"), ""),
		Description:  stringOr(get(m, "description"), ""),
		Type:         FlagType(stringOr(get(m, "type"), "")),
		DefaultValue: scalar(get(m, "defaultValue")),
		Kind:         stringOr(get(m, "kind"), ""),
		Lifecycle:    stringOr(get(m, "lifecycle"), ""),
	}

	if meta, ok := mapping(get(m, "metadata")); ok {
		flag.Metadata = plainMap(meta)
	}

	variations, ok := get(m, "variations").([]any)
	if !ok {
		return flag, nil
	}

	flag.Variations = make([]Variation, 0, len(variations))

	for i, raw := range variations {
		vm, ok := mapping(raw)
		if !ok {
			return FlagDefinition{}, fmt.Errorf("%w: variations[%d] is not a mapping", ErrInvalidDoc, i)
		}

		flag.Variations = append(flag.Variations, Variation{
			Name:        stringOr(get(vm, "name"), ""),
			Value:       scalar(get(vm, "value")),
			Description: stringOr(get(vm, "description"), ""),
		})
	}

	return flag, nil
}

// DecodeDeployment converts a parsed deployment document into the
// typed model, preserving the order of the rules and segments
// mappings.
func DecodeDeployment(doc *Document) (*Deployment, error) {
	root, ok := mapping(doc.Tree)
	if !ok {
		return nil, fmt.Errorf("%w: top level is not a mapping", ErrInvalidDoc)
	}

	dep := &Deployment{
		Environment: stringOr(get(root, "environment"), ""),
	}

	rules, ok := orderedMapping(get(root, "rules"))
	if !ok {
		return nil, fmt.Errorf("%w: missing rules mapping", ErrInvalidDoc)
	}

	for _, item := range rules {
		flagRules, err := decodeFlagRules(fmt.Sprint(item.Key), item.Value)
		if err != nil {
			return nil, fmt.Errorf("rules[%v]: %w", item.Key, err)
		}

		dep.Rules = append(dep.Rules, flagRules)
	}

	segments, ok := orderedMapping(get(root, "segments"))
	if !ok {
		return dep, nil
	}

	for _, item := range segments {
		sm, ok := mapping(item.Value)
		if !ok {
			return nil, fmt.Errorf("%w: segment %v is not a mapping", ErrInvalidDoc, item.Key)
		}

		dep.Segments = append(dep.Segments, SegmentDef{
			Name: fmt.Sprint(item.Key),
			When: stringOr(get(sm, "when"), ""),
		})
	}

	return dep, nil
}

func decodeFlagRules(flag string, raw any) (FlagRules, error) {
	out := FlagRules{Flag: flag}

	// An empty per-flag entry (`my_flag: {}` or `my_flag:`) is valid
	// and lowers to just the default rule.
	if raw == nil {
		return out, nil
	}

	m, ok := mapping(raw)
	if !ok {
		return FlagRules{}, fmt.Errorf("%w: entry is not a mapping", ErrInvalidDoc)
	}

	out.Default = scalar(get(m, "default"))

	rules, ok := get(m, "rules").([]any)
	if !ok {
		return out, nil
	}

	out.Rules = make([]Rule, 0, len(rules))

	for i, rawRule := range rules {
		rule, err := decodeRule(rawRule)
		if err != nil {
			return FlagRules{}, fmt.Errorf("rules[%d]: %w", i, err)
		}

		out.Rules = append(out.Rules, rule)
	}

	return out, nil
}

func decodeRule(raw any) (Rule, error) {
	m, ok := mapping(raw)
	if !ok {
		return Rule{}, fmt.Errorf("%w: rule is not a mapping", ErrInvalidDoc)
	}

	rule := Rule{
		Name: stringOr(get(m, "name"), ""),
		When: stringOr(get(m, "when"), ""),
	}

	if serve, present := lookup(m, "serve"); present {
		rule.Serve = scalar(serve)
		rule.HasServe = true
	}

	if variations, ok := get(m, "variations").([]any); ok {
		rule.Variations = make([]WeightedVariationRef, 0, len(variations))

		for i, rawVariation := range variations {
			vm, ok := mapping(rawVariation)
			if !ok {
				return Rule{}, fmt.Errorf("%w: variations[%d] is not a mapping", ErrInvalidDoc, i)
			}

			rule.Variations = append(rule.Variations, WeightedVariationRef{
				Variation: stringOr(get(vm, "variation"), ""),
				Weight:    numberOr(get(vm, "weight"), 0),
			})
		}
	}

	if rollout, ok := mapping(get(m, "rollout")); ok {
		rule.Rollout = &Rollout{
			Variation:  scalar(get(rollout, "variation")),
			Percentage: numberOr(get(rollout, "percentage"), 0),
		}
	}

	return rule, nil
}

// mapping normalizes the two mapping representations goccy can
// produce into an ordered [yaml.MapSlice].
func mapping(v any) (yaml.MapSlice, bool) {
	switch m := v.(type) {
	case yaml.MapSlice:
		return m, true

	case map[string]any:
		out := make(yaml.MapSlice, 0, len(m))

		for k, val := range m {
			out = append(out, yaml.MapItem{Key: k, Value: val})
		}

		return out, true
	}

	return nil, false
}

func orderedMapping(v any) (yaml.MapSlice, bool) {
	if v == nil {
		return nil, false
	}

	return mapping(v)
}

func lookup(m yaml.MapSlice, key string) (any, bool) {
	for _, item := range m {
		if fmt.Sprint(item.Key) == key {
			return item.Value, true
		}
	}

	return nil, false
}

func get(m yaml.MapSlice, key string) any {
	v, _ := lookup(m, key)

	return v
}

func stringOr(v any, fallback string) string {
	s, ok := v.(string)
	if !ok {
		return fallback
	}

	return s
}

func numberOr(v any, fallback float64) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case float64:
		return n
	}

	return fallback
}

// scalar normalizes decoded scalar representations; integer widths
// collapse to int64.
func scalar(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case uint64:
		return int64(n)
	}

	return v
}

func plainMap(m yaml.MapSlice) map[string]any {
	out := make(map[string]any, len(m))

	for _, item := range m {
		out[fmt.Sprint(item.Key)] = item.Value
	}

	return out
}
