package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"go.flagc.dev/flagc/config"
)

// Semantic cross-checks express the uniqueness and cross-field rules
// JSON Schema cannot. They walk the raw document tree with defensive
// type switches so they can run even when structural validation has
// already failed.

func semanticDefinitions(doc *config.Document) []Error {
	root, ok := config.JSONTree(doc.Tree).(map[string]any)
	if !ok {
		return nil
	}

	flags, ok := root["flags"].([]any)
	if !ok {
		return nil
	}

	var errs []Error

	seen := make(map[string]int, len(flags))

	for i, raw := range flags {
		flag, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		name, _ := flag["name"].(string)

		if name != "" {
			if first, dup := seen[name]; dup {
				errs = append(errs, semanticError(doc,
					pointer("flags", i, "name"),
					fmt.Sprintf("duplicate flag name %q (first defined at flags[%d])", name, first),
					suggestUniqueFlagNames,
				))
			} else {
				seen[name] = i
			}
		}

		errs = append(errs, checkVariations(doc, flag, name, i)...)
	}

	return errs
}

func checkVariations(doc *config.Document, flag map[string]any, name string, i int) []Error {
	var errs []Error

	variations, _ := flag["variations"].([]any)

	if typ, _ := flag["type"].(string); typ == "multivariate" && len(variations) == 0 {
		errs = append(errs, semanticError(doc,
			pointer("flags", i),
			fmt.Sprintf("multivariate flag %q has no variations", name),
			suggestAddVariations,
		))
	}

	seen := make(map[string]bool, len(variations))

	for j, raw := range variations {
		variation, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		vname, _ := variation["name"].(string)
		if vname == "" {
			continue
		}

		if seen[vname] {
			errs = append(errs, semanticError(doc,
				pointer("flags", i, "variations", j, "name"),
				fmt.Sprintf("duplicate variation name %q in flag %q", vname, name),
				suggestUniqueVariation,
			))
		}

		seen[vname] = true
	}

	return errs
}

func semanticDeployment(doc *config.Document) []Error {
	// Walks the ordered tree so findings come out in document order.
	root, ok := doc.Tree.(yaml.MapSlice)
	if !ok {
		return nil
	}

	rules, ok := treeGet(root, "rules").(yaml.MapSlice)
	if !ok {
		return nil
	}

	var errs []Error

	for _, item := range rules {
		flag := fmt.Sprint(item.Key)

		entry, ok := config.JSONTree(item.Value).(map[string]any)
		if !ok {
			continue
		}

		list, _ := entry["rules"].([]any)

		for i, rawRule := range list {
			rule, ok := rawRule.(map[string]any)
			if !ok {
				continue
			}

			errs = append(errs, checkRule(doc, rule, flag, i)...)
		}
	}

	return errs
}

func treeGet(m yaml.MapSlice, key string) any {
	for _, item := range m {
		if fmt.Sprint(item.Key) == key {
			return item.Value
		}
	}

	return nil
}

func checkRule(doc *config.Document, rule map[string]any, flag string, i int) []Error {
	var errs []Error

	_, hasServe := rule["serve"]
	variations, _ := rule["variations"].([]any)
	_, hasRollout := rule["rollout"]

	if !hasServe && len(variations) == 0 && !hasRollout {
		errs = append(errs, semanticError(doc,
			pointer("rules", flag, "rules", i),
			fmt.Sprintf("rule %d for flag %q has no serve, variations, or rollout", i, flag),
			suggestRulePayload,
		))
	}

	if len(variations) > 0 {
		sum := 0.0

		for _, raw := range variations {
			variation, ok := raw.(map[string]any)
			if !ok {
				continue
			}

			sum += number(variation["weight"])
		}

		if sum > 100 {
			errs = append(errs, semanticError(doc,
				pointer("rules", flag, "rules", i, "variations"),
				fmt.Sprintf("variation weights for flag %q sum to %g, exceeding 100", flag, sum),
				suggestWeightSum,
			))
		}
	}

	if rollout, ok := rule["rollout"].(map[string]any); ok {
		pct := number(rollout["percentage"])
		if pct < 0 || pct > 100 {
			errs = append(errs, semanticError(doc,
				pointer("rules", flag, "rules", i, "rollout", "percentage"),
				fmt.Sprintf("rollout percentage %g for flag %q is outside [0, 100]", pct, flag),
				suggestPercentageRange,
			))
		}
	}

	return errs
}

func semanticError(doc *config.Document, path, message, suggestion string) Error {
	e := Error{
		File:       doc.Path,
		Message:    message,
		Path:       path,
		Suggestion: suggestion,
	}

	if line, column, ok := doc.Locate(path); ok {
		e.Line = line
		e.Column = column
	}

	return e
}

// pointer builds a JSON pointer from string and integer segments.
func pointer(segments ...any) string {
	var sb strings.Builder

	for _, seg := range segments {
		sb.WriteByte('/')

		s := fmt.Sprint(seg)
		s = strings.ReplaceAll(s, "~", "~0")
		s = strings.ReplaceAll(s, "/", "~1")
		sb.WriteString(s)
	}

	return sb.String()
}

func number(v any) float64 {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}

		return f

	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}

	return 0
}
