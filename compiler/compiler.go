package compiler

import (
	"errors"
	"fmt"
	"log/slog"

	"go.flagc.dev/flagc/ast"
	"go.flagc.dev/flagc/config"
	"go.flagc.dev/flagc/expr"
	"go.flagc.dev/flagc/strtab"
)

// Sentinel errors for cross-document compile failures. All of them
// abort the compile on first occurrence.
var (
	ErrUnknownFlag      = errors.New("flag not found in flag definitions")
	ErrUnknownVariation = errors.New("variation not found")
	ErrNotMultivariate  = errors.New("flag does not have variations defined")
	ErrExpression       = errors.New("invalid expression")
)

// Compile lowers a deployment document against its flag definitions
// into an evaluation artifact.
//
// The resulting artifact has one rule list per flag definition, in
// definition order, each ending with an unconditional serve rule for
// the flag's default value. All strings are interned into a table
// owned by this call, so identical inputs yield identical artifacts.
func Compile(dep *config.Deployment, defs *config.Definitions) (*ast.Artifact, error) {
	table := strtab.New()

	flagIndex := make(map[string]int, len(defs.Flags))
	for i := range defs.Flags {
		flagIndex[defs.Flags[i].Name] = i
	}

	segments, err := lowerSegments(dep.Segments, table)
	if err != nil {
		return nil, err
	}

	flags := make([][]ast.Rule, len(defs.Flags))

	for _, flagRules := range dep.Rules {
		pos, ok := flagIndex[flagRules.Flag]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFlag, flagRules.Flag)
		}

		def := &defs.Flags[pos]

		for i, rule := range flagRules.Rules {
			lowered, err := lowerRule(rule, def, table)
			if err != nil {
				return nil, fmt.Errorf("flag %q rule %d: %w", flagRules.Flag, i, err)
			}

			if lowered != nil {
				flags[pos] = append(flags[pos], lowered)
			}
		}
	}

	// Every flag serves its definition default when no rule matched.
	for i := range defs.Flags {
		def := &defs.Flags[i]
		flags[i] = append(flags[i], &ast.ServeRule{
			Value: table.Add(normalizeValue(def.DefaultValue, def)),
		})
	}

	flagNames := make([]uint32, 0, len(defs.Flags))
	for i := range defs.Flags {
		flagNames = append(flagNames, table.Add(defs.Flags[i].Name))
	}

	artifact := &ast.Artifact{
		Version:     ast.FormatVersion,
		Environment: dep.Environment,
		Strings:     table.Strings(),
		Flags:       flags,
		FlagNames:   flagNames,
		Segments:    segments,
	}

	slog.Debug("compiled deployment",
		slog.String("environment", dep.Environment),
		slog.Int("flags", len(flags)),
		slog.Int("segments", len(segments)),
		slog.Int("strings", table.Len()),
	)

	return artifact, nil
}

func lowerSegments(defs []config.SegmentDef, table *strtab.Table) ([]ast.Segment, error) {
	if len(defs) == 0 {
		return nil, nil
	}

	segments := make([]ast.Segment, 0, len(defs))

	for _, seg := range defs {
		when, err := lowerCondition(seg.When, table)
		if err != nil {
			return nil, fmt.Errorf("segment %q: %w", seg.Name, err)
		}

		segments = append(segments, ast.Segment{
			Name: table.Add(seg.Name),
			When: when,
		})
	}

	return segments, nil
}

// lowerCondition parses and interns one condition string.
func lowerCondition(text string, table *strtab.Table) (ast.Expr, error) {
	node, err := expr.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExpression, err)
	}

	interned, err := strtab.Intern(table, node)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExpression, err)
	}

	return interned, nil
}

// Serialize encodes an artifact to its MessagePack wire form.
func Serialize(artifact *ast.Artifact) ([]byte, error) {
	return ast.Encode(artifact)
}

// CompileAndSerialize compiles a deployment and encodes the artifact
// in one step.
func CompileAndSerialize(dep *config.Deployment, defs *config.Definitions) ([]byte, error) {
	artifact, err := Compile(dep, defs)
	if err != nil {
		return nil, err
	}

	return Serialize(artifact)
}
