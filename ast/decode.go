package ast

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// ErrMalformed indicates artifact bytes that do not follow the wire
// layout.
var ErrMalformed = errors.New("malformed artifact")

// Decode reads MessagePack artifact bytes back into an [Artifact].
//
// Unknown top-level keys, unknown rule types, and expression kinds
// above the known range are skipped rather than rejected, so readers
// of this format version can load artifacts produced by future ones.
func Decode(data []byte) (*Artifact, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))

	n, err := dec.DecodeMapLen()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	a := &Artifact{}

	for range n {
		key, err := dec.DecodeString()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		err = decodeField(dec, a, key)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %w", ErrMalformed, key, err)
		}
	}

	return a, nil
}

func decodeField(dec *msgpack.Decoder, a *Artifact, key string) error {
	switch key {
	case "v":
		v, err := dec.DecodeString()
		if err != nil {
			return err
		}

		a.Version = v

	case "env":
		env, err := dec.DecodeString()
		if err != nil {
			return err
		}

		a.Environment = env

	case "strs":
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}

		a.Strings = make([]string, 0, n)

		for range n {
			s, err := dec.DecodeString()
			if err != nil {
				return err
			}

			a.Strings = append(a.Strings, s)
		}

	case "flags":
		return decodeFlagRules(dec, a)

	case "flagNames":
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}

		a.FlagNames = make([]uint32, 0, n)

		for range n {
			idx, err := dec.DecodeUint32()
			if err != nil {
				return err
			}

			a.FlagNames = append(a.FlagNames, idx)
		}

	case "segments":
		return decodeSegments(dec, a)

	default:
		// Unknown or reserved (e.g. "sig") fields are skipped.
		return dec.Skip()
	}

	return nil
}

func decodeFlagRules(dec *msgpack.Decoder, a *Artifact) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}

	a.Flags = make([][]Rule, 0, n)

	for range n {
		m, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}

		rules := make([]Rule, 0, m)

		for range m {
			rule, err := decodeRule(dec)
			if err != nil {
				return err
			}

			if rule != nil {
				rules = append(rules, rule)
			}
		}

		a.Flags = append(a.Flags, rules)
	}

	return nil
}

func decodeSegments(dec *msgpack.Decoder, a *Artifact) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}

	a.Segments = make([]Segment, 0, n)

	for range n {
		m, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}

		if m < 2 {
			return fmt.Errorf("segment arity %d", m)
		}

		name, err := dec.DecodeUint32()
		if err != nil {
			return err
		}

		when, err := decodeExpr(dec)
		if err != nil {
			return err
		}

		err = skipExtra(dec, m-2)
		if err != nil {
			return err
		}

		a.Segments = append(a.Segments, Segment{Name: name, When: when})
	}

	return nil
}

// decodeRule reads one [type, when, payload] array. Rules with an
// unknown type code decode to nil.
func decodeRule(dec *msgpack.Decoder) (Rule, error) {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, err
	}

	if n < 3 {
		return nil, fmt.Errorf("rule arity %d", n)
	}

	typ, err := dec.DecodeUint64()
	if err != nil {
		return nil, err
	}

	if typ > uint64(RuleRollout) {
		return nil, skipExtra(dec, n-1)
	}

	when, err := decodeOptionalExpr(dec)
	if err != nil {
		return nil, err
	}

	var rule Rule

	switch RuleType(typ) {
	case RuleServe:
		value, err := dec.DecodeUint32()
		if err != nil {
			return nil, err
		}

		rule = &ServeRule{When: when, Value: value}

	case RuleVariations:
		m, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}

		variations := make([]WeightedVariation, 0, m)

		for range m {
			value, weight, err := decodePair(dec)
			if err != nil {
				return nil, err
			}

			variations = append(variations, WeightedVariation{
				Value:  value,
				Weight: uint8(min(weight, 100)),
			})
		}

		rule = &VariationsRule{When: when, Variations: variations}

	case RuleRollout:
		value, pct, err := decodePair(dec)
		if err != nil {
			return nil, err
		}

		rule = &RolloutRule{
			When:       when,
			Value:      value,
			Percentage: uint8(min(pct, 100)),
		}
	}

	return rule, skipExtra(dec, n-3)
}

func decodePair(dec *msgpack.Decoder) (uint32, uint64, error) {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return 0, 0, err
	}

	if n < 2 {
		return 0, 0, fmt.Errorf("pair arity %d", n)
	}

	first, err := dec.DecodeUint32()
	if err != nil {
		return 0, 0, err
	}

	second, err := dec.DecodeUint64()
	if err != nil {
		return 0, 0, err
	}

	return first, second, skipExtra(dec, n-2)
}

func decodeOptionalExpr(dec *msgpack.Decoder) (Expr, error) {
	code, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}

	if code == msgpcode.Nil {
		return nil, dec.DecodeNil()
	}

	return decodeExpr(dec)
}

// decodeExpr reads one [kind, ...] expression array. Nodes with an
// unknown kind decode to nil.
func decodeExpr(dec *msgpack.Decoder) (Expr, error) {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, err
	}

	if n < 2 {
		return nil, fmt.Errorf("expression arity %d", n)
	}

	kind, err := dec.DecodeUint64()
	if err != nil {
		return nil, err
	}

	if kind > uint64(KindCall) {
		// Unknown node kind from a future format version.
		return nil, skipExtra(dec, n-2)
	}

	switch ExprKind(kind) {
	case KindBinary, KindLogical:
		if n < 4 {
			return nil, fmt.Errorf("operator arity %d", n)
		}

		op, err := dec.DecodeUint64()
		if err != nil {
			return nil, err
		}

		left, err := decodeExpr(dec)
		if err != nil {
			return nil, err
		}

		right, err := decodeOptionalExpr(dec)
		if err != nil {
			return nil, err
		}

		var node Expr
		if ExprKind(kind) == KindBinary {
			node = &Binary{Op: CompareOp(op), Left: left, Right: right}
		} else {
			node = &Logical{Op: LogicalOp(op), Left: left, Right: right}
		}

		return node, skipExtra(dec, n-4)

	case KindProperty, KindString:
		idx, err := dec.DecodeUint32()
		if err != nil {
			return nil, err
		}

		var node Expr
		if ExprKind(kind) == KindProperty {
			node = &Property{Index: idx}
		} else {
			node = &StringLit{Index: idx}
		}

		return node, skipExtra(dec, n-2)

	case KindNumber:
		v, err := dec.DecodeInterface()
		if err != nil {
			return nil, err
		}

		node, err := numberNode(v)
		if err != nil {
			return nil, err
		}

		return node, skipExtra(dec, n-2)

	case KindBool:
		v, err := dec.DecodeBool()
		if err != nil {
			return nil, err
		}

		return &BoolLit{Value: v}, skipExtra(dec, n-2)

	case KindCall:
		if n < 3 {
			return nil, fmt.Errorf("call arity %d", n)
		}

		code, err := dec.DecodeUint64()
		if err != nil {
			return nil, err
		}

		m, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}

		args := make([]Expr, 0, m)

		for range m {
			arg, err := decodeExpr(dec)
			if err != nil {
				return nil, err
			}

			args = append(args, arg)
		}

		return &Call{Code: uint8(code), Args: args}, skipExtra(dec, n-3)
	}

	return nil, fmt.Errorf("expression kind %d", kind)
}

func numberNode(v any) (Expr, error) {
	switch num := v.(type) {
	case int8:
		return &IntLit{Value: int64(num)}, nil
	case int16:
		return &IntLit{Value: int64(num)}, nil
	case int32:
		return &IntLit{Value: int64(num)}, nil
	case int64:
		return &IntLit{Value: num}, nil
	case uint8:
		return &IntLit{Value: int64(num)}, nil
	case uint16:
		return &IntLit{Value: int64(num)}, nil
	case uint32:
		return &IntLit{Value: int64(num)}, nil
	case uint64:
		return &IntLit{Value: int64(num)}, nil
	case float32:
		return &FloatLit{Value: float64(num)}, nil
	case float64:
		return &FloatLit{Value: num}, nil
	}

	return nil, fmt.Errorf("number literal holds %T", v)
}

func skipExtra(dec *msgpack.Decoder, n int) error {
	for range n {
		err := dec.Skip()
		if err != nil {
			return err
		}
	}

	return nil
}
