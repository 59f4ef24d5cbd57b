package ast

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Sentinel errors returned by the encoder.
var (
	ErrNilArtifact = errors.New("nil artifact")
	ErrUnknownNode = errors.New("unknown node")
)

// Encode serializes the artifact to MessagePack bytes.
//
// The top-level value is a map with keys in fixed order: "v", "env",
// "strs", "flags", "flagNames", and "segments" (omitted when the
// artifact has no segments). The reserved "sig" field is never
// emitted. Identical artifacts produce identical bytes.
func Encode(a *Artifact) ([]byte, error) {
	if a == nil {
		return nil, ErrNilArtifact
	}

	var buf bytes.Buffer

	enc := msgpack.NewEncoder(&buf)

	fields := 5
	if len(a.Segments) > 0 {
		fields = 6
	}

	err := enc.EncodeMapLen(fields)
	if err != nil {
		return nil, fmt.Errorf("encoding artifact: %w", err)
	}

	err = encodeHeader(enc, a)
	if err != nil {
		return nil, fmt.Errorf("encoding artifact: %w", err)
	}

	err = encodeFlags(enc, a)
	if err != nil {
		return nil, fmt.Errorf("encoding artifact: %w", err)
	}

	if len(a.Segments) > 0 {
		err = encodeSegments(enc, a.Segments)
		if err != nil {
			return nil, fmt.Errorf("encoding artifact: %w", err)
		}
	}

	return buf.Bytes(), nil
}

func encodeHeader(enc *msgpack.Encoder, a *Artifact) error {
	err := enc.EncodeString("v")
	if err != nil {
		return err
	}

	version := a.Version
	if version == "" {
		version = FormatVersion
	}

	err = enc.EncodeString(version)
	if err != nil {
		return err
	}

	err = enc.EncodeString("env")
	if err != nil {
		return err
	}

	err = enc.EncodeString(a.Environment)
	if err != nil {
		return err
	}

	err = enc.EncodeString("strs")
	if err != nil {
		return err
	}

	err = enc.EncodeArrayLen(len(a.Strings))
	if err != nil {
		return err
	}

	for _, s := range a.Strings {
		err = enc.EncodeString(s)
		if err != nil {
			return err
		}
	}

	return nil
}

func encodeFlags(enc *msgpack.Encoder, a *Artifact) error {
	err := enc.EncodeString("flags")
	if err != nil {
		return err
	}

	err = enc.EncodeArrayLen(len(a.Flags))
	if err != nil {
		return err
	}

	for _, rules := range a.Flags {
		err = enc.EncodeArrayLen(len(rules))
		if err != nil {
			return err
		}

		for _, rule := range rules {
			err = encodeRule(enc, rule)
			if err != nil {
				return err
			}
		}
	}

	err = enc.EncodeString("flagNames")
	if err != nil {
		return err
	}

	err = enc.EncodeArrayLen(len(a.FlagNames))
	if err != nil {
		return err
	}

	for _, idx := range a.FlagNames {
		err = enc.EncodeUint(uint64(idx))
		if err != nil {
			return err
		}
	}

	return nil
}

func encodeSegments(enc *msgpack.Encoder, segments []Segment) error {
	err := enc.EncodeString("segments")
	if err != nil {
		return err
	}

	err = enc.EncodeArrayLen(len(segments))
	if err != nil {
		return err
	}

	for _, seg := range segments {
		err = enc.EncodeArrayLen(2)
		if err != nil {
			return err
		}

		err = enc.EncodeUint(uint64(seg.Name))
		if err != nil {
			return err
		}

		err = encodeExpr(enc, seg.When)
		if err != nil {
			return err
		}
	}

	return nil
}

// encodeRule writes a rule as the fixed-length array
// [type, when-or-nil, payload].
func encodeRule(enc *msgpack.Encoder, rule Rule) error {
	err := enc.EncodeArrayLen(3)
	if err != nil {
		return err
	}

	err = enc.EncodeUint(uint64(rule.Type()))
	if err != nil {
		return err
	}

	if when := rule.Condition(); when != nil {
		err = encodeExpr(enc, when)
	} else {
		err = enc.EncodeNil()
	}

	if err != nil {
		return err
	}

	switch r := rule.(type) {
	case *ServeRule:
		return enc.EncodeUint(uint64(r.Value))

	case *VariationsRule:
		err = enc.EncodeArrayLen(len(r.Variations))
		if err != nil {
			return err
		}

		for _, v := range r.Variations {
			err = encodePair(enc, uint64(v.Value), uint64(v.Weight))
			if err != nil {
				return err
			}
		}

		return nil

	case *RolloutRule:
		return encodePair(enc, uint64(r.Value), uint64(r.Percentage))
	}

	return fmt.Errorf("%w: %T", ErrUnknownNode, rule)
}

func encodePair(enc *msgpack.Encoder, a, b uint64) error {
	err := enc.EncodeArrayLen(2)
	if err != nil {
		return err
	}

	err = enc.EncodeUint(a)
	if err != nil {
		return err
	}

	return enc.EncodeUint(b)
}

// encodeExpr writes an expression node as [kind, ...] with the layout
// fixed per kind.
func encodeExpr(enc *msgpack.Encoder, e Expr) error {
	switch n := e.(type) {
	case *Binary:
		err := encodeKindOp(enc, 4, KindBinary, uint64(n.Op))
		if err != nil {
			return err
		}

		err = encodeExpr(enc, n.Left)
		if err != nil {
			return err
		}

		return encodeExpr(enc, n.Right)

	case *Logical:
		err := encodeKindOp(enc, 4, KindLogical, uint64(n.Op))
		if err != nil {
			return err
		}

		err = encodeExpr(enc, n.Left)
		if err != nil {
			return err
		}

		if n.Right == nil {
			return enc.EncodeNil()
		}

		return encodeExpr(enc, n.Right)

	case *Property:
		return encodeKindOp(enc, 2, KindProperty, uint64(n.Index))

	case *StringLit:
		return encodeKindOp(enc, 2, KindString, uint64(n.Index))

	case *IntLit:
		err := encodeKind(enc, 2, KindNumber)
		if err != nil {
			return err
		}

		return enc.EncodeInt(n.Value)

	case *FloatLit:
		err := encodeKind(enc, 2, KindNumber)
		if err != nil {
			return err
		}

		return enc.EncodeFloat64(n.Value)

	case *BoolLit:
		err := encodeKind(enc, 2, KindBool)
		if err != nil {
			return err
		}

		return enc.EncodeBool(n.Value)

	case *Call:
		err := encodeKind(enc, 3, KindCall)
		if err != nil {
			return err
		}

		err = enc.EncodeUint(uint64(n.Code))
		if err != nil {
			return err
		}

		err = enc.EncodeArrayLen(len(n.Args))
		if err != nil {
			return err
		}

		for _, arg := range n.Args {
			err = encodeExpr(enc, arg)
			if err != nil {
				return err
			}
		}

		return nil
	}

	return fmt.Errorf("%w: %T", ErrUnknownNode, e)
}

func encodeKind(enc *msgpack.Encoder, arity int, kind ExprKind) error {
	err := enc.EncodeArrayLen(arity)
	if err != nil {
		return err
	}

	return enc.EncodeUint(uint64(kind))
}

func encodeKindOp(enc *msgpack.Encoder, arity int, kind ExprKind, op uint64) error {
	err := encodeKind(enc, arity, kind)
	if err != nil {
		return err
	}

	return enc.EncodeUint(op)
}
