package ast

// Type guards for generically decoded artifact values.
//
// Consumers that decode artifact bytes with a plain MessagePack
// library get maps, slices, and numbers instead of the typed model.
// These predicates check structural shape without panicking, so
// untrusted input can be rejected before use. Unknown map keys,
// unknown rule types, and unknown expression kinds are tolerated for
// forward compatibility; malformed arity or element kinds are not.

// IsArtifact reports whether v has the shape of an encoded artifact.
func IsArtifact(v any) bool {
	m, ok := toStringMap(v)
	if !ok {
		return false
	}

	if !isString(m["v"]) || !isString(m["env"]) {
		return false
	}

	strs, ok := m["strs"].([]any)
	if !ok {
		return false
	}

	for _, s := range strs {
		if !isString(s) {
			return false
		}
	}

	flags, ok := m["flags"].([]any)
	if !ok {
		return false
	}

	for _, rules := range flags {
		list, ok := rules.([]any)
		if !ok {
			return false
		}

		for _, rule := range list {
			if !IsRule(rule) {
				return false
			}
		}
	}

	names, ok := m["flagNames"].([]any)
	if !ok {
		return false
	}

	for _, name := range names {
		if !isIndex(name) {
			return false
		}
	}

	if segments, present := m["segments"]; present {
		if !isSegmentList(segments) {
			return false
		}
	}

	return true
}

func isSegmentList(v any) bool {
	segments, ok := v.([]any)
	if !ok {
		return false
	}

	for _, seg := range segments {
		pair, ok := seg.([]any)
		if !ok || len(pair) < 2 {
			return false
		}

		if !isIndex(pair[0]) || !IsExpression(pair[1]) {
			return false
		}
	}

	return true
}

// IsRule reports whether v has the shape of an encoded rule array
// [type, when-or-nil, payload].
func IsRule(v any) bool {
	arr, ok := v.([]any)
	if !ok || len(arr) < 3 {
		return false
	}

	typ, ok := toUint(arr[0])
	if !ok {
		return false
	}

	if arr[1] != nil && !IsExpression(arr[1]) {
		return false
	}

	if typ > uint64(RuleRollout) {
		// Unknown rule type from a future format version; the payload
		// shape cannot be checked.
		return true
	}

	switch RuleType(typ) {
	case RuleServe:
		return isIndex(arr[2])

	case RuleVariations:
		variations, ok := arr[2].([]any)
		if !ok {
			return false
		}

		for _, variation := range variations {
			if !IsVariation(variation) {
				return false
			}
		}

		return true

	case RuleRollout:
		return IsVariation(arr[2])
	}

	return true
}

// IsVariation reports whether v is an encoded [index, weight] pair
// with the weight in [0, 100].
func IsVariation(v any) bool {
	pair, ok := v.([]any)
	if !ok || len(pair) < 2 {
		return false
	}

	if !isIndex(pair[0]) {
		return false
	}

	weight, ok := toUint(pair[1])

	return ok && weight <= 100
}

// IsExpression reports whether v has the shape of an encoded
// expression array [kind, ...].
func IsExpression(v any) bool {
	arr, ok := v.([]any)
	if !ok || len(arr) < 2 {
		return false
	}

	kind, ok := toUint(arr[0])
	if !ok {
		return false
	}

	if kind > uint64(KindCall) {
		// Unknown expression kind from a future format version.
		return true
	}

	switch ExprKind(kind) {
	case KindBinary:
		return len(arr) >= 4 &&
			isUintMax(arr[1], uint64(OpLTE)) &&
			IsExpression(arr[2]) &&
			IsExpression(arr[3])

	case KindLogical:
		if len(arr) < 4 || !isUintMax(arr[1], uint64(OpNot)) || !IsExpression(arr[2]) {
			return false
		}

		return arr[3] == nil || IsExpression(arr[3])

	case KindProperty, KindString:
		return isIndex(arr[1])

	case KindNumber:
		return isNumber(arr[1])

	case KindBool:
		_, ok := arr[1].(bool)

		return ok

	case KindCall:
		if len(arr) < 3 {
			return false
		}

		if _, ok := toUint(arr[1]); !ok {
			return false
		}

		args, ok := arr[2].([]any)
		if !ok {
			return false
		}

		for _, arg := range args {
			if !IsExpression(arg) {
				return false
			}
		}

		return true
	}

	return true
}

func toStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true

	case map[any]any:
		out := make(map[string]any, len(m))

		for k, val := range m {
			key, ok := k.(string)
			if !ok {
				return nil, false
			}

			out[key] = val
		}

		return out, true
	}

	return nil, false
}

func isString(v any) bool {
	_, ok := v.(string)

	return ok
}

func isIndex(v any) bool {
	_, ok := toUint(v)

	return ok
}

func isUintMax(v any, max uint64) bool {
	n, ok := toUint(v)

	return ok && n <= max
}

func isNumber(v any) bool {
	if _, ok := toUint(v); ok {
		return true
	}

	switch v.(type) {
	case int8, int16, int32, int64, int, float32, float64:
		return true
	}

	return false
}

// toUint accepts the integer widths a generic MessagePack decode can
// produce and rejects negatives.
func toUint(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint8:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case uint64:
		return n, true
	case uint:
		return uint64(n), true
	case int8:
		if n < 0 {
			return 0, false
		}

		return uint64(n), true
	case int16:
		if n < 0 {
			return 0, false
		}

		return uint64(n), true
	case int32:
		if n < 0 {
			return 0, false
		}

		return uint64(n), true
	case int64:
		if n < 0 {
			return 0, false
		}

		return uint64(n), true
	case int:
		if n < 0 {
			return 0, false
		}

		return uint64(n), true
	}

	return 0, false
}
