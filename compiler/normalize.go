package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"go.flagc.dev/flagc/config"
)

// normalizeValue converts a flag payload to its canonical string
// form. Boolean flag values canonicalize to "ON"/"OFF" here so the
// runtime never interprets the many truthy spellings; everything else
// stringifies.
func normalizeValue(v any, def *config.FlagDefinition) string {
	if def.Type == config.FlagBoolean {
		switch b := v.(type) {
		case bool:
			if b {
				return "ON"
			}

			return "OFF"

		case string:
			switch strings.ToUpper(b) {
			case "ON", "TRUE", "1":
				return "ON"
			case "OFF", "FALSE", "0":
				return "OFF"
			}
		}
	}

	return stringify(v)
}

// stringify renders a scalar in its canonical textual form.
func stringify(v any) string {
	switch n := v.(type) {
	case string:
		return n

	case bool:
		return strconv.FormatBool(n)

	case int:
		return strconv.Itoa(n)

	case int64:
		return strconv.FormatInt(n, 10)

	case uint64:
		return strconv.FormatUint(n, 10)

	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)

	case nil:
		return ""
	}

	return fmt.Sprint(v)
}
