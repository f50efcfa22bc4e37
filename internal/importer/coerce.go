package importer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// coerceInt accepts JSON numbers and numeric strings holding a whole number.
// "5", 5, 5.0 and "5.0" all give 5; "5.5", "abc", true and null are rejected.
// Strings are read as base 10 so "08" is 8.
func coerceInt(v any) (int, error) {
	switch n := v.(type) {
	case json.Number:
		return parseWhole(n.String())
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, fmt.Errorf("is an empty string, want an integer")
		}
		return parseWhole(s)
	case float64:
		return wholeFloat(n, strconv.FormatFloat(n, 'g', -1, 64))
	case int:
		return n, nil
	case int64:
		return checkRange(n, strconv.FormatInt(n, 10))
	default:
		return 0, fmt.Errorf("has type %T, want an integer", v)
	}
}

func parseWhole(s string) (int, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return checkRange(i, s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return wholeFloat(f, s)
}

func wholeFloat(f float64, text string) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%s is not a whole number", text)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("%s is out of range", text)
	}
	return int(f), nil
}

func checkRange(i int64, text string) (int, error) {
	if i > math.MaxInt32 || i < math.MinInt32 {
		return 0, fmt.Errorf("%s is out of range", text)
	}
	return int(i), nil
}

// optionalBool reads key as a bool. It also takes "true"/"false" strings.
// given reports whether the key was present at all.
func optionalBool(m map[string]any, key string) (value, given bool, err error) {
	v, present := m[key]
	if !present || v == nil {
		return false, false, nil
	}
	switch b := v.(type) {
	case bool:
		return b, true, nil
	case string:
		parsed, perr := strconv.ParseBool(strings.TrimSpace(b))
		if perr != nil {
			return false, true, fmt.Errorf("%s %q is not a boolean", key, b)
		}
		return parsed, true, nil
	default:
		return false, true, fmt.Errorf("%s has type %T, want a boolean", key, v)
	}
}
