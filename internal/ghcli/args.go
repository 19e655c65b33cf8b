package ghcli

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Args holds the caller-supplied parameters of one invocation, as decoded
// from JSON. It is built per call and never retained.
type Args map[string]any

// Has reports whether key is present with a non-nil value.
func (a Args) Has(key string) bool {
	v, ok := a[key]
	return ok && v != nil
}

// String returns the string value of key, or "" when absent or not a string.
func (a Args) String(key string) string {
	switch v := a[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	}
	return ""
}

// Int returns the integer value of key, or 0 when absent or not a whole number.
func (a Args) Int(key string) int {
	n, _ := toInt(a[key])
	return n
}

// Bool returns the boolean value of key; anything unparseable is false.
func (a Args) Bool(key string) bool {
	b, _ := toBool(a[key])
	return b
}

// toInt accepts the numeric shapes produced by JSON decoding and by Go callers.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, false
		}
		return parsed, true
	}
	return false, false
}
