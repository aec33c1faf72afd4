package models

import (
	"fmt"
	"math"
)

// JSON numbers decode as float64; these helpers accept the integer types too
// so the same params work before and after a round trip.

// IntParam reads a required integer parameter
func IntParam(params map[string]interface{}, key string) (int, error) {
	v, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("missing parameter %q", key)
	}
	f, ok := number(v)
	if !ok {
		return 0, fmt.Errorf("parameter %q is not a number", key)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("parameter %q is not an integer: %v", key, f)
	}
	return int(f), nil
}

// FloatParam reads a required numeric parameter
func FloatParam(params map[string]interface{}, key string) (float64, error) {
	v, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("missing parameter %q", key)
	}
	f, ok := number(v)
	if !ok {
		return 0, fmt.Errorf("parameter %q is not a number", key)
	}
	return f, nil
}

// BoolParam reads an optional boolean parameter, false when absent
func BoolParam(params map[string]interface{}, key string) bool {
	b, _ := params[key].(bool)
	return b
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}

func toFloat64(v interface{}) float64 {
	f, _ := number(v)
	return f
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
