package entities

import (
	"fmt"
	"time"
)

// Raw document values arrive JSON-decoded: numbers are float64, lists are
// []interface{}. The req* helpers implement the parsing contract: a missing
// or wrongly typed required field fails the whole record; optional fields
// fall back to their documented defaults.

func reqString(data map[string]interface{}, key string) (string, error) {
	v, ok := data[key].(string)
	if !ok {
		return "", fmt.Errorf("missing or invalid field %q", key)
	}
	return v, nil
}

func reqNumber(data map[string]interface{}, key string) (float64, error) {
	v, ok := data[key].(float64)
	if !ok {
		return 0, fmt.Errorf("missing or invalid field %q", key)
	}
	return v, nil
}

func reqStringSlice(data map[string]interface{}, key string) ([]string, error) {
	v, ok := toStringSlice(data[key])
	if !ok {
		return nil, fmt.Errorf("missing or invalid field %q", key)
	}
	return v, nil
}

func optString(data map[string]interface{}, key string) string {
	v, _ := data[key].(string)
	return v
}

func optNumber(data map[string]interface{}, key string) float64 {
	v, _ := data[key].(float64)
	return v
}

func optBool(data map[string]interface{}, key string) bool {
	v, _ := data[key].(bool)
	return v
}

func optStringSlice(data map[string]interface{}, key string) []string {
	v, ok := toStringSlice(data[key])
	if !ok {
		return []string{}
	}
	return v
}

// toStringSlice mirrors the strictness of the original client: a list with
// any non-string element is rejected as a whole.
func toStringSlice(raw interface{}) ([]string, bool) {
	items, ok := raw.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func mapSlice(raw interface{}) []map[string]interface{} {
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}

// Timestamps travel as seconds since epoch.

func epochToTime(seconds float64) time.Time {
	return time.Unix(int64(seconds), 0).UTC()
}

func timeToEpoch(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	return float64(t.Unix())
}
