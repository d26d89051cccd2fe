package audit

import (
	"reflect"
	"strings"
)

// Mask replaces the value of a sensitive string field.
const Mask = "****"

var sensitiveFields = []string{"password", "credit_card", "ssn", "key", "secret", "token"}

// IsSensitive reports whether key names a field that must be redacted. The
// match is a case-insensitive substring match, so "api_key" and
// "AccessToken" are both sensitive.
func IsSensitive(key string) bool {
	lower := strings.ToLower(key)
	for _, f := range sensitiveFields {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}

// Sanitize returns a deep copy of data with sensitive string values masked.
// Nil and non-string values under sensitive keys are kept as they are.
func Sanitize(data map[string]any) map[string]any {
	if data == nil {
		return map[string]any{}
	}
	return sanitizeMap(data)
}

func sanitizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = sanitizeEntry(k, v, true)
	}
	return out
}

func sanitizeValue(v any) any {
	return walk(v, true)
}

// copyValue deep-copies containers without masking.
func copyValue(v any) any {
	return walk(v, false)
}

func sanitizeEntry(key string, v any, redact bool) any {
	if redact && IsSensitive(key) {
		return mask(v)
	}
	return walk(v, redact)
}

func mask(v any) any {
	if v == nil {
		return nil
	}
	if reflect.ValueOf(v).Kind() == reflect.String {
		return Mask
	}
	return copyValue(v)
}

// walk copies maps, slices and arrays of any element type. Maps keyed by
// strings come back as map[string]any, except map[string]string which keeps
// its type. Sequences come back as []any. Byte slices and scalars are
// returned as they are.
func walk(v any, redact bool) any {
	switch val := v.(type) {
	case nil:
		return nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = sanitizeEntry(k, item, redact)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(val))
		for k, s := range val {
			if redact && IsSensitive(k) {
				s = Mask
			}
			out[k] = s
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = walk(item, redact)
		}
		return out
	case []byte:
		return val
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() || rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			out[k] = sanitizeEntry(k, iter.Value().Interface(), redact)
		}
		return out
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		return walkSequence(rv, redact)
	case reflect.Array:
		return walkSequence(rv, redact)
	case reflect.Pointer:
		if rv.IsNil() {
			return v
		}
		elem := rv.Elem().Kind()
		if elem == reflect.Map || elem == reflect.Slice || elem == reflect.Array {
			return walk(rv.Elem().Interface(), redact)
		}
		return v
	default:
		return v
	}
}

func walkSequence(rv reflect.Value, redact bool) []any {
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = walk(rv.Index(i).Interface(), redact)
	}
	return out
}
