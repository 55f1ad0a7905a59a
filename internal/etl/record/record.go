// Package record models the loosely-typed field maps handed to the pipeline
// by the extraction step. Sources give no schema guarantee, so every accessor
// is total: a field may be absent, empty, or of the wrong dynamic type, and
// the accessor reports that instead of panicking.
package record

import (
	"strconv"
	"strings"
)

// Raw is one untyped record as extracted from a JSON or CSV source.
// JSON decoding yields string, float64, bool and nil values; CSV decoding
// yields strings only.
type Raw map[string]any

// Has reports whether key is present with a non-nil value.
func (r Raw) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// Value returns the raw value for key, if present and non-nil.
func (r Raw) Value(key string) (any, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// String returns the value for key if it is a string. The second result is
// false when the field is absent; the third is false when it is present but
// not a string.
func (r Raw) String(key string) (val string, present, isString bool) {
	v, ok := r.Value(key)
	if !ok {
		return "", false, false
	}
	s, ok := v.(string)
	if !ok {
		return "", true, false
	}
	return s, true, true
}

// ID returns a string form of an opaque identifier field, which sources may
// carry as either a string or a number. The second result is false when the
// field is absent or not identifier-shaped.
func (r Raw) ID(key string) (string, bool) {
	v, ok := r.Value(key)
	if !ok {
		return "", false
	}
	switch id := v.(type) {
	case string:
		if strings.TrimSpace(id) == "" {
			return "", false
		}
		return id, true
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	case int:
		return strconv.Itoa(id), true
	default:
		return "", false
	}
}

// Number returns the value for key as a float64. The second result is false
// when the field is absent; the third is false when it is present but not
// numeric. Strings are not coerced here; numeric coercion of string input is
// the transformer's job.
func (r Raw) Number(key string) (val float64, present, isNumber bool) {
	v, ok := r.Value(key)
	if !ok {
		return 0, false, false
	}
	switch n := v.(type) {
	case float64:
		return n, true, true
	case int:
		return float64(n), true, true
	default:
		return 0, true, false
	}
}

// CoerceNumeric rewrites a numeric-looking string value in place, following
// the loader contract for CSV-shaped input: an empty string becomes absent, a
// string containing "." is parsed as a decimal, anything else as an integer.
// A string that fails to parse is left untouched so the type check in the
// validation layer reports it.
func (r Raw) CoerceNumeric(key string) {
	s, present, isString := r.String(key)
	if !present || !isString {
		return
	}
	if strings.TrimSpace(s) == "" {
		delete(r, key)
		return
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			r[key] = f
		}
		return
	}
	if n, err := strconv.Atoi(s); err == nil {
		r[key] = float64(n)
	}
}

// Clone returns a shallow copy of the record. The transformer clones before
// coercing so transformation never mutates the caller's batch.
func (r Raw) Clone() Raw {
	out := make(Raw, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
