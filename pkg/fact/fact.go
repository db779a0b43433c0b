package fact

import (
	"fmt"
	"sort"
	"strconv"
)

// Value is a single observed scalar: string, number, or boolean.
// The zero Value is the empty string.
type Value struct {
	kind valueKind
	s    string
	n    float64
	b    bool
}

type valueKind int

const (
	kindString valueKind = iota
	kindNumber
	kindBool
)

// String returns a string Value.
func String(s string) Value { return Value{kind: kindString, s: s} }

// Number returns a numeric Value.
func Number(n float64) Value { return Value{kind: kindNumber, n: n} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: kindBool, b: b} }

// IsString reports whether the value holds a string.
func (v Value) IsString() bool { return v.kind == kindString }

// IsNumber reports whether the value holds a number.
func (v Value) IsNumber() bool { return v.kind == kindNumber }

// IsBool reports whether the value holds a boolean.
func (v Value) IsBool() bool { return v.kind == kindBool }

// StringValue returns the underlying string. For non-string values it
// returns the canonical text rendering.
func (v Value) StringValue() string {
	switch v.kind {
	case kindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case kindBool:
		return strconv.FormatBool(v.b)
	default:
		return v.s
	}
}

// NumberValue returns the underlying number and whether the value is numeric.
// String values that parse as numbers are converted, matching how observed
// attributes arrive from text-based sources.
func (v Value) NumberValue() (float64, bool) {
	switch v.kind {
	case kindNumber:
		return v.n, true
	case kindString:
		n, err := strconv.ParseFloat(v.s, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// BoolValue returns the underlying boolean and whether the value is boolean.
func (v Value) BoolValue() (bool, bool) {
	if v.kind == kindBool {
		return v.b, true
	}
	return false, false
}

// Any returns the underlying value as an untyped interface, for serialization
// and for handing bundles to expression evaluators.
func (v Value) Any() any {
	switch v.kind {
	case kindNumber:
		return v.n
	case kindBool:
		return v.b
	default:
		return v.s
	}
}

// MarshalJSON renders the scalar in its native JSON type.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindNumber:
		return []byte(strconv.FormatFloat(v.n, 'f', -1, 64)), nil
	case kindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	default:
		return []byte(strconv.Quote(v.s)), nil
	}
}

// UnmarshalJSON accepts a string, number, or boolean scalar.
func (v *Value) UnmarshalJSON(data []byte) error {
	return v.unmarshalScalar(string(data))
}

// MarshalYAML renders the scalar in its native YAML type.
func (v Value) MarshalYAML() (any, error) {
	return v.Any(), nil
}

// UnmarshalYAML accepts a string, number, or boolean scalar.
func (v *Value) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v *Value) unmarshalScalar(raw string) error {
	if s, err := strconv.Unquote(raw); err == nil {
		*v = String(s)
		return nil
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		*v = Bool(b)
		return nil
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		*v = Number(n)
		return nil
	}
	return fmt.Errorf("fact value must be a scalar, got %q", raw)
}

// FromAny converts an untyped scalar into a Value.
func FromAny(raw any) (Value, error) {
	switch t := raw.(type) {
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case int:
		return Number(float64(t)), nil
	case int32:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case float32:
		return Number(float64(t)), nil
	case float64:
		return Number(t), nil
	default:
		return Value{}, fmt.Errorf("fact value must be a scalar, got %T", raw)
	}
}

// Bundle is the set of observed attributes about one resource instance at
// diagnosis time. Keys are namespaced strings such as "pod.phase".
// A bundle is gathered fresh per diagnostic invocation and treated as
// immutable once collected.
type Bundle map[string]Value

// Get returns the value for key and whether it is present.
func (b Bundle) Get(key string) (Value, bool) {
	v, ok := b[key]
	return v, ok
}

// Keys returns the fact keys in sorted order, for deterministic logging
// and serialization.
func (b Bundle) Keys() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ToMap returns the bundle as an untyped map, keyed by fact key, for handing
// to expression evaluators.
func (b Bundle) ToMap() map[string]any {
	m := make(map[string]any, len(b))
	for k, v := range b {
		m[k] = v.Any()
	}
	return m
}
