package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Getter is anything that exposes named fields.
// The boolean result reports whether the field is present, independent of its value.
type Getter interface {
	Get(field string) (Value, bool)
}

// Record is an immutable ordered tuple of named values bound to a Schema.
// The zero Record has no fields.
type Record struct {
	schema *Schema
	values []Value
}

// Schema returns the record's schema, or nil for the zero Record.
func (r Record) Schema() *Schema { return r.schema }

// Len returns the number of fields.
func (r Record) Len() int { return len(r.values) }

// Fields returns the ordered field names.
func (r Record) Fields() []string {
	if r.schema == nil {
		return nil
	}
	return r.schema.Fields()
}

// Get returns the value of field and whether the record defines it.
func (r Record) Get(field string) (Value, bool) {
	if r.schema == nil {
		return nil, false
	}
	i, ok := r.schema.index[field]
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

// At returns the value at position i.
func (r Record) At(i int) Value { return r.values[i] }

// Values returns a copy of the values in field order.
func (r Record) Values() []Value { return append([]Value(nil), r.values...) }

// String renders the record as Name(field=value, ...).
func (r Record) String() string {
	if r.schema == nil {
		return "Record()"
	}
	var b strings.Builder
	b.WriteString(r.schema.name)
	b.WriteByte('(')
	for i, f := range r.schema.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f)
		b.WriteByte('=')
		b.WriteString(Format(r.values[i]))
	}
	b.WriteByte(')')
	return b.String()
}

// MarshalJSON encodes the record as a JSON object with keys in field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	if r.schema != nil {
		for i, f := range r.schema.fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyBytes, err := json.Marshal(f)
			if err != nil {
				return nil, fmt.Errorf("marshal key %q: %w", f, err)
			}
			buf.Write(keyBytes)
			buf.WriteByte(':')

			valBytes, err := MarshalValue(r.values[i])
			if err != nil {
				return nil, fmt.Errorf("marshal value for key %q: %w", f, err)
			}
			buf.Write(valBytes)
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Map is a loose record keyed by field name, as decoded from YAML, CUE or SQL rows.
type Map map[string]Value

// Get implements Getter.
func (m Map) Get(field string) (Value, bool) {
	v, ok := m[field]
	return v, ok
}

// MapFromAny converts a decoded object into a Map.
func MapFromAny(m map[string]any) (Map, error) {
	out := make(Map, len(m))
	for k, raw := range m {
		v, err := FromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}
