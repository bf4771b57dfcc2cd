package record

import (
	"fmt"
	"strings"
)

// Schema is the fixed, ordered field list shared by a family of records.
//
// A Schema is built once from a field-name list and is then used to make
// records of that shape. It is immutable and safe to share.
type Schema struct {
	name   string
	fields []string
	index  map[string]int
}

// NewSchema builds a schema from a type name and an ordered field list.
// Field names must be non-empty and unique.
func NewSchema(name string, fields ...string) (*Schema, error) {
	if name == "" {
		return nil, fmt.Errorf("schema name is required")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("schema %s: at least one field is required", name)
	}

	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if strings.TrimSpace(f) == "" {
			return nil, fmt.Errorf("schema %s: field %d has an empty name", name, i)
		}
		if prev, dup := index[f]; dup {
			return nil, fmt.Errorf("schema %s: duplicate field %q at positions %d and %d", name, f, prev, i)
		}
		index[f] = i
	}

	return &Schema{
		name:   name,
		fields: append([]string(nil), fields...),
		index:  index,
	}, nil
}

// MustSchema is like NewSchema but panics on error.
// Generated listings use it to declare their record shape.
func MustSchema(name string, fields ...string) *Schema {
	s, err := NewSchema(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the schema's type name.
func (s *Schema) Name() string { return s.name }

// Fields returns a copy of the ordered field list.
func (s *Schema) Fields() []string { return append([]string(nil), s.fields...) }

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.fields) }

// Index returns the position of field, or false if the schema lacks it.
func (s *Schema) Index(field string) (int, bool) {
	i, ok := s.index[field]
	return i, ok
}

// SameFields reports whether both schemas declare the same fields in the same order.
func (s *Schema) SameFields(other *Schema) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil || len(s.fields) != len(other.fields) {
		return false
	}
	for i, f := range s.fields {
		if other.fields[i] != f {
			return false
		}
	}
	return true
}

// New makes a record from values given in field order.
func (s *Schema) New(vals ...Value) (Record, error) {
	if len(vals) != len(s.fields) {
		return Record{}, fmt.Errorf("%s: expected %d values, got %d", s.name, len(s.fields), len(vals))
	}
	values := make([]Value, len(vals))
	for i, v := range vals {
		if v == nil {
			v = Null{}
		}
		values[i] = v
	}
	return Record{schema: s, values: values}, nil
}

// Make is like New but panics if the value count does not match the field count.
func (s *Schema) Make(vals ...Value) Record {
	r, err := s.New(vals...)
	if err != nil {
		panic(err)
	}
	return r
}
