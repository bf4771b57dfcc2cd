package source

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/ntmerge/record"
)

// decodeCUE evaluates a CUE table document:
//
//	key: "id"
//	records: [{id: "GO:0005634", name: "nucleus"}]
func decodeCUE(filename string, data []byte) (*Table, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("building CUE value: %w", err)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("CUE value is not concrete: %w", err)
	}

	table := &Table{}

	keyVal := value.LookupPath(cue.ParsePath("key"))
	if keyVal.Exists() {
		key, err := keyVal.String()
		if err != nil {
			return nil, fmt.Errorf("key: %w", err)
		}
		table.Key = key
	}

	recordsVal := value.LookupPath(cue.ParsePath("records"))
	if !recordsVal.Exists() {
		return table, nil
	}
	iter, err := recordsVal.List()
	if err != nil {
		return nil, fmt.Errorf("records: %w", err)
	}
	for i := 0; iter.Next(); i++ {
		m, err := cueRecord(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("records[%d]: %w", i, err)
		}
		table.Records = append(table.Records, m)
	}
	return table, nil
}

func cueRecord(v cue.Value) (record.Map, error) {
	if v.Kind() != cue.StructKind {
		return nil, fmt.Errorf("expected struct, got %v", v.Kind())
	}
	fields, err := v.Fields()
	if err != nil {
		return nil, err
	}
	m := record.Map{}
	for fields.Next() {
		val, err := cueValue(fields.Value())
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fields.Label(), err)
		}
		m[fields.Label()] = val
	}
	return m, nil
}

func cueValue(v cue.Value) (record.Value, error) {
	switch v.Kind() {
	case cue.NullKind:
		return record.Null{}, nil
	case cue.BoolKind:
		b, err := v.Bool()
		return record.Bool(b), err
	case cue.IntKind:
		n, err := v.Int64()
		return record.Int(n), err
	case cue.FloatKind:
		f, err := v.Float64()
		return record.Float(f), err
	case cue.StringKind:
		s, err := v.String()
		return record.String(s), err
	case cue.BytesKind:
		b, err := v.Bytes()
		return record.String(b), err
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, err
		}
		var list record.List
		for i := 0; iter.Next(); i++ {
			elem, err := cueValue(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			list = append(list, elem)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unsupported CUE kind %v", v.Kind())
	}
}
