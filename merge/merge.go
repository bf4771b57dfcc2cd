package merge

import (
	"reflect"

	"github.com/roach88/ntmerge/record"
)

// RecordName is the schema name given to merged records.
const RecordName = "Nt"

// EmptyDefault is the conventional fill value for fields no source defines.
var EmptyDefault record.Value = record.String("")

// Dict merges the records each table holds for every id into one record per id.
//
// The result preserves the order of ids. Each merged record takes every field
// from the first table, in table order, whose entry for the id defines that
// field; fields defined nowhere are set to dflt. ids must be unique.
func Dict[K comparable, G record.Getter](ids []K, tables []map[K]G, fields []string, dflt record.Value) (*Ordered[K], error) {
	recs, err := List(ids, tables, fields, dflt)
	if err != nil {
		return nil, err
	}

	out := &Ordered[K]{
		keys:  append([]K(nil), ids...),
		byKey: make(map[K]record.Record, len(ids)),
		recs:  recs,
	}
	for i, id := range ids {
		out.byKey[id] = recs[i]
	}
	return out, nil
}

// List is like Dict but returns the merged records as a plain slice in id order.
func List[K comparable, G record.Getter](ids []K, tables []map[K]G, fields []string, dflt record.Value) ([]record.Record, error) {
	if err := checkUnique(ids); err != nil {
		return nil, err
	}
	schema, err := record.NewSchema(RecordName, fields...)
	if err != nil {
		return nil, newInvalidFieldsError(err)
	}

	out := make([]record.Record, 0, len(ids))
	cands := make([]record.Getter, len(tables))
	for _, id := range ids {
		for i, table := range tables {
			cands[i] = nil
			if g, ok := table[id]; ok {
				cands[i] = g
			}
		}
		out = append(out, schema.Make(Values(cands, fields, dflt)...))
	}
	return out, nil
}

// Zip merges equal-length record sequences position by position.
// Position i of the result combines element i of every sequence, with earlier
// sequences taking priority.
func Zip[G record.Getter](lists [][]G, fields []string, dflt record.Value) ([]record.Record, error) {
	lens := make([]int, len(lists))
	for i, l := range lists {
		lens[i] = len(l)
	}
	if len(lens) == 0 {
		return nil, newLengthMismatchError(lens)
	}
	for _, n := range lens[1:] {
		if n != lens[0] {
			return nil, newLengthMismatchError(lens)
		}
	}

	schema, err := record.NewSchema(RecordName, fields...)
	if err != nil {
		return nil, newInvalidFieldsError(err)
	}

	out := make([]record.Record, 0, lens[0])
	cands := make([]record.Getter, len(lists))
	for pos := 0; pos < lens[0]; pos++ {
		for i, l := range lists {
			cands[i] = l[pos]
		}
		out = append(out, schema.Make(Values(cands, fields, dflt)...))
	}
	return out, nil
}

// Values picks one value per field from priority-ordered candidates.
//
// For each field the first candidate that defines it supplies the value.
// Nil candidates, including typed nil pointers and maps, are skipped.
// Fields no candidate defines get their own copy of dflt.
func Values(cands []record.Getter, fields []string, dflt record.Value) []record.Value {
	vals := make([]record.Value, len(fields))
	for i, field := range fields {
		found := false
		for _, c := range cands {
			if isNil(c) {
				continue
			}
			if v, ok := c.Get(field); ok {
				vals[i], found = v, true
				break
			}
		}
		if !found {
			vals[i] = cloneValue(dflt)
		}
	}
	return vals
}

// isNil reports whether g is nil or wraps a nil pointer, map or interface.
func isNil(g record.Getter) bool {
	if g == nil {
		return true
	}
	v := reflect.ValueOf(g)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface, reflect.Slice, reflect.Func:
		return v.IsNil()
	}
	return false
}

// cloneValue copies list values so records never share a backing array.
func cloneValue(v record.Value) record.Value {
	list, ok := v.(record.List)
	if !ok || list == nil {
		return v
	}
	out := make(record.List, len(list))
	for i, elem := range list {
		out[i] = cloneValue(elem)
	}
	return out
}

func checkUnique[K comparable](ids []K) error {
	seen := make(map[K]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return newDuplicateIDsError(ids, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
