// Package merge combines records from several sources into records with a
// caller-chosen field list.
//
// Two drivers share one field-union rule:
//   - Dict and List match records across lookup tables by identifier.
//   - Zip pairs up equal-length sequences by position.
//
// For every requested field the first source record, in source order, that
// defines the field supplies its value. A field no source defines is filled
// with the default passed by the caller; that is not an error. Duplicate
// identifiers and unequal sequence lengths are rejected before anything is
// merged.
//
// Example:
//
//	t1 := map[int]record.Map{1: {"id": record.Int(1)}}
//	t2 := map[int]record.Map{1: {"name": record.String("x")}}
//	m, err := merge.Dict([]int{1}, []map[int]record.Map{t1, t2}, []string{"id", "name"}, merge.EmptyDefault)
//	// m.Get(1) -> Nt(id=1, name="x")
package merge
