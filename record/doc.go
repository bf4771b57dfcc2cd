// Package record provides the value and record types that merges consume and produce.
//
// A Record is an immutable ordered tuple of named values. Its field list lives
// in a Schema, which is built once from a field-name list and then makes any
// number of records:
//
//	nt := record.MustSchema("Nt", "id", "name")
//	r := nt.Make(record.Int(1), record.String("x"))
//	r.String() // Nt(id=1, name="x")
//
// Anything exposing named fields through Getter can take part in a merge.
// Record and Map both implement it; field presence is decided by key
// existence, never by the field's value.
package record
