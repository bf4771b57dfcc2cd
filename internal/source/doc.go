// Package source loads lookup tables for merges from files and databases.
//
// Supported locations:
//   - *.yaml, *.yml, *.json: a document with an optional "key" field name and a "records" list
//   - *.cue: the same shape written in CUE
//   - *.db, *.sqlite, *.sqlite3: a SQLite table, selected with ?table=NAME or ?query=SQL
//
// A trailing .zst or .gz on a document location is decompressed before
// parsing. Document bytes are fetched through afs, so file:// and the other
// afs schemes work as well as plain paths. Any location accepts &key=FIELD to
// set or override the identifier field.
package source
