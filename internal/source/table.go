package source

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/ntmerge/record"
)

// Table is an ordered collection of loose records loaded from one location.
type Table struct {
	// Location is where the table was loaded from.
	Location string

	// Key names the identifier field. Empty when the source only supports positional merges.
	Key string

	// Records holds the rows in source order.
	Records []record.Map
}

// IDs returns the identifier of every record in source order.
func (t *Table) IDs() ([]string, error) {
	if t.Key == "" {
		return nil, fmt.Errorf("%s: no key field configured", t.Location)
	}
	ids := make([]string, len(t.Records))
	for i, r := range t.Records {
		id, err := t.idOf(i, r)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// Index returns the table as an identifier lookup.
// Identifiers must be present on every record and unique within the table.
func (t *Table) Index() (map[string]record.Map, error) {
	if t.Key == "" {
		return nil, fmt.Errorf("%s: no key field configured", t.Location)
	}
	index := make(map[string]record.Map, len(t.Records))
	for i, r := range t.Records {
		id, err := t.idOf(i, r)
		if err != nil {
			return nil, err
		}
		if _, dup := index[id]; dup {
			return nil, fmt.Errorf("%s: record %d: duplicate %s %q", t.Location, i, t.Key, id)
		}
		index[id] = r
	}
	return index, nil
}

// idOf renders a record's key as an NFC-normalized string.
func (t *Table) idOf(i int, r record.Map) (string, error) {
	v, ok := r.Get(t.Key)
	if !ok {
		return "", fmt.Errorf("%s: record %d: missing key field %q", t.Location, i, t.Key)
	}
	switch id := v.(type) {
	case record.String:
		return NormalizeID(string(id)), nil
	case record.Int:
		return fmt.Sprintf("%d", int64(id)), nil
	default:
		return "", fmt.Errorf("%s: record %d: key field %q must be a string or integer, got %T", t.Location, i, t.Key, v)
	}
}

// NormalizeID puts an identifier in Unicode NFC so that visually identical
// ids from different sources compare equal.
func NormalizeID(id string) string {
	return norm.NFC.String(id)
}
