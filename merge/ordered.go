package merge

import (
	"iter"

	"github.com/roach88/ntmerge/record"
)

// Ordered maps identifiers to merged records and remembers identifier order.
// It is built by Dict and never modified afterwards.
type Ordered[K comparable] struct {
	keys  []K
	byKey map[K]record.Record
	recs  []record.Record
}

// Len returns the number of identifiers.
func (o *Ordered[K]) Len() int { return len(o.keys) }

// Keys returns the identifiers in input order.
func (o *Ordered[K]) Keys() []K { return append([]K(nil), o.keys...) }

// Get returns the merged record for id.
func (o *Ordered[K]) Get(id K) (record.Record, bool) {
	r, ok := o.byKey[id]
	return r, ok
}

// Records returns the merged records in identifier order.
func (o *Ordered[K]) Records() []record.Record { return append([]record.Record(nil), o.recs...) }

// All iterates over identifier/record pairs in identifier order.
func (o *Ordered[K]) All() iter.Seq2[K, record.Record] {
	return func(yield func(K, record.Record) bool) {
		for i, k := range o.keys {
			if !yield(k, o.recs[i]) {
				return
			}
		}
	}
}
