package job

import (
	"context"
	"fmt"

	"github.com/roach88/ntmerge/internal/source"
	"github.com/roach88/ntmerge/merge"
	"github.com/roach88/ntmerge/record"
)

// Result holds the merged records of a job run.
type Result struct {
	// Records are the merged records in output order.
	Records []record.Record

	// IDs are the identifiers of a keyed merge, parallel to Records.
	IDs []string

	// Tables is the number of source tables merged.
	Tables int
}

// Run loads the job's sources and merges them.
func Run(ctx context.Context, loader *source.Loader, j *Job) (*Result, error) {
	if err := j.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job: %w", err)
	}
	dflt, err := j.DefaultValue()
	if err != nil {
		return nil, err
	}

	tables, err := loader.LoadAll(ctx, j.Sources)
	if err != nil {
		return nil, err
	}

	if j.Mode == ModeZip {
		lists := make([][]record.Map, len(tables))
		for i, t := range tables {
			lists[i] = t.Records
		}
		recs, err := merge.Zip(lists, j.Fields, dflt)
		if err != nil {
			return nil, err
		}
		return &Result{Records: recs, Tables: len(tables)}, nil
	}

	indexes := make([]map[string]record.Map, len(tables))
	for i, t := range tables {
		idx, err := t.Index()
		if err != nil {
			return nil, err
		}
		indexes[i] = idx
	}

	ids, err := j.keyedIDs(tables[0])
	if err != nil {
		return nil, err
	}

	merged, err := merge.Dict(ids, indexes, j.Fields, dflt)
	if err != nil {
		return nil, err
	}
	return &Result{Records: merged.Records(), IDs: merged.Keys(), Tables: len(tables)}, nil
}

// keyedIDs returns the configured ids, or the first table's ids in source order.
func (j *Job) keyedIDs(first *source.Table) ([]string, error) {
	if len(j.IDs) == 0 {
		return first.IDs()
	}
	ids := make([]string, len(j.IDs))
	for i, id := range j.IDs {
		ids[i] = source.NormalizeID(id)
	}
	return ids, nil
}
