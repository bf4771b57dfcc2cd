package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ntmerge/record"
)

// document is the YAML/JSON table layout.
type document struct {
	Key     string           `yaml:"key"`
	Records []map[string]any `yaml:"records"`
}

// decodeYAML parses a table document. JSON is accepted as a YAML subset.
func decodeYAML(data []byte) (*Table, error) {
	var doc document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	table := &Table{Key: doc.Key, Records: make([]record.Map, 0, len(doc.Records))}
	for i, raw := range doc.Records {
		m, err := record.MapFromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("records[%d]: %w", i, err)
		}
		table.Records = append(table.Records, m)
	}
	return table, nil
}
