package job

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ntmerge/record"
)

// Merge modes.
const (
	ModeKeyed = "keyed"
	ModeZip   = "zip"
)

// Job describes one merge run: where the records come from, which fields the
// merged records carry and where the result goes.
type Job struct {
	// Mode selects the merge driver: "keyed" (default) or "zip".
	Mode string `yaml:"mode,omitempty"`

	// Fields lists the merged record's fields in order.
	Fields []string `yaml:"fields"`

	// Default fills fields no source defines. Absent or null means "".
	Default any `yaml:"default,omitempty"`

	// IDs selects and orders the merged records of a keyed merge.
	// When empty, the ids of the first source are used in source order.
	IDs []string `yaml:"ids,omitempty"`

	// Sources lists table locations in priority order.
	// Relative file paths are resolved against the job file's directory.
	Sources []string `yaml:"sources"`

	// Output optionally writes the merged records as a Go listing.
	Output *Output `yaml:"output,omitempty"`
}

// Output configures the listing written after a merge.
type Output struct {
	Path    string `yaml:"path"`
	Package string `yaml:"package,omitempty"`
	Var     string `yaml:"var,omitempty"`
	Doc     string `yaml:"doc,omitempty"`
}

// Load reads and parses a job YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "field:" vs "fields:")
	var job Job
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&job); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	job.resolvePaths(filepath.Dir(path))

	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job: %w", err)
	}

	return &job, nil
}

// resolvePaths makes relative file locations relative to baseDir.
func (j *Job) resolvePaths(baseDir string) {
	for i, src := range j.Sources {
		if !strings.Contains(src, "://") && !filepath.IsAbs(src) {
			j.Sources[i] = filepath.Join(baseDir, src)
		}
	}
	if j.Output != nil && j.Output.Path != "" && !filepath.IsAbs(j.Output.Path) {
		j.Output.Path = filepath.Join(baseDir, j.Output.Path)
	}
}

// Validate checks that required fields are present and valid.
func (j *Job) Validate() error {
	if j.Mode == "" {
		j.Mode = ModeKeyed
	}
	if j.Mode != ModeKeyed && j.Mode != ModeZip {
		return fmt.Errorf("unknown mode %q (must be %s or %s)", j.Mode, ModeKeyed, ModeZip)
	}

	if len(j.Fields) == 0 {
		return fmt.Errorf("fields list is required and must be non-empty")
	}
	if _, err := record.NewSchema("Nt", j.Fields...); err != nil {
		return fmt.Errorf("fields: %w", err)
	}

	if len(j.Sources) == 0 {
		return fmt.Errorf("sources list is required and must be non-empty")
	}
	for i, src := range j.Sources {
		if strings.TrimSpace(src) == "" {
			return fmt.Errorf("sources[%d]: location is required", i)
		}
	}

	if j.Mode == ModeZip && len(j.IDs) > 0 {
		return fmt.Errorf("ids apply to keyed merges only")
	}

	if _, err := j.DefaultValue(); err != nil {
		return fmt.Errorf("default: %w", err)
	}

	if j.Output != nil && j.Output.Path == "" {
		return fmt.Errorf("output: path is required")
	}

	return nil
}

// DefaultValue returns the configured fill value.
func (j *Job) DefaultValue() (record.Value, error) {
	if j.Default == nil {
		return record.String(""), nil
	}
	return record.FromAny(j.Default)
}
