package job

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ntmerge/internal/source"
	"github.com/roach88/ntmerge/merge"
	"github.com/roach88/ntmerge/record"
)

const namesYAML = `
key: id
records:
  - {id: "GO:1", name: nucleus}
  - {id: "GO:2", name: cytoplasm}
  - {id: "GO:3", name: membrane}
`

const depthsYAML = `
key: id
records:
  - {id: "GO:2", depth: 3, name: "cytoplasm (depths)"}
  - {id: "GO:1", depth: 4}
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"job.yaml": `
fields: [id, name, depth]
default: "-"
sources:
  - names.yaml
  - /abs/depths.yaml
  - file:///remote/x.yaml
output:
  path: out/terms.go
  package: goterms
  var: terms
  doc: GO terms.
`,
	})

	j, err := Load(filepath.Join(dir, "job.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ModeKeyed, j.Mode, "mode defaults to keyed")
	assert.Equal(t, []string{"id", "name", "depth"}, j.Fields)
	assert.Equal(t, []string{
		filepath.Join(dir, "names.yaml"),
		"/abs/depths.yaml",
		"file:///remote/x.yaml",
	}, j.Sources)
	require.NotNil(t, j.Output)
	assert.Equal(t, filepath.Join(dir, "out", "terms.go"), j.Output.Path)
	assert.Equal(t, "goterms", j.Output.Package)
	assert.Equal(t, "terms", j.Output.Var)
	assert.Equal(t, "GO terms.", j.Output.Doc)

	dflt, err := j.DefaultValue()
	require.NoError(t, err)
	assert.Equal(t, record.String("-"), dflt)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		errMsg string
	}{
		{"unknown field", "fields: [id]\nsources: [a.yaml]\nsource: [b.yaml]\n", "failed to parse YAML"},
		{"no fields", "sources: [a.yaml]\n", "fields list is required"},
		{"duplicate fields", "fields: [id, id]\nsources: [a.yaml]\n", "duplicate field"},
		{"no sources", "fields: [id]\n", "sources list is required"},
		{"blank source", "fields: [id]\nsources: [' ']\n", "sources[0]"},
		{"bad mode", "mode: outer\nfields: [id]\nsources: [a.yaml]\n", `unknown mode "outer"`},
		{"zip with ids", "mode: zip\nfields: [id]\nids: [A]\nsources: [a.yaml]\n", "keyed merges only"},
		{"bad default", "fields: [id]\ndefault: {a: 1}\nsources: [a.yaml]\n", "default"},
		{"output without path", "fields: [id]\nsources: [a.yaml]\noutput: {package: x}\n", "output: path is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFiles(t, map[string]string{"job.yaml": tt.yaml})
			_, err := Load(filepath.Join(dir, "job.yaml"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read job file")
}

func TestDefaultValue(t *testing.T) {
	j := &Job{}
	v, err := j.DefaultValue()
	require.NoError(t, err)
	assert.Equal(t, merge.EmptyDefault, v)

	j.Default = 0
	v, err = j.DefaultValue()
	require.NoError(t, err)
	assert.Equal(t, record.Int(0), v)
}

func TestRunKeyed(t *testing.T) {
	dir := writeFiles(t, map[string]string{"names.yaml": namesYAML, "depths.yaml": depthsYAML})
	j := &Job{
		Fields:  []string{"id", "name", "depth"},
		Sources: []string{filepath.Join(dir, "names.yaml"), filepath.Join(dir, "depths.yaml")},
	}

	res, err := Run(context.Background(), source.NewLoader(nil), j)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Tables)
	assert.Equal(t, []string{"GO:1", "GO:2", "GO:3"}, res.IDs, "ids follow the first source")
	require.Len(t, res.Records, 3)
	assert.Equal(t, `Nt(id="GO:1", name="nucleus", depth=4)`, res.Records[0].String())
	assert.Equal(t, `Nt(id="GO:2", name="cytoplasm", depth=3)`, res.Records[1].String())
	assert.Equal(t, `Nt(id="GO:3", name="membrane", depth="")`, res.Records[2].String())
}

func TestRunKeyedExplicitIDs(t *testing.T) {
	dir := writeFiles(t, map[string]string{"names.yaml": namesYAML, "depths.yaml": depthsYAML})
	j := &Job{
		Fields:  []string{"name", "depth"},
		Default: "n/a",
		IDs:     []string{"GO:2", "GO:9"},
		Sources: []string{filepath.Join(dir, "depths.yaml"), filepath.Join(dir, "names.yaml")},
	}

	res, err := Run(context.Background(), source.NewLoader(nil), j)
	require.NoError(t, err)

	assert.Equal(t, []string{"GO:2", "GO:9"}, res.IDs)
	assert.Equal(t, `Nt(name="cytoplasm (depths)", depth=3)`, res.Records[0].String())
	assert.Equal(t, `Nt(name="n/a", depth="n/a")`, res.Records[1].String())
}

func TestRunKeyedDuplicateIDs(t *testing.T) {
	dir := writeFiles(t, map[string]string{"names.yaml": namesYAML})
	j := &Job{
		Fields:  []string{"name"},
		IDs:     []string{"GO:1", "GO:2", "GO:1"},
		Sources: []string{filepath.Join(dir, "names.yaml")},
	}

	_, err := Run(context.Background(), source.NewLoader(nil), j)
	require.Error(t, err)
	assert.True(t, merge.IsDuplicateIDError(err))
}

func TestRunKeyedSourceWithoutKey(t *testing.T) {
	dir := writeFiles(t, map[string]string{"rows.yaml": "records: [{name: a}]\n"})
	j := &Job{Fields: []string{"name"}, Sources: []string{filepath.Join(dir, "rows.yaml")}}

	_, err := Run(context.Background(), source.NewLoader(nil), j)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no key field configured")
}

func TestRunZip(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.yaml": "records: [{id: 1}, {id: 2}]\n",
		"b.yaml": "records: [{label: one}, {id: 20, label: two}]\n",
	})
	j := &Job{
		Mode:    ModeZip,
		Fields:  []string{"id", "label"},
		Sources: []string{filepath.Join(dir, "a.yaml"), filepath.Join(dir, "b.yaml")},
	}

	res, err := Run(context.Background(), source.NewLoader(nil), j)
	require.NoError(t, err)

	assert.Nil(t, res.IDs)
	require.Len(t, res.Records, 2)
	assert.Equal(t, `Nt(id=1, label="one")`, res.Records[0].String())
	assert.Equal(t, `Nt(id=2, label="two")`, res.Records[1].String())
}

func TestRunZipLengthMismatch(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.yaml": "records: [{id: 1}, {id: 2}, {id: 3}]\n",
		"b.yaml": "records: [{id: 1}, {id: 2}]\n",
	})
	j := &Job{
		Mode:    ModeZip,
		Fields:  []string{"id"},
		Sources: []string{filepath.Join(dir, "a.yaml"), filepath.Join(dir, "b.yaml")},
	}

	_, err := Run(context.Background(), source.NewLoader(nil), j)
	require.Error(t, err)
	assert.True(t, merge.IsLengthMismatchError(err))
	assert.Contains(t, err.Error(), "[3 2]")
}

func TestRunValidates(t *testing.T) {
	_, err := Run(context.Background(), source.NewLoader(nil), &Job{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid job")
}
