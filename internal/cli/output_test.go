package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ntmerge/internal/job"
	"github.com/roach88/ntmerge/merge"
	"github.com/roach88/ntmerge/record"
)

func TestMergeErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		code     merge.ErrorCode
		wantCode string
		wantExit int
	}{
		{"duplicate ids", merge.ErrCodeDuplicateIDs, ErrCodeDuplicateIDs, ExitFailure},
		{"length mismatch", merge.ErrCodeLengthMismatch, ErrCodeLengthMismatch, ExitFailure},
		{"invalid fields", merge.ErrCodeInvalidFields, ErrCodeInvalidFields, ExitCommandError},
		{"unknown code", merge.ErrorCode("SOMETHING_ELSE"), ErrCodeGeneric, ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &merge.Error{Code: tt.code, Message: "m", Details: map[string]string{"k": "v"}}
			err := fmt.Errorf("keyed merge: %w", src)

			code, exit, details, ok := mergeErrorCode(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantExit, exit)
			assert.Equal(t, map[string]string{"k": "v"}, details)
		})
	}
}

func TestMergeErrorCodeIgnoresOtherErrors(t *testing.T) {
	_, _, _, ok := mergeErrorCode(errors.New("names.yaml: download failed"))
	assert.False(t, ok)
}

func TestWrapExitErrorKeepsMergeError(t *testing.T) {
	_, err := merge.Zip([][]record.Map{{{}}, {}}, []string{"id"}, merge.EmptyDefault)
	require.Error(t, err)

	wrapped := WrapExitError(ExitFailure, ErrCodeLengthMismatch, err)
	assert.Equal(t, ExitFailure, GetExitCode(fmt.Errorf("zip: %w", wrapped)))
	assert.True(t, merge.IsLengthMismatchError(wrapped))
	assert.Equal(t, "E202: LENGTH_MISMATCH: list lengths must be equal: [1 0]", wrapped.Error())
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain error", errors.New("boom"), ExitFailure},
		{"command error", NewExitError(ExitCommandError, "E205: fields list is required"), ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestMergeResultString(t *testing.T) {
	nt := record.MustSchema(merge.RecordName, "id", "name")

	keyed := MergeResult{
		Mode:    job.ModeKeyed,
		Sources: 2,
		Count:   2,
		Records: []MergedRecord{
			{ID: "GO:1", Record: nt.Make(record.String("GO:1"), record.String("nucleus"))},
			{ID: "", Record: nt.Make(record.String(""), record.String("blank id"))},
		},
	}
	assert.Equal(t,
		"GO:1\tNt(id=\"GO:1\", name=\"nucleus\")\n\tNt(id=\"\", name=\"blank id\")\n\n✓ Merged 2 record(s) from 2 source(s)",
		keyed.String())

	zipped := MergeResult{
		Mode:    job.ModeZip,
		Sources: 1,
		Count:   1,
		Records: []MergedRecord{{Record: nt.Make(record.Int(1), record.String("x"))}},
	}
	assert.Equal(t, "Nt(id=1, name=\"x\")\n\n✓ Merged 1 record(s) from 1 source(s)", zipped.String())
}

func TestOutputFormatterTextUsesMergeResultString(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}
	res := MergeResult{Mode: job.ModeZip, Sources: 1}

	require.NoError(t, formatter.Success(res))
	assert.Equal(t, res.String()+"\n", buf.String())
}

func TestOutputFormatterJSONResponses(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf, RunID: "run-7"}

	require.NoError(t, formatter.Error(ErrCodeDuplicateIDs, "not all ids are unique: [A A]", map[string]string{"duplicate": "A"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "run-7", resp.RunID)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E201", resp.Error.Code)
	assert.Equal(t, map[string]any{"duplicate": "A"}, resp.Error.Details)
}

func TestOutputFormatterJSONRejectsNaN(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}
	nt := record.MustSchema(merge.RecordName, "score")

	err := formatter.Success(MergeResult{
		Mode:    job.ModeZip,
		Records: []MergedRecord{{Record: nt.Make(record.Float(math.NaN()))}},
	})
	require.Error(t, err)
	assert.Empty(t, buf.String(), "nothing is written when encoding fails")
}

func TestOutputFormatterTextErrorDetailsOnlyWhenVerbose(t *testing.T) {
	details := map[string]string{"path": "goterms/terms.go"}

	quiet := &bytes.Buffer{}
	(&OutputFormatter{Format: "text", Writer: quiet}).Error(ErrCodeWriteFailed, "create listing: no such directory", details)
	assert.Equal(t, "Error [E007]: create listing: no such directory\n", quiet.String())

	loud := &bytes.Buffer{}
	(&OutputFormatter{Format: "text", Writer: loud, Verbose: true}).Error(ErrCodeWriteFailed, "create listing: no such directory", details)
	assert.Contains(t, loud.String(), "Details: map[path:goterms/terms.go]")
}

func TestVerboseLogRoutesToErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	(&OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut}).VerboseLog("loading %d source(s)", 2)
	assert.Empty(t, errOut.String(), "silent without -v")

	(&OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: true}).VerboseLog("loading %d source(s)", 2)
	assert.Empty(t, out.String())
	assert.Equal(t, "loading 2 source(s)\n", errOut.String())
}
