package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ntmerge/internal/job"
	"github.com/roach88/ntmerge/internal/source"
	"github.com/roach88/ntmerge/listing"
	"github.com/roach88/ntmerge/record"
)

// MergeResult is the JSON payload of a successful merge.
type MergeResult struct {
	Mode    string         `json:"mode"`
	Fields  []string       `json:"fields"`
	Sources int            `json:"sources"`
	Count   int            `json:"count"`
	Records []MergedRecord `json:"records"`
	Output  string         `json:"output,omitempty"`
}

// MergedRecord pairs a merged record with its identifier.
// ID is empty for positional merges.
type MergedRecord struct {
	ID     string        `json:"id,omitempty"`
	Record record.Record `json:"record"`
}

// executeJob validates j, runs it and reports the outcome.
// All merge commands end here.
func executeJob(opts *RootOptions, j *job.Job, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
		RunID:     opts.runID,
	}
	logger := opts.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if err := j.Validate(); err != nil {
		return outputCommandError(formatter, ErrCodeInvalidJob, err.Error(), nil)
	}
	formatter.VerboseLog("Merging %d source(s) into fields %v", len(j.Sources), j.Fields)

	res, err := job.Run(cmd.Context(), source.NewLoader(logger), j)
	if err != nil {
		if code, exit, details, ok := mergeErrorCode(err); ok {
			_ = formatter.Error(code, err.Error(), details)
			return WrapExitError(exit, code, err)
		}
		code := ErrCodeSourceLoad
		if errors.Is(err, fs.ErrNotExist) {
			code = ErrCodeNotFound
		}
		return outputCommandError(formatter, code, err.Error(), nil)
	}
	logger.Info("merge complete", "mode", j.Mode, "records", len(res.Records), "sources", res.Tables)

	var outPath string
	if j.Output != nil {
		status := formatter.Writer
		if formatter.Format == "json" {
			status = formatter.GetErrWriter()
		}
		wrote, err := listing.WriteFile(j.Output.Path, res.Records, listing.Options{
			Doc:     j.Output.Doc,
			VarName: j.Output.Var,
			Package: j.Output.Package,
			Now:     opts.Now,
			Status:  status,
			Logger:  logger,
		})
		if err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, err.Error(), map[string]string{"path": j.Output.Path})
			return WrapExitError(ExitCommandError, ErrCodeWriteFailed, err)
		}
		if wrote {
			outPath = j.Output.Path
		}
	}

	if err := formatter.Success(newMergeResult(j, res, outPath)); err != nil {
		// NaN and Inf values have no JSON form
		return outputCommandError(formatter, ErrCodeGeneric, err.Error(), nil)
	}
	return nil
}

func newMergeResult(j *job.Job, res *job.Result, outPath string) MergeResult {
	out := MergeResult{
		Mode:    j.Mode,
		Fields:  j.Fields,
		Sources: res.Tables,
		Count:   len(res.Records),
		Records: make([]MergedRecord, len(res.Records)),
		Output:  outPath,
	}
	for i, r := range res.Records {
		out.Records[i].Record = r
		if res.IDs != nil {
			out.Records[i].ID = res.IDs[i]
		}
	}
	return out
}

// String renders the text output: one line per record, prefixed by its id in
// keyed mode, then a summary line.
func (r MergeResult) String() string {
	var b strings.Builder
	for _, m := range r.Records {
		if r.Mode == job.ModeKeyed {
			b.WriteString(m.ID)
			b.WriteByte('\t')
		}
		b.WriteString(m.Record.String())
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\n✓ Merged %d record(s) from %d source(s)", r.Count, r.Sources)
	return b.String()
}

// outputCommandError reports a command-level error (exit code 2).
func outputCommandError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// splitList splits a comma-separated flag value, dropping blanks around items.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}
