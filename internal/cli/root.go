package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// RunIDs tags each invocation's log lines. Defaults to UUIDv7Generator.
	RunIDs RunIDGenerator

	// Now stamps generated listings. Defaults to time.Now.
	Now func() time.Time

	runID  string
	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the ntmerge CLI.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithOptions(&RootOptions{})
}

// NewRootCommandWithOptions creates the root command around caller-supplied options.
// Tests use it to pin the run id generator and the clock.
func NewRootCommandWithOptions(opts *RootOptions) *cobra.Command {
	if opts.RunIDs == nil {
		opts.RunIDs = UUIDv7Generator{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cmd := &cobra.Command{
		Use:   "ntmerge",
		Short: "ntmerge - merge record tables into one field set",
		Long: `Merge records from several tables into records with a combined field list.

Records are matched by identifier (merge) or by position (zip). Each field is
taken from the first source that defines it; the default fills the rest. The
result can be written as a Go listing that rebuilds the records.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			opts.runID = opts.RunIDs.Generate()
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.Verbose).With("run_id", opts.runID)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewMergeCommand(opts))
	cmd.AddCommand(NewZipCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
