package cli

import (
	"errors"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/roach88/ntmerge/internal/job"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <job.yaml>",
		Short: "Run a merge described by a job file",
		Long: `Run a merge described by a YAML job file.

The job file names the mode, the fields, the default, the sources and an
optional listing output. Relative paths in it are resolved against the job
file's directory. Unknown keys are rejected.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJobFile(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runJobFile(opts *RootOptions, path string, cmd *cobra.Command) error {
	j, err := job.Load(path)
	if err != nil {
		formatter := &OutputFormatter{
			Format: opts.Format,
			Writer: cmd.OutOrStdout(),
			RunID:  opts.runID,
		}
		code := ErrCodeInvalidJob
		if errors.Is(err, fs.ErrNotExist) {
			code = ErrCodeNotFound
		}
		return outputCommandError(formatter, code, err.Error(), map[string]string{"path": path})
	}
	return executeJob(opts, j, cmd)
}
