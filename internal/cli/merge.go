package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/ntmerge/internal/job"
)

// mergeFlags holds the flags shared by the merge and zip commands.
type mergeFlags struct {
	fields  []string
	dflt    string
	ids     []string
	output  string
	pkg     string
	varName string
	doc     string
}

// NewMergeCommand creates the merge command.
func NewMergeCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &mergeFlags{}

	cmd := &cobra.Command{
		Use:   "merge --fields <f1,f2,...> <source>...",
		Short: "Merge tables by identifier",
		Long: `Merge records from several tables by identifier.

Sources are listed in priority order. Each merged record takes a field from the
first source whose record for that identifier has it; fields no source defines
get the default. Records come out in the order of --ids, or in the order of the
first source when --ids is not given.

Sources are YAML, JSON or CUE table documents (optionally .gz or .zst), or
SQLite databases with ?table=NAME or ?query=SQL. Append ?key=FIELD to choose
the identifier field.`,
		Example: `  ntmerge merge --fields id,name,depth names.yaml depths.db?table=terms&key=id
  ntmerge merge --fields name --ids GO:1,GO:2 -o goterms/terms.go names.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeJob(rootOpts, flags.job(job.ModeKeyed, args), cmd)
		},
	}

	flags.register(cmd, true)
	return cmd
}

// NewZipCommand creates the zip command.
func NewZipCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &mergeFlags{}

	cmd := &cobra.Command{
		Use:   "zip --fields <f1,f2,...> <source>...",
		Short: "Merge equal-length tables by position",
		Long: `Merge records from several tables by position.

The i-th merged record combines the i-th record of every source, in priority
order. All sources must hold the same number of records.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeJob(rootOpts, flags.job(job.ModeZip, args), cmd)
		},
	}

	flags.register(cmd, false)
	return cmd
}

func (f *mergeFlags) register(cmd *cobra.Command, withIDs bool) {
	cmd.Flags().StringSliceVar(&f.fields, "fields", nil, "merged record fields, in order (required)")
	cmd.Flags().StringVar(&f.dflt, "default", "", "value for fields no source defines")
	if withIDs {
		cmd.Flags().StringSliceVar(&f.ids, "ids", nil, "identifiers to merge, in output order (default: first source's ids)")
	}
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the merged records as a Go listing to this file")
	cmd.Flags().StringVar(&f.pkg, "package", "", "package name of the listing (default: derived from the output directory)")
	cmd.Flags().StringVar(&f.varName, "var", "", "variable holding the records in the listing (default \"nts\")")
	cmd.Flags().StringVar(&f.doc, "doc", "", "package comment of the listing")
	_ = cmd.MarkFlagRequired("fields")
}

// job builds the job described by the flags and source arguments.
func (f *mergeFlags) job(mode string, sources []string) *job.Job {
	j := &job.Job{
		Mode:    mode,
		Fields:  splitList(f.fields),
		Default: f.dflt,
		IDs:     splitList(f.ids),
		Sources: sources,
	}
	if f.output != "" {
		j.Output = &job.Output{
			Path:    f.output,
			Package: f.pkg,
			Var:     f.varName,
			Doc:     f.doc,
		}
	}
	return j
}
