package cli

import (
	"github.com/spf13/cobra"
)

// FilterOptions holds flags for the filter command.
type FilterOptions struct {
	*RootOptions
	Where []string
	Limit int
}

// NewFilterCommand creates the filter command.
func NewFilterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FilterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "filter <source>",
		Short: "Print the rows of a source that match every condition",
		Long: `Print the rows of a source that match every condition.

Conditions have the form "column operator value" and are applied in the
order given. Quote string values that contain spaces.

Example:
  tabsrc filter people --where "age > 30" --where "city like '%ber%'"
  tabsrc filter events --limit 20 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Where, "where", "w", nil, `condition "column op value" (repeatable)`)
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "maximum number of rows (0 for all)")

	return cmd
}

func runFilter(opts *FilterOptions, name string, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)
	ctx := commandContext(cmd)

	conds, err := parseConditions(out, opts.Where)
	if err != nil {
		return err
	}

	src, err := openSource(ctx, opts.RootOptions, out, name)
	if err != nil {
		return err
	}
	defer src.Close()

	rows, err := src.Filter(ctx, conds, opts.Limit)
	if err != nil {
		return failSource(out, "filter failed", err)
	}
	return out.Table(rows, warningStrings(src.Source)...)
}
