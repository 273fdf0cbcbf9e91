package cli

import (
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewColumnsCommand creates the columns command.
func NewColumnsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "columns <source>",
		Short: "List the columns of a source",
		Long: `List the columns of a source with their internal names and declared
types. Query-backed sources are probed with a one-row query instead of
being read in full.

Example:
  tabsrc columns people`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runColumns(rootOpts, args[0], cmd)
		},
	}
}

// columnInfo describes one external column.
type columnInfo struct {
	Name     string `json:"name"`
	Internal string `json:"internal"`
	Type     string `json:"type,omitempty"`
	Subtype  string `json:"subtype,omitempty"`
}

func runColumns(opts *RootOptions, name string, cmd *cobra.Command) error {
	out := newFormatter(opts, cmd)
	ctx := commandContext(cmd)

	src, err := openSource(ctx, opts, out, name)
	if err != nil {
		return err
	}
	defer src.Close()

	cm, err := src.ColumnMap(ctx)
	if err != nil {
		return failSource(out, "failed to read columns", err)
	}

	types, subtypes := src.Types(), src.Subtypes()
	infos := make([]columnInfo, 0, len(cm))
	for _, c := range slices.Sorted(maps.Keys(cm)) {
		infos = append(infos, columnInfo{Name: c, Internal: cm[c], Type: types[c], Subtype: subtypes[c]})
	}

	if out.Format == "json" {
		return out.Success(infos, warningStrings(src.Source)...)
	}

	tw := tabwriter.NewWriter(out.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tINTERNAL\tTYPE\tSUBTYPE")
	for _, c := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Name, c.Internal, c.Type, c.Subtype)
	}
	return tw.Flush()
}
