package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tabsrc/internal/datatype"
)

// NewTypesCommand creates the types command.
func NewTypesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "types",
		Short:         "List the semantic types and their subtypes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(rootOpts, cmd)
			categories := datatype.Default().Categories()

			if out.Format == "json" {
				data := make(map[string][]string, len(categories))
				for _, c := range categories {
					data[c.Type] = c.Subtypes
				}
				return out.Success(data)
			}
			for _, c := range categories {
				fmt.Fprintf(out.Writer, "%s: %s\n", c.Type, strings.Join(c.Subtypes, ", "))
			}
			return nil
		},
	}
}
