package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/spf13/cobra"

	"github.com/roach88/tabsrc/internal/table"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	FilterOptions
	Out string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{FilterOptions: FilterOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "export <source>",
		Short: "Write filtered rows to an Arrow IPC file",
		Long: `Write the rows of a source that match every condition to an Arrow IPC
file. Column types are inferred from the values.

Example:
  tabsrc export people --where "age > 30" --out adults.arrow`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Where, "where", "w", nil, `condition "column op value" (repeatable)`)
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "maximum number of rows (0 for all)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file (required)")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

// exportResult is the success payload of the export command.
type exportResult struct {
	Path    string   `json:"path"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
}

func (r exportResult) String() string {
	return fmt.Sprintf("wrote %d rows to %s", r.Rows, r.Path)
}

func runExport(opts *ExportOptions, name string, cmd *cobra.Command) error {
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

	if err := writeArrowFile(opts.Out, rows); err != nil {
		return out.Fail(ExitFailure, ErrCodeWriteFailed, "failed to write arrow file", err)
	}
	logger(opts.RootOptions).Debug("exported", "path", opts.Out, "rows", rows.Len())

	return out.Success(exportResult{Path: opts.Out, Rows: rows.Len(), Columns: rows.Columns()},
		warningStrings(src.Source)...)
}

// writeArrowFile writes tbl as a single record batch.
func writeArrowFile(path string, tbl *table.Table) (err error) {
	mem := memory.NewGoAllocator()
	rec, err := tbl.ToArrow(mem)
	if err != nil {
		return err
	}
	defer rec.Release()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	w, err := ipc.NewFileWriter(f, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	if err != nil {
		return fmt.Errorf("create writer: %w", err)
	}
	if err := w.Write(rec); err != nil {
		w.Close()
		return fmt.Errorf("write record: %w", err)
	}
	return w.Close()
}
