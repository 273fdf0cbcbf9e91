package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/tabsrc/internal/config"
	"github.com/roach88/tabsrc/internal/filesource"
	"github.com/roach88/tabsrc/internal/queryir"
	"github.com/roach88/tabsrc/internal/source"
	"github.com/roach88/tabsrc/internal/store"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeConfig       = "E002" // Sources file missing or invalid
	ErrCodeNotFound     = "E005" // Source not declared
	ErrCodeOpenFailed   = "E006" // Backend could not be opened
	ErrCodeWriteFailed  = "E007" // Output file error
	ErrCodeBadCondition = "E101" // --where could not be parsed

	// Source errors
	ErrCodeInvalidSubtype      = "E110"
	ErrCodeUnsupportedOperator = "E111"
	ErrCodeBackend             = "E112"
)

// openedSource is a configured source and the backend it holds open.
type openedSource struct {
	*source.Source
	closer interface{ Close() error }
}

// Close releases the backend.
func (o *openedSource) Close() error {
	return o.closer.Close()
}

// openSource builds the source declared under name in the sources file,
// applying its declared subtypes and dropped columns.
func openSource(ctx context.Context, opts *RootOptions, out *OutputFormatter, name string) (*openedSource, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, out.Fail(ExitCommandError, ErrCodeConfig, "failed to load sources file", err)
	}
	sc, err := cfg.Lookup(name)
	if err != nil {
		return nil, out.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("unknown source %q", name), err)
	}

	srcOpts := []source.Option{source.WithLogger(logger(opts).With("name", sc.Name))}
	if sc.Strict {
		srcOpts = append(srcOpts, source.WithStrictOperators())
	}

	var (
		adapter source.Adapter
		closer  interface{ Close() error }
	)
	switch sc.Kind {
	case config.KindSQLite:
		st, err := store.Open(sc.Path)
		if err != nil {
			return nil, out.Fail(ExitCommandError, ErrCodeOpenFailed, "failed to open database", err)
		}
		adapter, closer = st, st
		srcOpts = append(srcOpts, source.WithQuery(sc.Query))
	case config.KindFile:
		f, err := filesource.Open(sc.Path)
		if err != nil {
			return nil, out.Fail(ExitCommandError, ErrCodeOpenFailed, "failed to open file", err)
		}
		adapter, closer = f, f
	default:
		return nil, out.Fail(ExitCommandError, ErrCodeConfig, fmt.Sprintf("unknown kind %q", sc.Kind), nil)
	}

	src := &openedSource{Source: source.New(adapter, srcOpts...), closer: closer}
	logger(opts).Debug("source opened", "name", sc.Name, "kind", string(sc.Kind), "id", src.ID())

	if len(sc.Subtypes) > 0 {
		if err := src.SetSubtypes(ctx, sc.Subtypes); err != nil {
			src.Close()
			return nil, failSource(out, "failed to apply subtypes", err)
		}
	}
	if len(sc.Drop) > 0 {
		if err := src.DropColumns(ctx, sc.Drop...); err != nil {
			src.Close()
			return nil, failSource(out, "failed to drop columns", err)
		}
	}
	return src, nil
}

// failSource maps source errors to response codes.
func failSource(out *OutputFormatter, message string, err error) error {
	var se *source.Error
	code := ErrCodeBackend
	if errors.As(err, &se) {
		switch se.Code {
		case source.ErrCodeInvalidSubtype:
			code = ErrCodeInvalidSubtype
		case source.ErrCodeUnsupportedOperator:
			code = ErrCodeUnsupportedOperator
		}
	}
	return out.Fail(ExitFailure, code, message, err)
}

// parseConditions parses each --where flag in order.
func parseConditions(out *OutputFormatter, where []string) ([]queryir.Condition, error) {
	conds := make([]queryir.Condition, 0, len(where))
	for _, w := range where {
		c, err := queryir.ParseCondition(w)
		if err != nil {
			return nil, out.Fail(ExitCommandError, ErrCodeBadCondition, fmt.Sprintf("invalid condition %q", w), err)
		}
		conds = append(conds, c)
	}
	return conds, nil
}

// warningStrings renders the source's warnings for output.
func warningStrings(src *source.Source) []string {
	ws := src.Warnings()
	if len(ws) == 0 {
		return nil
	}
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.String()
	}
	return out
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func logger(opts *RootOptions) *slog.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return slog.Default()
}
