package source

import (
	"log/slog"

	"github.com/roach88/tabsrc/internal/datatype"
	"github.com/roach88/tabsrc/internal/querysql"
)

// Option configures a Source.
type Option func(*Source)

// WithQuery marks the source as query-backed with the given base query.
// An empty query leaves the source structurally fixed.
func WithQuery(query string) Option {
	return func(s *Source) {
		s.query = query
		s.isQuery = query != ""
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRegistry overrides the subtype registry used by SetSubtypes.
func WithRegistry(r *datatype.Registry) Option {
	return func(s *Source) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithTranslator overrides the SQL translator used for pushdown.
func WithTranslator(tr *querysql.Translator) Option {
	return func(s *Source) {
		if tr != nil {
			s.translator = tr
		}
	}
}

// WithStrictOperators makes in-memory filtering fail with
// ErrCodeUnsupportedOperator instead of ignoring operators it cannot
// evaluate.
func WithStrictOperators() Option {
	return func(s *Source) {
		s.strict = true
	}
}
