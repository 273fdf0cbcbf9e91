package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/roach88/tabsrc/internal/datatype"
	"github.com/roach88/tabsrc/internal/querysql"
	"github.com/roach88/tabsrc/internal/table"
)

// Adapter fetches rows from a backend.
//
// Materialize returns the full result of query together with the map from
// external column names to the table's internal column names. An empty
// query asks for the adapter's structural dataset; adapters that cannot
// run queries must fail for any non-empty query. Adapters must fail on
// malformed queries rather than return partial data.
type Adapter interface {
	Materialize(ctx context.Context, query string) (*table.Table, table.ColumnMap, error)
}

// materialized is the cached result of the one materialization entry point.
// rows and columnMap are only ever assigned together.
type materialized struct {
	rows      *table.Table
	columnMap table.ColumnMap
}

// Source is a lazily materialized table.
type Source struct {
	id         uuid.UUID
	adapter    Adapter
	query      string
	isQuery    bool
	logger     *slog.Logger
	registry   *datatype.Registry
	translator *querysql.Translator
	strict     bool

	state *materialized

	// probed is the column map learned from a LIMIT 1 probe of a
	// query-backed source. It is dropped once the source materializes.
	probed table.ColumnMap

	types    map[string]string
	subtypes map[string]string
	warnings []Warning
}

// New creates an unmaterialized Source over adapter.
// Without WithQuery the source is structurally fixed and never attempts
// pushdown.
func New(adapter Adapter, opts ...Option) *Source {
	s := &Source{
		id:         newID(),
		adapter:    adapter,
		logger:     slog.Default(),
		registry:   datatype.Default(),
		translator: querysql.NewTranslator(),
		types:      make(map[string]string),
		subtypes:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newID returns a time-ordered UUIDv7, falling back to a random v4.
func newID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// ID returns the source's identifier, used to correlate log lines.
func (s *Source) ID() string {
	return s.id.String()
}

// IsQueryBacked reports whether the source was created with a base query.
func (s *Source) IsQueryBacked() bool {
	return s.isQuery
}

// Query returns the base query, or "" for structurally fixed sources.
func (s *Source) Query() string {
	return s.query
}

// Materialized reports whether rows have been fetched and cached.
func (s *Source) Materialized() bool {
	return s.state != nil
}

// Reset discards cached rows and column maps. Declared types survive.
func (s *Source) Reset() {
	s.state = nil
	s.probed = nil
}

func (s *Source) log() *slog.Logger {
	return s.logger.With("source", s.id.String())
}

// materialize is the only place that fills the cached state.
func (s *Source) materialize(ctx context.Context) (*materialized, error) {
	if s.state != nil {
		return s.state, nil
	}

	rows, columnMap, err := s.adapter.Materialize(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("materialize: %w", err)
	}
	if rows == nil {
		return nil, errors.New("materialize: adapter returned no table")
	}
	if columnMap == nil {
		columnMap = table.Identity(rows.Columns())
	}

	s.state = &materialized{rows: rows, columnMap: columnMap}
	s.probed = nil

	s.log().Debug("source materialized", "rows", rows.Len(), "columns", len(rows.Columns()))
	return s.state, nil
}

// Rows returns the materialized table, fetching it on first use.
// The returned table is the cached one: DropColumns and SetColumn are
// visible through it.
func (s *Source) Rows(ctx context.Context) (*table.Table, error) {
	st, err := s.materialize(ctx)
	if err != nil {
		return nil, err
	}
	return st.rows, nil
}

// ColumnMap returns the external → internal column map.
//
// Query-backed sources that have not materialized yet learn the map from a
// single-row probe instead of fetching every row. The returned map is
// cached and shared; callers must not modify it.
func (s *Source) ColumnMap(ctx context.Context) (table.ColumnMap, error) {
	if s.state != nil {
		return s.state.columnMap, nil
	}
	if s.probed != nil {
		return s.probed, nil
	}

	if !s.isQuery {
		st, err := s.materialize(ctx)
		if err != nil {
			return nil, err
		}
		return st.columnMap, nil
	}

	_, columnMap, err := s.filter(ctx, nil, 1)
	if err != nil {
		return nil, err
	}
	// The probe may have fallen back to a full materialization.
	if s.state != nil {
		return s.state.columnMap, nil
	}
	s.probed = columnMap
	return s.probed, nil
}

// Len returns the number of materialized rows.
func (s *Source) Len(ctx context.Context) (int, error) {
	st, err := s.materialize(ctx)
	if err != nil {
		return 0, err
	}
	return st.rows.Len(), nil
}

// Column returns the values of an internal column.
func (s *Source) Column(ctx context.Context, name string) ([]any, error) {
	st, err := s.materialize(ctx)
	if err != nil {
		return nil, err
	}
	return st.rows.Column(name)
}

// SetColumn writes a column into the materialized table in place.
func (s *Source) SetColumn(ctx context.Context, name string, values []any) error {
	st, err := s.materialize(ctx)
	if err != nil {
		return err
	}
	return st.rows.SetColumn(name, values)
}

// DropColumns removes columns from the materialized table in place.
// Each name is resolved through the column map first; names that are not
// mapped are treated as internal names.
func (s *Source) DropColumns(ctx context.Context, names ...string) error {
	st, err := s.materialize(ctx)
	if err != nil {
		return err
	}

	internal := make([]string, len(names))
	for i, name := range names {
		internal[i] = st.columnMap.Resolve(name)
	}
	return st.rows.DropColumns(internal...)
}

// SetSubtypes declares column subtypes (external name → subtype).
//
// Columns missing from the column map are skipped with an
// UNKNOWN_COLUMN warning. A subtype that belongs to no type fails the
// whole call with an INVALID_SUBTYPE error and records nothing.
func (s *Source) SetSubtypes(ctx context.Context, subtypes map[string]string) error {
	columnMap, err := s.ColumnMap(ctx)
	if err != nil {
		return err
	}

	types := make(map[string]string, len(subtypes))
	for _, col := range slices.Sorted(maps.Keys(subtypes)) {
		subtype := subtypes[col]
		if !columnMap.Has(col) {
			s.warn(Warning{
				Code:    WarnUnknownColumn,
				Column:  col,
				Message: fmt.Sprintf("column %s not present in your data, ignoring the %q subtype you specified for it", col, subtype),
			})
			continue
		}

		typ, ok := s.registry.Lookup(subtype)
		if !ok {
			return NewInvalidSubtypeError(col, subtype)
		}
		types[col] = typ
	}

	for col, typ := range types {
		s.types[col] = typ
		s.subtypes[col] = subtypes[col]
	}
	return nil
}

// Types returns a copy of the declared column types.
func (s *Source) Types() map[string]string {
	return maps.Clone(s.types)
}

// Subtypes returns a copy of the declared column subtypes.
func (s *Source) Subtypes() map[string]string {
	return maps.Clone(s.subtypes)
}

// Warnings returns the warnings recorded so far.
func (s *Source) Warnings() []Warning {
	return slices.Clone(s.warnings)
}

func (s *Source) warn(w Warning) {
	s.warnings = append(s.warnings, w)
	s.log().Warn(w.Message, "code", string(w.Code), "column", w.Column)
}
