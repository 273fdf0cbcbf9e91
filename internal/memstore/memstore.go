// Package memstore serves an in-memory table as a source adapter.
//
// A Store is structurally fixed: it has one dataset and cannot run
// queries, so sources built on it always filter in memory.
package memstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/tabsrc/internal/table"
)

// ErrQueryUnsupported is returned for any non-empty query.
var ErrQueryUnsupported = errors.New("memstore: queries are not supported")

// Store holds a table and the column map it is exposed under.
type Store struct {
	rows      *table.Table
	columnMap table.ColumnMap
}

// New wraps rows. A nil columnMap exposes every column under its own name.
func New(rows *table.Table, columnMap table.ColumnMap) *Store {
	if rows == nil {
		rows = table.New(nil, nil)
	}
	if columnMap == nil {
		columnMap = table.Identity(rows.Columns())
	}
	return &Store{rows: rows, columnMap: columnMap}
}

// Materialize implements source.Adapter.
// Each call returns a fresh copy, so callers may mutate the result.
func (s *Store) Materialize(ctx context.Context, query string) (*table.Table, table.ColumnMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if query != "" {
		return nil, nil, fmt.Errorf("%w: %q", ErrQueryUnsupported, query)
	}
	return s.rows.Clone(), s.columnMap.Clone(), nil
}
