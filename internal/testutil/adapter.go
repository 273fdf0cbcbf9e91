// Package testutil provides test doubles shared across packages.
package testutil

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/tabsrc/internal/table"
)

// ErrUnexpectedQuery is returned by Adapter for queries it has no answer for.
var ErrUnexpectedQuery = errors.New("unexpected query")

// Adapter is a scripted backend that records every Materialize call.
//
// The empty query and BaseQuery both return Base. Other queries are
// answered from Queries, or fail with ErrUnexpectedQuery. Every returned
// table is a clone, like a real backend returning fresh rows.
type Adapter struct {
	BaseQuery string
	Base      *table.Table
	ColumnMap table.ColumnMap

	// Queries holds canned results keyed by exact query text.
	Queries map[string]*table.Table

	// Err, when set, is returned from every call.
	Err error

	// Calls lists the query text of every call, in order.
	Calls []string
}

// Materialize implements source.Adapter.
func (a *Adapter) Materialize(ctx context.Context, query string) (*table.Table, table.ColumnMap, error) {
	a.Calls = append(a.Calls, query)

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if a.Err != nil {
		return nil, nil, a.Err
	}

	if query == "" || query == a.BaseQuery {
		return a.Base.Clone(), a.columnMap(a.Base), nil
	}
	if t, ok := a.Queries[query]; ok {
		return t.Clone(), a.columnMap(t), nil
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUnexpectedQuery, query)
}

func (a *Adapter) columnMap(t *table.Table) table.ColumnMap {
	if a.ColumnMap != nil {
		return a.ColumnMap.Clone()
	}
	return table.Identity(t.Columns())
}

// CallCount returns the number of Materialize calls so far.
func (a *Adapter) CallCount() int {
	return len(a.Calls)
}
