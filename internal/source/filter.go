package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/tabsrc/internal/queryir"
	"github.com/roach88/tabsrc/internal/querysql"
	"github.com/roach88/tabsrc/internal/rowfilter"
	"github.com/roach88/tabsrc/internal/table"
)

// Filter returns the rows matching every condition, at most limit rows
// when limit > 0.
//
// Query-backed sources first try to run the filter on the backend; this
// never changes the source's cached state. If that is not possible the
// conditions are evaluated against the materialized rows. The result is
// always a new table; the cached rows are never modified.
func (s *Source) Filter(ctx context.Context, conds []queryir.Condition, limit int) (*table.Table, error) {
	rows, _, err := s.filter(ctx, conds, limit)
	return rows, err
}

// filter runs the pushdown → fallback pipeline and also returns the column
// map of the result.
func (s *Source) filter(ctx context.Context, conds []queryir.Condition, limit int) (*table.Table, table.ColumnMap, error) {
	if s.isQuery {
		rows, columnMap, failed := s.pushdown(ctx, conds, limit)
		if failed == nil {
			return rows, columnMap, nil
		}
		s.log().Debug("pushdown failed, filtering in memory",
			"stage", string(failed.Stage),
			"error", failed.Err)
	}

	rows, err := s.filterInMemory(ctx, conds, limit)
	if err != nil {
		return nil, nil, err
	}
	return rows, s.state.columnMap, nil
}

// pushdown translates and executes conds on the backend.
// A non-nil Failed means the caller must fall back.
func (s *Source) pushdown(ctx context.Context, conds []queryir.Condition, limit int) (*table.Table, table.ColumnMap, *querysql.Failed) {
	var query string
	switch out := s.translator.Translate(s.query, conds, limit).(type) {
	case querysql.Failed:
		return nil, nil, &out
	case querysql.Translated:
		for _, w := range out.Warnings {
			s.warn(Warning{Code: WarnUnknownOperator, Message: w})
		}
		query = out.Query
	}

	rows, columnMap, err := s.adapter.Materialize(ctx, query)
	if err == nil && rows == nil {
		err = errors.New("adapter returned no table")
	}
	if err != nil {
		return nil, nil, &querysql.Failed{Stage: querysql.StageExecute, Err: err}
	}
	if columnMap == nil {
		columnMap = table.Identity(rows.Columns())
	}

	s.log().Debug("filter pushed down", "query", query, "rows", rows.Len())
	return rows, columnMap, nil
}

// filterInMemory materializes the source and applies conds one by one.
func (s *Source) filterInMemory(ctx context.Context, conds []queryir.Condition, limit int) (*table.Table, error) {
	st, err := s.materialize(ctx)
	if err != nil {
		return nil, err
	}

	check := queryir.Validate(conds)
	for _, i := range check.Unsupported {
		c := conds[i]
		if s.strict {
			return nil, NewUnsupportedOperatorError(c.Column, c.Op())
		}
		s.warn(Warning{
			Code:    WarnUnknownOperator,
			Column:  c.Column,
			Message: fmt.Sprintf("operator %q is ignored by the in-memory filter", c.Op()),
		})
	}

	out := st.rows
	for _, c := range conds {
		c.Column = st.columnMap.Resolve(c.Column)
		if out, err = rowfilter.Apply(out, c); err != nil {
			return nil, fmt.Errorf("filter in memory: %w", err)
		}
	}

	if out == st.rows {
		return st.rows.Head(limit), nil
	}
	return rowfilter.Limit(out, limit), nil
}
