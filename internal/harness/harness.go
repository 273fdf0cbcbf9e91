package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/roach88/tabsrc/internal/memstore"
	"github.com/roach88/tabsrc/internal/queryir"
	"github.com/roach88/tabsrc/internal/source"
	"github.com/roach88/tabsrc/internal/store"
	"github.com/roach88/tabsrc/internal/table"
)

// Harness executes one scenario against a fresh backend.
type Harness struct {
	src      *source.Source
	recorder *recorder
	logger   *slog.Logger
	closers  []io.Closer
}

// recorder wraps the backend and appends every call to the trace.
type recorder struct {
	backend source.Adapter
	step    int
	result  *Result
}

func (r *recorder) Materialize(ctx context.Context, query string) (*table.Table, table.ColumnMap, error) {
	rows, cm, err := r.backend.Materialize(ctx, query)
	r.result.Trace = append(r.result.Trace, TraceEvent{Step: r.step, Query: query, Failed: err != nil})
	return rows, cm, err
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against its own backend: an in-memory SQLite
// database for BackendSQLite, a memstore for BackendMemory.
//
// Execution flow:
// 1. Seed the backend with the scenario table
// 2. Open a source over a recording wrapper of the backend
// 3. Execute steps with expect validation
// 4. Evaluate assertions against the trace and final state
func Run(scenario *Scenario) (*Result, error) {
	result := NewResult()
	ctx := context.Background()

	h, err := newHarness(ctx, scenario, result)
	if err != nil {
		return nil, err
	}
	defer h.close()

	for i, step := range scenario.Steps {
		h.recorder.step = i
		h.executeStep(ctx, i, step, result)
	}

	result.Materialized = h.src.Materialized()
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func newHarness(ctx context.Context, scenario *Scenario, result *Result) (*Harness, error) {
	h := &Harness{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	opts := []source.Option{source.WithLogger(h.logger)}
	if scenario.Strict {
		opts = append(opts, source.WithStrictOperators())
	}

	var backend source.Adapter
	switch scenario.Backend {
	case BackendSQLite:
		st, err := seedSQLite(ctx, scenario.Table)
		if err != nil {
			return nil, err
		}
		h.closers = append(h.closers, st)
		backend = st
		opts = append(opts, source.WithQuery(scenario.Query))
	case BackendMemory:
		backend = memstore.New(seedTable(scenario.Table), scenario.Table.ColumnMap)
	default:
		return nil, fmt.Errorf("unknown backend %q", scenario.Backend)
	}

	h.recorder = &recorder{backend: backend, result: result}
	h.src = source.New(h.recorder, opts...)
	return h, nil
}

func (h *Harness) close() {
	for _, c := range h.closers {
		if err := c.Close(); err != nil {
			h.logger.Error("close backend", "error", err)
		}
	}
}

// executeStep runs one step and records failed expectations.
func (h *Harness) executeStep(ctx context.Context, i int, step Step, result *Result) {
	before := len(h.src.Warnings())

	var (
		rows    *table.Table
		columns []string
		err     error
	)
	switch {
	case step.Columns:
		var cm table.ColumnMap
		if cm, err = h.src.ColumnMap(ctx); err == nil {
			columns = slices.Sorted(maps.Keys(cm))
		}
	case len(step.Drop) > 0:
		if err = h.src.DropColumns(ctx, step.Drop...); err == nil {
			rows, err = h.src.Rows(ctx)
		}
	default:
		var conds []queryir.Condition
		if conds, err = parseConditions(step.Filter); err == nil {
			rows, err = h.src.Filter(ctx, conds, step.Limit)
		}
	}
	if rows != nil {
		columns = rows.Columns()
	}

	sr := StepResult{Columns: columns}
	if rows != nil {
		sr.Rows = rows.Len()
	}
	if err != nil {
		sr.Error = err.Error()
	}
	result.Steps = append(result.Steps, sr)

	var warnings []string
	for _, w := range h.src.Warnings()[before:] {
		warnings = append(warnings, string(w.Code))
	}

	for _, msg := range checkStep(step.Expect, rows, columns, warnings, err) {
		result.AddError(fmt.Sprintf("steps[%d]: %s", i, msg))
	}
}

// checkStep compares one step's outcome with its expectations.
func checkStep(want *Expect, rows *table.Table, columns, warnings []string, err error) []string {
	if want == nil {
		if err != nil {
			return []string{fmt.Sprintf("unexpected error: %v", err)}
		}
		return nil
	}

	if want.Error != "" {
		if err == nil {
			return []string{fmt.Sprintf("expected error containing %q, got none", want.Error)}
		}
		if !strings.Contains(err.Error(), want.Error) {
			return []string{fmt.Sprintf("error %q does not contain %q", err, want.Error)}
		}
		return nil
	}
	if err != nil {
		return []string{fmt.Sprintf("unexpected error: %v", err)}
	}

	var msgs []string
	if want.Rows != nil && rows != nil {
		if e := checkRows(rows, want.Rows); e != nil {
			msgs = append(msgs, e.Error())
		}
	}
	if want.Count != nil && rows != nil && rows.Len() != *want.Count {
		msgs = append(msgs, fmt.Sprintf("got %d rows, want %d", rows.Len(), *want.Count))
	}
	if want.Columns != nil && !slices.Equal(columns, want.Columns) {
		msgs = append(msgs, fmt.Sprintf("columns %q, want %q", columns, want.Columns))
	}
	if want.Warnings != nil {
		if e := checkWarnings(warnings, want.Warnings); e != nil {
			msgs = append(msgs, e.Error())
		}
	}
	return msgs
}

func parseConditions(texts []string) ([]queryir.Condition, error) {
	conds := make([]queryir.Condition, 0, len(texts))
	for _, text := range texts {
		c, err := queryir.ParseCondition(text)
		if err != nil {
			return nil, err
		}
		conds = append(conds, c)
	}
	return conds, nil
}

// seedTable builds the scenario table in memory.
func seedTable(spec TableSpec) *table.Table {
	records := make([]table.Record, len(spec.Rows))
	for i, row := range spec.Rows {
		r := make(table.Record, len(spec.Columns))
		for j, c := range spec.Columns {
			r[c] = row[j]
		}
		records[i] = r
	}
	return table.New(spec.Columns, records)
}

// seedSQLite creates the scenario table in a fresh in-memory database.
// Columns are declared without a type so cells keep the storage class of
// the YAML value.
func seedSQLite(ctx context.Context, spec TableSpec) (*store.Store, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}

	quoted := make([]string, len(spec.Columns))
	for i, c := range spec.Columns {
		quoted[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
	}
	create := fmt.Sprintf(`CREATE TABLE %q (%s)`, spec.Name, strings.Join(quoted, ", "))
	if _, err := st.Exec(ctx, create); err != nil {
		st.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	insert := fmt.Sprintf(`INSERT INTO %q VALUES (%s)`, spec.Name,
		strings.TrimSuffix(strings.Repeat("?, ", len(spec.Columns)), ", "))
	for i, row := range spec.Rows {
		if _, err := st.Exec(ctx, insert, row...); err != nil {
			st.Close()
			return nil, fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	return st, nil
}
