package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/tabsrc/internal/rowfilter"
	"github.com/roach88/tabsrc/internal/table"
)

// Assertion types.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertMaterialized  = "materialized"
)

// Assertion checks the backend trace or the final source state.
type Assertion struct {
	Type string `yaml:"type"`

	// Query is used by trace_contains.
	Query string `yaml:"query,omitempty"`

	// Queries is used by trace_order.
	Queries []string `yaml:"queries,omitempty"`

	// Count is used by trace_count.
	Count int `yaml:"count,omitempty"`

	// Value is used by materialized.
	Value *bool `yaml:"value,omitempty"`
}

// EvaluateAssertions checks every assertion against result and returns
// one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	queries := make([]string, len(result.Trace))
	for i, e := range result.Trace {
		queries[i] = e.Query
	}

	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			if !slices.Contains(queries, a.Query) {
				err = fmt.Errorf("query %q not found in trace %q", a.Query, queries)
			}
		case AssertTraceOrder:
			err = assertOrder(queries, a.Queries)
		case AssertTraceCount:
			if len(queries) != a.Count {
				err = fmt.Errorf("backend called %d times, want %d", len(queries), a.Count)
			}
		case AssertMaterialized:
			if result.Materialized != *a.Value {
				err = fmt.Errorf("materialized = %v, want %v", result.Materialized, *a.Value)
			}
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d] (%s): %v", i, a.Type, err))
		}
	}
	return errs
}

// assertOrder checks that want is a subsequence of got.
func assertOrder(got, want []string) error {
	next := 0
	for _, q := range got {
		if next < len(want) && q == want[next] {
			next++
		}
	}
	if next < len(want) {
		return fmt.Errorf("query %q not found in order in trace %q", want[next], got)
	}
	return nil
}

// checkRows compares tbl against expected rows in tbl's column order.
func checkRows(tbl *table.Table, want [][]any) error {
	if tbl.Len() != len(want) {
		return fmt.Errorf("got %d rows, want %d", tbl.Len(), len(want))
	}
	columns := tbl.Columns()
	for i, r := range tbl.All() {
		if len(want[i]) != len(columns) {
			return fmt.Errorf("row %d: expected %d cells, result has %d columns", i, len(want[i]), len(columns))
		}
		for j, c := range columns {
			got := r[c]
			if r.IsNull(c) {
				got = nil
			}
			if !sameCell(got, want[i][j]) {
				return fmt.Errorf("row %d column %q: got %v (%T), want %v (%T)", i, c, got, got, want[i][j], want[i][j])
			}
		}
	}
	return nil
}

// sameCell compares cells across backends: numbers by value whatever
// their Go kind, everything else by type and rendering.
func sameCell(got, want any) bool {
	if got == nil || want == nil {
		return got == nil && want == nil
	}
	gn, gok := numeric(got)
	wn, wok := numeric(want)
	if gok || wok {
		return gok && wok && gn == wn
	}
	return fmt.Sprintf("%T", got) == fmt.Sprintf("%T", want) &&
		rowfilter.Format(got) == rowfilter.Format(want)
}

func numeric(v any) (float64, bool) {
	switch v.(type) {
	case string, []byte, bool:
		return 0, false
	}
	return rowfilter.ToNumber(v)
}

// checkWarnings compares warning codes.
func checkWarnings(got []string, want []string) error {
	if !slices.Equal(got, want) {
		return fmt.Errorf("warnings %s, want %s", strings.Join(got, ","), strings.Join(want, ","))
	}
	return nil
}
