package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Backend kinds a scenario can run against.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Backend is BackendMemory or BackendSQLite.
	Backend string `yaml:"backend"`

	// Query is the base query of a SQLite scenario. Empty means
	// "SELECT * FROM <table.name>". Memory scenarios are never query-backed.
	Query string `yaml:"query,omitempty"`

	// Strict rejects conditions the in-memory filter cannot evaluate.
	Strict bool `yaml:"strict,omitempty"`

	// Table seeds the backend.
	Table TableSpec `yaml:"table"`

	// Steps run in order against one source.
	Steps []Step `yaml:"steps"`

	// Assertions validate the backend trace and final source state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// TableSpec is the seed dataset.
type TableSpec struct {
	// Name is the SQLite table name. Defaults to "t".
	Name    string   `yaml:"name,omitempty"`
	Columns []string `yaml:"columns"`
	Rows    [][]any  `yaml:"rows"`

	// ColumnMap exposes internal columns under other names (memory only).
	ColumnMap map[string]string `yaml:"column_map,omitempty"`
}

// Step is one operation on the source. Exactly one of Filter (possibly
// empty, meaning "all rows"), Columns or Drop is performed; Columns and
// Drop take precedence over Filter.
type Step struct {
	Filter  []string `yaml:"filter,omitempty"`
	Limit   int      `yaml:"limit,omitempty"`
	Columns bool     `yaml:"columns,omitempty"`
	Drop    []string `yaml:"drop,omitempty"`

	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect lists the checks for one step. Unset fields are not checked.
type Expect struct {
	// Rows are the expected result rows in result column order.
	Rows [][]any `yaml:"rows,omitempty"`

	// Count is the expected number of result rows.
	Count *int `yaml:"count,omitempty"`

	// Columns are the expected result columns; for a columns step, the
	// sorted external names of the column map.
	Columns []string `yaml:"columns,omitempty"`

	// Error is a substring the step's error must contain.
	Error string `yaml:"error,omitempty"`

	// Warnings are the warning codes recorded by this step, in order.
	Warnings []string `yaml:"warnings,omitempty"`
}

// LoadScenario loads and validates a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// LoadScenarios loads every *.yaml scenario in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// ParseScenario decodes and validates a YAML scenario. Unknown fields are
// rejected to catch typos.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	if s.Table.Name == "" {
		s.Table.Name = "t"
	}
	if s.Backend == BackendSQLite && s.Query == "" {
		s.Query = "SELECT * FROM " + s.Table.Name
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &s, nil
}

// Validate checks that the scenario is well-formed.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	switch s.Backend {
	case BackendMemory:
		if s.Query != "" {
			return fmt.Errorf("query is not allowed for the memory backend")
		}
	case BackendSQLite:
		if len(s.Table.ColumnMap) > 0 {
			return fmt.Errorf("table.column_map is not allowed for the sqlite backend")
		}
	default:
		return fmt.Errorf("backend must be %q or %q, got %q", BackendMemory, BackendSQLite, s.Backend)
	}

	if len(s.Table.Columns) == 0 {
		return fmt.Errorf("table.columns is required")
	}
	for i, row := range s.Table.Rows {
		if len(row) != len(s.Table.Columns) {
			return fmt.Errorf("table.rows[%d]: has %d cells, want %d", i, len(row), len(s.Table.Columns))
		}
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	for i, step := range s.Steps {
		if step.Limit < 0 {
			return fmt.Errorf("steps[%d]: limit must be non-negative", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertTraceContains:
		if a.Query == "" {
			return fmt.Errorf("assertions[%d]: query is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Queries) == 0 {
			return fmt.Errorf("assertions[%d]: queries list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertMaterialized:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for materialized", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
