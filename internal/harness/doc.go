// Package harness runs conformance scenarios against sources.
//
// A scenario seeds a backend with a small table, opens a source over it
// and runs a sequence of steps, checking each step's result and the
// queries the source sent to the backend.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	backend: sqlite            # or memory
//	query: SELECT * FROM t     # sqlite only; defaults to SELECT * FROM <table>
//	table:
//	  name: t
//	  columns: [a, b]
//	  rows:
//	    - [1, 6]
//	    - [2, 3]
//	  column_map: { A: a }     # memory only
//	steps:
//	  - filter: ["a = 1", "b > 5"]
//	    limit: 10
//	    expect:
//	      rows: [[1, 6]]
//	  - columns: true
//	    expect:
//	      columns: [a, b]
//	assertions:
//	  - type: trace_order
//	    queries: ["select * from t where b > 5 and a = 1 limit 10"]
//
// # Assertion Types
//
//   - trace_contains: a backend call with exactly this query was made
//   - trace_order: the queries appear in the trace in this order
//   - trace_count: the backend was called exactly N times
//   - materialized: the source ends cached (or not)
//
// # Deterministic Testing
//
// Each scenario runs against a fresh backend (an in-memory SQLite
// database or a memstore) with logging discarded, so traces are stable
// and can be compared against golden files.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/pushdown.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
