// Package source implements lazy tabular sources.
//
// A Source is a named table whose rows live somewhere else: a SQL database,
// a file, an in-memory structure. Rows are fetched through an Adapter the
// first time they are needed and cached for the lifetime of the Source.
//
// # Materialization
//
// The cached rows and their column map are always set together, by a
// single entry point. A Source is either unmaterialized or materialized;
// the transition happens once, on the first call that needs the concrete
// table (Rows, Len, Column, SetColumn, DropColumns, or an in-memory
// Filter). Reset returns a Source to the unmaterialized state.
//
// A query-backed Source can learn its column map without fetching all
// rows: ColumnMap runs the base query with LIMIT 1 and keeps only the map.
// Once the Source materializes, the materialized map takes over.
//
// # Filtering
//
// Filter is a two-stage pipeline:
//
//	[conditions] → querysql.Translate → Translated → Adapter.Materialize(query)
//	                                  → Failed     → in-memory evaluation
//
// Pushdown is attempted only for query-backed sources. Any pushdown failure
// (parse, unsupported value, backend error) silently falls back to
// evaluating the conditions against the materialized rows with package
// rowfilter. Errors that happen while materializing for the fallback are
// returned to the caller; there is nothing left to fall back to.
//
// # Concurrency
//
// A Source is not safe for concurrent use. Callers sharing one across
// goroutines must serialize access.
package source
