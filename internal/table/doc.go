// Package table provides the in-memory tabular structure that sources
// materialize into.
//
// A Table is an ordered list of column names plus an ordered sequence of
// records. Records are keyed by internal (storage) column name. A missing
// key and a nil value are both treated as null.
//
// # Ownership
//
// Tables are not safe for concurrent use. DropColumns and SetColumn mutate
// the table in place, so every holder of the same *Table observes the
// change. Where and Head return new tables with cloned records; mutating
// a view never touches the table it was derived from.
//
// # Column Maps
//
// ColumnMap translates the externally visible column vocabulary into the
// internal names used as record keys. Resolve falls back to the name
// itself when no mapping exists, so callers may pass either form.
package table
