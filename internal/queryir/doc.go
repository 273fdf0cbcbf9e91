// Package queryir defines the structured filter predicates accepted by
// tabular sources.
//
// A Condition is a single (column, operator, value) triple. A list of
// conditions is always a conjunction: every condition must hold.
//
// Conditions are backend-neutral. The same list is handed to the SQL
// translator (package querysql) when the source can push filters down,
// and to the in-memory evaluator (package rowfilter) when it cannot.
//
// OPERATORS:
//
// Operators are plain strings. They are compared after Normalize, so
// "LIKE", " like " and "Like" are the same operator. The in-memory
// evaluator understands the core set:
//
//	=   !=   >   <   like
//
// The SQL translator accepts a wider registry (>=, <=, <>, not like, ...)
// and passes unknown operators through verbatim on a best-effort basis.
//
// VALIDATION:
//
// Validate is a pure function reporting conditions the in-memory path
// cannot honour. It never rejects a list; callers decide whether a warning
// is fatal.
package queryir
