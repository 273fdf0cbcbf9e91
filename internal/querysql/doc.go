// Package querysql pushes structured filter conditions down into a SQL
// query.
//
// The translator takes a base SELECT, parses it, folds each condition into
// the WHERE clause, optionally sets LIMIT, and serializes the result:
//
//	base:   SELECT * FROM t
//	conds:  a = 1, b > 5
//	result: select * from t where b > 5 and a = 1
//
// The newest condition is always the left operand of the AND, with the
// previously accumulated clause nested on the right. The row set does not
// depend on this, but the query text does.
//
// Translation never panics and never returns a bare error. It returns an
// Outcome, which is either Translated (a query ready for the backend) or
// Failed (the stage that broke and why). Callers branch on the outcome to
// decide between backend execution and in-memory evaluation.
//
// Parsing and serialization use github.com/xwb1989/sqlparser (MySQL
// dialect). After serialization, double quotes are rewritten to single
// quotes so string literals survive backends that read "x" as an
// identifier.
package querysql
