package querysql

import (
	"maps"

	"github.com/xwb1989/sqlparser"
)

// defaultOperators maps normalized condition operators to the dialect's
// comparison operators.
var defaultOperators = map[string]string{
	"=":          sqlparser.EqualStr,
	"==":         sqlparser.EqualStr,
	"!=":         sqlparser.NotEqualStr,
	"<>":         sqlparser.NotEqualStr,
	">":          sqlparser.GreaterThanStr,
	"<":          sqlparser.LessThanStr,
	">=":         sqlparser.GreaterEqualStr,
	"<=":         sqlparser.LessEqualStr,
	"like":       sqlparser.LikeStr,
	"not like":   sqlparser.NotLikeStr,
	"regexp":     sqlparser.RegexpStr,
	"not regexp": sqlparser.NotRegexpStr,
}

// DefaultOperators returns a copy of the built-in operator registry.
func DefaultOperators() map[string]string {
	return maps.Clone(defaultOperators)
}

// isPattern reports whether an operator takes a substring pattern.
func isPattern(op string) bool {
	return op == "like" || op == "not like"
}
