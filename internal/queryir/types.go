package queryir

import (
	"fmt"
	"strings"
)

// Core operators understood by every evaluation path.
const (
	OpEqual    = "="
	OpNotEqual = "!="
	OpGreater  = ">"
	OpLess     = "<"
	OpLike     = "like"
)

// Condition is a single filter predicate.
//
// Example:
//
//	Condition{Column: "age", Operator: ">", Value: 30}
//
// Column is the name as the caller sees it. Sources resolve it through
// their column map before evaluating in memory.
type Condition struct {
	Column   string
	Operator string
	Value    any
}

// Op returns the normalized operator.
func (c Condition) Op() string {
	return Normalize(c.Operator)
}

// String renders the condition in the same form ParseCondition accepts.
func (c Condition) String() string {
	if s, ok := c.Value.(string); ok {
		return fmt.Sprintf("%s %s '%s'", c.Column, c.Op(), strings.ReplaceAll(s, "'", "''"))
	}
	return fmt.Sprintf("%s %s %v", c.Column, c.Op(), c.Value)
}

// Normalize lower-cases an operator and collapses inner whitespace,
// so "NOT   LIKE" becomes "not like".
func Normalize(op string) string {
	return strings.Join(strings.Fields(strings.ToLower(op)), " ")
}
