// Package rowfilter evaluates filter conditions directly against an
// in-memory table. It is the path taken when a condition list cannot be
// pushed down to a backend.
//
// Every condition first discards rows whose cell is null or missing, even
// for !=. The remaining rows are then compared:
//
//	>, <    cell coerced to a number; cells that do not coerce never match
//	like    substring test after removing % from the pattern
//	=       cell equals the value as-is or equals its string form
//	!=      complement of = over the non-null rows
//
// Any other operator leaves the non-null rows untouched.
package rowfilter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/tabsrc/internal/queryir"
	"github.com/roach88/tabsrc/internal/table"
)

// Supported reports whether Apply implements op.
func Supported(op string) bool {
	return queryir.IsEvaluable(op)
}

// Apply returns a new table holding the rows of tbl that satisfy cond.
// cond.Column must already be an internal column name of tbl.
func Apply(tbl *table.Table, cond queryir.Condition) (*table.Table, error) {
	if !tbl.HasColumn(cond.Column) {
		return nil, fmt.Errorf("filter %s: %w: %q", cond.Op(), table.ErrUnknownColumn, cond.Column)
	}

	match := matcher(cond.Op(), cond.Value)
	col := cond.Column

	return tbl.Where(func(r table.Record) bool {
		if r.IsNull(col) {
			return false
		}
		return match(r[col])
	}), nil
}

// Limit returns the first n rows of tbl, or tbl itself when n <= 0.
func Limit(tbl *table.Table, n int) *table.Table {
	if n <= 0 {
		return tbl
	}
	return tbl.Head(n)
}

// matcher builds the cell predicate for an operator.
func matcher(op string, value any) func(cell any) bool {
	switch op {
	case queryir.OpGreater:
		return compareNumeric(value, func(c, v float64) bool { return c > v })
	case queryir.OpLess:
		return compareNumeric(value, func(c, v float64) bool { return c < v })
	case queryir.OpLike:
		needle := strings.ReplaceAll(Format(value), "%", "")
		return func(cell any) bool {
			return strings.Contains(Format(cell), needle)
		}
	case queryir.OpEqual:
		return func(cell any) bool {
			return LooseEqual(cell, value)
		}
	case queryir.OpNotEqual:
		return func(cell any) bool {
			return !LooseEqual(cell, value)
		}
	default:
		return func(any) bool { return true }
	}
}

// compareNumeric coerces both sides to float64. A value that does not
// coerce matches nothing.
func compareNumeric(value any, cmp func(cell, value float64) bool) func(any) bool {
	v, ok := ToNumber(value)
	if !ok {
		return func(any) bool { return false }
	}
	return func(cell any) bool {
		c, ok := ToNumber(cell)
		return ok && cmp(c, v)
	}
}

// LooseEqual reports whether cell equals value numerically, or whether a
// string cell equals the string form of value. "1", 1 and 1.0 are all
// equal to 1, but the number 2 is not equal to the string "2".
func LooseEqual(cell, value any) bool {
	if value == nil {
		return cell == nil
	}

	cn, cellNumeric := number(cell)
	vn, valueNumeric := number(value)
	if cellNumeric && valueNumeric {
		return cn == vn
	}

	if cs, ok := cell.(string); ok {
		return cs == Format(value)
	}
	if cb, ok := cell.(bool); ok {
		vb, ok := value.(bool)
		return ok && cb == vb
	}
	return false
}

// ToNumber coerces a cell to float64. Strings are parsed after trimming
// surrounding whitespace; booleans count as 1 and 0.
func ToNumber(v any) (float64, bool) {
	if n, ok := number(v); ok {
		return n, true
	}
	switch x := v.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
		return f, err == nil
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// number converts native numeric kinds only.
func number(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// Format renders a value the way string comparisons see it.
// Floats with no fractional part print without a decimal point, so
// 1.0 formats as "1".
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
