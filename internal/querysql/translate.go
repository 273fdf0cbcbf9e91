package querysql

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/xwb1989/sqlparser"

	"github.com/roach88/tabsrc/internal/queryir"
)

// operatorToken matches operators that render as a single SQL token:
// a run of comparison symbols, or lower-case keywords such as "not like".
var operatorToken = regexp.MustCompile(`^(?:[<>=!~&|^]+|[a-z]+(?: [a-z]+)*)$`)

// Translator folds conditions into a base SQL query.
type Translator struct {
	// Operators maps normalized condition operators to dialect operators.
	// Operators absent from the map are used verbatim.
	Operators map[string]string
}

// NewTranslator creates a Translator with the default operator registry.
func NewTranslator() *Translator {
	return &Translator{Operators: DefaultOperators()}
}

// Translate rebuilds base with conds ANDed into its WHERE clause.
// limit > 0 replaces any LIMIT row count in base; limit <= 0 leaves it.
func (tr *Translator) Translate(base string, conds []queryir.Condition, limit int) Outcome {
	stmt, err := sqlparser.Parse(base)
	if err != nil {
		return Failed{Stage: StageParse, Err: err}
	}

	sel, ok := stmt.(*sqlparser.Select)
	if !ok {
		return Failed{Stage: StageStatement, Err: fmt.Errorf("expected SELECT, got %T", stmt)}
	}

	var warnings []string
	for _, c := range conds {
		op := c.Op()
		dialectOp, known := tr.Operators[op]
		if !known {
			if !operatorToken.MatchString(op) {
				return Failed{Stage: StageOperator, Err: fmt.Errorf("column %q: operator %q is not a single SQL token", c.Column, op)}
			}
			warnings = append(warnings, fmt.Sprintf("operator %q not in registry, using it anyway", op))
			dialectOp = op
		}

		// SQL comparisons against NULL are never true, unlike the
		// in-memory evaluator; leave null values to it.
		if c.Value == nil {
			return Failed{Stage: StageValue, Err: fmt.Errorf("column %q: null value", c.Column)}
		}

		value := c.Value
		if isPattern(op) {
			value = "%" + strings.Trim(stringify(value), "%") + "%"
		}

		right, err := literal(value)
		if err != nil {
			return Failed{Stage: StageValue, Err: fmt.Errorf("column %q: %w", c.Column, err)}
		}

		var clause sqlparser.Expr = &sqlparser.ComparisonExpr{
			Operator: dialectOp,
			Left:     column(c.Column),
			Right:    right,
		}

		// Newest condition first, accumulated clause nested on the right.
		if sel.Where != nil && sel.Where.Expr != nil {
			prev := sel.Where.Expr
			if _, isOr := prev.(*sqlparser.OrExpr); isOr {
				prev = &sqlparser.ParenExpr{Expr: prev}
			}
			clause = &sqlparser.AndExpr{Left: clause, Right: prev}
		}
		sel.Where = sqlparser.NewWhere(sqlparser.WhereStr, clause)
	}

	if limit > 0 {
		rowcount := sqlparser.NewIntVal([]byte(strconv.Itoa(limit)))
		if sel.Limit == nil {
			sel.Limit = &sqlparser.Limit{}
		}
		sel.Limit.Rowcount = rowcount
	}

	query, err := serialize(sel)
	if err != nil {
		return Failed{Stage: StageSerialize, Err: err}
	}

	return Translated{
		Query:    query,
		Warnings: warnings,
	}
}

// serialize renders a statement, turning formatter panics into errors.
// String literals, including double-quoted ones from the base query, are
// written single-quoted with quotes doubled; identifiers keep sqlparser's
// backtick form. The result has no backslash escapes.
func serialize(stmt sqlparser.Statement) (query string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("format statement: %v", r)
		}
	}()
	buf := sqlparser.NewTrackedBuffer(formatNode)
	buf.Myprintf("%v", stmt)
	query = buf.String()
	if query == "" {
		return "", errors.New("empty statement")
	}
	return query, nil
}

func formatNode(buf *sqlparser.TrackedBuffer, node sqlparser.SQLNode) {
	if v, ok := node.(*sqlparser.SQLVal); ok && v.Type == sqlparser.StrVal {
		buf.WriteString(quoteString(v.Val))
		return
	}
	node.Format(buf)
}

// quoteString writes s as a standard SQL string literal.
func quoteString(s []byte) string {
	return "'" + strings.ReplaceAll(string(s), "'", "''") + "'"
}

// column builds a column reference; "t.col" becomes a qualified name.
func column(name string) *sqlparser.ColName {
	if qualifier, col, ok := strings.Cut(name, "."); ok && qualifier != "" && col != "" {
		return &sqlparser.ColName{
			Name:      sqlparser.NewColIdent(col),
			Qualifier: sqlparser.TableName{Name: sqlparser.NewTableIdent(qualifier)},
		}
	}
	return &sqlparser.ColName{Name: sqlparser.NewColIdent(name)}
}

// literal converts a Go value to a SQL literal expression.
func literal(v any) (sqlparser.Expr, error) {
	switch x := v.(type) {
	case string:
		return strVal([]byte(x))
	case []byte:
		return strVal(x)
	case bool:
		return sqlparser.BoolVal(x), nil
	case int:
		return intVal(int64(x)), nil
	case int8:
		return intVal(int64(x)), nil
	case int16:
		return intVal(int64(x)), nil
	case int32:
		return intVal(int64(x)), nil
	case int64:
		return intVal(x), nil
	case uint:
		return uintVal(uint64(x)), nil
	case uint8:
		return uintVal(uint64(x)), nil
	case uint16:
		return uintVal(uint64(x)), nil
	case uint32:
		return uintVal(uint64(x)), nil
	case uint64:
		return uintVal(x), nil
	case float32:
		return floatVal(float64(x))
	case float64:
		return floatVal(x)
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

func strVal(b []byte) (sqlparser.Expr, error) {
	if bytes.IndexByte(b, 0) >= 0 {
		return nil, errors.New("string contains NUL byte")
	}
	return sqlparser.NewStrVal(b), nil
}

func intVal(n int64) sqlparser.Expr {
	return sqlparser.NewIntVal([]byte(strconv.FormatInt(n, 10)))
}

func uintVal(n uint64) sqlparser.Expr {
	return sqlparser.NewIntVal([]byte(strconv.FormatUint(n, 10)))
}

func floatVal(f float64) (sqlparser.Expr, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("non-finite float %v", f)
	}
	return sqlparser.NewFloatVal([]byte(strconv.FormatFloat(f, 'f', -1, 64))), nil
}

// stringify renders a pattern value as text.
func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}
