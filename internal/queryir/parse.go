package queryir

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCondition parses the text form "<column> <operator> <value>".
//
// The operator is a single token, or the two-word "not like" / "not regexp".
// The value is everything after the operator:
//   - 'quoted' text is a string ('' escapes a quote)
//   - integers parse as int64, decimals as float64
//   - true / false parse as bool
//   - null parses as nil
//   - anything else is kept as a bare string
func ParseCondition(text string) (Condition, error) {
	fields := strings.Fields(text)
	if len(fields) < 3 {
		return Condition{}, fmt.Errorf("condition %q: want <column> <operator> <value>", text)
	}

	column := fields[0]
	op := fields[1]
	rest := 2
	if strings.EqualFold(op, "not") {
		op = op + " " + fields[2]
		rest = 3
	}
	if len(fields) <= rest {
		return Condition{}, fmt.Errorf("condition %q: missing value", text)
	}

	// Keep the value's inner spacing by slicing the original text.
	raw := strings.TrimSpace(text)
	for i := 0; i < rest; i++ {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, fields[i]))
	}

	return Condition{
		Column:   column,
		Operator: Normalize(op),
		Value:    parseValue(raw),
	}, nil
}

func parseValue(raw string) any {
	if len(raw) >= 2 && strings.HasPrefix(raw, "'") && strings.HasSuffix(raw, "'") {
		return strings.ReplaceAll(raw[1:len(raw)-1], "''", "'")
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	return raw
}
