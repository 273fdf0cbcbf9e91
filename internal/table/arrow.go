package table

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ToArrow converts the table into a single Arrow record.
//
// Column types are inferred from non-null cells: all integers → int64,
// any mix of integers and floats → float64, all booleans → bool, anything
// else → utf8 (cells formatted with fmt). Null cells stay null.
// The caller must Release the returned record.
func (t *Table) ToArrow(mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	fields := make([]arrow.Field, len(t.columns))
	arrays := make([]arrow.Array, len(t.columns))
	defer func() {
		for _, a := range arrays {
			if a != nil {
				a.Release()
			}
		}
	}()

	for i, c := range t.columns {
		dt := t.inferArrowType(c)
		fields[i] = arrow.Field{Name: c, Type: dt, Nullable: true}

		b := array.NewBuilder(mem, dt)
		for _, r := range t.rows {
			if err := appendArrowValue(b, r, c); err != nil {
				b.Release()
				return nil, fmt.Errorf("column %q: %w", c, err)
			}
		}
		arrays[i] = b.NewArray()
		b.Release()
	}

	schema := arrow.NewSchema(fields, nil)
	return array.NewRecord(schema, arrays, int64(len(t.rows))), nil
}

func (t *Table) inferArrowType(column string) arrow.DataType {
	sawInt, sawFloat, sawBool, sawOther := false, false, false, false
	for _, r := range t.rows {
		if r.IsNull(column) {
			continue
		}
		switch r[column].(type) {
		case int, int8, int16, int32, int64, uint8, uint16, uint32:
			sawInt = true
		case float32, float64:
			sawFloat = true
		case bool:
			sawBool = true
		default:
			sawOther = true
		}
	}

	switch {
	case sawOther, sawBool && (sawInt || sawFloat):
		return arrow.BinaryTypes.String
	case sawBool:
		return arrow.FixedWidthTypes.Boolean
	case sawFloat:
		return arrow.PrimitiveTypes.Float64
	case sawInt:
		return arrow.PrimitiveTypes.Int64
	default:
		return arrow.BinaryTypes.String
	}
}

func appendArrowValue(b array.Builder, r Record, column string) error {
	if r.IsNull(column) {
		b.AppendNull()
		return nil
	}
	v := r[column]

	switch bb := b.(type) {
	case *array.Int64Builder:
		n, ok := toInt64(v)
		if !ok {
			return fmt.Errorf("cannot store %T as int64", v)
		}
		bb.Append(n)
	case *array.Float64Builder:
		f, ok := toFloat64(v)
		if !ok {
			return fmt.Errorf("cannot store %T as float64", v)
		}
		bb.Append(f)
	case *array.BooleanBuilder:
		bb.Append(v.(bool))
	case *array.StringBuilder:
		if s, ok := v.(string); ok {
			bb.Append(s)
		} else {
			bb.Append(fmt.Sprint(v))
		}
	default:
		return fmt.Errorf("unsupported builder %T", b)
	}
	return nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	if i, ok := toInt64(v); ok {
		return float64(i), true
	}
	return 0, false
}
