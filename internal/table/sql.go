package table

import (
	"database/sql"
	"fmt"
)

// FromSQLRows drains rows into a Table. Column order follows the result set.
// []byte cells are converted to strings so that text columns compare equal
// regardless of the driver's choice of representation.
//
// The caller remains responsible for closing rows.
func FromSQLRows(rows *sql.Rows) (*Table, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	var records []Record
	for rows.Next() {
		cells := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		rec := make(Record, len(columns))
		for i, c := range columns {
			if b, ok := cells[i].([]byte); ok {
				rec[c] = string(b)
				continue
			}
			rec[c] = cells[i]
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return New(columns, records), nil
}
