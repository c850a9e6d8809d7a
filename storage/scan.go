package storage

import (
	"database/sql"
	"fmt"
	"time"

	"tcg-pipeline/frame"
)

// scanFrame reads every remaining row of rows into a Frame, normalizing
// driver values to the cell types Frame supports.
func scanFrame(rows *sql.Rows) (*frame.Frame, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("scan: columns: %w", err)
	}

	f := frame.New(cols...)
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: row %d: %w", f.Len()+1, err)
		}
		for i, v := range vals {
			vals[i] = cellValue(v)
		}
		f.Rows = append(f.Rows, vals)
	}
	return f, rows.Err()
}

func cellValue(v any) any {
	switch t := v.(type) {
	case nil, string, int64, float64, bool:
		return t
	case []byte:
		return string(t)
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case float32:
		return float64(t)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
