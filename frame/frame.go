// Package frame is a small column-named, row-major table used to hand card
// data between the extractor, the storage backends and the analyzer.
//
// Cell values are nil (null), string, int64, float64 or bool.
package frame

import (
	"fmt"
	"math"
	"strconv"
)

// Declared column types, named the way pandas reports them.
const (
	DtypeInt64   = "int64"
	DtypeFloat64 = "float64"
	DtypeBool    = "bool"
	DtypeObject  = "object"
)

// Frame is an ordered set of named columns over a list of rows.
type Frame struct {
	Columns []string
	Rows    [][]any
}

// New creates an empty Frame with the given columns.
func New(columns ...string) *Frame {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Frame{Columns: cols}
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.Rows)
}

// Index returns the position of column, or -1.
func (f *Frame) Index(column string) int {
	for i, c := range f.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Has reports whether column exists.
func (f *Frame) Has(column string) bool {
	return f.Index(column) >= 0
}

// Append adds a row. The row must have one value per column.
func (f *Frame) Append(row ...any) error {
	if len(row) != len(f.Columns) {
		return fmt.Errorf("frame: row has %d values, want %d", len(row), len(f.Columns))
	}
	f.Rows = append(f.Rows, row)
	return nil
}

// Value returns the cell at row i in column.
func (f *Frame) Value(i int, column string) any {
	idx := f.Index(column)
	if idx < 0 {
		return nil
	}
	return f.Rows[i][idx]
}

// Column returns a copy of every value in column.
func (f *Frame) Column(column string) ([]any, error) {
	idx := f.Index(column)
	if idx < 0 {
		return nil, fmt.Errorf("frame: unknown column %q", column)
	}
	out := make([]any, len(f.Rows))
	for i, r := range f.Rows {
		out[i] = r[idx]
	}
	return out, nil
}

// WithColumn returns a new Frame where column holds the values produced by fn.
// An existing column is replaced in place, a new one is appended.
func (f *Frame) WithColumn(column string, fn func(row int) any) *Frame {
	idx := f.Index(column)
	cols := append([]string(nil), f.Columns...)
	if idx < 0 {
		cols = append(cols, column)
	}

	out := &Frame{Columns: cols, Rows: make([][]any, len(f.Rows))}
	for i, r := range f.Rows {
		nr := make([]any, len(cols))
		copy(nr, r)
		if idx < 0 {
			nr[len(cols)-1] = fn(i)
		} else {
			nr[idx] = fn(i)
		}
		out.Rows[i] = nr
	}
	return out
}

// Select returns a new Frame with only the given columns, in the given order.
func (f *Frame) Select(columns ...string) (*Frame, error) {
	idxs := make([]int, len(columns))
	for i, c := range columns {
		idxs[i] = f.Index(c)
		if idxs[i] < 0 {
			return nil, fmt.Errorf("frame: unknown column %q", c)
		}
	}

	out := New(columns...)
	out.Rows = make([][]any, len(f.Rows))
	for i, r := range f.Rows {
		nr := make([]any, len(idxs))
		for j, idx := range idxs {
			nr[j] = r[idx]
		}
		out.Rows[i] = nr
	}
	return out, nil
}

// Drop returns a new Frame without the named columns. Unknown names are ignored.
func (f *Frame) Drop(columns ...string) *Frame {
	drop := make(map[string]bool, len(columns))
	for _, c := range columns {
		drop[c] = true
	}
	var keep []string
	for _, c := range f.Columns {
		if !drop[c] {
			keep = append(keep, c)
		}
	}
	out, _ := f.Select(keep...)
	return out
}

// FillNull returns a new Frame with nulls in column replaced by value.
func (f *Frame) FillNull(column string, value any) *Frame {
	idx := f.Index(column)
	if idx < 0 {
		return f
	}
	return f.WithColumn(column, func(i int) any {
		if v := f.Rows[i][idx]; !IsNull(v) {
			return v
		}
		return value
	})
}

// Filter returns a new Frame holding the rows for which keep returns true.
func (f *Frame) Filter(keep func(row int) bool) *Frame {
	out := New(f.Columns...)
	for i, r := range f.Rows {
		if keep(i) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// LeftJoin joins right onto f by key. Rows of f keep their order. A left row
// matching N right rows yields N output rows, in right order. Unmatched left
// rows get nulls for every right column. Right columns other than key that
// collide with a left column name are suffixed with "_right".
func (f *Frame) LeftJoin(right *Frame, key string) (*Frame, error) {
	lk := f.Index(key)
	if lk < 0 {
		return nil, fmt.Errorf("frame: left join key %q missing on left", key)
	}
	rk := right.Index(key)
	if rk < 0 {
		return nil, fmt.Errorf("frame: left join key %q missing on right", key)
	}

	cols := append([]string(nil), f.Columns...)
	var rightIdxs []int
	for i, c := range right.Columns {
		if i == rk {
			continue
		}
		if f.Has(c) {
			c += "_right"
		}
		cols = append(cols, c)
		rightIdxs = append(rightIdxs, i)
	}

	matches := make(map[any][]int)
	for i, r := range right.Rows {
		if IsNull(r[rk]) {
			continue
		}
		matches[r[rk]] = append(matches[r[rk]], i)
	}

	out := New(cols...)
	for _, lr := range f.Rows {
		hits := matches[lr[lk]]
		if IsNull(lr[lk]) || len(hits) == 0 {
			nr := make([]any, len(cols))
			copy(nr, lr)
			out.Rows = append(out.Rows, nr)
			continue
		}
		for _, h := range hits {
			nr := make([]any, len(cols))
			copy(nr, lr)
			for j, ri := range rightIdxs {
				nr[len(lr)+j] = right.Rows[h][ri]
			}
			out.Rows = append(out.Rows, nr)
		}
	}
	return out, nil
}

// Dtype reports the declared type of column.
func (f *Frame) Dtype(column string) string {
	vals, err := f.Column(column)
	if err != nil {
		return DtypeObject
	}
	return InferDtype(vals)
}

// InferDtype applies pandas' promotion rules to a column of values: integer
// columns with nulls become float64, boolean columns with nulls become object,
// and a column of only nulls is float64.
func InferDtype(values []any) string {
	var ints, floats, bools, strs, nulls int
	for _, v := range values {
		switch v.(type) {
		case nil:
			nulls++
		case int64:
			ints++
		case float64:
			if math.IsNaN(v.(float64)) {
				nulls++
			} else {
				floats++
			}
		case bool:
			bools++
		default:
			strs++
		}
	}

	switch {
	case strs > 0:
		return DtypeObject
	case bools > 0 && (ints > 0 || floats > 0 || nulls > 0):
		return DtypeObject
	case bools > 0:
		return DtypeBool
	case ints > 0 && floats == 0 && nulls == 0:
		return DtypeInt64
	default:
		return DtypeFloat64
	}
}

// IsNull reports whether v is a missing value.
func IsNull(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(t)
	}
	return false
}

// Key renders a value as a grouping key.
func Key(v any) string {
	return FormatValue(v)
}

// Float converts a numeric cell to float64.
func Float(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) {
			return 0, false
		}
		return t, true
	case int64:
		return float64(t), true
	}
	return 0, false
}

// FormatAs renders v as a cell of a column declared dtype, so integers in a
// float64 column print the way the rest of the column does.
func FormatAs(v any, dtype string) string {
	if n, ok := v.(int64); ok && dtype == DtypeFloat64 {
		return FormatValue(float64(n))
	}
	return FormatValue(v)
}

// FormatValue renders a cell for CSV output. Nulls are empty, whole floats
// keep a trailing ".0", and booleans print as True/False.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		if math.IsNaN(t) {
			return ""
		}
		s := strconv.FormatFloat(t, 'f', -1, 64)
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			s += ".0"
		}
		return s
	case bool:
		if t {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprint(t)
	}
}
