package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"tcg-pipeline/frame"
)

// CSVWriter writes a Frame to a comma-delimited file with a header row.
type CSVWriter struct {
	path string
}

// NewCSVWriter prepares a writer for path. Nothing touches the disk until
// WriteFrame is called.
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Path returns the output location.
func (c *CSVWriter) Path() string {
	return c.path
}

// WriteFrame replaces the file at the writer's path with f. Cells are written
// by their column's dtype, so an integer column holding nulls writes 3.0. Rows go to a
// temporary file in the same directory which is renamed into place only after
// every row is flushed, so a failed write leaves any previous output intact.
func (c *CSVWriter) WriteFrame(f *frame.Frame) (err error) {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("csv: create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(f.Columns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	dtypes := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		dtypes[i] = f.Dtype(c)
	}

	rec := make([]string, len(f.Columns))
	for _, row := range f.Rows {
		for i, v := range row {
			rec[i] = frame.FormatAs(v, dtypes[i])
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("csv: close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("csv: chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("csv: replace %q: %w", c.path, err)
	}
	return nil
}
