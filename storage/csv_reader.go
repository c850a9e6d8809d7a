package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"tcg-pipeline/frame"
)

// ReadCSV loads a CSV file written by CSVWriter (or any headered CSV) into a
// Frame. Empty fields are null. Each column is typed from its non-null values:
// all integers become int64, all numbers float64, all True/False bool,
// anything else stays string.
func ReadCSV(path string) (*frame.Frame, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer fh.Close()
	return DecodeCSV(fh)
}

// DecodeCSV is ReadCSV over an arbitrary reader.
func DecodeCSV(r io.Reader) (*frame.Frame, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	var raw [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row %d: %w", len(raw)+1, err)
		}
		raw = append(raw, rec)
	}

	f := frame.New(header...)
	f.Rows = make([][]any, len(raw))
	for i := range raw {
		f.Rows[i] = make([]any, len(header))
	}
	for c := range header {
		parse := columnParser(raw, c)
		for i, rec := range raw {
			f.Rows[i][c] = parse(rec[c])
		}
	}
	return f, nil
}

func columnParser(raw [][]string, col int) func(string) any {
	allInt, allFloat, allBool := true, true, true
	for _, rec := range raw {
		s := rec[col]
		if s == "" {
			continue
		}
		if _, err := strconv.ParseInt(s, 10, 64); err != nil {
			allInt = false
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			allFloat = false
		}
		if s != "True" && s != "False" {
			allBool = false
		}
	}

	return func(s string) any {
		if s == "" {
			return nil
		}
		switch {
		case allInt:
			n, _ := strconv.ParseInt(s, 10, 64)
			return n
		case allFloat:
			v, _ := strconv.ParseFloat(s, 64)
			return v
		case allBool:
			return s == "True"
		}
		return s
	}
}
