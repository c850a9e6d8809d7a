package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"tcg-pipeline/frame"
	"tcg-pipeline/models"
)

// Run identifies one extraction run.
type Run struct {
	ID        string
	StartedAt time.Time
	CardCount int
}

// SQLiteWriter stores the normalized card tables in a SQLite database file.
type SQLiteWriter struct {
	db *sql.DB
}

// NewSQLiteWriter opens (or creates) the database at path.
func NewSQLiteWriter(path string) (*SQLiteWriter, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping %q: %w", path, err)
	}

	sw := &SQLiteWriter{db: db}
	if err := sw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return sw, nil
}

func (sw *SQLiteWriter) migrate() error {
	_, err := sw.db.Exec(`
		CREATE TABLE IF NOT EXISTS extraction_runs (
			run_id     TEXT PRIMARY KEY,
			started_at TEXT    NOT NULL,
			card_count INTEGER NOT NULL
		)
	`)
	return err
}

// WriteTables replaces every card table with the contents of tables and
// records run, all inside one transaction.
func (sw *SQLiteWriter) WriteTables(run Run, tables *models.CardTables) error {
	tx, err := sw.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	for _, nf := range tables.NamedFrames() {
		if err := writeTable(tx, nf.Name, nf.Frame); err != nil {
			return fmt.Errorf("sqlite: table %s: %w", nf.Name, err)
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO extraction_runs (run_id, started_at, card_count) VALUES (?, ?, ?)`,
		run.ID, run.StartedAt.UTC().Format(time.RFC3339), run.CardCount,
	); err != nil {
		return fmt.Errorf("sqlite: record run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

func writeTable(tx *sql.Tx, name string, f *frame.Frame) error {
	defs := make([]string, len(f.Columns))
	quoted := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		quoted[i] = fmt.Sprintf("%q", c)
		defs[i] = quoted[i] + " " + sqliteType(f, c)
	}

	if _, err := tx.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %q`, name)); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf(`CREATE TABLE %q (%s)`, name, strings.Join(defs, ", "))); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf(`CREATE INDEX %q ON %q (%q)`,
		"idx_"+name+"_"+models.ColCardID, name, models.ColCardID)); err != nil {
		return err
	}

	ph := strings.TrimRight(strings.Repeat("?,", len(f.Columns)), ",")
	stmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO %q (%s) VALUES (%s)`, name, strings.Join(quoted, ","), ph))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range f.Rows {
		args := make([]any, len(row))
		for i, v := range row {
			args[i] = sqliteValue(v)
		}
		if _, err := stmt.Exec(args...); err != nil {
			return err
		}
	}
	return nil
}

// ReadTable loads a stored table back into a Frame.
func (sw *SQLiteWriter) ReadTable(name string) (*frame.Frame, error) {
	rows, err := sw.db.Query(fmt.Sprintf(`SELECT * FROM %q ORDER BY rowid`, name))
	if err != nil {
		return nil, fmt.Errorf("sqlite: read %s: %w", name, err)
	}
	defer rows.Close()
	return scanFrame(rows)
}

// Runs returns every recorded extraction run, oldest first.
func (sw *SQLiteWriter) Runs() ([]Run, error) {
	rows, err := sw.db.Query(`SELECT run_id, started_at, card_count FROM extraction_runs ORDER BY started_at, run_id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &started, &r.CardCount); err != nil {
			return nil, fmt.Errorf("sqlite: scan run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (sw *SQLiteWriter) Close() error {
	return sw.db.Close()
}

func sqliteType(f *frame.Frame, column string) string {
	vals, _ := f.Column(column)
	kind := ""
	for _, v := range vals {
		switch v.(type) {
		case nil:
			continue
		case int64, bool:
			if kind == "" {
				kind = "INTEGER"
			}
		case float64:
			if kind == "" || kind == "INTEGER" {
				kind = "REAL"
			}
		default:
			return "TEXT"
		}
	}
	if kind == "" {
		return "TEXT"
	}
	return kind
}

func sqliteValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case bool:
		if t {
			return 1
		}
		return 0
	default:
		return t
	}
}
