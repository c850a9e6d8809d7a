package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"tcg-pipeline/frame"
	"tcg-pipeline/models"
)

// CardsTable is the PostgreSQL table holding the denormalized card frame.
const CardsTable = "pokemon_cards"

// rowNumColumn preserves the frame's row order across a round trip.
const rowNumColumn = "row_num"

// PostgresWriter persists the denormalized card table to PostgreSQL.
type PostgresWriter struct {
	db    *sql.DB
	table string
}

// NewPostgresWriter opens a connection to PostgreSQL and returns a
// ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	return &PostgresWriter{db: db, table: CardsTable}, nil
}

// WriteFrame replaces the cards table with f inside a single transaction.
// The table is recreated each time because its columns follow the frame.
func (pw *PostgresWriter) WriteFrame(f *frame.Frame) error {
	tx, err := pw.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DROP TABLE IF EXISTS " + pq.QuoteIdentifier(pw.table)); err != nil {
		return fmt.Errorf("postgres: drop: %w", err)
	}
	if _, err := tx.Exec(createTableSQL(pw.table, f)); err != nil {
		return fmt.Errorf("postgres: create: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(f.Rows); i += batchSize {
		end := i + batchSize
		if end > len(f.Rows) {
			end = len(f.Rows)
		}
		if err := pw.insertBatch(tx, f, i, end); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(tx *sql.Tx, f *frame.Frame, start, end int) error {
	cols := append([]string{rowNumColumn}, f.Columns...)
	args := make([]any, 0, (end-start)*len(cols))
	for i := start; i < end; i++ {
		args = append(args, int64(i))
		args = append(args, f.Rows[i]...)
	}

	if _, err := tx.Exec(insertBatchSQL(pw.table, cols, end-start), args...); err != nil {
		return fmt.Errorf("postgres: insert rows %d-%d: %w", start, end-1, err)
	}
	return nil
}

// FetchAll reads the cards table back into a Frame in the order it was written.
func (pw *PostgresWriter) FetchAll() (*frame.Frame, error) {
	rows, err := pw.db.Query(fmt.Sprintf("SELECT * FROM %s ORDER BY %s",
		pq.QuoteIdentifier(pw.table), pq.QuoteIdentifier(rowNumColumn)))
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	f, err := scanFrame(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	return f.Drop(rowNumColumn), nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

func createTableSQL(table string, f *frame.Frame) string {
	defs := []string{pq.QuoteIdentifier(rowNumColumn) + " BIGINT NOT NULL"}
	for _, c := range f.Columns {
		def := pq.QuoteIdentifier(c) + " " + postgresType(sqliteType(f, c))
		if c == models.ColCardTypeID {
			def += " PRIMARY KEY"
		}
		defs = append(defs, def)
	}
	return fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", pq.QuoteIdentifier(table), strings.Join(defs, ",\n\t"))
}

func insertBatchSQL(table string, cols []string, rows int) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pq.QuoteIdentifier(c)
	}

	valueStrings := make([]string, 0, rows)
	n := 1
	for r := 0; r < rows; r++ {
		ph := make([]string, len(cols))
		for i := range cols {
			ph[i] = fmt.Sprintf("$%d", n)
			n++
		}
		valueStrings = append(valueStrings, "("+strings.Join(ph, ",")+")")
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		pq.QuoteIdentifier(table), strings.Join(quoted, ","), strings.Join(valueStrings, ","))
}

func postgresType(sqliteType string) string {
	switch sqliteType {
	case "INTEGER":
		return "BIGINT"
	case "REAL":
		return "DOUBLE PRECISION"
	}
	return "TEXT"
}
