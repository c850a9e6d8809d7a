package storage

import (
	"tcg-pipeline/frame"
	"tcg-pipeline/models"
)

// FrameWriter is the interface for persisting the denormalized card table.
type FrameWriter interface {
	WriteFrame(f *frame.Frame) error
}

// TablesWriter is the interface for persisting the normalized card tables.
type TablesWriter interface {
	WriteTables(run Run, tables *models.CardTables) error
	Close() error
}

var (
	_ FrameWriter  = (*CSVWriter)(nil)
	_ FrameWriter  = (*PostgresWriter)(nil)
	_ TablesWriter = (*SQLiteWriter)(nil)
)
