package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"tcg-pipeline/config"
	"tcg-pipeline/models"
	"tcg-pipeline/scraper/pokemontcg"
	"tcg-pipeline/services"
	"tcg-pipeline/storage"
	"tcg-pipeline/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Extraction failed: %v", err)
		logger.Sync()
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	started := time.Now().UTC()
	runID := uuid.NewString()

	logger.Info("=== Pokémon TCG extraction starting (run %s) ===", runID)
	logger.Info("Config: api %s | page size: %d | retries: %d | rate: %dms",
		cfg.APIBaseURL, cfg.PageSize, cfg.MaxRetries, cfg.RateLimitMs)

	cards, err := pokemontcg.New(cfg, logger).FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("fetch cards: %w", err)
	}

	tables, err := services.NewFlattener(logger).Flatten(cards)
	if err != nil {
		return fmt.Errorf("flatten: %w", err)
	}

	out, err := services.NewDenormalizer(logger, cfg.ZeroFillCounts).Denormalize(tables)
	if err != nil {
		return err
	}
	logger.Info("Denormalized %d cards into %d rows x %d columns", len(tables.Cards), out.Len(), len(out.Columns))

	if cfg.SQLitePath != "" {
		rec := storage.Run{ID: runID, StartedAt: started, CardCount: len(tables.Cards)}
		if err := writeSQLite(cfg.SQLitePath, rec, tables); err != nil {
			return err
		}
		logger.Info("[sqlite] Stored normalized tables in %s", cfg.SQLitePath)
	}

	if cfg.PostgresEnabled {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			logger.Error("Make sure PostgreSQL is running: docker compose up -d")
			return err
		}
		defer pgWriter.Close()

		if err := pgWriter.WriteFrame(out); err != nil {
			return err
		}
		logger.Info("[postgres] Stored %d rows (table: %s)", out.Len(), storage.CardsTable)
	}

	// the CSV goes last so a failed sink leaves the previous file in place
	csvWriter := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err := csvWriter.WriteFrame(out); err != nil {
		return err
	}
	logger.Info("[csv] Saved %d rows to %s", out.Len(), csvWriter.Path())

	logger.Info("=== Done in %s ===", time.Since(started).Round(time.Millisecond))
	return nil
}

func writeSQLite(path string, rec storage.Run, tables *models.CardTables) error {
	sw, err := storage.NewSQLiteWriter(path)
	if err != nil {
		return err
	}
	return writeTables(sw, rec, tables)
}

func writeTables(w storage.TablesWriter, rec storage.Run, tables *models.CardTables) error {
	defer w.Close()
	return w.WriteTables(rec, tables)
}
