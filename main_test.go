package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"tcg-pipeline/config"
	"tcg-pipeline/storage"
	"tcg-pipeline/utils"
)

const charizardPage = `{
	"data": [{
		"id": "base1-4",
		"name": "Charizard",
		"supertype": "Pokémon",
		"types": ["Fire", "Flying"],
		"tcgplayer": {"prices": {"normal": {"market": 320.5}}}
	}],
	"page": 1, "pageSize": 250, "count": 1, "totalCount": 1
}`

func apiServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if r.URL.Path != "/cards" || r.Header.Get("X-Api-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(charizardPage))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runConfig(t *testing.T, url string) *config.Config {
	t.Helper()
	return &config.Config{
		APIKey:         "test-key",
		APIBaseURL:     url,
		PageSize:       250,
		MaxRetries:     1,
		RequestTimeout: 5 * time.Second,
		CSVOutputPath:  filepath.Join(t.TempDir(), "data", "raw_pokemon_data.csv"),
	}
}

func TestRunMissingAPIKey(t *testing.T) {
	var hits int32
	srv := apiServer(t, &hits)

	cfg := runConfig(t, srv.URL)
	cfg.APIKey = ""

	err := run(context.Background(), cfg, utils.NewNopLogger())
	if !errors.Is(err, config.ErrMissingAPIKey) {
		t.Fatalf("run: got %v, want ErrMissingAPIKey", err)
	}
	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Errorf("API was called %d times before the key was checked", n)
	}
	if _, err := os.Stat(cfg.CSVOutputPath); !os.IsNotExist(err) {
		t.Errorf("CSV should not exist, stat err: %v", err)
	}
}

func TestRunWritesCSV(t *testing.T) {
	var hits int32
	srv := apiServer(t, &hits)
	cfg := runConfig(t, srv.URL)

	if err := run(context.Background(), cfg, utils.NewNopLogger()); err != nil {
		t.Fatalf("run: %v", err)
	}

	f, err := storage.ReadCSV(cfg.CSVOutputPath)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if f.Columns[0] != "card_type_id" {
		t.Errorf("first column: got %q, want card_type_id", f.Columns[0])
	}
	if f.Len() != 1 {
		t.Fatalf("rows: got %d, want 1", f.Len())
	}

	want := map[string]any{
		"card_type_id":  "base1-4_normal",
		"type_1":        "Fire",
		"type_2":        "Flying",
		"price_type":    "normal",
		"market":        320.5,
		"num_abilities": nil,
	}
	for col, v := range want {
		if got := f.Value(0, col); got != v {
			t.Errorf("%s: got %v, want %v", col, got, v)
		}
	}
}

func TestRunSinkFailureLeavesNoCSV(t *testing.T) {
	var hits int32
	srv := apiServer(t, &hits)
	cfg := runConfig(t, srv.URL)
	// a directory cannot be opened as a database file
	cfg.SQLitePath = t.TempDir()

	if err := run(context.Background(), cfg, utils.NewNopLogger()); err == nil {
		t.Fatal("expected the SQLite sink to fail")
	}
	if _, err := os.Stat(cfg.CSVOutputPath); !os.IsNotExist(err) {
		t.Errorf("CSV should not be written when a sink fails, stat err: %v", err)
	}
}
