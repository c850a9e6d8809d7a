package pokemontcg

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcg-pipeline/config"
	"tcg-pipeline/models"
	"tcg-pipeline/utils"
)

func testConfig(url string) *config.Config {
	return &config.Config{
		APIKey:         "test-key",
		APIBaseURL:     url,
		PageSize:       2,
		MaxRetries:     1,
		RateLimitMs:    0,
		RequestTimeout: 5 * time.Second,
	}
}

func cardServer(t *testing.T, ids []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cards" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("X-Api-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		size, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

		start := (page - 1) * size
		end := start + size
		if start > len(ids) {
			start = len(ids)
		}
		if end > len(ids) {
			end = len(ids)
		}

		p := models.CardPage{Page: page, PageSize: size, TotalCount: len(ids)}
		for _, id := range ids[start:end] {
			p.Data = append(p.Data, &models.Card{ID: id})
		}
		p.Count = len(p.Data)
		_ = json.NewEncoder(w).Encode(p)
	}))
}

func TestFetchAllPaginates(t *testing.T) {
	srv := cardServer(t, []string{"base1-1", "base1-2", "base1-3"})
	defer srv.Close()

	c := New(testConfig(srv.URL), utils.NewNopLogger())
	cards, err := c.FetchAll(context.Background())
	require.NoError(t, err)

	var ids []string
	for _, card := range cards {
		ids = append(ids, card.ID)
	}
	assert.Equal(t, []string{"base1-1", "base1-2", "base1-3"}, ids)
}

func TestFetchAllEmpty(t *testing.T) {
	srv := cardServer(t, nil)
	defer srv.Close()

	c := New(testConfig(srv.URL), utils.NewNopLogger())
	cards, err := c.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestFetchAllFailsOnBadKey(t *testing.T) {
	srv := cardServer(t, []string{"base1-1"})
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.APIKey = "wrong"
	c := New(cfg, utils.NewNopLogger())

	_, err := c.FetchAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestFetchAllFailsOnMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [{"id": 12}]}`))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), utils.NewNopLogger())
	_, err := c.FetchAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode page 1")
}

func TestDecodeFullCard(t *testing.T) {
	raw := `{
		"id": "base1-4", "name": "Charizard", "supertype": "Pokémon",
		"subtypes": ["Stage 2"], "hp": "120", "types": ["Fire"],
		"set": {"id": "base1", "name": "Base", "printedTotal": 102, "releaseDate": "1999/01/09",
		        "legalities": {"unlimited": "Legal"}},
		"nationalPokedexNumbers": [6],
		"tcgplayer": {"prices": {"holofoil": {"low": 200.0, "market": 350.5},
		                         "1stEditionHolofoil": {"market": 5000}}}
	}`
	var card models.Card
	require.NoError(t, json.Unmarshal([]byte(raw), &card))

	assert.Equal(t, "base1-4", card.ID)
	require.NotNil(t, card.Set)
	assert.Equal(t, int64(102), *card.Set.PrintedTotal)
	assert.Nil(t, card.Set.Images)
	require.NotNil(t, card.TCGPlayer.Prices.FirstEditionHolofoil)
	assert.Equal(t, 5000.0, *card.TCGPlayer.Prices.FirstEditionHolofoil.Market)
	assert.Nil(t, card.TCGPlayer.Prices.Normal)
	assert.Nil(t, card.TCGPlayer.Prices.Holofoil.Mid)
}
