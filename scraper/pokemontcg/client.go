package pokemontcg

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"tcg-pipeline/config"
	"tcg-pipeline/models"
	"tcg-pipeline/utils"
)

const (
	cardsPath    = "/cards"
	apiKeyHeader = "X-Api-Key"
)

// Client pages through the Pokémon TCG API card listing.
type Client struct {
	http     *resty.Client
	logger   *utils.Logger
	retry    *utils.RetryConfig
	throttle *utils.Throttle
	pageSize int
}

// New creates a Client configured from cfg.
func New(cfg *config.Config, logger *utils.Logger) *Client {
	client := resty.New()
	client.SetBaseURL(cfg.APIBaseURL)
	client.SetTimeout(cfg.RequestTimeout)
	client.SetHeader("Accept", "application/json")
	client.SetHeader(apiKeyHeader, cfg.APIKey)

	return &Client{
		http:   client,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		throttle: utils.NewThrottle(cfg.RateLimitMs),
		pageSize: cfg.PageSize,
	}
}

// FetchAll retrieves every card, page by page, in the order the API returns
// them. Any page that still fails after retries aborts the whole fetch.
func (c *Client) FetchAll(ctx context.Context) ([]*models.Card, error) {
	var cards []*models.Card

	for page := 1; ; page++ {
		c.throttle.Wait()

		p, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		cards = append(cards, p.Data...)

		c.logger.Debug("[pokemontcg] Page %d: %d cards (%d/%d)", page, len(p.Data), len(cards), p.TotalCount)

		if len(p.Data) == 0 || len(cards) >= p.TotalCount {
			break
		}
	}

	c.logger.Info("[pokemontcg] Fetched %d cards", len(cards))
	return cards, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) (*models.CardPage, error) {
	var result models.CardPage

	err := c.retry.Do(ctx, fmt.Sprintf("fetch-page-%d", page), func() error {
		res, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"page":     strconv.Itoa(page),
				"pageSize": strconv.Itoa(c.pageSize),
			}).
			Get(cardsPath)
		if err != nil {
			return fmt.Errorf("pokemontcg: request: %w", err)
		}
		if res.IsError() {
			return fmt.Errorf("pokemontcg: unexpected status %s", res.Status())
		}

		var p models.CardPage
		if err := json.Unmarshal(res.Body(), &p); err != nil {
			return fmt.Errorf("pokemontcg: decode page %d: %w", page, err)
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
