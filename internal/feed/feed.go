// Package feed pulls supplier price quotes from HTTP JSON feeds.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const defaultUserAgent = "pricetrack/1.0"

// Source is one configured feed endpoint.
type Source struct {
	Name string
	URL  string
}

// Quote is a supplier's current price for a product.
type Quote struct {
	ProductID  string          `json:"productId"`
	SupplierID string          `json:"supplierId"`
	Price      decimal.Decimal `json:"price"`
}

// Fetcher retrieves the quotes published by a source.
type Fetcher interface {
	Fetch(ctx context.Context, src Source) ([]Quote, error)
}

// Options parameterise the HTTP client.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// Client fetches feeds over HTTP.
type Client struct {
	opts   Options
	logger zerolog.Logger
	client *http.Client
}

// NewClient constructs a feed client.
func NewClient(opts Options, logger zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		opts:   opts,
		logger: logger.With().Str("component", "feed_client").Logger(),
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch GETs the source URL and decodes {"quotes": [...]}. Quotes missing
// an id or carrying a negative price are rejected.
func (c *Client) Fetch(ctx context.Context, src Source) ([]Quote, error) {
	if strings.TrimSpace(src.URL) == "" {
		return nil, errors.New("feed url required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(c.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", defaultUserAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseHTTPError(src.Name, resp.StatusCode, payload)
	}

	var body feedResponse
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("decode feed %s: %w", src.Name, err)
	}

	for i, q := range body.Quotes {
		if q.ProductID == "" || q.SupplierID == "" {
			return nil, fmt.Errorf("feed %s: quote %d missing productId or supplierId", src.Name, i)
		}
		if q.Price.IsNegative() {
			return nil, fmt.Errorf("feed %s: quote %d has negative price %s", src.Name, i, q.Price)
		}
	}

	c.logger.Debug().Str("source", src.Name).Int("quotes", len(body.Quotes)).Msg("feed fetched")
	return body.Quotes, nil
}

type feedResponse struct {
	Quotes []Quote `json:"quotes"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func parseHTTPError(source string, status int, payload []byte) error {
	var apiErr errorResponse
	if err := json.Unmarshal(payload, &apiErr); err == nil {
		if apiErr.Message != "" {
			return fmt.Errorf("feed %s error (%d): %s", source, status, apiErr.Message)
		}
		if apiErr.Error != "" {
			return fmt.Errorf("feed %s error (%d): %s", source, status, apiErr.Error)
		}
	}
	if len(payload) > 0 {
		return fmt.Errorf("feed %s error (%d): %s", source, status, strings.TrimSpace(string(payload)))
	}
	return fmt.Errorf("feed %s error (%d)", source, status)
}

var _ Fetcher = (*Client)(nil)
