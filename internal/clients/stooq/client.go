// Package stooq provides a client for Stooq daily CSV price data
package stooq

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/chialin/folio/internal/common"
)

const (
	DefaultBaseURL   = "https://stooq.com"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5 // requests per second

	// DefaultMarketSuffix is appended to bare symbols: Stooq requires a
	// market qualifier, and symbols without one are assumed US-listed.
	DefaultMarketSuffix = ".US"
)

// Client fetches daily close prices from Stooq's CSV download endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Stooq client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name identifies this source in logs and summaries.
func (c *Client) Name() string { return "Stooq" }

// NormalizeSymbol converts a ticker to Stooq format: symbols without a
// market suffix get the default one appended.
func NormalizeSymbol(symbol string) string {
	if strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + DefaultMarketSuffix
}

// LatestClose retrieves the most recent daily close for the symbol from the
// CSV download endpoint.
func (c *Client) LatestClose(ctx context.Context, symbol string) (float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("s", NormalizeSymbol(symbol))
	params.Set("i", "d")

	reqURL := fmt.Sprintf("%s/q/d/l/?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("symbol", symbol).Str("stooq_symbol", NormalizeSymbol(symbol)).Msg("Stooq CSV request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("stooq http %d for %s", resp.StatusCode, symbol)
	}

	return parseLatestClose(resp.Body)
}

// parseLatestClose reads a Stooq daily CSV (Date,Open,High,Low,Close,...)
// and returns the close of the most recent date.
func parseLatestClose(r io.Reader) (float64, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) < 2 {
		return 0, fmt.Errorf("stooq: empty data")
	}

	header := rows[0]
	dateIdx, closeIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case "Date":
			dateIdx = i
		case "Close":
			closeIdx = i
		}
	}
	if dateIdx < 0 || closeIdx < 0 {
		return 0, fmt.Errorf("stooq: missing Date/Close columns")
	}

	type bar struct {
		date  string
		close float64
	}
	bars := make([]bar, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) <= closeIdx || len(row) <= dateIdx {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[closeIdx]), 64)
		if err != nil {
			continue
		}
		bars = append(bars, bar{date: strings.TrimSpace(row[dateIdx]), close: v})
	}
	if len(bars) == 0 {
		return 0, fmt.Errorf("stooq: no parsable rows")
	}

	// ISO dates sort lexicographically.
	sort.Slice(bars, func(i, j int) bool { return bars[i].date < bars[j].date })
	return bars[len(bars)-1].close, nil
}
