// Package fixer provides a client for the Fixer historical exchange rate API.
package fixer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/stock_insights_api/internal/core/domain"
	"github.com/SscSPs/stock_insights_api/internal/core/ports/providers"
	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL = "http://data.fixer.io/api"
	DefaultTimeout = 15 * time.Second
	// DefaultBase is the base currency of the free plan; other bases require a paid plan.
	DefaultBase = "EUR"

	// SourceName tags samples written from this provider.
	SourceName = "fixer"

	errCodeUsageLimit = 104
)

// Client implements providers.HistoricalRateProvider against Fixer.
type Client struct {
	baseURL    string
	apiKey     string
	base       string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Fixer client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		base:    DefaultBase,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

var _ providers.HistoricalRateProvider = (*Client)(nil)

// APIError represents a transport-level failure (non-2xx status other than 429).
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Fixer API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

type historicalResponse struct {
	Success bool                       `json:"success"`
	Base    string                     `json:"base"`
	Date    string                     `json:"date"`
	Rates   map[string]decimal.Decimal `json:"rates"`
	Error   *struct {
		Code int    `json:"code"`
		Type string `json:"type"`
		Info string `json:"info"`
	} `json:"error"`
}

// Name returns the provenance tag for samples produced by this client.
func (c *Client) Name() string {
	return SourceName
}

// HistoricalRates fetches the rates of symbols on date, quoted against the client's base currency.
// Every requested symbol must be present in the answer, otherwise the result is Malformed.
func (c *Client) HistoricalRates(ctx context.Context, date time.Time, symbols []string) (providers.Result[map[string]decimal.Decimal], error) {
	path := "/" + date.Format(domain.DateLayout)

	params := url.Values{}
	params.Set("access_key", c.apiKey)
	params.Set("base", c.base)
	params.Set("symbols", strings.Join(symbols, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return providers.Result[map[string]decimal.Decimal]{}, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug("Fixer API request", slog.String("url", c.baseURL+path), slog.String("symbols", params.Get("symbols")))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return providers.Result[map[string]decimal.Decimal]{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return providers.LimitReached[map[string]decimal.Decimal]("too many requests"), nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return providers.Result[map[string]decimal.Decimal]{}, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	var payload historicalResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return providers.Malformed[map[string]decimal.Decimal]("undecodable response: " + err.Error()), nil
	}

	if !payload.Success {
		if payload.Error == nil {
			return providers.Malformed[map[string]decimal.Decimal]("unsuccessful response without error details"), nil
		}
		detail := fmt.Sprintf("%d %s: %s", payload.Error.Code, payload.Error.Type, payload.Error.Info)
		if payload.Error.Code == errCodeUsageLimit {
			return providers.LimitReached[map[string]decimal.Decimal](detail), nil
		}
		return providers.Malformed[map[string]decimal.Decimal](detail), nil
	}

	rates := make(map[string]decimal.Decimal, len(symbols))
	for _, symbol := range symbols {
		rate, ok := payload.Rates[symbol]
		if !ok {
			return providers.Malformed[map[string]decimal.Decimal]("missing rate for " + symbol), nil
		}
		rates[symbol] = rate
	}
	return providers.OK(rates), nil
}
