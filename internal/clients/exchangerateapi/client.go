// Package exchangerateapi provides a client for the exchangerate-api.com latest-rates endpoint.
package exchangerateapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/stock_insights_api/internal/core/ports/providers"
	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL = "https://api.exchangerate-api.com"
	DefaultTimeout = 10 * time.Second
)

// Client implements providers.LatestRateProvider.
type Client struct {
	baseURL    string
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

// NewClient creates a new client. The endpoint is public and needs no key.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ providers.LatestRateProvider = (*Client)(nil)

// APIError represents a non-2xx answer.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("exchangerate-api error: %s (status: %d)", e.Message, e.StatusCode)
}

type latestResponse struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// LatestRate returns how many quote units one base unit buys right now.
func (c *Client) LatestRate(ctx context.Context, base, quote string) (providers.Result[decimal.Decimal], error) {
	endpoint := fmt.Sprintf("%s/v4/latest/%s", c.baseURL, strings.ToUpper(base))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return providers.Result[decimal.Decimal]{}, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug("exchangerate-api request", slog.String("url", endpoint))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return providers.Result[decimal.Decimal]{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return providers.LimitReached[decimal.Decimal]("too many requests"), nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return providers.Result[decimal.Decimal]{}, &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var payload latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return providers.Malformed[decimal.Decimal]("undecodable response: " + err.Error()), nil
	}

	rate, ok := payload.Rates[strings.ToUpper(quote)]
	if !ok || !rate.IsPositive() {
		return providers.Malformed[decimal.Decimal]("no usable rate for " + quote), nil
	}
	return providers.OK(rate), nil
}
