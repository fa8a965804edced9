// Package alphavantage provides a client for the Alpha Vantage fundamentals API.
package alphavantage

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

	"github.com/SscSPs/stock_insights_api/internal/core/ports/providers"
)

const (
	DefaultBaseURL = "https://www.alphavantage.co"
	DefaultTimeout = 30 * time.Second
)

// Marker fields Alpha Vantage puts in a 200 response instead of data.
const (
	fieldNote         = "Note"
	fieldInformation  = "Information"
	fieldErrorMessage = "Error Message"
)

// Client implements providers.QuoteProvider.
type Client struct {
	baseURL    string
	apiKey     string
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

// NewClient creates a new Alpha Vantage client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ providers.QuoteProvider = (*Client)(nil)

// APIError represents a non-2xx answer.
type APIError struct {
	StatusCode int
	Message    string
	Function   providers.QuoteFunction
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Alpha Vantage API error: %s (status: %d, function: %s)", e.Message, e.StatusCode, e.Function)
}

// Fetch retrieves one document for symbol. A "Note" marker means the call quota is exhausted;
// "Information" and "Error Message" markers mean the document is unavailable.
func (c *Client) Fetch(ctx context.Context, function providers.QuoteFunction, symbol string) (providers.Result[json.RawMessage], error) {
	params := url.Values{}
	params.Set("function", string(function))
	params.Set("symbol", symbol)
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/query?"+params.Encode(), nil)
	if err != nil {
		return providers.Result[json.RawMessage]{}, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug("Alpha Vantage API request", slog.String("function", string(function)), slog.String("symbol", symbol))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return providers.Result[json.RawMessage]{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return providers.Result[json.RawMessage]{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return providers.Result[json.RawMessage]{}, &APIError{StatusCode: resp.StatusCode, Message: string(body), Function: function}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return providers.Malformed[json.RawMessage]("response is not a JSON object"), nil
	}
	if note, ok := fields[fieldNote]; ok {
		return providers.LimitReached[json.RawMessage](markerText(note)), nil
	}
	if info, ok := fields[fieldInformation]; ok {
		return providers.Malformed[json.RawMessage](markerText(info)), nil
	}
	if msg, ok := fields[fieldErrorMessage]; ok {
		return providers.Malformed[json.RawMessage](markerText(msg)), nil
	}
	return providers.OK(json.RawMessage(body)), nil
}

func markerText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return string(raw)
	}
	return s
}
