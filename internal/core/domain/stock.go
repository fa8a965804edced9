package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Market tags which exchange a ticker trades on.
type Market string

const (
	MarketUS Market = "US"
	MarketIN Market = "IN"
)

// DetectMarket infers the market from exchange suffixes (.NS / .BO are Indian listings).
func DetectMarket(symbol string) Market {
	s := strings.ToUpper(symbol)
	if strings.HasSuffix(s, ".NS") || strings.HasSuffix(s, ".BO") {
		return MarketIN
	}
	return MarketUS
}

// NormalizeSymbol upper-cases and trims a symbol, adding the NSE suffix to bare Indian tickers.
func NormalizeSymbol(symbol string, market Market) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return s
	}
	if market == MarketIN && !strings.HasSuffix(s, ".NS") && !strings.HasSuffix(s, ".BO") {
		s += ".NS"
	}
	return s
}

// Ticker is a registry row.
type Ticker struct {
	Symbol    string    `json:"symbol"`
	Market    Market    `json:"market"`
	CreatedAt time.Time `json:"createdAt"`
}

// TickerListing is a registry row joined with its snapshot freshness.
type TickerListing struct {
	Symbol      string
	Market      Market
	LastUpdated *time.Time
}

// StockSnapshot is the raw provider payload stored for a ticker.
type StockSnapshot struct {
	Ticker      string          `json:"ticker"`
	Data        json.RawMessage `json:"data"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// UpdatedSince reports whether the snapshot was written at or after t.
func (s StockSnapshot) UpdatedSince(t time.Time) bool {
	return !s.LastUpdated.Before(t)
}

// StockPayload is the document the quote provider integration stores per ticker.
type StockPayload struct {
	Overview     json.RawMessage `json:"overview"`
	Quote        json.RawMessage `json:"quote"`
	Income       json.RawMessage `json:"income"`
	BalanceSheet json.RawMessage `json:"balance_sheet"`
	History      json.RawMessage `json:"history"`
	Market       Market          `json:"market"`
	Currency     string          `json:"currency"`
	LastUpdated  time.Time       `json:"last_updated"`
}

// StockSearchEntry is one row of the search dropdown.
type StockSearchEntry struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Market Market `json:"market"`
}

// Projection is a saved valuation projection for a ticker.
type Projection struct {
	Ticker  string          `json:"ticker"`
	Data    json.RawMessage `json:"data"`
	SavedAt time.Time       `json:"savedAt"`
}

// RefreshMode controls whether fresh snapshots are re-fetched.
type RefreshMode string

const (
	RefreshSmart RefreshMode = "smart"
	RefreshForce RefreshMode = "force"
)

// RefreshStatus is the per-ticker outcome of a refresh.
type RefreshStatus string

const (
	RefreshSuccess RefreshStatus = "success"
	RefreshSkipped RefreshStatus = "skipped"
	RefreshError   RefreshStatus = "error"
)

// RefreshOutcome records what happened to one ticker in a refresh batch.
type RefreshOutcome struct {
	Ticker      string
	Status      RefreshStatus
	Reason      string
	Error       string
	LastUpdated *time.Time
}

// StartOfDay returns local midnight of t's day, the boundary used for "already refreshed today".
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
