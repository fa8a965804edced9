package dto

import (
	"encoding/json"
	"strings"

	"github.com/SscSPs/stock_insights_api/internal/core/domain"
)

// TickerRequest carries a single ticker symbol.
type TickerRequest struct {
	Ticker string `json:"ticker" binding:"required"`
}

// AddTickerRequest registers a ticker. Market defaults to US.
type AddTickerRequest struct {
	Ticker string `json:"ticker" binding:"required"`
	Market string `json:"market" binding:"omitempty,oneof=US IN"`
}

// AdminRefreshRequest refreshes a batch of tickers. Type defaults to smart.
type AdminRefreshRequest struct {
	Tickers []string `json:"tickers" binding:"required,min=1,dive,required"`
	Type    string   `json:"type" binding:"omitempty,oneof=smart force"`
}

// SaveProjectionRequest stores a projection document for a ticker.
type SaveProjectionRequest struct {
	Ticker string          `json:"ticker" binding:"required"`
	Data   json.RawMessage `json:"data" binding:"required"`
}

// TickerListingResponse is one row of the ticker list.
type TickerListingResponse struct {
	Symbol      string `json:"symbol"`
	LastUpdated string `json:"last_updated"`
}

// ListTickersResponse lists the tickers of one market.
type ListTickersResponse struct {
	Tickers []TickerListingResponse `json:"tickers"`
	Market  string                  `json:"market"`
}

// AddTickerResponse confirms a registration.
type AddTickerResponse struct {
	Success bool   `json:"success"`
	Symbol  string `json:"symbol"`
	Market  string `json:"market"`
}

// DeleteTickerResponse confirms a deletion.
type DeleteTickerResponse struct {
	Success bool   `json:"success"`
	Deleted string `json:"deleted"`
}

// StockSearchResponse feeds the search dropdown.
type StockSearchResponse struct {
	Stocks []domain.StockSearchEntry `json:"stocks"`
}

// RequestTickerResponse confirms a fetched ticker.
type RequestTickerResponse struct {
	Success bool   `json:"success"`
	Ticker  string `json:"ticker"`
	Market  string `json:"market"`
}

// RefreshTickerResponse reports a single smart refresh.
type RefreshTickerResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
}

// RefreshResultResponse is one entry of a batch refresh.
type RefreshResultResponse struct {
	Ticker string `json:"ticker"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
	Error  string `json:"error,omitempty"`
}

// AdminRefreshResponse reports a batch refresh.
type AdminRefreshResponse struct {
	Success bool                    `json:"success"`
	Results []RefreshResultResponse `json:"results"`
}

// SuccessResponse is the bare acknowledgement body.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// StatusResponse describes the background queue; the server has none.
type StatusResponse struct {
	Status      string `json:"status"`
	QueueLength int    `json:"queue_length"`
	Mode        string `json:"mode"`
}

// ToListTickersResponse converts registry listings; tickers never fetched show "Never".
func ToListTickersResponse(market domain.Market, listings []domain.TickerListing) ListTickersResponse {
	rows := make([]TickerListingResponse, 0, len(listings))
	for _, l := range listings {
		lastUpdated := "Never"
		if l.LastUpdated != nil {
			lastUpdated = l.LastUpdated.Format("2006-01-02 15:04:05")
		}
		rows = append(rows, TickerListingResponse{Symbol: l.Symbol, LastUpdated: lastUpdated})
	}
	return ListTickersResponse{Tickers: rows, Market: string(market)}
}

// ToAdminRefreshResponse converts batch outcomes.
func ToAdminRefreshResponse(outcomes []domain.RefreshOutcome) AdminRefreshResponse {
	results := make([]RefreshResultResponse, 0, len(outcomes))
	for _, o := range outcomes {
		results = append(results, RefreshResultResponse{
			Ticker: o.Ticker,
			Status: string(o.Status),
			Reason: o.Reason,
			Error:  o.Error,
		})
	}
	return AdminRefreshResponse{Success: true, Results: results}
}

// NormalizeTicker trims and upper-cases a user-supplied symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
