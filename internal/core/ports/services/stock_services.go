package services

import (
	"context"
	"encoding/json"

	"github.com/SscSPs/stock_insights_api/internal/core/domain"
	"github.com/SscSPs/stock_insights_api/internal/dto"
)

// TickerSvcFacade manages the ticker registry.
type TickerSvcFacade interface {
	ListTickers(ctx context.Context, market domain.Market) ([]domain.TickerListing, error)
	SearchStocks(ctx context.Context) ([]domain.StockSearchEntry, error)
	AddTicker(ctx context.Context, req dto.AddTickerRequest) (*domain.Ticker, error)
	DeleteTicker(ctx context.Context, symbol string) error
}

// StockDataReaderSvc serves stored provider payloads.
type StockDataReaderSvc interface {
	// GetStockData returns the stored payload and records the access.
	GetStockData(ctx context.Context, ticker string) (json.RawMessage, error)
}

// StockRefresherSvc fetches fresh payloads from the quote provider.
type StockRefresherSvc interface {
	// RequestTicker fetches, stores and registers a ticker regardless of freshness.
	RequestTicker(ctx context.Context, ticker string) (*domain.Ticker, error)

	// RefreshTicker re-fetches a ticker unless it was already refreshed today.
	RefreshTicker(ctx context.Context, ticker string) (*domain.RefreshOutcome, error)

	// RefreshBatch refreshes each ticker independently; failures are reported per ticker.
	RefreshBatch(ctx context.Context, tickers []string, mode domain.RefreshMode) []domain.RefreshOutcome

	// RefreshAll refreshes every registered ticker.
	RefreshAll(ctx context.Context, mode domain.RefreshMode) ([]domain.RefreshOutcome, error)
}

// StockSvcFacade combines all stock data service interfaces
type StockSvcFacade interface {
	StockDataReaderSvc
	StockRefresherSvc
}

// ProjectionSvcFacade loads and saves per-ticker projections.
type ProjectionSvcFacade interface {
	// GetProjection returns the saved document, or an empty object when none exists.
	GetProjection(ctx context.Context, ticker string) (json.RawMessage, error)
	SaveProjection(ctx context.Context, req dto.SaveProjectionRequest) error
}

// AnalysisSvcFacade answers natural-language questions about stored stocks.
type AnalysisSvcFacade interface {
	Chat(ctx context.Context, req dto.AIChatRequest) (*domain.Analysis, error)
	Compare(ctx context.Context, req dto.AICompareRequest) (*domain.Analysis, error)
}
