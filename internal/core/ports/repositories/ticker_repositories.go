package repositories

import (
	"context"

	"github.com/SscSPs/stock_insights_api/internal/core/domain"
)

// TickerReader defines read operations for the ticker registry.
type TickerReader interface {
	// ListTickerListings returns registry rows for market ordered by symbol, joined with snapshot freshness.
	ListTickerListings(ctx context.Context, market domain.Market) ([]domain.TickerListing, error)

	// ListTickers returns every registry row ordered by symbol.
	ListTickers(ctx context.Context) ([]domain.Ticker, error)
}

// TickerWriter defines write operations for the ticker registry.
type TickerWriter interface {
	// UpsertTicker inserts the ticker or updates its market.
	UpsertTicker(ctx context.Context, ticker domain.Ticker) error

	// DeleteTicker removes the ticker together with its snapshot and projection.
	DeleteTicker(ctx context.Context, symbol string) error
}

// TickerRepositoryFacade combines all ticker-related repository interfaces
type TickerRepositoryFacade interface {
	TickerReader
	TickerWriter
}
