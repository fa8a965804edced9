package services

import (
	"context"
	"time"

	"github.com/SscSPs/stock_insights_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRateReaderSvc defines read operations for exchange rate data
type ExchangeRateReaderSvc interface {
	// RateForDate answers from the cache with nearest-date fallback. It never fails:
	// an empty cache yields domain.DefaultExchangeRate.
	RateForDate(ctx context.Context, date time.Time) decimal.Decimal

	// LatestRate returns the live rate from the latest-rate provider, or the default when it is unavailable.
	LatestRate(ctx context.Context) decimal.Decimal

	// BackfillStatus reports sample count and date coverage.
	BackfillStatus(ctx context.Context) (*domain.BackfillStatus, error)
}

// ExchangeRateBackfillSvc defines the batch operations that grow the cache.
type ExchangeRateBackfillSvc interface {
	// BackfillYearly fills Jan 1 of every year from domain.BackfillStartYear through the current year.
	BackfillYearly(ctx context.Context) (*domain.BackfillReport, error)

	// BackfillMonthly fills the 15th of each month of year (0 means the current year).
	BackfillMonthly(ctx context.Context, year int) (*domain.BackfillReport, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateBackfillSvc
}
