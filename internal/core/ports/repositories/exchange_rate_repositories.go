package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/stock_insights_api/internal/core/domain"
)

// ExchangeRateReader defines read operations for cached exchange rate samples.
// Every Find* method returns apperrors.ErrNotFound when no row matches.
type ExchangeRateReader interface {
	// FindSampleByDate retrieves the sample stored for exactly date.
	FindSampleByDate(ctx context.Context, date time.Time) (*domain.ExchangeRateSample, error)

	// FindNearestOnOrBefore retrieves the latest sample with a date <= date.
	FindNearestOnOrBefore(ctx context.Context, date time.Time) (*domain.ExchangeRateSample, error)

	// FindNearestAfter retrieves the earliest sample with a date > date.
	FindNearestAfter(ctx context.Context, date time.Time) (*domain.ExchangeRateSample, error)

	// CountSamples returns the number of cached samples.
	CountSamples(ctx context.Context) (int64, error)

	// FindDateRange returns the oldest and newest sample dates, both nil on an empty table.
	FindDateRange(ctx context.Context) (oldest, newest *time.Time, err error)
}

// ExchangeRateWriter defines write operations for exchange rate samples.
type ExchangeRateWriter interface {
	// InsertSampleIfAbsent stores sample unless one already exists for its date.
	// It reports whether a row was written; an existing row is never overwritten.
	InsertSampleIfAbsent(ctx context.Context, sample domain.ExchangeRateSample) (bool, error)
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
