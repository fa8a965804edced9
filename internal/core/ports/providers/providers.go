package providers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// HistoricalRateProvider looks up currency rates for a past date.
// Transport failures are returned as errors; payload-level problems come back as a tagged Result.
type HistoricalRateProvider interface {
	// Name is the provenance tag stored with samples written from this provider.
	Name() string

	// HistoricalRates returns rates for symbols on date, quoted against the provider's own base currency.
	HistoricalRates(ctx context.Context, date time.Time, symbols []string) (Result[map[string]decimal.Decimal], error)
}

// LatestRateProvider returns the current rate for a currency pair.
type LatestRateProvider interface {
	LatestRate(ctx context.Context, base, quote string) (Result[decimal.Decimal], error)
}

// QuoteFunction names one fundamentals/quote document offered by the quote provider.
type QuoteFunction string

const (
	QuoteOverview      QuoteFunction = "OVERVIEW"
	QuoteGlobalQuote   QuoteFunction = "GLOBAL_QUOTE"
	QuoteIncome        QuoteFunction = "INCOME_STATEMENT"
	QuoteBalanceSheet  QuoteFunction = "BALANCE_SHEET"
	QuoteMonthlyPrices QuoteFunction = "TIME_SERIES_MONTHLY_ADJUSTED"
)

// QuoteProvider fetches raw fundamentals documents for a ticker.
type QuoteProvider interface {
	Fetch(ctx context.Context, function QuoteFunction, symbol string) (Result[json.RawMessage], error)
}

// CompletionProvider produces a natural-language completion for a prompt.
type CompletionProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Pacer enforces the minimum interval between sequential upstream calls.
// *rate.Limiter from golang.org/x/time/rate satisfies it.
type Pacer interface {
	Wait(ctx context.Context) error
}
