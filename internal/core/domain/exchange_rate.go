package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// BackfillStartYear is the first year the historical rate provider has data for.
const BackfillStartYear = 1999

// DefaultExchangeRate is served when the cache holds no samples at all.
var DefaultExchangeRate = decimal.NewFromFloat(83.5)

// CurrencyPair identifies the conversion a sample describes: Quote units per one Base unit.
type CurrencyPair struct {
	Base  string `json:"base"`
	Quote string `json:"quote"`
}

// ExchangeRateSample is a single cached rate for one calendar date.
// There is at most one sample per date.
type ExchangeRateSample struct {
	Date      time.Time       `json:"date"`
	Rate      decimal.Decimal `json:"rate"`
	Source    string          `json:"source"`
	CreatedAt time.Time       `json:"createdAt"`
}

// DateString renders the sample date in DateLayout.
func (s ExchangeRateSample) DateString() string {
	return s.Date.Format(DateLayout)
}

// BackfillMode selects which set of target dates a backfill walks.
type BackfillMode string

const (
	BackfillYearly  BackfillMode = "yearly"
	BackfillMonthly BackfillMode = "monthly"
)

// BackfillReport summarises one backfill run. Written holds only samples created by this run.
type BackfillReport struct {
	Mode    BackfillMode
	Year    int
	Success int
	Failed  int
	Skipped int
	Written []ExchangeRateSample
}

// BackfillStatus describes the current coverage of the cache.
type BackfillStatus struct {
	Count      int64
	OldestDate *time.Time
	NewestDate *time.Time
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.UTC)
}

// NormalizeDate truncates t to midnight UTC of its calendar day.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// YearlyTargetDate is the sample date used by the yearly backfill for year.
func YearlyTargetDate(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// MonthlyTargetDate is the sample date used by the monthly backfill: mid-month avoids boundary ambiguity.
func MonthlyTargetDate(year int, month time.Month) time.Time {
	return time.Date(year, month, 15, 0, 0, 0, 0, time.UTC)
}

// CrossRate derives pair's rate from rates quoted against a third currency:
// Quote per Base = rates[Quote] / rates[Base]. Both legs must be present and positive.
func CrossRate(rates map[string]decimal.Decimal, pair CurrencyPair) (decimal.Decimal, error) {
	base, ok := rates[pair.Base]
	if !ok || !base.IsPositive() {
		return decimal.Zero, fmt.Errorf("no usable %s rate", pair.Base)
	}
	quote, ok := rates[pair.Quote]
	if !ok || !quote.IsPositive() {
		return decimal.Zero, fmt.Errorf("no usable %s rate", pair.Quote)
	}
	return quote.Div(base), nil
}
