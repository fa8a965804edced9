package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/stock_insights_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRateQuery is the query string of a cached rate lookup.
type ExchangeRateQuery struct {
	Date string `form:"date" binding:"required"`
}

// ExchangeRateCommand is the body of POST /exchange-rate. An empty Mode means yearly.
type ExchangeRateCommand struct {
	Mode string       `json:"mode"`
	Year FlexibleYear `json:"year" swaggertype:"integer"`
}

// FlexibleYear decodes from a JSON number or a numeric string. null and "" decode to 0.
type FlexibleYear int

func (y *FlexibleYear) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*y = 0
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	if raw == "" {
		*y = 0
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("year must be a number, got %s", data)
	}
	*y = FlexibleYear(n)
	return nil
}

const (
	ModeYearly  = "yearly"
	ModeMonthly = "monthly"
	ModeStatus  = "status"
)

// ExchangeRateResponse is returned for a cached rate lookup.
type ExchangeRateResponse struct {
	Date   string  `json:"date"`
	Rate   float64 `json:"rate"`
	Source string  `json:"source"`
}

// LatestRateResponse is returned for the live rate.
type LatestRateResponse struct {
	Rate float64 `json:"rate"`
}

// RatePoint is one sample written by a backfill.
type RatePoint struct {
	Date string  `json:"date"`
	Rate float64 `json:"rate"`
}

// YearlyBackfillResponse reports a yearly backfill.
type YearlyBackfillResponse struct {
	Message string      `json:"message"`
	Success int         `json:"success"`
	Failed  int         `json:"failed"`
	Skipped int         `json:"skipped"`
	Rates   []RatePoint `json:"rates"`
}

// MonthlyBackfillResponse reports a monthly backfill.
type MonthlyBackfillResponse struct {
	Message string `json:"message"`
	Year    int    `json:"year"`
	Success int    `json:"success"`
	Failed  int    `json:"failed"`
	Skipped int    `json:"skipped"`
}

// BackfillStatusResponse reports cache coverage. Dates are null on an empty cache.
type BackfillStatusResponse struct {
	Count      int64   `json:"count"`
	OldestDate *string `json:"oldestDate"`
	NewestDate *string `json:"newestDate"`
}

// ToExchangeRateResponse builds the lookup response, echoing the requested date.
func ToExchangeRateResponse(date string, rate decimal.Decimal) ExchangeRateResponse {
	return ExchangeRateResponse{Date: date, Rate: rate.InexactFloat64(), Source: "cached"}
}

// ToYearlyBackfillResponse converts a yearly report.
func ToYearlyBackfillResponse(report *domain.BackfillReport) YearlyBackfillResponse {
	rates := make([]RatePoint, 0, len(report.Written))
	for _, s := range report.Written {
		rates = append(rates, RatePoint{Date: s.DateString(), Rate: s.Rate.InexactFloat64()})
	}
	return YearlyBackfillResponse{
		Message: "Yearly backfill complete",
		Success: report.Success,
		Failed:  report.Failed,
		Skipped: report.Skipped,
		Rates:   rates,
	}
}

// ToMonthlyBackfillResponse converts a monthly report.
func ToMonthlyBackfillResponse(report *domain.BackfillReport) MonthlyBackfillResponse {
	return MonthlyBackfillResponse{
		Message: fmt.Sprintf("Monthly backfill for %d complete", report.Year),
		Year:    report.Year,
		Success: report.Success,
		Failed:  report.Failed,
		Skipped: report.Skipped,
	}
}

// ToBackfillStatusResponse converts a status read.
func ToBackfillStatusResponse(status *domain.BackfillStatus) BackfillStatusResponse {
	return BackfillStatusResponse{
		Count:      status.Count,
		OldestDate: formatDatePtr(status.OldestDate),
		NewestDate: formatDatePtr(status.NewestDate),
	}
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateLayout)
	return &s
}
