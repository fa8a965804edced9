package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/stock_insights_api/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := domain.ParseDate("2010-06-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2010, time.June, 15, 0, 0, 0, 0, time.UTC), d)

	for _, bad := range []string{"", "2010/06/15", "15-06-2010", "2010-13-01", "yesterday"} {
		_, err := domain.ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestTargetDates(t *testing.T) {
	assert.Equal(t, "2005-01-01", domain.ExchangeRateSample{Date: domain.YearlyTargetDate(2005)}.DateString())
	assert.Equal(t, "2023-07-15", domain.ExchangeRateSample{Date: domain.MonthlyTargetDate(2023, time.July)}.DateString())
}

func TestNormalizeDate(t *testing.T) {
	in := time.Date(2021, 2, 3, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2021, 2, 3, 0, 0, 0, 0, time.UTC), domain.NormalizeDate(in))
}

func TestCrossRate(t *testing.T) {
	pair := domain.CurrencyPair{Base: "USD", Quote: "INR"}

	got, err := domain.CrossRate(map[string]decimal.Decimal{
		"USD": decimal.RequireFromString("1.1"),
		"INR": decimal.NewFromInt(90),
	}, pair)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(90).Div(decimal.RequireFromString("1.1"))), got.String())

	bad := []map[string]decimal.Decimal{
		{"INR": decimal.NewFromInt(90)},
		{"USD": decimal.RequireFromString("1.1")},
		{"USD": decimal.Zero, "INR": decimal.NewFromInt(90)},
		{"USD": decimal.NewFromInt(1), "INR": decimal.NewFromInt(-3)},
	}
	for _, rates := range bad {
		_, err := domain.CrossRate(rates, pair)
		assert.Error(t, err)
	}
}
