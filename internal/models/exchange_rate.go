package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRateSample is the exchange_rates row for one calendar date.
type ExchangeRateSample struct {
	RateDate  time.Time       `db:"rate_date"` // Primary Key
	Rate      decimal.Decimal `db:"rate"`
	Source    string          `db:"source"`
	CreatedAt time.Time       `db:"created_at"`
}
