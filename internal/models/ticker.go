package models

import "time"

// Ticker is a row of the tickers registry.
type Ticker struct {
	Symbol    string    `db:"symbol"` // Primary Key
	Market    string    `db:"market"`
	CreatedAt time.Time `db:"created_at"`
}

// TickerListing is a tickers row left-joined with stock_data.
type TickerListing struct {
	Symbol      string     `db:"symbol"`
	Market      string     `db:"market"`
	LastUpdated *time.Time `db:"last_updated"` // NULL until the first fetch
}
