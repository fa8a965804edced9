package models

import "time"

// StockData stores the raw provider payload for a ticker as JSONB.
type StockData struct {
	Ticker      string    `db:"ticker"` // Primary Key
	Data        []byte    `db:"data"`
	LastUpdated time.Time `db:"last_updated"`
}

// Projection stores a saved projection document as JSONB.
type Projection struct {
	Ticker  string    `db:"ticker"` // Primary Key
	Data    []byte    `db:"data"`
	SavedAt time.Time `db:"saved_at"`
}
