package domain

import (
	"encoding/json"
	"fmt"
)

const notAvailable = "N/A"

// StockFacts is the flat subset of a snapshot used for search names and LLM context.
type StockFacts struct {
	Name          string
	Sector        string
	Industry      string
	Price         string
	PERatio       string
	ForwardPE     string
	MarketCap     string
	RevenueTTM    string
	EPS           string
	ProfitMargin  string
	RevenueGrowth string
	High52Week    string
	Low52Week     string
}

type factsDocument struct {
	Overview map[string]any `json:"overview"`
	Quote    struct {
		GlobalQuote map[string]any `json:"Global Quote"`
	} `json:"quote"`
}

// ExtractStockFacts pulls the well-known overview and quote fields out of a stored payload.
// Missing fields (or an unreadable payload) come back as "N/A".
func ExtractStockFacts(data json.RawMessage) StockFacts {
	var doc factsDocument
	if len(data) > 0 {
		_ = json.Unmarshal(data, &doc)
	}
	ov := doc.Overview
	return StockFacts{
		Name:          field(ov, "Name"),
		Sector:        field(ov, "Sector"),
		Industry:      field(ov, "Industry"),
		Price:         field(doc.Quote.GlobalQuote, "05. price"),
		PERatio:       field(ov, "PERatio", "TrailingPE"),
		ForwardPE:     field(ov, "ForwardPE"),
		MarketCap:     field(ov, "MarketCapitalization"),
		RevenueTTM:    field(ov, "RevenueTTM"),
		EPS:           field(ov, "EPS"),
		ProfitMargin:  field(ov, "ProfitMargin"),
		RevenueGrowth: field(ov, "QuarterlyRevenueGrowthYOY"),
		High52Week:    field(ov, "52WeekHigh"),
		Low52Week:     field(ov, "52WeekLow"),
	}
}

// HasName reports whether the snapshot carried a company name.
func (f StockFacts) HasName() bool {
	return f.Name != notAvailable
}

func field(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		s := fmt.Sprint(v)
		if s != "" && s != "None" {
			return s
		}
	}
	return notAvailable
}
