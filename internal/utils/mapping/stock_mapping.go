package mapping

import (
	"encoding/json"

	"github.com/SscSPs/stock_insights_api/internal/core/domain"
	"github.com/SscSPs/stock_insights_api/internal/models"
)

func ToDomainTicker(m models.Ticker) domain.Ticker {
	return domain.Ticker{
		Symbol:    m.Symbol,
		Market:    domain.Market(m.Market),
		CreatedAt: m.CreatedAt,
	}
}

func ToModelTicker(d domain.Ticker) models.Ticker {
	return models.Ticker{
		Symbol:    d.Symbol,
		Market:    string(d.Market),
		CreatedAt: d.CreatedAt,
	}
}

func ToDomainTickerListing(m models.TickerListing) domain.TickerListing {
	return domain.TickerListing{
		Symbol:      m.Symbol,
		Market:      domain.Market(m.Market),
		LastUpdated: m.LastUpdated,
	}
}

// ToDomainStockSnapshot converts a stock_data row. The JSONB bytes are used as-is.
func ToDomainStockSnapshot(m models.StockData) domain.StockSnapshot {
	return domain.StockSnapshot{
		Ticker:      m.Ticker,
		Data:        json.RawMessage(m.Data),
		LastUpdated: m.LastUpdated,
	}
}

func ToModelStockData(d domain.StockSnapshot) models.StockData {
	return models.StockData{
		Ticker:      d.Ticker,
		Data:        []byte(d.Data),
		LastUpdated: d.LastUpdated,
	}
}

func ToDomainProjection(m models.Projection) domain.Projection {
	return domain.Projection{
		Ticker:  m.Ticker,
		Data:    json.RawMessage(m.Data),
		SavedAt: m.SavedAt,
	}
}

func ToModelProjection(d domain.Projection) models.Projection {
	return models.Projection{
		Ticker:  d.Ticker,
		Data:    []byte(d.Data),
		SavedAt: d.SavedAt,
	}
}
