package mapping

import (
	"github.com/SscSPs/stock_insights_api/internal/core/domain"
	"github.com/SscSPs/stock_insights_api/internal/models"
)

// ToModelExchangeRateSample converts a domain sample to its row model.
func ToModelExchangeRateSample(d domain.ExchangeRateSample) models.ExchangeRateSample {
	return models.ExchangeRateSample{
		RateDate:  domain.NormalizeDate(d.Date),
		Rate:      d.Rate,
		Source:    d.Source,
		CreatedAt: d.CreatedAt,
	}
}

// ToDomainExchangeRateSample converts a row model to a domain sample.
func ToDomainExchangeRateSample(m models.ExchangeRateSample) domain.ExchangeRateSample {
	return domain.ExchangeRateSample{
		Date:      domain.NormalizeDate(m.RateDate),
		Rate:      m.Rate,
		Source:    m.Source,
		CreatedAt: m.CreatedAt,
	}
}
