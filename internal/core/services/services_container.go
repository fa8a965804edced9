package services

import (
	"github.com/SscSPs/stock_insights_api/internal/core/domain"
	"github.com/SscSPs/stock_insights_api/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/stock_insights_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/stock_insights_api/internal/core/ports/services"
	"github.com/SscSPs/stock_insights_api/internal/platform/config"
	"github.com/SscSPs/stock_insights_api/internal/platform/metrics"
)

// UpstreamProviders bundles the third-party clients built in main.
// A nil field disables the operations that need it; they fail with a configuration error.
type UpstreamProviders struct {
	HistoricalRates providers.HistoricalRateProvider
	LatestRates     providers.LatestRateProvider
	Quotes          providers.QuoteProvider
	Completion      providers.CompletionProvider
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, upstream UpstreamProviders, m *metrics.Metrics) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	rateOpts := []ExchangeRateServiceOption{
		WithBackfillInterval(cfg.BackfillInterval),
		WithCurrencyPair(domain.CurrencyPair{Base: cfg.RateBaseCurrency, Quote: cfg.RateQuoteCurrency}),
		WithExchangeRateMetrics(m),
	}
	if upstream.HistoricalRates != nil {
		rateOpts = append(rateOpts, WithHistoricalRateProvider(upstream.HistoricalRates))
	}
	if upstream.LatestRates != nil {
		rateOpts = append(rateOpts, WithLatestRateProvider(upstream.LatestRates))
	}
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, rateOpts...)

	stockOpts := []StockServiceOption{
		WithQuoteCallInterval(cfg.QuoteCallInterval),
		WithStockMetrics(m),
	}
	if upstream.Quotes != nil {
		stockOpts = append(stockOpts, WithQuoteProvider(upstream.Quotes))
	}
	container.Stock = NewStockService(repos.StockSnapshotRepo, repos.TickerRepo, stockOpts...)

	container.Ticker = NewTickerService(repos.TickerRepo, repos.StockSnapshotRepo)
	container.Projection = NewProjectionService(repos.ProjectionRepo)

	var analysisOpts []AnalysisServiceOption
	if upstream.Completion != nil {
		analysisOpts = append(analysisOpts, WithCompletionProvider(upstream.Completion))
	}
	container.Analysis = NewAnalysisService(repos.StockSnapshotRepo, analysisOpts...)

	return container
}
