package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/stock_insights_api/internal/apperrors"
	"github.com/SscSPs/stock_insights_api/internal/core/domain"
	"github.com/SscSPs/stock_insights_api/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/stock_insights_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/stock_insights_api/internal/core/ports/services"
	"github.com/SscSPs/stock_insights_api/internal/dto"
	"github.com/SscSPs/stock_insights_api/internal/platform/metrics"
	"golang.org/x/time/rate"
)

// DefaultQuoteCallInterval is the minimum gap between two quote provider calls.
const DefaultQuoteCallInterval = 1500 * time.Millisecond

const (
	quoteProviderSetting = "ALPHA_VANTAGE_KEY"
	quoteProviderName    = "alphavantage"
	reasonUpToDate       = "Already up to date"
)

// Sections stored in place of a document the provider would not serve.
var quotePlaceholders = map[providers.QuoteFunction]json.RawMessage{
	providers.QuoteOverview:      json.RawMessage(`{}`),
	providers.QuoteGlobalQuote:   json.RawMessage(`{}`),
	providers.QuoteIncome:        json.RawMessage(`{"annualReports":[]}`),
	providers.QuoteBalanceSheet:  json.RawMessage(`{"annualReports":[]}`),
	providers.QuoteMonthlyPrices: json.RawMessage(`{"Monthly Adjusted Time Series":{}}`),
}

type stockService struct {
	BaseService
	snapshotRepo portsrepo.StockSnapshotRepositoryFacade
	tickerRepo   portsrepo.TickerRepositoryFacade
	quotes       providers.QuoteProvider
	pacer        providers.Pacer
	metrics      *metrics.Metrics
}

// StockServiceOption is a functional option for configuring the stock service
type StockServiceOption func(*stockService)

// WithQuoteProvider sets the fundamentals provider. Without one, fetches fail with a configuration error.
func WithQuoteProvider(p providers.QuoteProvider) StockServiceOption {
	return func(s *stockService) {
		s.quotes = p
	}
}

// WithQuotePacer replaces the pacing policy applied before each quote provider call.
func WithQuotePacer(p providers.Pacer) StockServiceOption {
	return func(s *stockService) {
		s.pacer = p
	}
}

// WithQuoteCallInterval paces quote provider calls at most one per interval.
func WithQuoteCallInterval(interval time.Duration) StockServiceOption {
	return func(s *stockService) {
		s.pacer = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// WithStockClock overrides time.Now, which decides snapshot timestamps and the smart refresh cutoff.
func WithStockClock(now func() time.Time) StockServiceOption {
	return func(s *stockService) {
		s.now = now
	}
}

// WithStockMetrics attaches Prometheus recorders.
func WithStockMetrics(m *metrics.Metrics) StockServiceOption {
	return func(s *stockService) {
		s.metrics = m
	}
}

// NewStockService creates a new stock data service with the provided options
func NewStockService(snapshotRepo portsrepo.StockSnapshotRepositoryFacade, tickerRepo portsrepo.TickerRepositoryFacade, options ...StockServiceOption) portssvc.StockSvcFacade {
	svc := &stockService{
		snapshotRepo: snapshotRepo,
		tickerRepo:   tickerRepo,
		pacer:        rate.NewLimiter(rate.Every(DefaultQuoteCallInterval), 1),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.StockSvcFacade = (*stockService)(nil)

func (s *stockService) GetStockData(ctx context.Context, ticker string) (json.RawMessage, error) {
	ticker = dto.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, apperrors.NewValidationError("Ticker required")
	}

	snapshot, err := s.snapshotRepo.FindSnapshot(ctx, ticker)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Data not found locally.")
		}
		s.LogError(ctx, err, "Failed to read stock snapshot", slog.String("ticker", ticker))
		return nil, err
	}

	if err := s.snapshotRepo.TouchAccessLog(ctx, ticker, s.Now().UTC()); err != nil {
		s.LogWarn(ctx, "Failed to record stock access", slog.String("ticker", ticker), slog.String("error", err.Error()))
	}
	return snapshot.Data, nil
}

func (s *stockService) RequestTicker(ctx context.Context, ticker string) (*domain.Ticker, error) {
	ticker = dto.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, apperrors.NewValidationError("Ticker required")
	}

	if err := s.fetchAndStore(ctx, ticker); err != nil {
		return nil, err
	}

	registered := domain.Ticker{Symbol: ticker, Market: domain.DetectMarket(ticker), CreatedAt: s.Now().UTC()}
	if err := s.tickerRepo.UpsertTicker(ctx, registered); err != nil {
		s.LogError(ctx, err, "Failed to register requested ticker", slog.String("ticker", ticker))
		return nil, err
	}
	return &registered, nil
}

func (s *stockService) RefreshTicker(ctx context.Context, ticker string) (*domain.RefreshOutcome, error) {
	ticker = dto.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, apperrors.NewValidationError("Ticker required")
	}
	outcome, err := s.refresh(ctx, ticker, domain.RefreshSmart)
	if err != nil {
		s.metrics.RecordStockRefresh(string(domain.RefreshSmart), string(domain.RefreshError))
		return nil, err
	}
	s.metrics.RecordStockRefresh(string(domain.RefreshSmart), string(outcome.Status))
	return outcome, nil
}

func (s *stockService) RefreshBatch(ctx context.Context, tickers []string, mode domain.RefreshMode) []domain.RefreshOutcome {
	if mode == "" {
		mode = domain.RefreshSmart
	}

	outcomes := make([]domain.RefreshOutcome, 0, len(tickers))
	for _, raw := range tickers {
		ticker := dto.NormalizeTicker(raw)

		outcome, err := s.refresh(ctx, ticker, mode)
		if err != nil {
			outcome = &domain.RefreshOutcome{Ticker: ticker, Status: domain.RefreshError, Error: apperrors.Message(err)}
		}
		s.metrics.RecordStockRefresh(string(mode), string(outcome.Status))
		outcomes = append(outcomes, *outcome)
	}

	s.LogInfo(ctx, "Stock refresh batch complete", slog.String("mode", string(mode)), slog.Int("tickers", len(tickers)))
	return outcomes
}

func (s *stockService) RefreshAll(ctx context.Context, mode domain.RefreshMode) ([]domain.RefreshOutcome, error) {
	tickers, err := s.tickerRepo.ListTickers(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tickers for refresh")
		return nil, err
	}
	symbols := make([]string, 0, len(tickers))
	for _, t := range tickers {
		symbols = append(symbols, t.Symbol)
	}
	return s.RefreshBatch(ctx, symbols, mode), nil
}

// refresh fetches ticker unless mode is smart and its snapshot was already written today.
func (s *stockService) refresh(ctx context.Context, ticker string, mode domain.RefreshMode) (*domain.RefreshOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ticker == "" {
		return nil, apperrors.NewValidationError("Ticker required")
	}

	if mode == domain.RefreshSmart {
		existing, err := s.snapshotRepo.FindSnapshot(ctx, ticker)
		switch {
		case err == nil:
			if existing.UpdatedSince(domain.StartOfDay(s.Now())) {
				lastUpdated := existing.LastUpdated
				return &domain.RefreshOutcome{
					Ticker:      ticker,
					Status:      domain.RefreshSkipped,
					Reason:      reasonUpToDate,
					LastUpdated: &lastUpdated,
				}, nil
			}
		case !errors.Is(err, apperrors.ErrNotFound):
			s.LogError(ctx, err, "Failed to read stock snapshot", slog.String("ticker", ticker))
			return nil, err
		}
	}

	if err := s.fetchAndStore(ctx, ticker); err != nil {
		return nil, err
	}
	return &domain.RefreshOutcome{Ticker: ticker, Status: domain.RefreshSuccess}, nil
}

func (s *stockService) fetchAndStore(ctx context.Context, ticker string) error {
	payload, err := s.fetchPayload(ctx, ticker)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch stock data", slog.String("ticker", ticker))
		return err
	}

	snapshot := domain.StockSnapshot{Ticker: ticker, Data: payload, LastUpdated: s.Now().UTC()}
	if err := s.snapshotRepo.UpsertSnapshot(ctx, snapshot); err != nil {
		s.LogError(ctx, err, "Failed to store stock snapshot", slog.String("ticker", ticker))
		return err
	}
	s.LogInfo(ctx, "Stock snapshot stored", slog.String("ticker", ticker))
	return nil
}

// fetchPayload pulls the five provider documents for ticker in sequence.
func (s *stockService) fetchPayload(ctx context.Context, ticker string) (json.RawMessage, error) {
	if s.quotes == nil {
		return nil, apperrors.NewConfigurationError(quoteProviderSetting)
	}
	if domain.DetectMarket(ticker) == domain.MarketIN {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%s: Indian market tickers cannot be fetched by this server", ticker))
	}

	functions := []providers.QuoteFunction{
		providers.QuoteOverview,
		providers.QuoteGlobalQuote,
		providers.QuoteIncome,
		providers.QuoteBalanceSheet,
		providers.QuoteMonthlyPrices,
	}
	docs := make(map[providers.QuoteFunction]json.RawMessage, len(functions))

	for _, function := range functions {
		if err := s.pacer.Wait(ctx); err != nil {
			return nil, err
		}

		res, err := s.quotes.Fetch(ctx, function, ticker)
		if err != nil {
			s.metrics.RecordUpstreamCall(quoteProviderName, "error")
			return nil, apperrors.NewUpstreamError(fmt.Sprintf("%s request failed for %s: %v", function, ticker, err))
		}
		s.metrics.RecordUpstreamCall(quoteProviderName, res.Kind.String())

		switch {
		case res.IsOK():
			docs[function] = res.Payload
		case res.Kind == providers.ResultLimitReached && (function == providers.QuoteOverview || function == providers.QuoteGlobalQuote):
			return nil, apperrors.NewUpstreamError("Alpha Vantage API limit reached")
		default:
			s.LogWarn(ctx, "Quote provider document unavailable, storing placeholder",
				slog.String("ticker", ticker),
				slog.String("function", string(function)),
				slog.String("result", res.Kind.String()),
				slog.String("detail", res.Detail))
			docs[function] = quotePlaceholders[function]
		}
	}

	return json.Marshal(domain.StockPayload{
		Overview:     docs[providers.QuoteOverview],
		Quote:        docs[providers.QuoteGlobalQuote],
		Income:       docs[providers.QuoteIncome],
		BalanceSheet: docs[providers.QuoteBalanceSheet],
		History:      docs[providers.QuoteMonthlyPrices],
		Market:       domain.MarketUS,
		Currency:     "USD",
		LastUpdated:  s.Now().UTC(),
	})
}
