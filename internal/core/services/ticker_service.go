package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/stock_insights_api/internal/apperrors"
	"github.com/SscSPs/stock_insights_api/internal/core/domain"
	portsrepo "github.com/SscSPs/stock_insights_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/stock_insights_api/internal/core/ports/services"
	"github.com/SscSPs/stock_insights_api/internal/dto"
)

type tickerService struct {
	BaseService
	tickerRepo   portsrepo.TickerRepositoryFacade
	snapshotRepo portsrepo.StockSnapshotRepositoryFacade
}

// TickerServiceOption is a functional option for configuring the ticker service
type TickerServiceOption func(*tickerService)

// WithTickerClock overrides time.Now for registry timestamps.
func WithTickerClock(now func() time.Time) TickerServiceOption {
	return func(s *tickerService) {
		s.now = now
	}
}

// NewTickerService creates a new ticker registry service.
func NewTickerService(tickerRepo portsrepo.TickerRepositoryFacade, snapshotRepo portsrepo.StockSnapshotRepositoryFacade, options ...TickerServiceOption) portssvc.TickerSvcFacade {
	svc := &tickerService{
		tickerRepo:   tickerRepo,
		snapshotRepo: snapshotRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TickerSvcFacade = (*tickerService)(nil)

func (s *tickerService) ListTickers(ctx context.Context, market domain.Market) ([]domain.TickerListing, error) {
	if market == "" {
		market = domain.MarketUS
	}
	listings, err := s.tickerRepo.ListTickerListings(ctx, market)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tickers", slog.String("market", string(market)))
		return nil, err
	}
	return listings, nil
}

// SearchStocks lists every registered ticker with its company name, falling back to the symbol
// when the ticker has no snapshot or the snapshot has no name.
func (s *tickerService) SearchStocks(ctx context.Context) ([]domain.StockSearchEntry, error) {
	tickers, err := s.tickerRepo.ListTickers(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tickers for search")
		return nil, err
	}

	symbols := make([]string, 0, len(tickers))
	for _, t := range tickers {
		symbols = append(symbols, t.Symbol)
	}

	names := make(map[string]string, len(tickers))
	if len(symbols) > 0 {
		snapshots, err := s.snapshotRepo.FindSnapshots(ctx, symbols)
		if err != nil {
			s.LogError(ctx, err, "Failed to load snapshots for search")
			return nil, err
		}
		for _, snap := range snapshots {
			if facts := domain.ExtractStockFacts(snap.Data); facts.HasName() {
				names[snap.Ticker] = facts.Name
			}
		}
	}

	entries := make([]domain.StockSearchEntry, 0, len(tickers))
	for _, t := range tickers {
		name, ok := names[t.Symbol]
		if !ok {
			name = t.Symbol
		}
		entries = append(entries, domain.StockSearchEntry{Symbol: t.Symbol, Name: name, Market: t.Market})
	}
	return entries, nil
}

func (s *tickerService) AddTicker(ctx context.Context, req dto.AddTickerRequest) (*domain.Ticker, error) {
	market := domain.Market(strings.ToUpper(strings.TrimSpace(req.Market)))
	if market == "" {
		market = domain.MarketUS
	}
	if market != domain.MarketUS && market != domain.MarketIN {
		return nil, apperrors.NewValidationError("market must be US or IN")
	}

	symbol := domain.NormalizeSymbol(req.Ticker, market)
	if symbol == "" {
		return nil, apperrors.NewValidationError("Ticker required")
	}

	ticker := domain.Ticker{Symbol: symbol, Market: market, CreatedAt: s.Now().UTC()}
	if err := s.tickerRepo.UpsertTicker(ctx, ticker); err != nil {
		s.LogError(ctx, err, "Failed to register ticker", slog.String("ticker", symbol))
		return nil, err
	}

	s.LogInfo(ctx, "Ticker registered", slog.String("ticker", symbol), slog.String("market", string(market)))
	return &ticker, nil
}

func (s *tickerService) DeleteTicker(ctx context.Context, symbol string) error {
	symbol = dto.NormalizeTicker(symbol)
	if symbol == "" {
		return apperrors.NewValidationError("Ticker required")
	}
	if err := s.tickerRepo.DeleteTicker(ctx, symbol); err != nil {
		s.LogError(ctx, err, "Failed to delete ticker", slog.String("ticker", symbol))
		return err
	}
	s.LogInfo(ctx, "Ticker deleted", slog.String("ticker", symbol))
	return nil
}
