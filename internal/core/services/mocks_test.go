package services_test

import (
	"context"
	"encoding/json"
	"time"

	"github.com/SscSPs/stock_insights_api/internal/core/domain"
	"github.com/SscSPs/stock_insights_api/internal/core/ports/providers"
	"github.com/stretchr/testify/mock"
)

// --- Mock TickerRepository ---
type MockTickerRepository struct {
	mock.Mock
}

func (m *MockTickerRepository) ListTickerListings(ctx context.Context, market domain.Market) ([]domain.TickerListing, error) {
	args := m.Called(ctx, market)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TickerListing), args.Error(1)
}

func (m *MockTickerRepository) ListTickers(ctx context.Context) ([]domain.Ticker, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticker), args.Error(1)
}

func (m *MockTickerRepository) UpsertTicker(ctx context.Context, ticker domain.Ticker) error {
	return m.Called(ctx, ticker).Error(0)
}

func (m *MockTickerRepository) DeleteTicker(ctx context.Context, symbol string) error {
	return m.Called(ctx, symbol).Error(0)
}

// --- Mock StockSnapshotRepository ---
type MockStockSnapshotRepository struct {
	mock.Mock
}

func (m *MockStockSnapshotRepository) FindSnapshot(ctx context.Context, ticker string) (*domain.StockSnapshot, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockSnapshot), args.Error(1)
}

func (m *MockStockSnapshotRepository) FindSnapshots(ctx context.Context, tickers []string) ([]domain.StockSnapshot, error) {
	args := m.Called(ctx, tickers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockSnapshot), args.Error(1)
}

func (m *MockStockSnapshotRepository) UpsertSnapshot(ctx context.Context, snapshot domain.StockSnapshot) error {
	return m.Called(ctx, snapshot).Error(0)
}

func (m *MockStockSnapshotRepository) TouchAccessLog(ctx context.Context, ticker string, at time.Time) error {
	return m.Called(ctx, ticker, at).Error(0)
}

// --- Mock ProjectionRepository ---
type MockProjectionRepository struct {
	mock.Mock
}

func (m *MockProjectionRepository) FindProjection(ctx context.Context, ticker string) (*domain.Projection, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Projection), args.Error(1)
}

func (m *MockProjectionRepository) UpsertProjection(ctx context.Context, projection domain.Projection) error {
	return m.Called(ctx, projection).Error(0)
}

// --- Mock QuoteProvider ---
type MockQuoteProvider struct {
	mock.Mock
}

func (m *MockQuoteProvider) Fetch(ctx context.Context, function providers.QuoteFunction, symbol string) (providers.Result[json.RawMessage], error) {
	args := m.Called(ctx, function, symbol)
	return args.Get(0).(providers.Result[json.RawMessage]), args.Error(1)
}

// --- Mock CompletionProvider ---
type MockCompletionProvider struct {
	mock.Mock
}

func (m *MockCompletionProvider) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
