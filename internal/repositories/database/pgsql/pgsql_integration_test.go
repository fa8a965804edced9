package pgsql

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/SscSPs/stock_insights_api/internal/apperrors"
	"github.com/SscSPs/stock_insights_api/internal/core/domain"
	"github.com/SscSPs/stock_insights_api/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type PgsqlIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container testcontainers.Container
	pool      *pgxpool.Pool
}

func TestPgsqlIntegration(t *testing.T) {
	if os.Getenv("STOCKS_TEST_DOCKER") != "true" {
		t.Skip("Docker tests disabled (set STOCKS_TEST_DOCKER=true to enable)")
	}
	suite.Run(t, new(PgsqlIntegrationSuite))
}

func migrationsURL() string {
	_, file, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(file), "..", "..", "..", "..")
	return "file://" + filepath.ToSlash(filepath.Join(root, "migrations"))
}

func (s *PgsqlIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "stocks",
			"POSTGRES_PASSWORD": "stocks",
			"POSTGRES_DB":       "stocks",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	s.Require().NoError(err)
	s.container = container

	host, err := container.Host(s.ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(s.ctx, "5432/tcp")
	s.Require().NoError(err)

	dsn := fmt.Sprintf("postgres://stocks:stocks@%s:%s/stocks?sslmode=disable", host, port.Port())
	s.Require().NoError(database.RunMigrations(dsn, migrationsURL(), slog.Default()))

	s.pool, err = database.NewPgxPool(s.ctx, dsn, true)
	s.Require().NoError(err)
}

func (s *PgsqlIntegrationSuite) TearDownSuite() {
	database.ClosePgxPool(s.pool)
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PgsqlIntegrationSuite) SetupTest() {
	_, err := s.pool.Exec(s.ctx, `TRUNCATE exchange_rates, tickers, stock_data, projections, access_log;`)
	s.Require().NoError(err)
}

func (s *PgsqlIntegrationSuite) date(value string) time.Time {
	d, err := domain.ParseDate(value)
	s.Require().NoError(err)
	return d
}

func (s *PgsqlIntegrationSuite) TestExchangeRates_NearestLookups() {
	repo := newPgxExchangeRateRepository(s.pool)

	_, err := repo.FindNearestOnOrBefore(s.ctx, s.date("2010-06-15"))
	s.ErrorIs(err, apperrors.ErrNotFound)

	for _, d := range []string{"2010-01-01", "2012-01-01"} {
		written, err := repo.InsertSampleIfAbsent(s.ctx, domain.ExchangeRateSample{
			Date: s.date(d), Rate: decimal.RequireFromString("45.5"), Source: "fixer", CreatedAt: time.Now(),
		})
		s.Require().NoError(err)
		s.True(written)
	}

	exact, err := repo.FindSampleByDate(s.ctx, s.date("2010-01-01"))
	s.Require().NoError(err)
	s.Equal("2010-01-01", exact.DateString())
	s.True(exact.Rate.Equal(decimal.RequireFromString("45.5")))

	before, err := repo.FindNearestOnOrBefore(s.ctx, s.date("2011-06-15"))
	s.Require().NoError(err)
	s.Equal("2010-01-01", before.DateString())

	after, err := repo.FindNearestAfter(s.ctx, s.date("2010-01-01"))
	s.Require().NoError(err)
	s.Equal("2012-01-01", after.DateString())

	_, err = repo.FindNearestAfter(s.ctx, s.date("2012-01-01"))
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *PgsqlIntegrationSuite) TestExchangeRates_InsertNeverOverwrites() {
	repo := newPgxExchangeRateRepository(s.pool)
	sample := domain.ExchangeRateSample{Date: s.date("2015-01-01"), Rate: decimal.NewFromInt(62), Source: "fixer", CreatedAt: time.Now()}

	written, err := repo.InsertSampleIfAbsent(s.ctx, sample)
	s.Require().NoError(err)
	s.True(written)

	sample.Rate = decimal.NewFromInt(99)
	written, err = repo.InsertSampleIfAbsent(s.ctx, sample)
	s.Require().NoError(err)
	s.False(written)

	stored, err := repo.FindSampleByDate(s.ctx, sample.Date)
	s.Require().NoError(err)
	s.True(stored.Rate.Equal(decimal.NewFromInt(62)))

	count, err := repo.CountSamples(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(1, count)
}

func (s *PgsqlIntegrationSuite) TestExchangeRates_DateRange() {
	repo := newPgxExchangeRateRepository(s.pool)

	oldest, newest, err := repo.FindDateRange(s.ctx)
	s.Require().NoError(err)
	s.Nil(oldest)
	s.Nil(newest)

	for _, d := range []string{"2001-01-01", "1999-01-01", "2020-03-15"} {
		_, err := repo.InsertSampleIfAbsent(s.ctx, domain.ExchangeRateSample{Date: s.date(d), Rate: decimal.NewFromInt(50), Source: "fixer", CreatedAt: time.Now()})
		s.Require().NoError(err)
	}

	oldest, newest, err = repo.FindDateRange(s.ctx)
	s.Require().NoError(err)
	s.Require().NotNil(oldest)
	s.Require().NotNil(newest)
	s.Equal("1999-01-01", oldest.Format(domain.DateLayout))
	s.Equal("2020-03-15", newest.Format(domain.DateLayout))
}

func (s *PgsqlIntegrationSuite) TestTickers_ListingAndCascadeDelete() {
	tickers := newPgxTickerRepository(s.pool)
	snapshots := newPgxStockDataRepository(s.pool)
	projections := newPgxProjectionRepository(s.pool)
	now := time.Now().UTC().Truncate(time.Second)

	s.Require().NoError(tickers.UpsertTicker(s.ctx, domain.Ticker{Symbol: "MSFT", Market: domain.MarketUS, CreatedAt: now}))
	s.Require().NoError(tickers.UpsertTicker(s.ctx, domain.Ticker{Symbol: "AAPL", Market: domain.MarketUS, CreatedAt: now}))
	s.Require().NoError(tickers.UpsertTicker(s.ctx, domain.Ticker{Symbol: "TCS.NS", Market: domain.MarketIN, CreatedAt: now}))
	s.Require().NoError(snapshots.UpsertSnapshot(s.ctx, domain.StockSnapshot{
		Ticker: "AAPL", Data: json.RawMessage(`{"overview":{"Name":"Apple Inc"}}`), LastUpdated: now,
	}))
	s.Require().NoError(projections.UpsertProjection(s.ctx, domain.Projection{
		Ticker: "AAPL", Data: json.RawMessage(`{"growth":0.1}`), SavedAt: now,
	}))
	s.Require().NoError(snapshots.TouchAccessLog(s.ctx, "AAPL", now))

	listings, err := tickers.ListTickerListings(s.ctx, domain.MarketUS)
	s.Require().NoError(err)
	s.Require().Len(listings, 2)
	s.Equal("AAPL", listings[0].Symbol)
	s.Require().NotNil(listings[0].LastUpdated)
	s.True(listings[0].LastUpdated.Equal(now))
	s.Equal("MSFT", listings[1].Symbol)
	s.Nil(listings[1].LastUpdated)

	s.Require().NoError(tickers.DeleteTicker(s.ctx, "AAPL"))

	_, err = snapshots.FindSnapshot(s.ctx, "AAPL")
	s.ErrorIs(err, apperrors.ErrNotFound)
	_, err = projections.FindProjection(s.ctx, "AAPL")
	s.ErrorIs(err, apperrors.ErrNotFound)

	all, err := tickers.ListTickers(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 2)

	s.NoError(tickers.DeleteTicker(s.ctx, "UNKNOWN"))
}

func (s *PgsqlIntegrationSuite) TestStockData_UpsertIsLastWriteWins() {
	repo := newPgxStockDataRepository(s.pool)
	first := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	second := first.Add(30 * time.Minute)

	s.Require().NoError(repo.UpsertSnapshot(s.ctx, domain.StockSnapshot{Ticker: "IBM", Data: json.RawMessage(`{"v":1}`), LastUpdated: first}))
	s.Require().NoError(repo.UpsertSnapshot(s.ctx, domain.StockSnapshot{Ticker: "IBM", Data: json.RawMessage(`{"v":2}`), LastUpdated: second}))

	snap, err := repo.FindSnapshot(s.ctx, "IBM")
	s.Require().NoError(err)
	s.JSONEq(`{"v":2}`, string(snap.Data))
	s.True(snap.LastUpdated.Equal(second))

	found, err := repo.FindSnapshots(s.ctx, []string{"IBM", "NOPE"})
	s.Require().NoError(err)
	s.Len(found, 1)
}
