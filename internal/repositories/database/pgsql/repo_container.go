package pgsql

import (
	portsrepo "github.com/SscSPs/stock_insights_api/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ExchangeRateRepo:  newPgxExchangeRateRepository(dbPool),
		TickerRepo:        newPgxTickerRepository(dbPool),
		StockSnapshotRepo: newPgxStockDataRepository(dbPool),
		ProjectionRepo:    newPgxProjectionRepository(dbPool),
	}
}
