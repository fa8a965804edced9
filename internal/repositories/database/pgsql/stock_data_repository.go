package pgsql

import (
	"context"
	"net/http"
	"time"

	"github.com/SscSPs/stock_insights_api/internal/apperrors"
	"github.com/SscSPs/stock_insights_api/internal/core/domain"
	portsrepo "github.com/SscSPs/stock_insights_api/internal/core/ports/repositories"
	"github.com/SscSPs/stock_insights_api/internal/models"
	"github.com/SscSPs/stock_insights_api/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxStockDataRepository stores provider payloads as JSONB, one row per ticker.
type PgxStockDataRepository struct {
	BaseRepository
}

func newPgxStockDataRepository(pool *pgxpool.Pool) *PgxStockDataRepository {
	return &PgxStockDataRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.StockSnapshotRepositoryFacade = (*PgxStockDataRepository)(nil)

func (r *PgxStockDataRepository) FindSnapshot(ctx context.Context, ticker string) (*domain.StockSnapshot, error) {
	var m models.StockData
	err := r.Pool.QueryRow(ctx,
		`SELECT ticker, data, last_updated FROM stock_data WHERE ticker = $1;`, ticker,
	).Scan(&m.Ticker, &m.Data, &m.LastUpdated)
	if err != nil {
		return nil, storeError(err, "no stock data for "+ticker, "failed to get stock data")
	}
	snapshot := mapping.ToDomainStockSnapshot(m)
	return &snapshot, nil
}

// FindSnapshots returns the stored snapshots among tickers. Missing tickers are simply absent.
func (r *PgxStockDataRepository) FindSnapshots(ctx context.Context, tickers []string) ([]domain.StockSnapshot, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT ticker, data, last_updated FROM stock_data WHERE ticker = ANY($1) ORDER BY ticker;`, tickers,
	)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to get stock data", err)
	}
	defer rows.Close()

	snapshots := []domain.StockSnapshot{}
	for rows.Next() {
		var m models.StockData
		if err := rows.Scan(&m.Ticker, &m.Data, &m.LastUpdated); err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan stock data", err)
		}
		snapshots = append(snapshots, mapping.ToDomainStockSnapshot(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating stock data", err)
	}
	return snapshots, nil
}

func (r *PgxStockDataRepository) UpsertSnapshot(ctx context.Context, snapshot domain.StockSnapshot) error {
	m := mapping.ToModelStockData(snapshot)
	query := `
		INSERT INTO stock_data (ticker, data, last_updated)
		VALUES ($1, $2, $3)
		ON CONFLICT (ticker) DO UPDATE SET
			data = EXCLUDED.data,
			last_updated = EXCLUDED.last_updated;
	`
	if _, err := r.Pool.Exec(ctx, query, m.Ticker, m.Data, m.LastUpdated); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to save stock data for "+m.Ticker, err)
	}
	return nil
}

func (r *PgxStockDataRepository) TouchAccessLog(ctx context.Context, ticker string, at time.Time) error {
	query := `
		INSERT INTO access_log (ticker, last_accessed)
		VALUES ($1, $2)
		ON CONFLICT (ticker) DO UPDATE SET last_accessed = EXCLUDED.last_accessed;
	`
	if _, err := r.Pool.Exec(ctx, query, ticker, at); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to update access log", err)
	}
	return nil
}
