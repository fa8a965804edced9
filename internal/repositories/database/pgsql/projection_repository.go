package pgsql

import (
	"context"
	"net/http"

	"github.com/SscSPs/stock_insights_api/internal/apperrors"
	"github.com/SscSPs/stock_insights_api/internal/core/domain"
	portsrepo "github.com/SscSPs/stock_insights_api/internal/core/ports/repositories"
	"github.com/SscSPs/stock_insights_api/internal/models"
	"github.com/SscSPs/stock_insights_api/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxProjectionRepository struct {
	BaseRepository
}

func newPgxProjectionRepository(pool *pgxpool.Pool) *PgxProjectionRepository {
	return &PgxProjectionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ProjectionRepositoryFacade = (*PgxProjectionRepository)(nil)

func (r *PgxProjectionRepository) FindProjection(ctx context.Context, ticker string) (*domain.Projection, error) {
	var m models.Projection
	err := r.Pool.QueryRow(ctx,
		`SELECT ticker, data, saved_at FROM projections WHERE ticker = $1;`, ticker,
	).Scan(&m.Ticker, &m.Data, &m.SavedAt)
	if err != nil {
		return nil, storeError(err, "no projection saved for "+ticker, "failed to get projection")
	}
	projection := mapping.ToDomainProjection(m)
	return &projection, nil
}

func (r *PgxProjectionRepository) UpsertProjection(ctx context.Context, projection domain.Projection) error {
	m := mapping.ToModelProjection(projection)
	query := `
		INSERT INTO projections (ticker, data, saved_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (ticker) DO UPDATE SET
			data = EXCLUDED.data,
			saved_at = EXCLUDED.saved_at;
	`
	if _, err := r.Pool.Exec(ctx, query, m.Ticker, m.Data, m.SavedAt); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to save projection for "+m.Ticker, err)
	}
	return nil
}
