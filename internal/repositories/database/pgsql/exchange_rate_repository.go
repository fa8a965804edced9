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

const selectSampleColumns = `SELECT rate_date, rate, source, created_at FROM exchange_rates`

// PgxExchangeRateRepository stores exchange rate samples keyed by calendar date.
type PgxExchangeRateRepository struct {
	BaseRepository
}

func newPgxExchangeRateRepository(pool *pgxpool.Pool) *PgxExchangeRateRepository {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

// FindSampleByDate retrieves the sample stored for exactly date.
func (r *PgxExchangeRateRepository) FindSampleByDate(ctx context.Context, date time.Time) (*domain.ExchangeRateSample, error) {
	query := selectSampleColumns + ` WHERE rate_date = $1;`
	return r.findOne(ctx, query, date, "no exchange rate stored for "+date.Format(domain.DateLayout))
}

// FindNearestOnOrBefore retrieves the latest sample dated on or before date.
func (r *PgxExchangeRateRepository) FindNearestOnOrBefore(ctx context.Context, date time.Time) (*domain.ExchangeRateSample, error) {
	query := selectSampleColumns + ` WHERE rate_date <= $1 ORDER BY rate_date DESC LIMIT 1;`
	return r.findOne(ctx, query, date, "no exchange rate on or before "+date.Format(domain.DateLayout))
}

// FindNearestAfter retrieves the earliest sample dated strictly after date.
func (r *PgxExchangeRateRepository) FindNearestAfter(ctx context.Context, date time.Time) (*domain.ExchangeRateSample, error) {
	query := selectSampleColumns + ` WHERE rate_date > $1 ORDER BY rate_date ASC LIMIT 1;`
	return r.findOne(ctx, query, date, "no exchange rate after "+date.Format(domain.DateLayout))
}

func (r *PgxExchangeRateRepository) findOne(ctx context.Context, query string, date time.Time, notFoundMsg string) (*domain.ExchangeRateSample, error) {
	var m models.ExchangeRateSample
	err := r.Pool.QueryRow(ctx, query, domain.NormalizeDate(date)).Scan(&m.RateDate, &m.Rate, &m.Source, &m.CreatedAt)
	if err != nil {
		return nil, storeError(err, notFoundMsg, "failed to query exchange rate")
	}
	sample := mapping.ToDomainExchangeRateSample(m)
	return &sample, nil
}

// CountSamples returns the number of cached samples.
func (r *PgxExchangeRateRepository) CountSamples(ctx context.Context) (int64, error) {
	var count int64
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM exchange_rates;`).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(http.StatusInternalServerError, "failed to count exchange rates", err)
	}
	return count, nil
}

// FindDateRange returns the oldest and newest sample dates. Both are nil when the table is empty.
func (r *PgxExchangeRateRepository) FindDateRange(ctx context.Context) (*time.Time, *time.Time, error) {
	var oldest, newest *time.Time
	err := r.Pool.QueryRow(ctx, `SELECT MIN(rate_date), MAX(rate_date) FROM exchange_rates;`).Scan(&oldest, &newest)
	if err != nil {
		return nil, nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to read exchange rate range", err)
	}
	return oldest, newest, nil
}

// InsertSampleIfAbsent writes sample unless its date is already present. An existing row is never updated.
func (r *PgxExchangeRateRepository) InsertSampleIfAbsent(ctx context.Context, sample domain.ExchangeRateSample) (bool, error) {
	m := mapping.ToModelExchangeRateSample(sample)
	query := `
		INSERT INTO exchange_rates (rate_date, rate, source, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (rate_date) DO NOTHING;
	`
	tag, err := r.Pool.Exec(ctx, query, m.RateDate, m.Rate, m.Source, m.CreatedAt)
	if err != nil {
		return false, apperrors.NewAppError(http.StatusInternalServerError, "failed to insert exchange rate for "+sample.DateString(), err)
	}
	return tag.RowsAffected() == 1, nil
}
