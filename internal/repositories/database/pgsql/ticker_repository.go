package pgsql

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SscSPs/stock_insights_api/internal/apperrors"
	"github.com/SscSPs/stock_insights_api/internal/core/domain"
	portsrepo "github.com/SscSPs/stock_insights_api/internal/core/ports/repositories"
	"github.com/SscSPs/stock_insights_api/internal/models"
	"github.com/SscSPs/stock_insights_api/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTickerRepository struct {
	BaseRepository
}

// newPgxTickerRepository creates a new repository for the ticker registry.
func newPgxTickerRepository(pool *pgxpool.Pool) portsrepo.TickerRepositoryWithTx {
	return &PgxTickerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.TickerRepositoryWithTx = (*PgxTickerRepository)(nil)

// ListTickerListings returns the market's tickers with the time their snapshot was last written.
func (r *PgxTickerRepository) ListTickerListings(ctx context.Context, market domain.Market) ([]domain.TickerListing, error) {
	query := `
		SELECT t.symbol, t.market, s.last_updated
		FROM tickers t
		LEFT JOIN stock_data s ON s.ticker = t.symbol
		WHERE t.market = $1
		ORDER BY t.symbol;
	`
	rows, err := r.Pool.Query(ctx, query, string(market))
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to list tickers", err)
	}
	defer rows.Close()

	listings := []domain.TickerListing{}
	for rows.Next() {
		var m models.TickerListing
		if err := rows.Scan(&m.Symbol, &m.Market, &m.LastUpdated); err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan ticker listing", err)
		}
		listings = append(listings, mapping.ToDomainTickerListing(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating tickers", err)
	}
	return listings, nil
}

// ListTickers returns every registered ticker.
func (r *PgxTickerRepository) ListTickers(ctx context.Context) ([]domain.Ticker, error) {
	rows, err := r.Pool.Query(ctx, `SELECT symbol, market, created_at FROM tickers ORDER BY symbol;`)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to list tickers", err)
	}
	defer rows.Close()

	tickers := []domain.Ticker{}
	for rows.Next() {
		var m models.Ticker
		if err := rows.Scan(&m.Symbol, &m.Market, &m.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan ticker", err)
		}
		tickers = append(tickers, mapping.ToDomainTicker(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating tickers", err)
	}
	return tickers, nil
}

// UpsertTicker registers the ticker, updating the market of an existing row.
func (r *PgxTickerRepository) UpsertTicker(ctx context.Context, ticker domain.Ticker) error {
	m := mapping.ToModelTicker(ticker)
	query := `
		INSERT INTO tickers (symbol, market, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (symbol) DO UPDATE SET market = EXCLUDED.market;
	`
	if _, err := r.Pool.Exec(ctx, query, m.Symbol, m.Market, m.CreatedAt); err != nil {
		return fmt.Errorf("failed to save ticker %s: %w", m.Symbol, err)
	}
	return nil
}

// DeleteTicker removes the ticker and everything stored for it in one transaction.
// Deleting an unknown ticker is not an error.
func (r *PgxTickerRepository) DeleteTicker(ctx context.Context, symbol string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	statements := []string{
		`DELETE FROM stock_data WHERE ticker = $1;`,
		`DELETE FROM projections WHERE ticker = $1;`,
		`DELETE FROM access_log WHERE ticker = $1;`,
		`DELETE FROM tickers WHERE symbol = $1;`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, symbol); err != nil {
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to delete ticker "+symbol, err)
		}
	}
	return r.Commit(ctx, tx)
}
