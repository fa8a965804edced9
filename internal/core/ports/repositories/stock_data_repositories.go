package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/stock_insights_api/internal/core/domain"
)

// StockSnapshotReader defines read operations for stored provider payloads.
type StockSnapshotReader interface {
	// FindSnapshot returns apperrors.ErrNotFound when the ticker has never been fetched.
	FindSnapshot(ctx context.Context, ticker string) (*domain.StockSnapshot, error)

	// FindSnapshots returns the snapshots that exist for tickers, in symbol order.
	FindSnapshots(ctx context.Context, tickers []string) ([]domain.StockSnapshot, error)
}

// StockSnapshotWriter defines write operations for stored provider payloads.
type StockSnapshotWriter interface {
	// UpsertSnapshot replaces the ticker's payload (last write wins).
	UpsertSnapshot(ctx context.Context, snapshot domain.StockSnapshot) error

	// TouchAccessLog records that ticker was read at the given time.
	TouchAccessLog(ctx context.Context, ticker string, at time.Time) error
}

// StockSnapshotRepositoryFacade combines all snapshot-related repository interfaces
type StockSnapshotRepositoryFacade interface {
	StockSnapshotReader
	StockSnapshotWriter
}

// ProjectionRepositoryFacade stores saved projections, one per ticker.
type ProjectionRepositoryFacade interface {
	// FindProjection returns apperrors.ErrNotFound when nothing has been saved.
	FindProjection(ctx context.Context, ticker string) (*domain.Projection, error)

	// UpsertProjection replaces the ticker's projection (last write wins).
	UpsertProjection(ctx context.Context, projection domain.Projection) error
}
