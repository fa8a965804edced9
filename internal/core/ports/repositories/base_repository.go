package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager exposes explicit transactions for multi-table writes.
type TransactionManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error
	// Rollback is a no-op on a transaction that was already committed.
	Rollback(ctx context.Context, tx pgx.Tx) error
}

// TickerRepositoryWithTx is the ticker registry plus the transaction hooks its cascade delete runs in.
type TickerRepositoryWithTx interface {
	TickerRepositoryFacade
	TransactionManager
}
