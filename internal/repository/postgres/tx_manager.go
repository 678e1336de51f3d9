package postgres

import (
	"context"

	"wishlist-backend/internal/domain"

	"github.com/jackc/pgx/v5"
)

// TransactionManager implements domain.TransactionManager using pgx
type TransactionManager struct {
	db DBTX
}

func NewTransactionManager(db DBTX) domain.TransactionManager {
	return &TransactionManager{db: db}
}

// Do runs fn with a transaction bound to its context. Repositories called
// with that context join the transaction instead of opening their own.
func (tm *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := tm.db.Begin(ctx)
	if err != nil {
		return err
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}
