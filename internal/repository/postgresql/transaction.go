package postgresql

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/database"
)

// WithTransaction executes fn inside a database transaction
func WithTransaction(ctx context.Context, db *database.DB, fn func(ctx context.Context) error) error {
	// Already inside a transaction on this database: join it.
	if _, ok := database.TxFromContext(ctx, db.Name); ok {
		return fn(ctx)
	}

	tx, err := db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.Error("rollback error during panic recovery", "db", db.Name, "error", rbErr)
			}
			panic(p)
		}
	}()

	// Execute function
	if err := fn(database.ContextWithTx(ctx, db.Name, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetQuerier returns either transaction or pool
// Used in repositories to support both transactional and non-transactional operations
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := database.TxFromContext(ctx, db.Name); ok {
		return tx
	}
	return db.Pool
}

type transactor struct {
	db *database.DB
}

// NewTransactor returns a database.Transactor bound to db.
func NewTransactor(db *database.DB) database.Transactor {
	return &transactor{db: db}
}

func (t *transactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, t.db, fn)
}

// advisoryLock takes a transaction-scoped advisory lock on key. Must run inside a transaction.
func advisoryLock(ctx context.Context, db *database.DB, key string) error {
	if _, ok := database.TxFromContext(ctx, db.Name); !ok {
		return fmt.Errorf("advisory lock %q requires a transaction", key)
	}
	q := GetQuerier(ctx, db)
	_, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key)
	return err
}
