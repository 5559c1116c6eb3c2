package database

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// txFn runs inside a transaction; returning an error rolls it back
type txFn func(tx *sqlx.Tx) error

// runInTx commits when fn returns nil and rolls back on error or panic.
// fn's error is returned unchanged so sentinel checks keep working.
func runInTx(ctx context.Context, db *sqlx.DB, fn txFn) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		slog.ErrorContext(ctx, "failed to begin transaction", "error", err)
		return mapError(err, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.ErrorContext(ctx, "failed to roll back transaction after panic", "error", rbErr, "panic", p)
			}
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.ErrorContext(ctx, "failed to roll back transaction",
				"rollback_error", rbErr,
				"original_error", err)
			return errors.WithMessagef(err, "rollback failed: %v", rbErr)
		}
		slog.DebugContext(ctx, "rolled back transaction", "error", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		slog.ErrorContext(ctx, "failed to commit transaction", "error", err)
		return mapError(err, "failed to commit transaction")
	}
	return nil
}

// requireRow reports whether the query, which must select a single count, found a row
func requireRow(ctx context.Context, tx *sqlx.Tx, query string, args ...interface{}) (bool, error) {
	var n int
	if err := tx.GetContext(ctx, &n, tx.Rebind(query), args...); err != nil {
		return false, err
	}
	return n > 0, nil
}
