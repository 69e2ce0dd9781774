package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Tx runs fn in a transaction and commits when it returns nil. A panic in fn
// rolls back and is re-raised.
func Tx[T any](ctx context.Context, conn Conn, fn func(*sqlx.Tx) (T, error)) (out T, err error) {
	if conn == nil {
		return out, ErrDatabaseDisabled
	}

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return out, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if out, err = fn(tx); err != nil {
		_ = tx.Rollback()
		var zero T
		return zero, err
	}
	if err = tx.Commit(); err != nil {
		var zero T
		return zero, fmt.Errorf("commit tx: %w", err)
	}
	return out, nil
}
