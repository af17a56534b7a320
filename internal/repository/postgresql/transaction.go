package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/paycore/payroll-engine-go/internal/pkg/database"
)

type ctxKey int

const txKey ctxKey = iota

// WithTransaction executes fn inside a database transaction. The
// context passed to fn carries the transaction, so every repository
// call made with it joins the same transaction via GetQuerier.
func WithTransaction(ctx context.Context, db *database.DB, fn func(ctx context.Context) error) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
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

// GetQuerier returns either the ambient transaction or the pool.
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := ctx.Value(txKey).(pgx.Tx); ok {
		return tx
	}
	return db.Pool
}

// lockClause returns FOR UPDATE when a transaction is ambient, so a
// read-modify-write sequence serializes on the rows it reads. Outside
// a transaction the lock would be released immediately and is omitted.
func lockClause(ctx context.Context) string {
	if _, ok := ctx.Value(txKey).(pgx.Tx); ok {
		return " FOR UPDATE"
	}
	return ""
}

// TxRunner adapts WithTransaction to the service layer's transaction
// interface.
type TxRunner struct {
	db *database.DB
}

func NewTxRunner(db *database.DB) *TxRunner {
	return &TxRunner{db: db}
}

func (r *TxRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, r.db, fn)
}
