package repository

import (
	"context"
	"errors"
	"fmt"

	"smart-parking/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrTxConflict marks serialization failures and deadlocks so callers can
// retry the whole unit of work.
var ErrTxConflict = errors.New("transaction conflict")

// TxRunner runs a unit of work against a transaction-bound repository set.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(r *Repository) error) error
}

type txRunner struct {
	db  database.PgxIface
	log *zap.Logger
}

func (t *txRunner) WithinTx(ctx context.Context, fn func(r *Repository) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	repo := newWithQuerier(tx, t.log)
	repo.Tx = nestedTxRunner{repo: repo}

	if err := fn(repo); err != nil {
		return translateTxErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return translateTxErr(fmt.Errorf("commit tx: %w", err))
	}

	return nil
}

// nestedTxRunner reuses the already-open transaction instead of nesting.
type nestedTxRunner struct {
	repo *Repository
}

func (n nestedTxRunner) WithinTx(ctx context.Context, fn func(r *Repository) error) error {
	return fn(n.repo)
}

func translateTxErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure / deadlock_detected
		if pgErr.Code == "40001" || pgErr.Code == "40P01" {
			return fmt.Errorf("%w: %s", ErrTxConflict, pgErr.Code)
		}
	}
	return err
}
