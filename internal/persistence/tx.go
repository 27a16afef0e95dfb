package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

type txKey struct{}

// txBeginner is the part of *pgxpool.Pool the manager needs.
type txBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// TxManager runs request-scoped work inside one Postgres transaction.
type TxManager struct {
	pool   txBeginner
	logger *zap.Logger
}

// NewTxManager builds a transaction manager over the pool.
func NewTxManager(pool *pgxpool.Pool, logger *zap.Logger) *TxManager {
	if pool == nil {
		return newTxManager(nil, logger)
	}
	return newTxManager(pool, logger)
}

func newTxManager(pool txBeginner, logger *zap.Logger) *TxManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TxManager{pool: pool, logger: logger}
}

// WithTx commits when fn returns nil and rolls back otherwise.
// Nested calls join the outer transaction. A failed commit is reported as an internal error.
func (m *TxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if TxFromContext(ctx) != nil {
		return fn(ctx)
	}
	if m.pool == nil {
		return apperrors.NewInternalError(errors.New("postgres pool not configured"))
	}

	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			m.logger.Error("rollback failed", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)
		m.logger.Error("commit failed", zap.Error(err))
		return apperrors.NewInternalError(err)
	}
	return nil
}

// TxFromContext returns the transaction bound to ctx, if any.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey{}).(pgx.Tx)
	return tx
}
