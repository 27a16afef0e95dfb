package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// fakeTx records how the transaction ended. Unused pgx.Tx methods panic.
type fakeTx struct {
	pgx.Tx
	commitErr  error
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Commit(context.Context) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	if f.committed {
		return pgx.ErrTxClosed
	}
	f.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx    *fakeTx
	err   error
	calls int
}

func (b *fakeBeginner) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestWithTxCommitsOnSuccess(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := newTxManager(beginner, zap.NewNop())

	var seen pgx.Tx
	err := m.WithTx(context.Background(), func(ctx context.Context) error {
		seen = TxFromContext(ctx)
		return nil
	})
	require.NoError(t, err)
	assert.Same(t, beginner.tx, seen)
	assert.True(t, beginner.tx.committed)
	assert.False(t, beginner.tx.rolledBack)
}

func TestWithTxRollsBackAndReturnsCallbackError(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := newTxManager(beginner, zap.NewNop())
	writeErr := apperrors.NewInternalError(errors.New("insert failed"))

	err := m.WithTx(context.Background(), func(context.Context) error { return writeErr })
	assert.Same(t, writeErr, err)
	assert.True(t, beginner.tx.rolledBack)
	assert.False(t, beginner.tx.committed)
}

func TestWithTxCommitFailureIsInternal(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{commitErr: errors.New("serialization failure")}}
	m := newTxManager(beginner, zap.NewNop())

	err := m.WithTx(context.Background(), func(context.Context) error { return nil })
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
	assert.True(t, beginner.tx.rolledBack)
}

func TestWithTxJoinsOuterTransaction(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := newTxManager(beginner, zap.NewNop())

	err := m.WithTx(context.Background(), func(ctx context.Context) error {
		return m.WithTx(ctx, func(inner context.Context) error {
			assert.Same(t, beginner.tx, TxFromContext(inner))
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, beginner.calls)
}

func TestWithTxBeginFailureIsInternal(t *testing.T) {
	m := newTxManager(&fakeBeginner{err: errors.New("pool closed")}, zap.NewNop())

	called := false
	err := m.WithTx(context.Background(), func(context.Context) error { called = true; return nil })
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
	assert.False(t, called)

	err = NewTxManager(nil, nil).WithTx(context.Background(), func(context.Context) error { return nil })
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
}
