package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockUnitOfWork tracks transaction calls without a database.
type mockUnitOfWork struct {
	beginErr  error
	commitErr error

	begun      bool
	committed  bool
	rolledBack bool
}

type txKey struct{}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if m.beginErr != nil {
		return ctx, m.beginErr
	}
	m.begun = true
	return context.WithValue(ctx, txKey{}, "tx"), nil
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	m.committed = true
	return m.commitErr
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	m.rolledBack = true
	return nil
}

func TestWithUnitOfWork_CommitsOnSuccess(t *testing.T) {
	uow := &mockUnitOfWork{}

	executed := false
	err := WithUnitOfWork(context.Background(), uow, func(ctx context.Context) error {
		executed = true
		assert.Equal(t, "tx", ctx.Value(txKey{}))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, executed)
	assert.True(t, uow.committed)
	assert.False(t, uow.rolledBack)
}

func TestWithUnitOfWork_RollsBackOnError(t *testing.T) {
	uow := &mockUnitOfWork{}
	boom := errors.New("boom")

	err := WithUnitOfWork(context.Background(), uow, func(ctx context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.True(t, uow.rolledBack)
	assert.False(t, uow.committed)
}

func TestWithUnitOfWork_BeginFailure(t *testing.T) {
	beginErr := errors.New("no connection")
	uow := &mockUnitOfWork{beginErr: beginErr}

	executed := false
	err := WithUnitOfWork(context.Background(), uow, func(ctx context.Context) error {
		executed = true
		return nil
	})

	assert.ErrorIs(t, err, beginErr)
	assert.False(t, executed)
}

func TestWithUnitOfWork_CommitFailure(t *testing.T) {
	commitErr := errors.New("commit failed")
	uow := &mockUnitOfWork{commitErr: commitErr}

	err := WithUnitOfWork(context.Background(), uow, func(ctx context.Context) error {
		return nil
	})

	assert.ErrorIs(t, err, commitErr)
}
