package database

import (
	"context"
	"fmt"
	"testing"

	"oasa_server/lib"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestTransactionCommitsOnSuccess(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := Transaction(context.Background(), db, func(tx bun.Tx) error {
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRollsBackAndKeepsErrorClass(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	inner := fmt.Errorf("plan lookup: %w", lib.ErrNotFound)
	err := Transaction(context.Background(), db, func(tx bun.Tx) error {
		return inner
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, lib.ErrTxAborted)
	// the inner class survives the wrap so handlers still map it
	assert.ErrorIs(t, err, lib.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionWithResult(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	got, err := TransactionWithResult(context.Background(), db, func(tx bun.Tx) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got)
	require.NoError(t, mock.ExpectationsWereMet())
}
