package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"oasa_server/lib"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, lib.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", sql.ErrNoRows), lib.ErrNotFound},
		{"deadline", context.DeadlineExceeded, lib.ErrStore},
		{"canceled", context.Canceled, lib.ErrStore},
		{"unique violation", &pgconn.PgError{Code: "23505"}, lib.ErrConflict},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, lib.ErrConflict},
		{"not null violation", &pgconn.PgError{Code: "23502"}, lib.ErrConflict},
		{"string too long", &pgconn.PgError{Code: "22001"}, lib.ErrValidation},
		{"invalid text representation", &pgconn.PgError{Code: "22P02"}, lib.ErrValidation},
		{"syntax error", &pgconn.PgError{Code: "42601"}, lib.ErrStore},
		{"plain error", errors.New("boom"), lib.ErrStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.ErrorIs(t, got, tt.want)
		})
	}

	assert.NoError(t, Classify(nil))
}

func TestClassifyKeepsSingleClass(t *testing.T) {
	// a conflict must not also read as not-found or validation
	got := Classify(&pgconn.PgError{Code: "23505"})
	assert.ErrorIs(t, got, lib.ErrConflict)
	assert.NotErrorIs(t, got, lib.ErrNotFound)
	assert.NotErrorIs(t, got, lib.ErrValidation)
}

func TestIsConnectionError(t *testing.T) {
	assert.False(t, IsConnectionError(nil))
	assert.False(t, IsConnectionError(errors.New("boom")))
	assert.False(t, IsConnectionError(&pgconn.PgError{Code: "23505"}))

	assert.True(t, IsConnectionError(&pgconn.PgError{Code: "08006"}))
	assert.True(t, IsConnectionError(&pgconn.PgError{Code: "57P03"}))
	assert.True(t, IsConnectionError(errors.New("dial tcp 10.0.0.1:5432: connect: connection refused")))
	assert.True(t, IsConnectionError(errors.New("write: broken pipe")))
	assert.True(t, IsConnectionError(errors.New("driver: bad connection")))
}
