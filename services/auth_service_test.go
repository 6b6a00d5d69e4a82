package services

import (
	"context"
	"testing"
	"time"

	"oasa_server/database"
	"oasa_server/lib"
	"oasa_server/structs"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

func newMockAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock) {
	t.Helper()

	sqldb, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })

	cfg := &structs.Config{
		Auth: &structs.AuthConfig{
			AccessTokenSecret: "test-secret-at-least-32-characters",
			AccessTokenExpiry: time.Hour,
		},
	}
	db := &database.DB{DB: bun.NewDB(sqldb, pgdialect.New())}
	return NewAuthService(cfg, testLogger(), db), mock
}

func adminUserColumns() []string {
	return []string{"id", "email", "password_hash", "role", "created_at"}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, mock := newMockAuthService(t)

	mock.ExpectQuery(`FROM "admin_users"`).
		WillReturnRows(sqlmock.NewRows(adminUserColumns()))

	user, err := svc.Login(context.Background(), &structs.AuthRequest{
		Email:    "nobody@oasa.com",
		Password: "whatever-password",
	})
	assert.Nil(t, user)
	assert.ErrorIs(t, err, lib.ErrInvalidCredentials)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, mock := newMockAuthService(t)

	hash, err := lib.HashPassword("the-real-password")
	require.NoError(t, err)

	mock.ExpectQuery(`FROM "admin_users"`).
		WillReturnRows(sqlmock.NewRows(adminUserColumns()).
			AddRow(uuid.New().String(), "admin@oasa.com", hash, "admin", time.Now()))

	user, err := svc.Login(context.Background(), &structs.AuthRequest{
		Email:    "admin@oasa.com",
		Password: "not-the-password",
	})
	assert.Nil(t, user)
	// wrong password reads the same as an unknown email
	assert.ErrorIs(t, err, lib.ErrInvalidCredentials)
}

func TestLoginSuccessClearsHash(t *testing.T) {
	svc, mock := newMockAuthService(t)
	id := uuid.New()

	hash, err := lib.HashPassword("the-real-password")
	require.NoError(t, err)

	mock.ExpectQuery(`FROM "admin_users"`).
		WillReturnRows(sqlmock.NewRows(adminUserColumns()).
			AddRow(id.String(), "admin@oasa.com", hash, "admin", time.Now()))

	user, err := svc.Login(context.Background(), &structs.AuthRequest{
		Email:    "admin@oasa.com",
		Password: "the-real-password",
	})
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.Equal(t, id, user.ID)
	assert.Equal(t, "admin", user.Role)
	assert.Empty(t, user.PasswordHash)

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}
