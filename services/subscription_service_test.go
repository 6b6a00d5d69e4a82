package services

import (
	"context"
	"testing"
	"time"

	"oasa_server/database"
	"oasa_server/lib"
	"oasa_server/structs"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

func newMockSubscriptionService(t *testing.T) (*SubscriptionService, sqlmock.Sqlmock) {
	t.Helper()

	sqldb, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })

	db := &database.DB{DB: bun.NewDB(sqldb, pgdialect.New())}
	return NewSubscriptionService(testLogger(), db), mock
}

func TestIsFeatureEnabled(t *testing.T) {
	svc, mock := newMockSubscriptionService(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT pf\.is_enabled`).
		WillReturnRows(sqlmock.NewRows([]string{"is_enabled"}).AddRow(true))
	enabled, err := svc.IsFeatureEnabled(ctx, 1, "enable_shopping")
	require.NoError(t, err)
	assert.True(t, enabled)

	mock.ExpectQuery(`SELECT pf\.is_enabled`).
		WillReturnRows(sqlmock.NewRows([]string{"is_enabled"}).AddRow(false))
	enabled, err = svc.IsFeatureEnabled(ctx, 1, "enable_checkout")
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsFeatureEnabledAbsenceIsFalseWithoutError(t *testing.T) {
	svc, mock := newMockSubscriptionService(t)

	// no matching row: client without a subscription or unknown key
	mock.ExpectQuery(`SELECT pf\.is_enabled`).
		WillReturnRows(sqlmock.NewRows([]string{"is_enabled"}))

	enabled, err := svc.IsFeatureEnabled(context.Background(), 99, "enable_shopping")
	require.NoError(t, err)
	assert.False(t, enabled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsFeatureEnabledStoreFailureIsAnError(t *testing.T) {
	svc, mock := newMockSubscriptionService(t)

	// a broken store must surface as an error, not masquerade as disabled
	mock.ExpectQuery(`SELECT pf\.is_enabled`).
		WillReturnError(assert.AnError)

	enabled, err := svc.IsFeatureEnabled(context.Background(), 1, "enable_shopping")
	require.Error(t, err)
	assert.ErrorIs(t, err, lib.ErrStore)
	assert.False(t, enabled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetShoppingFeaturesStoreFailurePropagates(t *testing.T) {
	svc, mock := newMockSubscriptionService(t)

	mock.ExpectQuery(`SELECT pf\.is_enabled`).
		WillReturnRows(sqlmock.NewRows([]string{"is_enabled"}).AddRow(true))
	mock.ExpectQuery(`SELECT pf\.is_enabled`).
		WillReturnError(assert.AnError)

	features, err := svc.GetShoppingFeatures(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, lib.ErrStore)
	// no derived mode is served off a failed read
	assert.Nil(t, features)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetClientSubscriptionAbsentIsNotAnError(t *testing.T) {
	svc, mock := newMockSubscriptionService(t)

	mock.ExpectQuery(`FROM client_subscriptions cs`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "client_id", "plan_id", "is_active", "started_at",
			"plan_name", "plan_description", "monthly_price", "max_products", "max_users",
		}))

	sub, err := svc.GetClientSubscription(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, sub)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetClientSubscription(t *testing.T) {
	svc, mock := newMockSubscriptionService(t)
	started := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM client_subscriptions cs`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "client_id", "plan_id", "is_active", "started_at",
			"plan_name", "plan_description", "monthly_price", "max_products", "max_users",
		}).AddRow(int64(10), int64(1), int64(2), true, started, "Pro", "Full commerce", 499.0, 1000, 10))

	sub, err := svc.GetClientSubscription(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, int64(2), sub.PlanID)
	assert.Equal(t, "Pro", sub.PlanName)
	assert.Equal(t, 499.0, sub.MonthlyPrice)
}

func TestGetShoppingFeaturesDerivesMode(t *testing.T) {
	svc, mock := newMockSubscriptionService(t)

	// resolved in fixed key order: shopping, pricing, add_to_cart, checkout
	for _, enabled := range []bool{true, false, true, true} {
		mock.ExpectQuery(`SELECT pf\.is_enabled`).
			WillReturnRows(sqlmock.NewRows([]string{"is_enabled"}).AddRow(enabled))
	}

	features, err := svc.GetShoppingFeatures(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, features.EnableShopping)
	assert.False(t, features.EnablePricing)
	assert.True(t, features.EnableAddToCart)
	assert.True(t, features.EnableCheckout)
	// full mode does not require pricing
	assert.Equal(t, structs.ShoppingModeFull, features.ShoppingMode)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateShoppingFeaturesRejectsBadInputBeforeTransaction(t *testing.T) {
	svc, mock := newMockSubscriptionService(t)
	ctx := context.Background()

	err := svc.UpdateShoppingFeatures(ctx, 1, map[string]bool{})
	assert.ErrorIs(t, err, lib.ErrValidation)

	err = svc.UpdateShoppingFeatures(ctx, 1, map[string]bool{"enable_teleport": true})
	assert.ErrorIs(t, err, lib.ErrValidation)

	// no transaction was ever opened
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateClientFeatureNoActiveSubscription(t *testing.T) {
	svc, mock := newMockSubscriptionService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`client_subscriptions`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "client_id", "plan_id", "is_active", "started_at", "created_at"}))
	mock.ExpectRollback()

	err := svc.UpdateClientFeature(context.Background(), 42, "enable_shopping", true)
	require.Error(t, err)
	assert.ErrorIs(t, err, lib.ErrNotFound)
	assert.ErrorIs(t, err, lib.ErrTxAborted)

	// rollback means nothing was written
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateShoppingFeaturesMidBatchFailureRollsBackAll(t *testing.T) {
	svc, mock := newMockSubscriptionService(t)

	featureRow := func(id int64, key string) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "feature_key", "feature_name", "description"}).
			AddRow(id, key, key, "")
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`client_subscriptions`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "client_id", "plan_id", "is_active", "started_at", "created_at"}).
			AddRow(int64(1), int64(1), int64(3), true, time.Now(), time.Now()))

	// keys apply in fixed order; the first two upserts succeed
	mock.ExpectQuery(`features`).WillReturnRows(featureRow(101, "enable_shopping"))
	mock.ExpectExec(`INSERT INTO "plan_features"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`features`).WillReturnRows(featureRow(102, "enable_pricing"))
	mock.ExpectExec(`INSERT INTO "plan_features"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// the third fails, so the whole batch rolls back and the fourth key
	// is never touched
	mock.ExpectQuery(`features`).WillReturnRows(featureRow(103, "enable_add_to_cart"))
	mock.ExpectExec(`INSERT INTO "plan_features"`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := svc.UpdateShoppingFeatures(context.Background(), 1, map[string]bool{
		"enable_shopping":    true,
		"enable_pricing":     true,
		"enable_add_to_cart": false,
		"enable_checkout":    false,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, lib.ErrTxAborted)
	assert.ErrorIs(t, err, lib.ErrStore)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateClientFeatureUnknownFeatureRollsBack(t *testing.T) {
	svc, mock := newMockSubscriptionService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`client_subscriptions`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "client_id", "plan_id", "is_active", "started_at", "created_at"}).
			AddRow(int64(1), int64(42), int64(3), true, time.Now(), time.Now()))
	mock.ExpectQuery(`features`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "feature_key", "feature_name", "description"}))
	mock.ExpectRollback()

	err := svc.UpdateClientFeature(context.Background(), 42, "enable_teleport", true)
	require.Error(t, err)
	assert.ErrorIs(t, err, lib.ErrFeatureNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
