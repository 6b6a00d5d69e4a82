package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"oasa_server/database"
	"oasa_server/lib"
	"oasa_server/structs"
	"oasa_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/uptrace/bun"
)

// SubscriptionService resolves per-client feature flags through the
// subscription -> plan -> plan_features chain. Resolver reads are never
// cached: a flag flipped by an admin must be visible on the next request.
type SubscriptionService struct {
	logger *gecho.Logger
	db     *database.DB
}

func NewSubscriptionService(logger *gecho.Logger, db *database.DB) *SubscriptionService {
	return &SubscriptionService{
		logger: logger,
		db:     db,
	}
}

const clientSubscriptionSQL = `
	SELECT cs.id, cs.client_id, cs.plan_id, cs.is_active, cs.started_at,
	       sp.plan_name, sp.description AS plan_description,
	       sp.monthly_price, sp.max_products, sp.max_users
	FROM client_subscriptions cs
	JOIN subscription_plans sp ON cs.plan_id = sp.id
	WHERE cs.client_id = ? AND cs.is_active = true
	ORDER BY cs.started_at DESC
	LIMIT 1`

const enabledFeaturesSQL = `
	SELECT f.feature_key, f.feature_name, f.description, pf.is_enabled
	FROM client_subscriptions cs
	JOIN plan_features pf ON cs.plan_id = pf.plan_id
	JOIN features f ON pf.feature_id = f.id
	WHERE cs.client_id = ? AND cs.is_active = true AND pf.is_enabled = true
	ORDER BY f.feature_name`

const featureEnabledSQL = `
	SELECT pf.is_enabled
	FROM client_subscriptions cs
	JOIN plan_features pf ON cs.plan_id = pf.plan_id
	JOIN features f ON pf.feature_id = f.id
	WHERE cs.client_id = ? AND cs.is_active = true AND f.feature_key = ?
	LIMIT 1`

// GetSubscriptionPlans returns all plans ordered by price
func (ss *SubscriptionService) GetSubscriptionPlans(ctx context.Context) ([]tables.SubscriptionPlan, error) {
	plans, err := database.Query[tables.SubscriptionPlan](ss.db).
		OrderBy("monthly_price", database.ASC).
		Timeout(10 * time.Second).
		All(ctx)
	if err != nil {
		ss.logger.Error("Failed to fetch subscription plans", gecho.Field("error", err))
		return nil, fmt.Errorf("failed to fetch subscription plans: %w", err)
	}

	return plans, nil
}

// GetClientSubscription returns the client's active subscription joined with
// its plan, or nil when the client has no active subscription. Absence is
// not an error at this level; handlers decide how to report it.
func (ss *SubscriptionService) GetClientSubscription(ctx context.Context, clientID int64) (*structs.ClientSubscription, error) {
	sub, err := database.RawQueryOne[structs.ClientSubscription](ss.db, ctx, clientSubscriptionSQL, clientID)
	if err != nil {
		ss.logger.Error("Failed to fetch client subscription",
			gecho.Field("error", err),
			gecho.Field("client_id", clientID),
		)
		return nil, fmt.Errorf("failed to fetch client subscription: %w", err)
	}

	return sub, nil
}

// IsFeatureEnabled reports whether a feature is enabled for a client.
// Missing subscriptions, unknown keys and disabled links all read as false
// without error; a store failure is an error, never a silent false.
func (ss *SubscriptionService) IsFeatureEnabled(ctx context.Context, clientID int64, featureKey string) (bool, error) {
	var enabled bool

	err := ss.db.NewRaw(featureEnabledSQL, clientID, featureKey).Scan(ctx, &enabled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		ss.logger.Error("Failed to resolve feature flag",
			gecho.Field("error", err),
			gecho.Field("client_id", clientID),
			gecho.Field("feature_key", featureKey),
		)
		return false, fmt.Errorf("failed to resolve feature flag: %w", database.Classify(err))
	}

	return enabled, nil
}

// GetEnabledFeatures returns all enabled features for a client, ordered by
// feature name. A client without a subscription gets an empty list.
func (ss *SubscriptionService) GetEnabledFeatures(ctx context.Context, clientID int64) ([]structs.EnabledFeature, error) {
	features, err := database.RawQuery[structs.EnabledFeature](ss.db, ctx, enabledFeaturesSQL, clientID)
	if err != nil {
		ss.logger.Error("Failed to fetch enabled features",
			gecho.Field("error", err),
			gecho.Field("client_id", clientID),
		)
		return nil, fmt.Errorf("failed to fetch enabled features: %w", err)
	}

	if features == nil {
		features = []structs.EnabledFeature{}
	}

	return features, nil
}

// GetShoppingFeatures resolves the four shopping flags and derives the
// client's shopping mode from them. Resolved fresh on every call.
func (ss *SubscriptionService) GetShoppingFeatures(ctx context.Context, clientID int64) (*structs.ShoppingFeaturesResponse, error) {
	var flags structs.ShoppingFeatures
	var err error

	if flags.EnableShopping, err = ss.IsFeatureEnabled(ctx, clientID, "enable_shopping"); err != nil {
		return nil, err
	}
	if flags.EnablePricing, err = ss.IsFeatureEnabled(ctx, clientID, "enable_pricing"); err != nil {
		return nil, err
	}
	if flags.EnableAddToCart, err = ss.IsFeatureEnabled(ctx, clientID, "enable_add_to_cart"); err != nil {
		return nil, err
	}
	if flags.EnableCheckout, err = ss.IsFeatureEnabled(ctx, clientID, "enable_checkout"); err != nil {
		return nil, err
	}

	return &structs.ShoppingFeaturesResponse{
		ShoppingFeatures: flags,
		ShoppingMode:     structs.DeriveShoppingMode(flags),
	}, nil
}

// UpdateClientFeature flips one feature flag on the client's active plan.
// The lookup and the upsert run in one transaction: if the client has no
// active subscription or the key is unknown, nothing is written.
func (ss *SubscriptionService) UpdateClientFeature(ctx context.Context, clientID int64, featureKey string, enabled bool) error {
	err := database.Transaction(ctx, ss.db, func(tx bun.Tx) error {
		planID, err := ss.activePlanID(ctx, tx, clientID)
		if err != nil {
			return err
		}

		featureID, err := ss.featureID(ctx, tx, featureKey)
		if err != nil {
			return err
		}

		return ss.upsertPlanFeature(ctx, tx, planID, featureID, enabled)
	})
	if err != nil {
		ss.logger.Error("Failed to update client feature",
			gecho.Field("error", err),
			gecho.Field("client_id", clientID),
			gecho.Field("feature_key", featureKey),
		)
		return err
	}

	ss.logger.Info("Client feature updated",
		gecho.Field("client_id", clientID),
		gecho.Field("feature_key", featureKey),
		gecho.Field("enabled", enabled),
	)
	return nil
}

// UpdateShoppingFeatures applies a batch of shopping flag changes in one
// transaction, in the fixed key order. Any failure rolls the whole batch
// back; the flags never end up half-applied.
func (ss *SubscriptionService) UpdateShoppingFeatures(ctx context.Context, clientID int64, updates map[string]bool) error {
	if len(updates) == 0 {
		return fmt.Errorf("%w: no shopping features provided", lib.ErrValidation)
	}

	for key := range updates {
		if !isShoppingFeatureKey(key) {
			return fmt.Errorf("%w: unknown shopping feature %q", lib.ErrValidation, key)
		}
	}

	err := database.Transaction(ctx, ss.db, func(tx bun.Tx) error {
		planID, err := ss.activePlanID(ctx, tx, clientID)
		if err != nil {
			return err
		}

		for _, key := range structs.ShoppingFeatureKeys {
			enabled, ok := updates[key]
			if !ok {
				continue
			}

			featureID, err := ss.featureID(ctx, tx, key)
			if err != nil {
				return err
			}

			if err := ss.upsertPlanFeature(ctx, tx, planID, featureID, enabled); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		ss.logger.Error("Failed to update shopping features",
			gecho.Field("error", err),
			gecho.Field("client_id", clientID),
		)
		return err
	}

	ss.logger.Info("Shopping features updated",
		gecho.Field("client_id", clientID),
		gecho.Field("count", len(updates)),
	)
	return nil
}

// activePlanID resolves the plan behind the client's active subscription
// within the transaction
func (ss *SubscriptionService) activePlanID(ctx context.Context, tx bun.Tx, clientID int64) (int64, error) {
	var sub tables.ClientSubscription

	err := tx.NewSelect().
		Model(&sub).
		Where("cs.client_id = ?", clientID).
		Where("cs.is_active = ?", true).
		OrderExpr("cs.started_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("client %d: %w", clientID, lib.ErrNoActiveSubscription)
		}
		return 0, database.Classify(err)
	}

	return sub.PlanID, nil
}

// featureID resolves a feature key to its row ID within the transaction
func (ss *SubscriptionService) featureID(ctx context.Context, tx bun.Tx, featureKey string) (int64, error) {
	var feature tables.Feature

	err := tx.NewSelect().
		Model(&feature).
		Where("f.feature_key = ?", featureKey).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%q: %w", featureKey, lib.ErrFeatureNotFound)
		}
		return 0, database.Classify(err)
	}

	return feature.ID, nil
}

func (ss *SubscriptionService) upsertPlanFeature(ctx context.Context, tx bun.Tx, planID, featureID int64, enabled bool) error {
	row := &tables.PlanFeature{
		PlanID:    planID,
		FeatureID: featureID,
		IsEnabled: enabled,
		UpdatedAt: time.Now(),
	}

	_, err := database.Upsert(tx, ctx, row, "plan_id, feature_id", "is_enabled", "updated_at")
	return err
}

func isShoppingFeatureKey(key string) bool {
	for _, k := range structs.ShoppingFeatureKeys {
		if k == key {
			return true
		}
	}
	return false
}
