package tables

import "time"

type SubscriptionPlan struct {
	tableName    struct{}  `bun:"table:subscription_plans,alias:sp"`
	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	PlanName     string    `bun:"plan_name,notnull" json:"plan_name"`
	Description  string    `bun:"description" json:"description,omitempty"`
	MonthlyPrice float64   `bun:"monthly_price,notnull" json:"monthly_price"`
	MaxProducts  int       `bun:"max_products" json:"max_products"`
	MaxUsers     int       `bun:"max_users" json:"max_users"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:now()" json:"created_at"`
}

// ClientSubscription links a client to a plan. There is no schema
// constraint forcing a single active row per client; readers take the
// first active match.
type ClientSubscription struct {
	tableName struct{}  `bun:"table:client_subscriptions,alias:cs"`
	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	ClientID  int64     `bun:"client_id,notnull" json:"client_id"`
	PlanID    int64     `bun:"plan_id,notnull" json:"plan_id"`
	IsActive  bool      `bun:"is_active,notnull" json:"is_active"`
	StartedAt time.Time `bun:"started_at,notnull,default:now()" json:"started_at"`
	CreatedAt time.Time `bun:"created_at,notnull,default:now()" json:"created_at"`
}

type Feature struct {
	tableName   struct{} `bun:"table:features,alias:f"`
	ID          int64    `bun:"id,pk,autoincrement" json:"id"`
	FeatureKey  string   `bun:"feature_key,notnull" json:"feature_key"` // unique
	FeatureName string   `bun:"feature_name,notnull" json:"feature_name"`
	Description string   `bun:"description" json:"description,omitempty"`
}

// PlanFeature is unique per (plan_id, feature_id); writes upsert on that
// pair.
type PlanFeature struct {
	tableName struct{}  `bun:"table:plan_features,alias:pf"`
	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	PlanID    int64     `bun:"plan_id,notnull" json:"plan_id"`
	FeatureID int64     `bun:"feature_id,notnull" json:"feature_id"`
	IsEnabled bool      `bun:"is_enabled,notnull" json:"is_enabled"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:now()" json:"updated_at"`
}
