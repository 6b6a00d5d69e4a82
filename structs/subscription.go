package structs

import "time"

// ClientSubscription is the resolver's joined view of a client's active
// subscription and its plan metadata. A missing subscription is
// represented by a nil pointer at the service boundary, not an error.
type ClientSubscription struct {
	ID              int64     `json:"id"`
	ClientID        int64     `json:"client_id"`
	PlanID          int64     `json:"plan_id"`
	IsActive        bool      `json:"is_active"`
	StartedAt       time.Time `json:"started_at"`
	PlanName        string    `json:"plan_name"`
	PlanDescription string    `json:"plan_description"`
	MonthlyPrice    float64   `json:"monthly_price"`
	MaxProducts     int       `json:"max_products"`
	MaxUsers        int       `json:"max_users"`
}

// EnabledFeature is one row of the enabled-features listing.
type EnabledFeature struct {
	FeatureKey  string `json:"feature_key"`
	FeatureName string `json:"feature_name"`
	Description string `json:"description"`
	IsEnabled   bool   `json:"is_enabled"`
}
