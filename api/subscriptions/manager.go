package subscriptions

import (
	"net/http"
	"oasa_server/services"
	"strconv"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// defaultClientID is used when no clientId is supplied; the storefront
// runs single-tenant unless told otherwise.
const defaultClientID int64 = 1

type SubscriptionRoutesManager struct {
	logger              *gecho.Logger
	subscriptionService *services.SubscriptionService
	adminAuth           func(http.Handler) http.Handler
}

func NewSubscriptionRoutesManager(
	logger *gecho.Logger,
	subscriptionService *services.SubscriptionService,
	adminAuth func(http.Handler) http.Handler,
) *SubscriptionRoutesManager {
	return &SubscriptionRoutesManager{
		logger:              logger,
		subscriptionService: subscriptionService,
		adminAuth:           adminAuth,
	}
}

func (srm *SubscriptionRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/api/subscriptions/plans", srm.FetchPlans)
	r.Get("/api/subscriptions/current", srm.FetchCurrentSubscription)
	r.Get("/api/subscriptions/features", srm.FetchEnabledFeatures)
	r.Get("/api/subscriptions/features/shopping", srm.FetchShoppingFeatures)
	r.Get("/api/subscriptions/features/{featureKey}", srm.FetchFeatureStatus)

	// Mutations sit behind the admin token
	r.Group(func(r chi.Router) {
		r.Use(srm.adminAuth)
		r.Put("/api/subscriptions/features/shopping", srm.UpdateShoppingFeatures)
		r.Put("/api/subscriptions/features/{featureKey}", srm.UpdateFeature)
	})
}

// clientIDFromRequest reads the clientId query parameter, falling back to
// the default tenant on absence or garbage
func clientIDFromRequest(r *http.Request) int64 {
	raw := r.URL.Query().Get("clientId")
	if raw == "" {
		raw = r.URL.Query().Get("client_id")
	}
	if raw == "" {
		return defaultClientID
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return defaultClientID
	}
	return id
}
