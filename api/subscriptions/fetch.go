package subscriptions

import (
	"net/http"
	"oasa_server/handling"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// FetchPlans handles GET /api/subscriptions/plans
func (srm *SubscriptionRoutesManager) FetchPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := srm.subscriptionService.GetSubscriptionPlans(r.Context())
	if err != nil {
		handling.HandleError(err, "Failed to fetch subscription plans", srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"plans": plans,
		}),
		gecho.Send(),
	)
}

// FetchCurrentSubscription handles GET /api/subscriptions/current. A client
// without an active subscription gets a 404, not an empty object.
func (srm *SubscriptionRoutesManager) FetchCurrentSubscription(w http.ResponseWriter, r *http.Request) {
	clientID := clientIDFromRequest(r)

	sub, err := srm.subscriptionService.GetClientSubscription(r.Context(), clientID)
	if err != nil {
		handling.HandleError(err, "Failed to fetch client subscription", srm.logger, w)
		return
	}

	if sub == nil {
		gecho.NotFound(w,
			gecho.WithMessage("No active subscription found"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"subscription": sub,
		}),
		gecho.Send(),
	)
}

// FetchEnabledFeatures handles GET /api/subscriptions/features
func (srm *SubscriptionRoutesManager) FetchEnabledFeatures(w http.ResponseWriter, r *http.Request) {
	clientID := clientIDFromRequest(r)

	features, err := srm.subscriptionService.GetEnabledFeatures(r.Context(), clientID)
	if err != nil {
		handling.HandleError(err, "Failed to fetch enabled features", srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"features": features,
		}),
		gecho.Send(),
	)
}

// FetchShoppingFeatures handles GET /api/subscriptions/features/shopping:
// the four shopping flags plus the derived mode, resolved fresh per call
func (srm *SubscriptionRoutesManager) FetchShoppingFeatures(w http.ResponseWriter, r *http.Request) {
	clientID := clientIDFromRequest(r)

	features, err := srm.subscriptionService.GetShoppingFeatures(r.Context(), clientID)
	if err != nil {
		handling.HandleError(err, "Failed to resolve shopping features", srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(features),
		gecho.Send(),
	)
}

// FetchFeatureStatus handles GET /api/subscriptions/features/{featureKey}.
// Unknown keys and missing subscriptions both read as disabled.
func (srm *SubscriptionRoutesManager) FetchFeatureStatus(w http.ResponseWriter, r *http.Request) {
	clientID := clientIDFromRequest(r)
	featureKey := chi.URLParam(r, "featureKey")

	enabled, err := srm.subscriptionService.IsFeatureEnabled(r.Context(), clientID, featureKey)
	if err != nil {
		handling.HandleError(err, "Failed to resolve feature flag", srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"feature_key": featureKey,
			"is_enabled":  enabled,
		}),
		gecho.Send(),
	)
}
