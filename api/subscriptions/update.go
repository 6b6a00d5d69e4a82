package subscriptions

import (
	"net/http"
	"oasa_server/handling"
	"oasa_server/lib"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// UpdateFeatureRequest flips a single feature flag. The enabled value
// accepts both booleans and the string forms older clients send.
type UpdateFeatureRequest struct {
	Enabled *lib.FlexibleBool `json:"enabled" validate:"required"`
}

// UpdateShoppingFeaturesRequest carries a batch of shopping flag changes.
// Absent fields are left untouched.
type UpdateShoppingFeaturesRequest struct {
	EnableShopping  *lib.FlexibleBool `json:"enable_shopping"`
	EnablePricing   *lib.FlexibleBool `json:"enable_pricing"`
	EnableAddToCart *lib.FlexibleBool `json:"enable_add_to_cart"`
	EnableCheckout  *lib.FlexibleBool `json:"enable_checkout"`
}

// UpdateFeature handles PUT /api/subscriptions/features/{featureKey}
func (srm *SubscriptionRoutesManager) UpdateFeature(w http.ResponseWriter, r *http.Request) {
	clientID := clientIDFromRequest(r)
	featureKey := chi.URLParam(r, "featureKey")

	body, err := lib.ExtractAndValidateBody[UpdateFeatureRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid feature update body", srm.logger, w)
		return
	}

	if err := srm.subscriptionService.UpdateClientFeature(r.Context(), clientID, featureKey, body.Enabled.Bool()); err != nil {
		handling.HandleError(err, "Failed to update client feature", srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Feature updated"),
		gecho.WithData(map[string]any{
			"feature_key": featureKey,
			"is_enabled":  body.Enabled.Bool(),
		}),
		gecho.Send(),
	)
}

// UpdateShoppingFeatures handles PUT /api/subscriptions/features/shopping.
// All provided flags apply in one transaction; a failure rolls back the
// whole batch.
func (srm *SubscriptionRoutesManager) UpdateShoppingFeatures(w http.ResponseWriter, r *http.Request) {
	clientID := clientIDFromRequest(r)

	body, err := lib.ExtractAndValidateBody[UpdateShoppingFeaturesRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid shopping features body", srm.logger, w)
		return
	}

	updates := map[string]bool{}
	if body.EnableShopping != nil {
		updates["enable_shopping"] = body.EnableShopping.Bool()
	}
	if body.EnablePricing != nil {
		updates["enable_pricing"] = body.EnablePricing.Bool()
	}
	if body.EnableAddToCart != nil {
		updates["enable_add_to_cart"] = body.EnableAddToCart.Bool()
	}
	if body.EnableCheckout != nil {
		updates["enable_checkout"] = body.EnableCheckout.Bool()
	}

	if err := srm.subscriptionService.UpdateShoppingFeatures(r.Context(), clientID, updates); err != nil {
		handling.HandleError(err, "Failed to update shopping features", srm.logger, w)
		return
	}

	// Return the freshly derived state so callers see the new mode
	features, err := srm.subscriptionService.GetShoppingFeatures(r.Context(), clientID)
	if err != nil {
		handling.HandleError(err, "Failed to resolve shopping features after update", srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Shopping features updated"),
		gecho.WithData(features),
		gecho.Send(),
	)
}
