package settings

import (
	"net/http"
	"oasa_server/handling"
	"oasa_server/lib"

	"github.com/MonkyMars/gecho"
)

// UpdateShoppingSettingsRequest carries a partial shopping settings update.
// Flag values accept both booleans and "true"/"false" strings; absent
// fields keep their stored values.
type UpdateShoppingSettingsRequest struct {
	EnableShopping  *lib.FlexibleBool `json:"enable_shopping"`
	EnablePricing   *lib.FlexibleBool `json:"enable_pricing"`
	EnableAddToCart *lib.FlexibleBool `json:"enable_add_to_cart"`
	EnableCheckout  *lib.FlexibleBool `json:"enable_checkout"`
	ShoppingMode    *string           `json:"shopping_mode" validate:"omitempty,oneof=full catalog disabled"`
}

// FetchShoppingSettings handles GET /api/settings/shopping
func (srm *SettingsRoutesManager) FetchShoppingSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := srm.settingsService.GetShoppingSettings()
	if err != nil {
		handling.HandleError(err, "Failed to read shopping settings", srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(settings),
		gecho.Send(),
	)
}

// UpdateShoppingSettings handles PUT /api/settings/shopping
func (srm *SettingsRoutesManager) UpdateShoppingSettings(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[UpdateShoppingSettingsRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid shopping settings body", srm.logger, w)
		return
	}

	updates := map[string]any{}
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
	if body.ShoppingMode != nil {
		updates["shopping_mode"] = *body.ShoppingMode
	}

	settings, err := srm.settingsService.UpdateShoppingSettings(updates)
	if err != nil {
		handling.HandleError(err, "Failed to update shopping settings", srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Shopping settings updated"),
		gecho.WithData(settings),
		gecho.Send(),
	)
}

// ResetShoppingSettings handles POST /api/settings/shopping/reset
func (srm *SettingsRoutesManager) ResetShoppingSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := srm.settingsService.ResetShoppingSettings()
	if err != nil {
		handling.HandleError(err, "Failed to reset shopping settings", srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Shopping settings reset to defaults"),
		gecho.WithData(settings),
		gecho.Send(),
	)
}
