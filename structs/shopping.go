package structs

// ShoppingMode summarizes which commerce capabilities are active for a
// client.
type ShoppingMode string

const (
	ShoppingModeFull     ShoppingMode = "full"
	ShoppingModeCatalog  ShoppingMode = "catalog"
	ShoppingModeDisabled ShoppingMode = "disabled"
)

// ValidShoppingMode reports whether s is one of the closed set of modes.
func ValidShoppingMode(s string) bool {
	switch ShoppingMode(s) {
	case ShoppingModeFull, ShoppingModeCatalog, ShoppingModeDisabled:
		return true
	}
	return false
}

// ShoppingFeatureKeys lists the four feature flags the gate derives from,
// in the order batch updates apply them.
var ShoppingFeatureKeys = []string{
	"enable_shopping",
	"enable_pricing",
	"enable_add_to_cart",
	"enable_checkout",
}

// ShoppingFeatures holds the resolved flag values for one client.
type ShoppingFeatures struct {
	EnableShopping  bool `json:"enable_shopping"`
	EnablePricing   bool `json:"enable_pricing"`
	EnableAddToCart bool `json:"enable_add_to_cart"`
	EnableCheckout  bool `json:"enable_checkout"`
}

// DeriveShoppingMode computes the mode from the four flags. The result is
// never cached; flags can change between calls within one session.
//
// "full" does not require enable_pricing: pricing can be hidden while
// checkout stays enabled. That combination is odd but matches the shipped
// behavior; flagged for product-owner review rather than changed here.
func DeriveShoppingMode(f ShoppingFeatures) ShoppingMode {
	if f.EnableShopping && f.EnableAddToCart && f.EnableCheckout {
		return ShoppingModeFull
	}
	if f.EnablePricing {
		return ShoppingModeCatalog
	}
	return ShoppingModeDisabled
}

// ShoppingFeaturesResponse is the wire shape for the shopping-features
// endpoints: the four flags plus the derived mode.
type ShoppingFeaturesResponse struct {
	ShoppingFeatures
	ShoppingMode ShoppingMode `json:"shopping_mode"`
}
