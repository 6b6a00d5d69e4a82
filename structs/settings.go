package structs

import "fmt"

// ShoppingSettings is the global, file-persisted settings document. Unlike
// the per-client feature gate, shopping_mode here is stored, not derived.
type ShoppingSettings struct {
	EnableShopping  bool   `json:"enable_shopping"`
	EnablePricing   bool   `json:"enable_pricing"`
	EnableAddToCart bool   `json:"enable_add_to_cart"`
	EnableCheckout  bool   `json:"enable_checkout"`
	ShoppingMode    string `json:"shopping_mode"`
}

func DefaultShoppingSettings() ShoppingSettings {
	return ShoppingSettings{
		EnableShopping:  true,
		EnablePricing:   true,
		EnableAddToCart: true,
		EnableCheckout:  true,
		ShoppingMode:    string(ShoppingModeFull),
	}
}

// ValidateShoppingSettings checks a raw settings document before any write
// happens. All five keys must be present and shopping_mode must be one of
// the closed enum values.
func ValidateShoppingSettings(doc map[string]any) error {
	required := []string{
		"enable_shopping",
		"enable_pricing",
		"enable_add_to_cart",
		"enable_checkout",
		"shopping_mode",
	}
	for _, field := range required {
		if _, ok := doc[field]; !ok {
			return fmt.Errorf("missing required field: %s", field)
		}
	}

	mode, ok := doc["shopping_mode"].(string)
	if !ok || !ValidShoppingMode(mode) {
		return fmt.Errorf("invalid shopping_mode: %v", doc["shopping_mode"])
	}

	return nil
}

// SiteSettings is the branding/company document served to the storefront.
type SiteSettings map[string]any

func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		// Banner settings
		"banner_slogan":  "La tienda de los expertos",
		"banner_contact": "656-123-4567",
		"banner_enabled": true,

		// Theme settings
		"primary_color":    "#1e40af",
		"secondary_color":  "#3b82f6",
		"accent_color":     "#fbbf24",
		"text_color":       "#111827",
		"background_color": "#ffffff",

		// Company information
		"company_name":    "OASA Industrial",
		"company_email":   "contacto@oasa.com",
		"company_phone":   "656-123-4567",
		"company_address": "Av. Industrial 123, Ciudad Industrial",

		// Social media
		"facebook_url":  "",
		"twitter_url":   "",
		"instagram_url": "",
		"linkedin_url":  "",
	}
}
