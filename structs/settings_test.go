package structs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettingsDoc() map[string]any {
	return map[string]any{
		"enable_shopping":    true,
		"enable_pricing":     true,
		"enable_add_to_cart": false,
		"enable_checkout":    false,
		"shopping_mode":      "catalog",
	}
}

func TestValidateShoppingSettings(t *testing.T) {
	require.NoError(t, ValidateShoppingSettings(validSettingsDoc()))
}

func TestValidateShoppingSettingsMissingField(t *testing.T) {
	for _, field := range []string{
		"enable_shopping",
		"enable_pricing",
		"enable_add_to_cart",
		"enable_checkout",
		"shopping_mode",
	} {
		doc := validSettingsDoc()
		delete(doc, field)

		err := ValidateShoppingSettings(doc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), field)
	}
}

func TestValidateShoppingSettingsInvalidMode(t *testing.T) {
	doc := validSettingsDoc()
	doc["shopping_mode"] = "closed"
	assert.Error(t, ValidateShoppingSettings(doc))

	doc["shopping_mode"] = 42
	assert.Error(t, ValidateShoppingSettings(doc))
}

func TestDefaultShoppingSettings(t *testing.T) {
	defaults := DefaultShoppingSettings()

	assert.True(t, defaults.EnableShopping)
	assert.True(t, defaults.EnablePricing)
	assert.True(t, defaults.EnableAddToCart)
	assert.True(t, defaults.EnableCheckout)
	assert.Equal(t, string(ShoppingModeFull), defaults.ShoppingMode)
}
