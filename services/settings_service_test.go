package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"oasa_server/lib"
	"oasa_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *gecho.Logger {
	return gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(false)))
}

func newTestSettingsService(t *testing.T) (*SettingsService, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shopping-settings.json")
	return NewSettingsService(testLogger(), path), path
}

func TestGetShoppingSettingsCreatesDefaults(t *testing.T) {
	svc, path := newTestSettingsService(t)

	settings, err := svc.GetShoppingSettings()
	require.NoError(t, err)
	assert.Equal(t, structs.DefaultShoppingSettings(), settings)

	// first read persists the default document
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var onDisk structs.ShoppingSettings
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, structs.DefaultShoppingSettings(), onDisk)
}

func TestUpdateShoppingSettingsMergesPartial(t *testing.T) {
	svc, _ := newTestSettingsService(t)

	updated, err := svc.UpdateShoppingSettings(map[string]any{
		"enable_checkout": false,
		"shopping_mode":   "catalog",
	})
	require.NoError(t, err)

	assert.False(t, updated.EnableCheckout)
	assert.Equal(t, "catalog", updated.ShoppingMode)
	// untouched fields keep their stored values
	assert.True(t, updated.EnableShopping)
	assert.True(t, updated.EnablePricing)
	assert.True(t, updated.EnableAddToCart)

	// survives a reload
	reloaded, err := svc.GetShoppingSettings()
	require.NoError(t, err)
	assert.Equal(t, updated, reloaded)
}

func TestUpdateShoppingSettingsInvalidModeLeavesFileUntouched(t *testing.T) {
	svc, _ := newTestSettingsService(t)

	before, err := svc.GetShoppingSettings()
	require.NoError(t, err)

	_, err = svc.UpdateShoppingSettings(map[string]any{"shopping_mode": "closed"})
	require.Error(t, err)
	assert.ErrorIs(t, err, lib.ErrValidation)

	after, err := svc.GetShoppingSettings()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestResetShoppingSettings(t *testing.T) {
	svc, _ := newTestSettingsService(t)

	_, err := svc.UpdateShoppingSettings(map[string]any{"enable_shopping": false, "shopping_mode": "disabled"})
	require.NoError(t, err)

	reset, err := svc.ResetShoppingSettings()
	require.NoError(t, err)
	assert.Equal(t, structs.DefaultShoppingSettings(), reset)

	reloaded, err := svc.GetShoppingSettings()
	require.NoError(t, err)
	assert.Equal(t, structs.DefaultShoppingSettings(), reloaded)
}

func TestGetShoppingSettingsCorruptFile(t *testing.T) {
	svc, path := newTestSettingsService(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := svc.GetShoppingSettings()
	require.Error(t, err)
	assert.ErrorIs(t, err, lib.ErrStore)
}
