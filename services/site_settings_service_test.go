package services

import (
	"path/filepath"
	"testing"

	"oasa_server/lib"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSiteSettingsService(t *testing.T) *SiteSettingsService {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site-settings.json")
	return NewSiteSettingsService(testLogger(), path)
}

func TestGetSiteSettingsCreatesDefaults(t *testing.T) {
	svc := newTestSiteSettingsService(t)

	settings, err := svc.GetSiteSettings()
	require.NoError(t, err)

	assert.Equal(t, "OASA Industrial", settings["company_name"])
	assert.Equal(t, "La tienda de los expertos", settings["banner_slogan"])
	assert.Equal(t, true, settings["banner_enabled"])
}

func TestUpdateSiteSettingsMergesOpenKeys(t *testing.T) {
	svc := newTestSiteSettingsService(t)

	updated, err := svc.UpdateSiteSettings(map[string]any{
		"banner_slogan": "Nueva temporada",
		"custom_flag":   true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Nueva temporada", updated["banner_slogan"])
	assert.Equal(t, true, updated["custom_flag"])
	// unrelated defaults stay intact
	assert.Equal(t, "OASA Industrial", updated["company_name"])

	reloaded, err := svc.GetSiteSettings()
	require.NoError(t, err)
	assert.Equal(t, updated, reloaded)
}

func TestUpdateSiteSettingsRejectsEmptyInput(t *testing.T) {
	svc := newTestSiteSettingsService(t)

	_, err := svc.UpdateSiteSettings(map[string]any{})
	assert.ErrorIs(t, err, lib.ErrValidation)

	_, err = svc.UpdateSiteSettings(map[string]any{"": "value"})
	assert.ErrorIs(t, err, lib.ErrValidation)
}

func TestGetSiteSetting(t *testing.T) {
	svc := newTestSiteSettingsService(t)

	value, err := svc.GetSiteSetting("company_name")
	require.NoError(t, err)
	assert.Equal(t, "OASA Industrial", value)

	_, err = svc.GetSiteSetting("no_such_key")
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestUpdateSiteSettingSingleKey(t *testing.T) {
	svc := newTestSiteSettingsService(t)

	updated, err := svc.UpdateSiteSetting("primary_color", "#000000")
	require.NoError(t, err)
	assert.Equal(t, "#000000", updated["primary_color"])

	_, err = svc.UpdateSiteSetting("", "value")
	assert.ErrorIs(t, err, lib.ErrValidation)
}
