package services

import (
	"encoding/json"
	"fmt"
	"oasa_server/lib"
	"oasa_server/structs"
	"os"
	"sync"

	"github.com/MonkyMars/gecho"
)

// SiteSettingsService persists the branding/company document the storefront
// reads. The document is an open key/value bag; unlike the shopping
// settings there is no fixed schema to validate beyond key names.
type SiteSettingsService struct {
	logger *gecho.Logger
	path   string
	mu     sync.Mutex
}

func NewSiteSettingsService(logger *gecho.Logger, path string) *SiteSettingsService {
	return &SiteSettingsService{
		logger: logger,
		path:   path,
	}
}

// GetSiteSettings reads the site settings document, creating it with
// defaults on first access
func (ss *SiteSettingsService) GetSiteSettings() (structs.SiteSettings, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	return ss.loadOrCreate()
}

// GetSiteSetting reads a single key; an unknown key is NotFound
func (ss *SiteSettingsService) GetSiteSetting(key string) (any, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	current, err := ss.loadOrCreate()
	if err != nil {
		return nil, err
	}

	value, ok := current[key]
	if !ok {
		return nil, fmt.Errorf("site setting %q: %w", key, lib.ErrNotFound)
	}

	return value, nil
}

// UpdateSiteSettings merges the provided keys into the current document
func (ss *SiteSettingsService) UpdateSiteSettings(updates map[string]any) (structs.SiteSettings, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no settings provided", lib.ErrValidation)
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()

	current, err := ss.loadOrCreate()
	if err != nil {
		return nil, err
	}

	for key, value := range updates {
		if key == "" {
			return nil, fmt.Errorf("%w: empty setting key", lib.ErrValidation)
		}
		current[key] = value
	}

	if err := ss.write(current); err != nil {
		return nil, err
	}

	ss.logger.Info("Site settings updated", gecho.Field("keys", len(updates)))
	return current, nil
}

// UpdateSiteSetting sets a single key
func (ss *SiteSettingsService) UpdateSiteSetting(key string, value any) (structs.SiteSettings, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty setting key", lib.ErrValidation)
	}

	return ss.UpdateSiteSettings(map[string]any{key: value})
}

func (ss *SiteSettingsService) loadOrCreate() (structs.SiteSettings, error) {
	data, err := os.ReadFile(ss.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: reading site settings file: %s", lib.ErrStore, err.Error())
		}

		defaults := structs.DefaultSiteSettings()
		if err := ss.write(defaults); err != nil {
			return nil, err
		}
		ss.logger.Info("Site settings file created with defaults", gecho.Field("path", ss.path))
		return defaults, nil
	}

	var settings structs.SiteSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("%w: site settings file is corrupt: %s", lib.ErrStore, err.Error())
	}

	return settings, nil
}

func (ss *SiteSettingsService) write(settings structs.SiteSettings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding site settings: %s", lib.ErrStore, err.Error())
	}

	return writeFileAtomic(ss.path, data)
}
