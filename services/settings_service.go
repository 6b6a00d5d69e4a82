package services

import (
	"encoding/json"
	"fmt"
	"oasa_server/lib"
	"oasa_server/structs"
	"os"
	"path/filepath"
	"sync"

	"github.com/MonkyMars/gecho"
)

// SettingsService persists the global shopping settings document as a JSON
// file at an injected path. The mutex serializes writers within this
// process; concurrent external writers are last-writer-wins, which is
// acceptable for a single-instance admin surface.
type SettingsService struct {
	logger *gecho.Logger
	path   string
	mu     sync.Mutex
}

func NewSettingsService(logger *gecho.Logger, path string) *SettingsService {
	return &SettingsService{
		logger: logger,
		path:   path,
	}
}

// GetShoppingSettings reads the settings document, creating it with
// defaults on first access
func (ss *SettingsService) GetShoppingSettings() (structs.ShoppingSettings, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	return ss.loadOrCreate()
}

// UpdateShoppingSettings merges the provided fields into the current
// document, validates the merged result, and persists it. An invalid merge
// leaves the file untouched.
func (ss *SettingsService) UpdateShoppingSettings(updates map[string]any) (structs.ShoppingSettings, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	current, err := ss.loadOrCreate()
	if err != nil {
		return structs.ShoppingSettings{}, err
	}

	doc, err := toDoc(current)
	if err != nil {
		return structs.ShoppingSettings{}, err
	}

	for key, value := range updates {
		doc[key] = value
	}

	if err := structs.ValidateShoppingSettings(doc); err != nil {
		return structs.ShoppingSettings{}, fmt.Errorf("%w: %s", lib.ErrValidation, err.Error())
	}

	merged, err := fromDoc(doc)
	if err != nil {
		return structs.ShoppingSettings{}, fmt.Errorf("%w: %s", lib.ErrValidation, err.Error())
	}

	if err := ss.write(merged); err != nil {
		return structs.ShoppingSettings{}, err
	}

	ss.logger.Info("Shopping settings updated", gecho.Field("fields", len(updates)))
	return merged, nil
}

// ResetShoppingSettings restores the default document
func (ss *SettingsService) ResetShoppingSettings() (structs.ShoppingSettings, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	defaults := structs.DefaultShoppingSettings()
	if err := ss.write(defaults); err != nil {
		return structs.ShoppingSettings{}, err
	}

	ss.logger.Info("Shopping settings reset to defaults")
	return defaults, nil
}

func (ss *SettingsService) loadOrCreate() (structs.ShoppingSettings, error) {
	data, err := os.ReadFile(ss.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return structs.ShoppingSettings{}, fmt.Errorf("%w: reading settings file: %s", lib.ErrStore, err.Error())
		}

		defaults := structs.DefaultShoppingSettings()
		if err := ss.write(defaults); err != nil {
			return structs.ShoppingSettings{}, err
		}
		ss.logger.Info("Shopping settings file created with defaults", gecho.Field("path", ss.path))
		return defaults, nil
	}

	var settings structs.ShoppingSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return structs.ShoppingSettings{}, fmt.Errorf("%w: settings file is corrupt: %s", lib.ErrStore, err.Error())
	}

	return settings, nil
}

// write persists atomically via a temp file and rename, so readers never
// observe a half-written document
func (ss *SettingsService) write(settings structs.ShoppingSettings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding settings: %s", lib.ErrStore, err.Error())
	}

	return writeFileAtomic(ss.path, data)
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: creating settings directory: %s", lib.ErrStore, err.Error())
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: writing settings file: %s", lib.ErrStore, err.Error())
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: replacing settings file: %s", lib.ErrStore, err.Error())
	}

	return nil
}

func toDoc(settings structs.ShoppingSettings) (map[string]any, error) {
	data, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", lib.ErrStore, err.Error())
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s", lib.ErrStore, err.Error())
	}

	return doc, nil
}

func fromDoc(doc map[string]any) (structs.ShoppingSettings, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return structs.ShoppingSettings{}, err
	}

	var settings structs.ShoppingSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return structs.ShoppingSettings{}, err
	}

	return settings, nil
}
