package settings

import (
	"encoding/json"
	"net/http"
	"oasa_server/handling"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// FetchSiteSettings handles GET /api/settings/site
func (srm *SettingsRoutesManager) FetchSiteSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := srm.siteSettingsService.GetSiteSettings()
	if err != nil {
		handling.HandleError(err, "Failed to read site settings", srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(settings),
		gecho.Send(),
	)
}

// FetchSiteSetting handles GET /api/settings/site/{key}; unknown keys are
// a 404, not an empty value
func (srm *SettingsRoutesManager) FetchSiteSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	value, err := srm.siteSettingsService.GetSiteSetting(key)
	if err != nil {
		handling.HandleError(err, "Failed to read site setting", srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"key":   key,
			"value": value,
		}),
		gecho.Send(),
	)
}

// UpdateSiteSettings handles PUT /api/settings/site with an open key/value
// document merged into the stored one
func (srm *SettingsRoutesManager) UpdateSiteSettings(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var updates map[string]any
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("Invalid JSON body"),
			gecho.Send(),
		)
		return
	}

	settings, err := srm.siteSettingsService.UpdateSiteSettings(updates)
	if err != nil {
		handling.HandleError(err, "Failed to update site settings", srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Site settings updated"),
		gecho.WithData(settings),
		gecho.Send(),
	)
}

// UpdateSiteSetting handles PUT /api/settings/site/{key} for a single value
func (srm *SettingsRoutesManager) UpdateSiteSetting(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	key := chi.URLParam(r, "key")

	var body struct {
		Value *json.RawMessage `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Value == nil {
		gecho.BadRequest(w,
			gecho.WithMessage("Body must contain a value field"),
			gecho.Send(),
		)
		return
	}

	var value any
	if err := json.Unmarshal(*body.Value, &value); err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("Invalid value"),
			gecho.Send(),
		)
		return
	}

	settings, err := srm.siteSettingsService.UpdateSiteSetting(key, value)
	if err != nil {
		handling.HandleError(err, "Failed to update site setting", srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Site setting updated"),
		gecho.WithData(settings),
		gecho.Send(),
	)
}
