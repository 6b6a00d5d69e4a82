package settings

import (
	"net/http"
	"oasa_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type SettingsRoutesManager struct {
	logger              *gecho.Logger
	settingsService     *services.SettingsService
	siteSettingsService *services.SiteSettingsService
	adminAuth           func(http.Handler) http.Handler
}

func NewSettingsRoutesManager(
	logger *gecho.Logger,
	settingsService *services.SettingsService,
	siteSettingsService *services.SiteSettingsService,
	adminAuth func(http.Handler) http.Handler,
) *SettingsRoutesManager {
	return &SettingsRoutesManager{
		logger:              logger,
		settingsService:     settingsService,
		siteSettingsService: siteSettingsService,
		adminAuth:           adminAuth,
	}
}

func (srm *SettingsRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/api/settings/shopping", srm.FetchShoppingSettings)
	r.Get("/api/settings/site", srm.FetchSiteSettings)
	r.Get("/api/settings/site/{key}", srm.FetchSiteSetting)

	r.Group(func(r chi.Router) {
		r.Use(srm.adminAuth)
		r.Put("/api/settings/shopping", srm.UpdateShoppingSettings)
		r.Post("/api/settings/shopping/reset", srm.ResetShoppingSettings)
		r.Put("/api/settings/site", srm.UpdateSiteSettings)
		r.Put("/api/settings/site/{key}", srm.UpdateSiteSetting)
	})
}
