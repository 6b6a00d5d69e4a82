package api

import (
	"oasa_server/api/auth"
	"oasa_server/api/health"
	"oasa_server/api/middleware"
	"oasa_server/api/products"
	"oasa_server/api/settings"
	"oasa_server/api/subscriptions"
	"oasa_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	productRoutes      *products.ProductRoutesManager
	subscriptionRoutes *subscriptions.SubscriptionRoutesManager
	settingsRoutes     *settings.SettingsRoutesManager
	authRoutes         *auth.AuthRoutesManager
	healthRoutes       *health.HealthRoutesManager
}

func NewRouterManager(
	logger *gecho.Logger,
	mw *middleware.Middleware,
	sm *services.ServiceManager,
) *routerManager {
	return &routerManager{
		productRoutes:      products.NewProductRoutesManager(logger, sm.ProductService),
		subscriptionRoutes: subscriptions.NewSubscriptionRoutesManager(logger, sm.SubscriptionService, mw.AdminAuthMiddleware),
		settingsRoutes:     settings.NewSettingsRoutesManager(logger, sm.SettingsService, sm.SiteSettingsService, mw.AdminAuthMiddleware),
		authRoutes:         auth.NewAuthRoutesManager(logger, sm.AuthService),
		healthRoutes:       health.NewHealthRoutesManager(sm.HealthService),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.productRoutes.RegisterRoutes(r)
	rm.subscriptionRoutes.RegisterRoutes(r)
	rm.settingsRoutes.RegisterRoutes(r)
	rm.authRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
}
