package services

import (
	"oasa_server/database"
	"oasa_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	AuthService         *AuthService
	CacheService        *CacheService
	HealthService       *HealthService
	ProductService      *ProductService
	SubscriptionService *SubscriptionService
	SettingsService     *SettingsService
	SiteSettingsService *SiteSettingsService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB) *ServiceManager {
	authService := NewAuthService(cfg, logger, db)
	cacheService := NewCacheService(logger, cfg)
	healthService := NewHealthService(logger, db, cacheService)
	productService := NewProductService(logger, db, cacheService)
	subscriptionService := NewSubscriptionService(logger, db)
	settingsService := NewSettingsService(logger, cfg.Settings.ShoppingFile)
	siteSettingsService := NewSiteSettingsService(logger, cfg.Settings.SiteFile)

	return &ServiceManager{
		AuthService:         authService,
		CacheService:        cacheService,
		HealthService:       healthService,
		ProductService:      productService,
		SubscriptionService: subscriptionService,
		SettingsService:     settingsService,
		SiteSettingsService: siteSettingsService,
	}
}
