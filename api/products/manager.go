package products

import (
	"oasa_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type ProductRoutesManager struct {
	logger         *gecho.Logger
	productService *services.ProductService
}

func NewProductRoutesManager(
	logger *gecho.Logger,
	productService *services.ProductService,
) *ProductRoutesManager {
	return &ProductRoutesManager{
		logger:         logger,
		productService: productService,
	}
}

func (prm *ProductRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/api/products", prm.FetchProducts)
	// Registered before {id} so "categories" is not parsed as a product ID
	r.Get("/api/products/categories/all", prm.FetchCategories)
	r.Get("/api/products/{id}", prm.FetchProductByID)
}
