package products

import (
	"net/http"
	"oasa_server/handling"
	"strconv"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// FetchProducts handles GET /api/products with filtering, sorting and
// pagination. Malformed filter values degrade to defaults instead of
// failing the request.
func (p *ProductRoutesManager) FetchProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	opts := handling.ParseCatalogListOptions(r)

	p.logger.Debug("Fetching products",
		gecho.Field("category", opts.Category),
		gecho.Field("search", opts.Search),
		gecho.Field("page", opts.Page),
		gecho.Field("limit", opts.Limit),
	)

	result, err := p.productService.ListProducts(ctx, opts)
	if err != nil {
		handling.HandleError(err, "Failed to fetch products", p.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"products":   result.Products,
			"pagination": result.Pagination,
		}),
		gecho.Send(),
	)
}

// FetchProductByID handles GET /api/products/{id}
func (p *ProductRoutesManager) FetchProductByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	idStr := chi.URLParam(r, "id")

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id < 1 {
		p.logger.Warn("Invalid product ID", gecho.Field("id", idStr))
		gecho.BadRequest(w,
			gecho.WithMessage("Invalid product ID"),
			gecho.Send(),
		)
		return
	}

	product, err := p.productService.GetProductByID(ctx, id)
	if err != nil {
		handling.HandleError(err, "Failed to fetch product by ID", p.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"product": product,
		}),
		gecho.Send(),
	)
}

// FetchCategories handles GET /api/products/categories/all
func (p *ProductRoutesManager) FetchCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories, err := p.productService.ListCategories(ctx)
	if err != nil {
		handling.HandleError(err, "Failed to fetch categories", p.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"categories": categories,
		}),
		gecho.Send(),
	)
}
