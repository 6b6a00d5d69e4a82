package services

import (
	"context"
	"fmt"
	"oasa_server/database"
	"oasa_server/lib"
	"oasa_server/structs"
	"oasa_server/structs/tables"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
)

type ProductService struct {
	logger       *gecho.Logger
	db           *database.DB
	cacheService *CacheService
}

func NewProductService(logger *gecho.Logger, db *database.DB, cacheService *CacheService) *ProductService {
	return &ProductService{
		logger:       logger,
		db:           db,
		cacheService: cacheService,
	}
}

// CatalogListOptions contains filtering, sorting and pagination options for
// catalog queries. All fields come from untrusted query parameters; the
// service validates them against allowlists rather than rejecting requests.
type CatalogListOptions struct {
	// Filters
	Category string   `json:"category,omitempty"` // matches category name or slug
	Search   string   `json:"search,omitempty"`   // matches name, description, short description
	MinPrice *float64 `json:"minPrice,omitempty"`
	MaxPrice *float64 `json:"maxPrice,omitempty"`
	InStock  bool     `json:"inStock,omitempty"`
	IsNew    bool     `json:"isNew,omitempty"`
	IsSale   bool     `json:"isSale,omitempty"`

	// Sorting
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// DefaultCatalogListOptions returns the options an empty query resolves to
func DefaultCatalogListOptions() *CatalogListOptions {
	return &CatalogListOptions{
		SortBy:    "name",
		SortOrder: "asc",
		Page:      1,
		Limit:     12,
	}
}

// CatalogListResult wraps the shaped product list with pagination metadata
type CatalogListResult struct {
	Products   []structs.Product   `json:"products"`
	Pagination database.Pagination `json:"pagination"`
}

// sortColumns maps exposed sort keys onto real columns. Anything not in
// this map silently falls back to name.
var sortColumns = map[string]string{
	"name":       "p.name",
	"price":      "p.price",
	"created_at": "p.created_at",
	"createdAt":  "p.created_at",
	"rating":     "p.rating_average",
	"stock":      "p.stock_quantity",
}

// ListProducts retrieves active products with filtering, sorting and
// pagination. The page query and its count query are built off one builder
// instance, so the total always matches the filters applied to the page.
func (ps *ProductService) ListProducts(ctx context.Context, opts *CatalogListOptions) (*CatalogListResult, error) {
	startTime := time.Now()

	if opts == nil {
		opts = DefaultCatalogListOptions()
	}
	ps.applyDefaultOptions(opts)

	query := database.Query[tables.Product](ps.db).
		Select("p.*", "c.name AS category_name", "c.slug AS category_slug").
		LeftJoin("categories", "c").On("p.category_id", "=", "c.id").End().
		With("Images", "display_order ASC", "is_primary DESC").
		Timeout(30 * time.Second)

	query = ps.applyFilters(query, opts)
	query = ps.applySorting(query, opts)

	result, err := database.Paginate(query, ctx, opts.Page, opts.Limit)
	if err != nil {
		ps.logger.Error("Failed to fetch products",
			gecho.Field("error", err),
			gecho.Field("page", opts.Page),
			gecho.Field("limit", opts.Limit),
			gecho.Field("duration", time.Since(startTime)))
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	now := time.Now()
	products := make([]structs.Product, 0, len(result.Data))
	for i := range result.Data {
		products = append(products, structs.ShapeProduct(&result.Data[i], now))
	}

	ps.logger.Debug("Products fetched successfully",
		gecho.Field("count", len(products)),
		gecho.Field("total", result.Pagination.Total),
		gecho.Field("page", result.Pagination.Page),
		gecho.Field("duration", time.Since(startTime)),
	)

	return &CatalogListResult{
		Products:   products,
		Pagination: result.Pagination,
	}, nil
}

// GetProductByID retrieves a single active product by ID. Inactive and
// unknown IDs are both reported as not found.
func (ps *ProductService) GetProductByID(ctx context.Context, id int64) (*structs.Product, error) {
	startTime := time.Now()

	cached, err := ps.cacheService.GetProductByID(id)
	if err != nil {
		ps.logger.Warn("Failed to get product from cache", gecho.Field("error", err), gecho.Field("id", id))
	} else if cached != nil {
		cached.RefreshDerived(time.Now())
		ps.logger.Debug("Product retrieved from cache", gecho.Field("id", id), gecho.Field("duration", time.Since(startTime)))
		return cached, nil
	}

	row, err := database.Query[tables.Product](ps.db).
		Select("p.*", "c.name AS category_name", "c.slug AS category_slug").
		LeftJoin("categories", "c").On("p.category_id", "=", "c.id").End().
		With("Images", "display_order ASC", "is_primary DESC").
		Where("p.id", id).
		Where("p.is_active", true).
		Timeout(5 * time.Second).
		First(ctx)
	if err != nil {
		ps.logger.Error("Failed to fetch product by ID",
			gecho.Field("id", id),
			gecho.Field("error", err),
			gecho.Field("duration", time.Since(startTime)),
		)
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}

	if row == nil {
		return nil, fmt.Errorf("product %d: %w", id, lib.ErrNotFound)
	}

	product := structs.ShapeProduct(row, time.Now())

	go func() {
		if err := ps.cacheService.SetProductByID(&product); err != nil {
			ps.logger.Warn("Failed to cache product", gecho.Field("error", err), gecho.Field("id", id))
		}
	}()

	return &product, nil
}

// ListCategories returns all active categories ordered for display
func (ps *ProductService) ListCategories(ctx context.Context) ([]structs.Category, error) {
	startTime := time.Now()

	cached, err := ps.cacheService.GetCategoryList()
	if err != nil {
		ps.logger.Warn("Failed to get categories from cache", gecho.Field("error", err))
	} else if cached != nil {
		return cached, nil
	}

	rows, err := database.Query[tables.Category](ps.db).
		Where("is_active", true).
		OrderBy("display_order", database.ASC).
		OrderBy("name", database.ASC).
		Timeout(10 * time.Second).
		All(ctx)
	if err != nil {
		ps.logger.Error("Failed to fetch categories",
			gecho.Field("error", err),
			gecho.Field("duration", time.Since(startTime)),
		)
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	categories := make([]structs.Category, 0, len(rows))
	for i := range rows {
		categories = append(categories, structs.ShapeCategory(&rows[i]))
	}

	go func() {
		if err := ps.cacheService.SetCategoryList(categories); err != nil {
			ps.logger.Warn("Failed to cache categories", gecho.Field("error", err))
		}
	}()

	return categories, nil
}

// applyDefaultOptions normalizes out-of-range values instead of rejecting
// them; a bad page or sort never fails a storefront request
func (ps *ProductService) applyDefaultOptions(opts *CatalogListOptions) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 12
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if _, ok := sortColumns[opts.SortBy]; !ok {
		opts.SortBy = "name"
		opts.SortOrder = "asc"
	}
}

// applyFilters applies all filter conditions to the query. The same builder
// feeds both the page and the count query.
func (ps *ProductService) applyFilters(query *database.QueryBuilder[tables.Product], opts *CatalogListOptions) *database.QueryBuilder[tables.Product] {
	query = query.Where("p.is_active", true)

	if opts.Category != "" {
		categoryPattern := "%" + opts.Category + "%"
		query = query.WhereRaw(
			"(c.name ILIKE ? OR c.slug ILIKE ?)",
			categoryPattern, categoryPattern,
		)
	}

	if opts.Search != "" {
		searchPattern := "%" + opts.Search + "%"
		query = query.WhereRaw(
			"(p.name ILIKE ? OR p.description ILIKE ? OR p.short_description ILIKE ?)",
			searchPattern, searchPattern, searchPattern,
		)
	}

	if opts.MinPrice != nil {
		query = query.WhereOp("p.price", ">=", *opts.MinPrice)
	}
	if opts.MaxPrice != nil {
		query = query.WhereOp("p.price", "<=", *opts.MaxPrice)
	}

	if opts.InStock {
		query = query.WhereOp("p.stock_quantity", ">", 0)
	}

	if opts.IsNew {
		query = query.WhereOp("p.created_at", ">=", time.Now().Add(-structs.NewProductWindow))
	}

	if opts.IsSale {
		query = query.WhereRaw("(p.original_price IS NOT NULL AND p.original_price > p.price)")
	}

	return query
}

// applySorting applies the validated sort plus a stable ID tiebreaker
func (ps *ProductService) applySorting(query *database.QueryBuilder[tables.Product], opts *CatalogListOptions) *database.QueryBuilder[tables.Product] {
	column := sortColumns[opts.SortBy]

	direction := database.ASC
	if strings.EqualFold(opts.SortOrder, "desc") {
		direction = database.DESC
	}

	return query.
		OrderBy(column, direction).
		OrderBy("p.id", database.ASC)
}
