package handling

import (
	"net/http"
	"oasa_server/services"
	"strconv"
)

// ParseCatalogListOptions parses HTTP query parameters into CatalogListOptions.
// Malformed values never fail the request: unparsable numbers are treated as
// absent and unknown sort fields fall back to the default ordering downstream.
func ParseCatalogListOptions(r *http.Request) *services.CatalogListOptions {
	query := r.URL.Query()

	opts := services.DefaultCatalogListOptions()

	if len(query) == 0 {
		return opts
	}

	if category := query.Get("category"); category != "" {
		opts.Category = category
	}

	if search := query.Get("search"); search != "" {
		opts.Search = search
	}

	if sortBy := query.Get("sortBy"); sortBy != "" {
		opts.SortBy = sortBy
	}

	if sortOrder := query.Get("sortOrder"); sortOrder != "" {
		opts.SortOrder = sortOrder
	}

	if page := query.Get("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v >= 1 {
			opts.Page = v
		}
	}

	if limit := query.Get("limit"); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil && v >= 1 {
			opts.Limit = v
		}
	}

	if minPrice := query.Get("minPrice"); minPrice != "" {
		if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
			opts.MinPrice = &v
		}
	}

	if maxPrice := query.Get("maxPrice"); maxPrice != "" {
		if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			opts.MaxPrice = &v
		}
	}

	// Boolean filters only apply on the literal string "true"; any other
	// value leaves the filter off
	opts.InStock = query.Get("inStock") == "true"
	opts.IsNew = query.Get("isNew") == "true"
	opts.IsSale = query.Get("isSale") == "true"

	return opts
}
