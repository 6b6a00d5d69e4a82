package handling

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCatalogListOptionsDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/products", nil)

	opts := ParseCatalogListOptions(r)

	assert.Equal(t, "", opts.Category)
	assert.Equal(t, "", opts.Search)
	assert.Equal(t, "name", opts.SortBy)
	assert.Equal(t, "asc", opts.SortOrder)
	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, 12, opts.Limit)
	assert.Nil(t, opts.MinPrice)
	assert.Nil(t, opts.MaxPrice)
	assert.False(t, opts.InStock)
	assert.False(t, opts.IsNew)
	assert.False(t, opts.IsSale)
}

func TestParseCatalogListOptionsFullQuery(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/api/products?category=herramientas&search=taladro&sortBy=price&sortOrder=desc&page=3&limit=24&minPrice=100.50&maxPrice=2000&inStock=true&isNew=true&isSale=true",
		nil)

	opts := ParseCatalogListOptions(r)

	assert.Equal(t, "herramientas", opts.Category)
	assert.Equal(t, "taladro", opts.Search)
	assert.Equal(t, "price", opts.SortBy)
	assert.Equal(t, "desc", opts.SortOrder)
	assert.Equal(t, 3, opts.Page)
	assert.Equal(t, 24, opts.Limit)
	require.NotNil(t, opts.MinPrice)
	assert.Equal(t, 100.50, *opts.MinPrice)
	require.NotNil(t, opts.MaxPrice)
	assert.Equal(t, 2000.0, *opts.MaxPrice)
	assert.True(t, opts.InStock)
	assert.True(t, opts.IsNew)
	assert.True(t, opts.IsSale)
}

func TestParseCatalogListOptionsMalformedNumbers(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/api/products?page=abc&limit=-5&minPrice=cheap&maxPrice=1e",
		nil)

	opts := ParseCatalogListOptions(r)

	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, 12, opts.Limit)
	assert.Nil(t, opts.MinPrice)
	assert.Nil(t, opts.MaxPrice)
}

func TestParseCatalogListOptionsBooleanLiteral(t *testing.T) {
	// Only the literal "true" turns a boolean filter on
	r := httptest.NewRequest("GET",
		"/api/products?inStock=1&isNew=TRUE&isSale=yes",
		nil)

	opts := ParseCatalogListOptions(r)

	assert.False(t, opts.InStock)
	assert.False(t, opts.IsNew)
	assert.False(t, opts.IsSale)
}

func TestParseCatalogListOptionsUnknownSortPassesThrough(t *testing.T) {
	// Unknown sort fields are not rejected here; the catalog service maps
	// them back to the default ordering against its allowlist
	r := httptest.NewRequest("GET", "/api/products?sortBy=sneaky;DROP&sortOrder=sideways", nil)

	opts := ParseCatalogListOptions(r)

	assert.Equal(t, "sneaky;DROP", opts.SortBy)
	assert.Equal(t, "sideways", opts.SortOrder)
}
