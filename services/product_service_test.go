package services

import (
	"context"
	"testing"
	"time"

	"oasa_server/database"
	"oasa_server/lib"
	"oasa_server/structs"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

func newMockProductService(t *testing.T) (*ProductService, sqlmock.Sqlmock) {
	t.Helper()

	sqldb, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })

	db := &database.DB{DB: bun.NewDB(sqldb, pgdialect.New())}
	logger := testLogger()
	return NewProductService(logger, db, NewCacheService(logger, testConfig())), mock
}

func testConfig() *structs.Config {
	return &structs.Config{
		Cache: &structs.CacheConfig{
			Address:     "localhost:0",
			ProductTTL:  time.Minute,
			CategoryTTL: time.Minute,
		},
	}
}

func productColumns() []string {
	return []string{
		"id", "name", "slug", "price", "original_price", "stock_quantity",
		"is_active", "created_at", "updated_at", "category_name", "category_slug",
	}
}

func TestGetProductByIDNotFound(t *testing.T) {
	svc, mock := newMockProductService(t)

	mock.ExpectQuery(`FROM "products"`).
		WillReturnRows(sqlmock.NewRows(productColumns()))

	product, err := svc.GetProductByID(context.Background(), 9999)
	require.Error(t, err)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, lib.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductByIDShapesRow(t *testing.T) {
	svc, mock := newMockProductService(t)
	created := time.Now().Add(-5 * 24 * time.Hour)
	original := 1500.0

	mock.ExpectQuery(`FROM "products"`).
		WillReturnRows(sqlmock.NewRows(productColumns()).
			AddRow(int64(1), "Taladro", "taladro", 1299.0, original, 3,
				true, created, created, "Herramientas", "herramientas"))
	mock.ExpectQuery(`FROM "product_images"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "image_url", "is_primary", "display_order"}).
			AddRow(int64(10), int64(1), "/img/taladro.jpg", true, 0))

	product, err := svc.GetProductByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, product)

	assert.Equal(t, "Taladro", product.Name)
	assert.Equal(t, "Herramientas", product.Category)
	assert.True(t, product.IsNew)
	assert.True(t, product.IsOnSale)
	assert.True(t, product.InStock)
	assert.Equal(t, "/img/taladro.jpg", product.Image)
}

func TestListProducts(t *testing.T) {
	svc, mock := newMockProductService(t)
	created := time.Now().Add(-90 * 24 * time.Hour)

	mock.ExpectQuery(`SELECT count\(\*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`FROM "products"`).
		WillReturnRows(sqlmock.NewRows(productColumns()).
			AddRow(int64(2), "Guantes", "guantes", 199.0, nil, 0,
				true, created, created, nil, nil))
	mock.ExpectQuery(`FROM "product_images"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "image_url", "is_primary", "display_order"}))

	result, err := svc.ListProducts(context.Background(), DefaultCatalogListOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Pagination.Total)
	require.Len(t, result.Products, 1)

	got := result.Products[0]
	assert.Equal(t, structs.UncategorizedLabel, got.Category)
	assert.False(t, got.IsNew)
	assert.False(t, got.IsOnSale)
	assert.False(t, got.InStock)
	assert.Equal(t, structs.PlaceholderImage, got.Image)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyDefaultOptions(t *testing.T) {
	svc, _ := newMockProductService(t)

	opts := &CatalogListOptions{Page: -1, Limit: 500, SortBy: "sneaky", SortOrder: "desc"}
	svc.applyDefaultOptions(opts)

	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, 100, opts.Limit)
	// unknown sort keys reset the whole ordering, not just the column
	assert.Equal(t, "name", opts.SortBy)
	assert.Equal(t, "asc", opts.SortOrder)

	opts = &CatalogListOptions{Page: 2, Limit: 24, SortBy: "price", SortOrder: "desc"}
	svc.applyDefaultOptions(opts)

	assert.Equal(t, "price", opts.SortBy)
	assert.Equal(t, "desc", opts.SortOrder)
}
