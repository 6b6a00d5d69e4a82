package structs

import (
	"sort"
	"time"

	"oasa_server/structs/tables"
)

const (
	// PlaceholderImage is served when a product has no images at all.
	PlaceholderImage = "/placeholder.svg?height=300&width=300"

	// UncategorizedLabel is the category shown for unlinked products.
	UncategorizedLabel = "Sin categoría"

	// NewProductWindow is the trailing window after creation during which
	// a product reports is_new.
	NewProductWindow = 30 * 24 * time.Hour
)

// Dimensions groups the optional physical measurements of a product.
type Dimensions struct {
	Length *float64 `json:"length"`
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
}

// Product is the canonical JSON contract for catalog responses. Prices are
// always numbers, and the is_new / is_on_sale / in_stock flags are derived
// at response time, never read from storage.
type Product struct {
	ID               int64                 `json:"id"`
	Name             string                `json:"name"`
	Slug             string                `json:"slug"`
	Description      string                `json:"description"`
	ShortDescription string                `json:"shortDescription"`
	Category         string                `json:"category"`
	CategorySlug     *string               `json:"categorySlug"`
	CategoryID       *int64                `json:"categoryId"`
	Price            float64               `json:"price"`
	OriginalPrice    *float64              `json:"originalPrice"`
	CostPrice        *float64              `json:"costPrice"`
	SKU              string                `json:"sku"`
	StockQuantity    int                   `json:"stockQuantity"`
	MinStockLevel    int                   `json:"minStockLevel"`
	Weight           *float64              `json:"weight"`
	Dimensions       Dimensions            `json:"dimensions"`
	IsFeatured       bool                  `json:"isFeatured"`
	IsActive         bool                  `json:"isActive"`
	IsDigital        bool                  `json:"isDigital"`
	RequiresShipping bool                  `json:"requiresShipping"`
	IsNew            bool                  `json:"isNew"`
	IsOnSale         bool                  `json:"isOnSale"`
	Rating           float64               `json:"rating"`
	ReviewCount      int                   `json:"reviewCount"`
	ViewCount        int                   `json:"viewCount"`
	MetaTitle        string                `json:"metaTitle"`
	MetaDescription  string                `json:"metaDescription"`
	Images           []tables.ProductImage `json:"images"`
	InStock          bool                  `json:"inStock"`
	Image            string                `json:"image"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
}

// ShapeProduct normalizes a product row into the response contract.
// Derived flags are computed against the supplied clock, not stored
// columns.
func ShapeProduct(row *tables.Product, now time.Time) Product {
	images := sortImages(row.Images)

	category := UncategorizedLabel
	if row.CategoryName != nil && *row.CategoryName != "" {
		category = *row.CategoryName
	}

	onSale := row.OriginalPrice != nil && *row.OriginalPrice > row.Price

	return Product{
		ID:               row.ID,
		Name:             row.Name,
		Slug:             row.Slug,
		Description:      row.Description,
		ShortDescription: row.ShortDescription,
		Category:         category,
		CategorySlug:     row.CategorySlug,
		CategoryID:       row.CategoryID,
		Price:            row.Price,
		OriginalPrice:    row.OriginalPrice,
		CostPrice:        row.CostPrice,
		SKU:              row.SKU,
		StockQuantity:    row.StockQuantity,
		MinStockLevel:    row.MinStockLevel,
		Weight:           row.Weight,
		Dimensions: Dimensions{
			Length: row.DimensionsLength,
			Width:  row.DimensionsWidth,
			Height: row.DimensionsHeight,
		},
		IsFeatured:       row.IsFeatured,
		IsActive:         row.IsActive,
		IsDigital:        row.IsDigital,
		RequiresShipping: row.RequiresShipping,
		IsNew:            now.Sub(row.CreatedAt) < NewProductWindow,
		IsOnSale:         onSale,
		Rating:           row.RatingAverage,
		ReviewCount:      row.RatingCount,
		ViewCount:        row.ViewCount,
		MetaTitle:        row.MetaTitle,
		MetaDescription:  row.MetaDescription,
		Images:           images,
		InStock:          row.StockQuantity > 0,
		Image:            displayImage(images),
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}

// RefreshDerived recomputes the derived flags against the supplied clock.
// Cached products carry the flags as of caching time; refreshing them keeps
// is_new accurate for entries served near the end of the window.
func (p *Product) RefreshDerived(now time.Time) {
	p.IsNew = now.Sub(p.CreatedAt) < NewProductWindow
	p.IsOnSale = p.OriginalPrice != nil && *p.OriginalPrice > p.Price
	p.InStock = p.StockQuantity > 0
}

// sortImages orders images by display_order, primary-first within equal
// display order.
func sortImages(images []tables.ProductImage) []tables.ProductImage {
	if len(images) == 0 {
		return []tables.ProductImage{}
	}

	sorted := make([]tables.ProductImage, len(images))
	copy(sorted, images)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DisplayOrder != sorted[j].DisplayOrder {
			return sorted[i].DisplayOrder < sorted[j].DisplayOrder
		}
		return sorted[i].IsPrimary && !sorted[j].IsPrimary
	})
	return sorted
}

// displayImage picks the primary image, else the first by display order,
// else the placeholder. If multiple images are marked primary, the first
// by display order wins.
func displayImage(sorted []tables.ProductImage) string {
	for _, img := range sorted {
		if img.IsPrimary {
			return img.ImageURL
		}
	}
	if len(sorted) > 0 {
		return sorted[0].ImageURL
	}
	return PlaceholderImage
}

// Category is the response contract for category listings.
type Category struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Description     string    `json:"description"`
	Icon            string    `json:"icon"`
	Color           string    `json:"color"`
	ParentID        *int64    `json:"parentId"`
	DisplayOrder    int       `json:"displayOrder"`
	IsActive        bool      `json:"isActive"`
	MetaTitle       string    `json:"metaTitle"`
	MetaDescription string    `json:"metaDescription"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ShapeCategory maps a category row to the response contract.
func ShapeCategory(row *tables.Category) Category {
	return Category{
		ID:              row.ID,
		Name:            row.Name,
		Slug:            row.Slug,
		Description:     row.Description,
		Icon:            row.Icon,
		Color:           row.Color,
		ParentID:        row.ParentID,
		DisplayOrder:    row.DisplayOrder,
		IsActive:        row.IsActive,
		MetaTitle:       row.MetaTitle,
		MetaDescription: row.MetaDescription,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}
