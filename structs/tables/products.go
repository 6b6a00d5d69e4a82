package tables

import (
	"time"
)

type Product struct {
	tableName        struct{}   `bun:"table:products,alias:p"`
	ID               int64      `bun:"id,pk,autoincrement" json:"id"`
	Name             string     `bun:"name,notnull" json:"name"`
	Slug             string     `bun:"slug,notnull" json:"slug"`
	Description      string     `bun:"description" json:"description"`
	ShortDescription string     `bun:"short_description" json:"short_description"`
	CategoryID       *int64     `bun:"category_id" json:"category_id,omitempty"`
	Price            float64    `bun:"price,notnull" json:"price"` // DECIMAL(10,2) in the schema
	OriginalPrice    *float64   `bun:"original_price" json:"original_price,omitempty"`
	CostPrice        *float64   `bun:"cost_price" json:"cost_price,omitempty"`
	SKU              string     `bun:"sku" json:"sku"`
	StockQuantity    int        `bun:"stock_quantity,notnull" json:"stock_quantity"`
	MinStockLevel    int        `bun:"min_stock_level" json:"min_stock_level"`
	MaxStockLevel    int        `bun:"max_stock_level" json:"max_stock_level"`
	Weight           *float64   `bun:"weight" json:"weight,omitempty"`
	DimensionsLength *float64   `bun:"dimensions_length" json:"dimensions_length,omitempty"`
	DimensionsWidth  *float64   `bun:"dimensions_width" json:"dimensions_width,omitempty"`
	DimensionsHeight *float64   `bun:"dimensions_height" json:"dimensions_height,omitempty"`
	IsActive         bool       `bun:"is_active,notnull" json:"is_active"`
	IsFeatured       bool       `bun:"is_featured" json:"is_featured"`
	IsDigital        bool       `bun:"is_digital" json:"is_digital"`
	RequiresShipping bool       `bun:"requires_shipping" json:"requires_shipping"`
	RatingAverage    float64    `bun:"rating_average" json:"rating_average"`
	RatingCount      int        `bun:"rating_count" json:"rating_count"`
	ViewCount        int        `bun:"view_count" json:"view_count"`
	MetaTitle        string     `bun:"meta_title" json:"meta_title,omitempty"`
	MetaDescription  string     `bun:"meta_description" json:"meta_description,omitempty"`
	CreatedAt        time.Time  `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt        time.Time  `bun:"updated_at,notnull,default:now()" json:"updated_at"`

	// Filled by the category join on list/detail queries
	CategoryName *string `bun:"category_name,scanonly" json:"-"`
	CategorySlug *string `bun:"category_slug,scanonly" json:"-"`

	Images []ProductImage `bun:"rel:has-many,join:id=product_id" json:"images,omitempty"`
}

// ProductImage represents an image for a product
type ProductImage struct {
	tableName    struct{} `bun:"table:product_images,alias:pi"`
	ID           int64    `bun:"id,pk,autoincrement" json:"id"`
	ProductID    int64    `bun:"product_id,notnull" json:"product_id"`
	ImageURL     string   `bun:"image_url,notnull" json:"image_url"`
	AltText      string   `bun:"alt_text" json:"alt_text,omitempty"`
	IsPrimary    bool     `bun:"is_primary,notnull" json:"is_primary"`
	DisplayOrder int      `bun:"display_order" json:"display_order"`
}

type Category struct {
	tableName       struct{}  `bun:"table:categories,alias:c"`
	ID              int64     `bun:"id,pk,autoincrement" json:"id"`
	Name            string    `bun:"name,notnull" json:"name"`
	Slug            string    `bun:"slug,notnull" json:"slug"` // unique
	Description     string    `bun:"description" json:"description,omitempty"`
	Icon            string    `bun:"icon" json:"icon,omitempty"`
	Color           string    `bun:"color" json:"color,omitempty"`
	ParentID        *int64    `bun:"parent_id" json:"parent_id,omitempty"`
	DisplayOrder    int       `bun:"display_order" json:"display_order"`
	IsActive        bool      `bun:"is_active,notnull" json:"is_active"`
	MetaTitle       string    `bun:"meta_title" json:"meta_title,omitempty"`
	MetaDescription string    `bun:"meta_description" json:"meta_description,omitempty"`
	CreatedAt       time.Time `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt       time.Time `bun:"updated_at,notnull,default:now()" json:"updated_at"`
}
