package catalog

import (
	"time"

	"github.com/davidnier/storefront-backend/pkg/db/models"
	"github.com/davidnier/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO represents the catalog payload returned to clients.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku,omitempty"`
	Price       decimal.Decimal `json:"price"`
	IsTaxable   bool            `json:"is_taxable"`
	Department  string          `json:"department"`
	Category    string          `json:"category,omitempty"`
	Subcategory string          `json:"subcategory,omitempty"`
	MeatType    *string         `json:"meat_type,omitempty"`
	Unit        string          `json:"unit"`
	Stock       int             `json:"stock"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		SKU:         product.SKU,
		Price:       product.Price,
		IsTaxable:   product.IsTaxable,
		Department:  product.Department.String(),
		Category:    product.Category,
		Subcategory: product.Subcategory,
		Unit:        product.Unit.String(),
		Stock:       product.Stock,
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	if product.MeatType != nil {
		meatType := product.MeatType.String()
		dto.MeatType = &meatType
	}
	return dto
}

// ProductListFilters narrows catalog listings.
type ProductListFilters struct {
	Department *string
	Category   *string
	ActiveOnly bool
	Query      string
}

// ListProductsInput bundles pagination and filters for the listing path.
type ListProductsInput struct {
	Pagination pagination.Params
	Filters    ProductListFilters
}

// ProductListResult is a single page of catalog entries.
type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}
