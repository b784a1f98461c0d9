package cart

import (
	"github.com/davidnier/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItemDTO is one resolved cart line with live catalog data.
type CartItemDTO struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku,omitempty"`
	Department  string          `json:"department"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	IsTaxable   bool            `json:"is_taxable"`
	Quantity    decimal.Decimal `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CartDTO is the cart as presented to clients. Badge is the quantity sum
// rounded to a whole number for the header cart counter.
type CartDTO struct {
	Items         []CartItemDTO   `json:"items"`
	ItemCount     int             `json:"item_count"`
	QuantityTotal decimal.Decimal `json:"quantity_total"`
	Badge         int64           `json:"badge"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

func newCartItemDTO(product *models.Product, qty decimal.Decimal) CartItemDTO {
	return CartItemDTO{
		ProductID:   product.ID,
		ProductName: product.Name,
		ProductSKU:  product.SKU,
		Department:  product.Department.String(),
		Unit:        product.Unit.String(),
		UnitPrice:   product.Price,
		IsTaxable:   product.IsTaxable,
		Quantity:    qty,
		LineTotal:   product.Price.Mul(qty).Round(2),
	}
}
