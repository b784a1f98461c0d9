package orders

import (
	"time"

	"github.com/davidnier/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemDTO is one snapshotted order line.
type OrderItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	IsTaxable   bool            `json:"is_taxable"`
	Quantity    decimal.Decimal `json:"quantity"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderDTO is the order payload returned to clients.
type OrderDTO struct {
	ID            uuid.UUID       `json:"id"`
	UserID        *uuid.UUID      `json:"user_id,omitempty"`
	Email         string          `json:"email"`
	CustomerName  string          `json:"customer_name,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Status        string          `json:"status"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	TaxTotal      decimal.Decimal `json:"tax_total"`
	ShippingTotal decimal.Decimal `json:"shipping_total"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	Items         []OrderItemDTO  `json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// WorkboardResult is one page of the department workboard.
type WorkboardResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// NewOrderDTO builds a DTO from the persisted model.
func NewOrderDTO(order *models.Order) *OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductSKU:  item.ProductSKU,
			UnitPrice:   item.UnitPrice,
			IsTaxable:   item.IsTaxable,
			Quantity:    item.Quantity,
			TaxRate:     item.TaxRate,
			TaxAmount:   item.TaxAmount,
			LineTotal:   item.LineTotal,
		})
	}
	return &OrderDTO{
		ID:            order.ID,
		UserID:        order.UserID,
		Email:         order.Email,
		CustomerName:  order.CustomerName,
		Phone:         order.Phone,
		Notes:         order.Notes,
		Status:        order.Status.String(),
		Subtotal:      order.Subtotal,
		DiscountTotal: order.DiscountTotal,
		TaxTotal:      order.TaxTotal,
		ShippingTotal: order.ShippingTotal,
		GrandTotal:    order.GrandTotal,
		CompletedAt:   order.CompletedAt,
		Items:         items,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}
