package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davidnier/storefront-backend/pkg/enums"
)

// Order is the durable result of a checkout. Totals columns are derived:
// the totals engine overwrites all of them from the current items on every
// status mutation, so they are never edited independently.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        *uuid.UUID        `gorm:"column:user_id;type:uuid"`
	Email         string            `gorm:"column:email;not null"`
	CustomerName  string            `gorm:"column:customer_name;not null;default:''"`
	Phone         string            `gorm:"column:phone;not null;default:''"`
	Notes         string            `gorm:"column:notes;not null;default:''"`
	Status        enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	Subtotal      decimal.Decimal   `gorm:"column:subtotal;type:numeric(10,2);not null"`
	DiscountTotal decimal.Decimal   `gorm:"column:discount_total;type:numeric(10,2);not null"`
	TaxTotal      decimal.Decimal   `gorm:"column:tax_total;type:numeric(10,2);not null"`
	ShippingTotal decimal.Decimal   `gorm:"column:shipping_total;type:numeric(10,2);not null"`
	GrandTotal    decimal.Decimal   `gorm:"column:grand_total;type:numeric(10,2);not null"`
	CompletedAt   *time.Time        `gorm:"column:completed_at"`
	Items         []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
