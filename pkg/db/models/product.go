package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davidnier/storefront-backend/pkg/enums"
)

// Product is a catalog listing. The order pipeline treats products as
// read-only; price and taxability are snapshotted onto order items at
// checkout so later edits never rewrite history.
type Product struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string              `gorm:"column:name;not null"`
	SKU         string              `gorm:"column:sku;not null;default:''"`
	Price       decimal.Decimal     `gorm:"column:price;type:numeric(10,2);not null"`
	IsTaxable   bool                `gorm:"column:is_taxable;not null;default:true"`
	Department  enums.Department    `gorm:"column:department;not null"`
	Category    string              `gorm:"column:category;not null;default:''"`
	Subcategory string              `gorm:"column:subcategory;not null;default:''"`
	MeatType    *enums.MeatType     `gorm:"column:meat_type"`
	Unit        enums.UnitOfMeasure `gorm:"column:unit;not null;default:'each'"`
	Stock       int                 `gorm:"column:stock;not null;default:0"`
	IsActive    bool                `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
