package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/davidnier/storefront-backend/pkg/db/models"
	"github.com/davidnier/storefront-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupOrdersTestDB opens a fresh in-memory database per test. Workboard
// queries scan the whole orders table, so tests cannot share state.
func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  sku TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL DEFAULT 0,
  is_taxable INTEGER NOT NULL DEFAULT 1,
  department TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT '',
  subcategory TEXT NOT NULL DEFAULT '',
  meat_type TEXT,
  unit TEXT NOT NULL DEFAULT 'each',
  stock INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (name, department)
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  email TEXT NOT NULL DEFAULT '',
  customer_name TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  notes TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'pending',
  subtotal NUMERIC NOT NULL DEFAULT 0,
  discount_total NUMERIC NOT NULL DEFAULT 0,
  tax_total NUMERIC NOT NULL DEFAULT 0,
  shipping_total NUMERIC NOT NULL DEFAULT 0,
  grand_total NUMERIC NOT NULL DEFAULT 0,
  completed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL DEFAULT '',
  product_sku TEXT NOT NULL DEFAULT '',
  unit_price NUMERIC NOT NULL DEFAULT 0,
  is_taxable INTEGER NOT NULL DEFAULT 1,
  quantity NUMERIC NOT NULL,
  tax_rate NUMERIC NOT NULL DEFAULT 0,
  tax_amount NUMERIC NOT NULL DEFAULT 0,
  line_total NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE,
  FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE RESTRICT,
  UNIQUE (order_id, product_id)
);`
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	return db
}

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func mustCreateWorkboardProduct(t *testing.T, db *gorm.DB, department enums.Department) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:         uuid.New(),
		Name:       fmt.Sprintf("Workboard Product %s", uuid.NewString()),
		SKU:        fmt.Sprintf("SKU-%s", uuid.NewString()),
		Price:      decimal.RequireFromString("9.99"),
		IsTaxable:  true,
		Department: department,
		Unit:       enums.UnitEach,
		Stock:      10,
		IsActive:   true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func mustCreateOrder(t *testing.T, db *gorm.DB, status enums.OrderStatus, createdAt time.Time, products ...*models.Product) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:        uuid.New(),
		Email:     fmt.Sprintf("%s@example.com", uuid.NewString()),
		Status:    status,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Omit("Items").Create(order).Error)

	for _, product := range products {
		orderItem := &models.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			IsTaxable:   product.IsTaxable,
			Quantity:    decimal.NewFromInt(1),
			TaxRate:     decimal.RequireFromString("0.0875"),
		}
		require.NoError(t, db.Create(orderItem).Error)
		order.Items = append(order.Items, *orderItem)
	}
	return order
}

func orderIDs(rows []models.Order) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}
	return ids
}
