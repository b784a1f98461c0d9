package orders

import (
	"context"

	"github.com/davidnier/storefront-backend/pkg/db/models"
	"github.com/davidnier/storefront-backend/pkg/enums"
	"github.com/davidnier/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Omit("Items").Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderTotals persists the order's status, totals, and completion
// stamp together with the recomputed money fields on every item, mirroring
// how the totals engine mutates them as one unit.
func (r *repository) UpdateOrderTotals(ctx context.Context, order *models.Order) error {
	tx := r.db.WithContext(ctx)

	updates := map[string]any{
		"status":         order.Status,
		"subtotal":       order.Subtotal,
		"discount_total": order.DiscountTotal,
		"tax_total":      order.TaxTotal,
		"shipping_total": order.ShippingTotal,
		"grand_total":    order.GrandTotal,
		"completed_at":   order.CompletedAt,
	}
	if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
		return err
	}

	for i := range order.Items {
		item := &order.Items[i]
		itemUpdates := map[string]any{
			"line_total": item.LineTotal,
			"tax_rate":   item.TaxRate,
			"tax_amount": item.TaxAmount,
		}
		if err := tx.Model(&models.OrderItem{}).Where("id = ?", item.ID).Updates(itemUpdates).Error; err != nil {
			return err
		}
	}
	return nil
}

// ListWorkboard returns open orders oldest first so departments work the
// queue in arrival order. Terminal orders never appear.
func (r *repository) ListWorkboard(ctx context.Context, query WorkboardQuery) ([]models.Order, string, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("status NOT IN ?", []enums.OrderStatus{enums.OrderStatusComplete, enums.OrderStatusCanceled})

	if query.Department != nil {
		qb = qb.Where(`EXISTS (
			SELECT 1 FROM order_items oi
			JOIN products p ON p.id = oi.product_id
			WHERE oi.order_id = orders.id AND p.department = ?
		)`, *query.Department)
	}

	if cursor != nil {
		qb = qb.Where("(created_at > ?) OR (created_at = ? AND id > ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
	if err := qb.Order("created_at ASC").Order("id ASC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}
