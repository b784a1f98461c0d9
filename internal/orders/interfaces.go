package orders

import (
	"context"

	"github.com/davidnier/storefront-backend/pkg/db/models"
	"github.com/davidnier/storefront-backend/pkg/enums"
	"github.com/davidnier/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkboardQuery selects open orders for a department's board.
type WorkboardQuery struct {
	Pagination pagination.Params
	// Department narrows the board to orders containing at least one item
	// from that department.
	Department *enums.Department
}

// Repository defines persistence operations for orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateOrderTotals(ctx context.Context, order *models.Order) error
	ListWorkboard(ctx context.Context, query WorkboardQuery) ([]models.Order, string, error)
}
