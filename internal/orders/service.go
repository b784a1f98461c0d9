package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/davidnier/storefront-backend/pkg/enums"
	pkgerrors "github.com/davidnier/storefront-backend/pkg/errors"
	"github.com/davidnier/storefront-backend/pkg/logger"
	"github.com/davidnier/storefront-backend/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines order-level operations beyond repository reads.
type Service interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	ListWorkboard(ctx context.Context, input WorkboardInput) (*WorkboardResult, error)
	SetStatus(ctx context.Context, input SetStatusInput) (*OrderDTO, error)
	BulkSetStatus(ctx context.Context, input BulkSetStatusInput) (int, error)
}

// WorkboardInput selects open orders for the department board.
type WorkboardInput struct {
	Department *string
	Pagination WorkboardPagination
}

// WorkboardPagination carries the cursor inputs from the controller.
type WorkboardPagination struct {
	Limit  int
	Cursor string
}

// SetStatusInput captures one status mutation.
type SetStatusInput struct {
	OrderID uuid.UUID
	Status  string
}

// BulkSetStatusInput applies one status to many orders.
type BulkSetStatusInput struct {
	OrderIDs []uuid.UUID
	Status   string
}

type service struct {
	repo    Repository
	tx      txRunner
	totals  TotalsOptions
	metrics *metrics.OrderMetrics
	logg    *logger.Logger
}

// NewService builds an order service with the required dependencies.
// Metrics may be nil in tooling contexts.
func NewService(repo Repository, tx txRunner, totals TotalsOptions, m *metrics.OrderMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		totals:  totals,
		metrics: m,
		logg:    logg,
	}, nil
}

// GetOrder loads one order with its items.
func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return NewOrderDTO(order), nil
}

// ListWorkboard returns the open orders a department still has to work.
func (s *service) ListWorkboard(ctx context.Context, input WorkboardInput) (*WorkboardResult, error) {
	query := WorkboardQuery{}
	query.Pagination.Limit = input.Pagination.Limit
	query.Pagination.Cursor = input.Pagination.Cursor

	if input.Department != nil && *input.Department != "" {
		department, err := enums.ParseDepartment(*input.Department)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown department")
		}
		query.Department = &department
	}

	rows, nextCursor, err := s.repo.ListWorkboard(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list workboard orders")
	}

	result := &WorkboardResult{
		Orders:     make([]OrderDTO, 0, len(rows)),
		NextCursor: nextCursor,
	}
	for i := range rows {
		result.Orders = append(result.Orders, *NewOrderDTO(&rows[i]))
	}
	return result, nil
}

// SetStatus moves the order to any valid status. Totals are recomputed and
// persisted in the same transaction, and reaching complete stamps
// completed_at.
func (s *service) SetStatus(ctx context.Context, input SetStatusInput) (*OrderDTO, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	status, err := enums.ParseOrderStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status value")
	}

	var dto *OrderDTO
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if !TransitionAdvised(order.Status, status) {
			warnCtx := s.logg.WithFields(ctx, map[string]any{
				"from": order.Status.String(),
				"to":   status.String(),
			})
			warnCtx = s.logg.WithOrderID(warnCtx, order.ID.String())
			s.logg.Warn(warnCtx, "order status moved outside the usual flow")
		}

		order.Status = status
		if status == enums.OrderStatusComplete {
			now := time.Now().UTC()
			order.CompletedAt = &now
		}
		RecomputeTotals(order, s.totals)

		if err := repo.UpdateOrderTotals(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		dto = NewOrderDTO(order)
		return nil
	}); err != nil {
		return nil, err
	}

	s.metrics.IncTransition(status.String())
	return dto, nil
}

// BulkSetStatus applies one status change across many orders and reports
// how many were updated. Unknown ids are skipped rather than failing the
// whole batch.
func (s *service) BulkSetStatus(ctx context.Context, input BulkSetStatusInput) (int, error) {
	if len(input.OrderIDs) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "at least one order id required")
	}
	status, err := enums.ParseOrderStatus(input.Status)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid status value")
	}

	affected := 0
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, orderID := range input.OrderIDs {
			order, err := repo.FindByID(ctx, orderID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
			}

			order.Status = status
			if status == enums.OrderStatusComplete {
				now := time.Now().UTC()
				order.CompletedAt = &now
			}
			RecomputeTotals(order, s.totals)

			if err := repo.UpdateOrderTotals(ctx, order); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
			}
			affected++
		}
		return nil
	}); err != nil {
		return 0, err
	}

	for i := 0; i < affected; i++ {
		s.metrics.IncTransition(status.String())
	}
	return affected, nil
}

// statusPipeline is the usual forward path an order takes. Transitions are
// not enforced against it; TransitionAdvised only flags unusual jumps so
// callers can surface a warning.
var statusPipeline = map[enums.OrderStatus]int{
	enums.OrderStatusDraft:      0,
	enums.OrderStatusCreated:    1,
	enums.OrderStatusPending:    2,
	enums.OrderStatusAccepted:   3,
	enums.OrderStatusDispatched: 4,
	enums.OrderStatusPreparing:  5,
	enums.OrderStatusReady:      6,
	enums.OrderStatusComplete:   7,
}

// TransitionAdvised reports whether moving from one status to another
// follows the normal order flow.
func TransitionAdvised(from, to enums.OrderStatus) bool {
	if from == to {
		return true
	}
	if from.IsTerminal() {
		return false
	}
	if to == enums.OrderStatusCanceled {
		return true
	}
	fromPos, ok := statusPipeline[from]
	if !ok {
		return false
	}
	toPos, ok := statusPipeline[to]
	if !ok {
		return false
	}
	return toPos > fromPos
}
