package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/davidnier/storefront-backend/internal/cart"
	"github.com/davidnier/storefront-backend/internal/orders"
	"github.com/davidnier/storefront-backend/pkg/config"
	"github.com/davidnier/storefront-backend/pkg/db/models"
	"github.com/davidnier/storefront-backend/pkg/enums"
	pkgerrors "github.com/davidnier/storefront-backend/pkg/errors"
	"github.com/davidnier/storefront-backend/pkg/logger"
	"github.com/davidnier/storefront-backend/pkg/metrics"
)

type cartReader interface {
	GetCart(ctx context.Context, sessionID string) (*cart.CartDTO, error)
	ClearCart(ctx context.Context, sessionID string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Input carries the contact details collected at checkout. UserID is set
// only when the caller has an authenticated account to stamp onto the
// order; anonymous sessions leave it nil.
type Input struct {
	Email        string `validate:"required,email"`
	CustomerName string
	Phone        string
	Notes        string
	UserID       *uuid.UUID
}

// Service converts the session cart into a pending order.
type Service interface {
	Execute(ctx context.Context, sessionID string, input Input) (*orders.OrderDTO, error)
}

// Options bundles the policy knobs checkout runs under. The tax rate
// snapshotted onto each line comes from Totals.DefaultRate, the same rate
// the recompute engine applies.
type Options struct {
	Totals  orders.TotalsOptions
	Hours   Hours
	Contact config.CheckoutConfig
	// Now overrides the clock in tests. Defaults to time.Now.
	Now func() time.Time
}

type service struct {
	carts    cartReader
	orders   orders.Repository
	tx       txRunner
	opts     Options
	metrics  *metrics.OrderMetrics
	logg     *logger.Logger
	validate *validator.Validate
}

// NewService builds the checkout service. Metrics may be nil.
func NewService(carts cartReader, repo orders.Repository, tx txRunner, opts Options, m *metrics.OrderMetrics, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &service{
		carts:    carts,
		orders:   repo,
		tx:       tx,
		opts:     opts,
		metrics:  m,
		logg:     logg,
		validate: validator.New(),
	}, nil
}

// Execute snapshots the session cart into a pending order and clears the
// cart. Order creation, item snapshots, and totals all commit as one unit;
// the cart is only cleared after the order is durable.
func (s *service) Execute(ctx context.Context, sessionID string, input Input) (*orders.OrderDTO, error) {
	start := time.Now()

	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	now := s.opts.Now()
	if !s.opts.Hours.IsOpen(now) {
		s.metrics.IncCheckoutRejected("store_closed")
		return nil, pkgerrors.New(pkgerrors.CodeForbidden,
			fmt.Sprintf("store is closed, checkout is available %s", s.opts.Hours))
	}

	if err := s.validateContact(input); err != nil {
		s.metrics.IncCheckoutRejected("invalid_contact")
		return nil, err
	}

	cartDTO, err := s.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(cartDTO.Items) == 0 {
		s.metrics.IncCheckoutRejected("empty_cart")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	order := &models.Order{
		ID:           uuid.New(),
		UserID:       input.UserID,
		Email:        strings.TrimSpace(input.Email),
		CustomerName: strings.TrimSpace(input.CustomerName),
		Phone:        strings.TrimSpace(input.Phone),
		Notes:        strings.TrimSpace(input.Notes),
		Status:       enums.OrderStatusPending,
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orders.WithTx(tx)

		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		items := snapshotItems(order.ID, cartDTO.Items, s.opts.Totals.DefaultRate)
		if err := repo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}
		order.Items = items

		orders.RecomputeTotals(order, s.opts.Totals)
		if err := repo.UpdateOrderTotals(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order totals")
		}
		return nil
	}); err != nil {
		s.metrics.ObserveCheckout("error", time.Since(start))
		return nil, err
	}

	// The cart lives in a different store than the order. A failed clear
	// after commit leaves a stale cart, never a lost order.
	if err := s.carts.ClearCart(ctx, sessionID); err != nil {
		warnCtx := s.logg.WithSessionID(ctx, sessionID)
		warnCtx = s.logg.WithOrderID(warnCtx, order.ID.String())
		s.logg.Warn(warnCtx, fmt.Sprintf("cart not cleared after checkout: %v", err))
	}

	s.metrics.IncOrdersCreated()
	s.metrics.ObserveCheckout("success", time.Since(start))
	return orders.NewOrderDTO(order), nil
}

func (s *service) validateContact(input Input) error {
	if err := s.validate.Struct(input); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	if s.opts.Contact.RequireName && strings.TrimSpace(input.CustomerName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if s.opts.Contact.RequirePhone && strings.TrimSpace(input.Phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone number is required")
	}
	return nil
}

// snapshotItems freezes the resolved cart lines. Taxability and the rate in
// force now travel with the item so later catalog or rate changes never
// retroactively reprice an order.
func snapshotItems(orderID uuid.UUID, lines []cart.CartItemDTO, defaultRate decimal.Decimal) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		rate := decimal.Zero
		if line.IsTaxable {
			rate = defaultRate
		}
		items = append(items, models.OrderItem{
			ID:          uuid.New(),
			OrderID:     orderID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			ProductSKU:  line.ProductSKU,
			UnitPrice:   line.UnitPrice,
			IsTaxable:   line.IsTaxable,
			Quantity:    line.Quantity,
			TaxRate:     rate,
		})
	}
	return items
}
