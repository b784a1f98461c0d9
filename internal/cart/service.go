package cart

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/davidnier/storefront-backend/pkg/db/models"
	pkgerrors "github.com/davidnier/storefront-backend/pkg/errors"
	"github.com/davidnier/storefront-backend/pkg/session"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type sessionStore interface {
	Get(ctx context.Context, sessionID string) ([]byte, error)
	Save(ctx context.Context, sessionID string, blob []byte) error
	Delete(ctx context.Context, sessionID string) error
	Touch(ctx context.Context, sessionID string) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// Service exposes session cart operations.
type Service interface {
	GetCart(ctx context.Context, sessionID string) (*CartDTO, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (*CartDTO, error)
	RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*CartDTO, error)
	ClearCart(ctx context.Context, sessionID string) error
}

// AddItemInput captures one add-to-cart mutation.
type AddItemInput struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	// Override replaces the stored quantity instead of accumulating.
	Override bool
}

type service struct {
	sessions sessionStore
	products productLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(sessions sessionStore, products productLoader) (Service, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{sessions: sessions, products: products}, nil
}

// GetCart resolves the session cart against the live catalog. Reads slide
// the session TTL forward; a failed touch is not an error.
func (s *service) GetCart(ctx context.Context, sessionID string) (*CartDTO, error) {
	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !cart.IsEmpty() {
		_ = s.sessions.Touch(ctx, sessionID)
	}
	return s.resolve(ctx, sessionID, cart)
}

// AddItem adds or adjusts one product line, then returns the updated cart.
func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*CartDTO, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cart.Add(input.ProductID, input.Quantity.Round(2), input.Override)

	if err := s.saveCart(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return s.resolve(ctx, sessionID, cart)
}

// RemoveItem drops one product line, then returns the updated cart.
func (s *service) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*CartDTO, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cart.Remove(productID)

	if err := s.saveCart(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return s.resolve(ctx, sessionID, cart)
}

// ClearCart deletes the session cart entirely.
func (s *service) ClearCart(ctx context.Context, sessionID string) error {
	if err := validateSessionID(sessionID); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart session")
	}
	return nil
}

func (s *service) loadCart(ctx context.Context, sessionID string) (*Cart, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	blob, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return NewCart(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart session")
	}
	return Decode(blob), nil
}

func (s *service) saveCart(ctx context.Context, sessionID string, cart *Cart) error {
	blob, err := cart.Encode()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.sessions.Save(ctx, sessionID, blob); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart session")
	}
	return nil
}

// resolve joins cart lines against the catalog. Lines whose product has been
// removed are pruned from the session so they never reach checkout.
func (s *service) resolve(ctx context.Context, sessionID string, cart *Cart) (*CartDTO, error) {
	dto := &CartDTO{
		Items:         []CartItemDTO{},
		QuantityTotal: decimal.Zero,
		Subtotal:      decimal.Zero,
	}
	if cart.IsEmpty() {
		return dto, nil
	}

	products, err := s.products.FindByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	pruned := false
	for id := range cart.Items {
		if _, ok := byID[id]; !ok {
			cart.Remove(id)
			pruned = true
		}
	}
	if pruned {
		if err := s.saveCart(ctx, sessionID, cart); err != nil {
			return nil, err
		}
	}

	for id, qty := range cart.Items {
		item := newCartItemDTO(byID[id], qty)
		dto.Items = append(dto.Items, item)
		dto.QuantityTotal = dto.QuantityTotal.Add(qty)
		dto.Subtotal = dto.Subtotal.Add(item.LineTotal)
	}
	sort.Slice(dto.Items, func(i, j int) bool {
		return dto.Items[i].ProductName < dto.Items[j].ProductName
	})
	dto.ItemCount = len(dto.Items)
	dto.Badge = dto.QuantityTotal.Round(0).IntPart()
	return dto, nil
}

func validateSessionID(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return nil
}
