package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davidnier/storefront-backend/api/middleware"
	"github.com/davidnier/storefront-backend/api/responses"
	"github.com/davidnier/storefront-backend/api/validators"
	"github.com/davidnier/storefront-backend/internal/cart"
	pkgerrors "github.com/davidnier/storefront-backend/pkg/errors"
	"github.com/davidnier/storefront-backend/pkg/logger"
)

func GetCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetCart(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func AddCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.AddItem(r.Context(), sessionID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func RemoveCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := parseIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.RemoveItem(r.Context(), sessionID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func ClearCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ClearCart(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	// Quantity accepts numeric or quoted input; parsing happens in toInput.
	Quantity json.RawMessage `json:"quantity"`
	Override bool            `json:"override,omitempty"`
}

func (r addCartItemRequest) toInput() (cart.AddItemInput, error) {
	productID, err := uuid.Parse(r.ProductID)
	if err != nil {
		return cart.AddItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return cart.AddItemInput{
		ProductID: productID,
		Quantity:  parseQuantity(r.Quantity, r.Override),
		Override:  r.Override,
	}, nil
}

// parseQuantity turns the raw quantity payload into a decimal. Anything
// unparseable falls back to 1, as does a non-positive quantity on a plain
// add; an override keeps non-positive values so it can clear the line.
func parseQuantity(raw json.RawMessage, override bool) decimal.Decimal {
	qty, err := decimal.NewFromString(strings.Trim(strings.TrimSpace(string(raw)), `"`))
	if err != nil {
		return decimal.NewFromInt(1)
	}
	if !override && qty.Sign() <= 0 {
		return decimal.NewFromInt(1)
	}
	return qty
}

func requireSession(r *http.Request) (string, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart session missing")
	}
	return sessionID, nil
}
