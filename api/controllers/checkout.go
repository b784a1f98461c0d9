package controllers

import (
	"net/http"

	"github.com/davidnier/storefront-backend/api/responses"
	"github.com/davidnier/storefront-backend/api/validators"
	"github.com/davidnier/storefront-backend/internal/checkout"
	"github.com/davidnier/storefront-backend/pkg/logger"
)

// Checkout converts the shopper's cart into a pending order.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Execute(r.Context(), sessionID, checkout.Input{
			Email:        payload.Email,
			CustomerName: payload.CustomerName,
			Phone:        payload.Phone,
			Notes:        payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

type checkoutRequest struct {
	Email        string `json:"email" validate:"required,email"`
	CustomerName string `json:"customer_name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Notes        string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}
