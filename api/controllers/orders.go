package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/davidnier/storefront-backend/api/responses"
	"github.com/davidnier/storefront-backend/api/validators"
	"github.com/davidnier/storefront-backend/internal/orders"
	pkgerrors "github.com/davidnier/storefront-backend/pkg/errors"
	"github.com/davidnier/storefront-backend/pkg/logger"
	"github.com/davidnier/storefront-backend/pkg/pagination"
)

// Workboard lists the open orders a department still has to fulfill.
func Workboard(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.WorkboardInput{}
		input.Pagination.Limit = limit
		input.Pagination.Cursor = strings.TrimSpace(r.URL.Query().Get("cursor"))
		if department := strings.TrimSpace(r.URL.Query().Get("department")); department != "" {
			input.Department = &department
		}

		result, err := svc.ListWorkboard(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func SetOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.SetStatus(r.Context(), orders.SetStatusInput{
			OrderID: orderID,
			Status:  payload.Status,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func BulkSetOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload bulkSetStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		affected, err := svc.BulkSetStatus(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"affected": affected})
	}
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type bulkSetStatusRequest struct {
	OrderIDs []string `json:"order_ids" validate:"required,min=1,dive,required"`
	Status   string   `json:"status" validate:"required"`
}

func (r bulkSetStatusRequest) toInput() (orders.BulkSetStatusInput, error) {
	ids := make([]uuid.UUID, 0, len(r.OrderIDs))
	for _, raw := range r.OrderIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return orders.BulkSetStatusInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id").
				WithDetails(map[string]any{"order_id": raw})
		}
		ids = append(ids, id)
	}
	return orders.BulkSetStatusInput{OrderIDs: ids, Status: r.Status}, nil
}
