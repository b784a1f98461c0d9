package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davidnier/storefront-backend/api/responses"
	"github.com/davidnier/storefront-backend/api/validators"
	"github.com/davidnier/storefront-backend/internal/catalog"
	pkgerrors "github.com/davidnier/storefront-backend/pkg/errors"
	"github.com/davidnier/storefront-backend/pkg/logger"
	"github.com/davidnier/storefront-backend/pkg/pagination"
)

// ListProducts serves the browsable catalog with cursor pagination.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.ListProductsInput{}
		input.Pagination.Limit = limit
		input.Pagination.Cursor = strings.TrimSpace(r.URL.Query().Get("cursor"))
		input.Filters.Query = strings.TrimSpace(r.URL.Query().Get("q"))
		input.Filters.ActiveOnly = r.URL.Query().Get("include_inactive") == ""

		if department := strings.TrimSpace(r.URL.Query().Get("department")); department != "" {
			input.Filters.Department = &department
		}
		if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
			input.Filters.Category = &category
		}

		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type createProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	SKU         string          `json:"sku,omitempty"`
	Price       decimal.Decimal `json:"price"`
	IsTaxable   *bool           `json:"is_taxable,omitempty"`
	Department  string          `json:"department" validate:"required"`
	Category    string          `json:"category,omitempty"`
	Subcategory string          `json:"subcategory,omitempty"`
	MeatType    *string         `json:"meat_type,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	Stock       int             `json:"stock" validate:"gte=0"`
	IsActive    *bool           `json:"is_active,omitempty"`
}

func (r createProductRequest) toInput() catalog.CreateProductInput {
	input := catalog.CreateProductInput{
		Name:        r.Name,
		SKU:         r.SKU,
		Price:       r.Price,
		IsTaxable:   true,
		Department:  r.Department,
		Category:    r.Category,
		Subcategory: r.Subcategory,
		MeatType:    r.MeatType,
		Unit:        r.Unit,
		Stock:       r.Stock,
		IsActive:    true,
	}
	if r.IsTaxable != nil {
		input.IsTaxable = *r.IsTaxable
	}
	if r.IsActive != nil {
		input.IsActive = *r.IsActive
	}
	return input
}

type updateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	SKU         *string          `json:"sku,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	IsTaxable   *bool            `json:"is_taxable,omitempty"`
	Department  *string          `json:"department,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Subcategory *string          `json:"subcategory,omitempty"`
	MeatType    *string          `json:"meat_type,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	Stock       *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

func (r updateProductRequest) toInput() catalog.UpdateProductInput {
	return catalog.UpdateProductInput{
		Name:        r.Name,
		SKU:         r.SKU,
		Price:       r.Price,
		IsTaxable:   r.IsTaxable,
		Department:  r.Department,
		Category:    r.Category,
		Subcategory: r.Subcategory,
		MeatType:    r.MeatType,
		Unit:        r.Unit,
		Stock:       r.Stock,
		IsActive:    r.IsActive,
	}
}

func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id").
			WithDetails(map[string]any{"param": name})
	}
	return id, nil
}
