package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidnier/storefront-backend/internal/catalog"
	pkgerrors "github.com/davidnier/storefront-backend/pkg/errors"
	"github.com/davidnier/storefront-backend/pkg/types"
)

type stubCatalogService struct {
	created *catalog.CreateProductInput
	getErr  error
}

func (s *stubCatalogService) GetProduct(_ context.Context, id uuid.UUID) (*catalog.ProductDTO, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &catalog.ProductDTO{ID: id}, nil
}

func (s *stubCatalogService) ListProducts(context.Context, catalog.ListProductsInput) (*catalog.ProductListResult, error) {
	return &catalog.ProductListResult{Products: []catalog.ProductDTO{}}, nil
}

func (s *stubCatalogService) CreateProduct(_ context.Context, input catalog.CreateProductInput) (*catalog.ProductDTO, error) {
	s.created = &input
	return &catalog.ProductDTO{ID: uuid.New(), Name: input.Name}, nil
}

func (s *stubCatalogService) UpdateProduct(_ context.Context, id uuid.UUID, _ catalog.UpdateProductInput) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{ID: id}, nil
}

func (s *stubCatalogService) DeleteProduct(context.Context, uuid.UUID) error { return nil }

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestCreateProductDefaultsFlags(t *testing.T) {
	svc := &stubCatalogService{}
	handler := CreateProduct(svc, nil)

	body := strings.NewReader(`{"name":"Sourdough Loaf","price":"6.50","department":"bakery","stock":12}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.created)
	assert.True(t, svc.created.IsTaxable)
	assert.True(t, svc.created.IsActive)
	assert.Equal(t, "bakery", svc.created.Department)
}

func TestCreateProductRejectsMissingFields(t *testing.T) {
	svc := &stubCatalogService{}
	handler := CreateProduct(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(`{"price":"1.00"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.created)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&envelope))
	assert.Equal(t, string(pkgerrors.CodeValidation), envelope.Error.Code)
}

func TestGetProductRejectsBadID(t *testing.T) {
	handler := GetProduct(&stubCatalogService{}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/products/nope", nil), "productID", "nope")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProductMapsServiceError(t *testing.T) {
	svc := &stubCatalogService{getErr: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := GetProduct(svc, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/products/x", nil), "productID", uuid.NewString())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListProductsRejectsBadLimit(t *testing.T) {
	handler := ListProducts(&stubCatalogService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=banana", nil)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
