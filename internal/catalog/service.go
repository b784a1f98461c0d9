package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/davidnier/storefront-backend/pkg/db"
	"github.com/davidnier/storefront-backend/pkg/db/models"
	"github.com/davidnier/storefront-backend/pkg/enums"
	pkgerrors "github.com/davidnier/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes catalog management operations.
type Service interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	SKU         string
	Price       decimal.Decimal
	IsTaxable   bool
	Department  string
	Category    string
	Subcategory string
	MeatType    *string
	Unit        string
	Stock       int
	IsActive    bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string
	SKU         *string
	Price       *decimal.Decimal
	IsTaxable   *bool
	Department  *string
	Category    *string
	Subcategory *string
	MeatType    *string
	Unit        *string
	Stock       *int
	IsActive    *bool
}

func (in CreateProductInput) toModel(attrs productAttributes) *models.Product {
	return &models.Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(in.Name),
		SKU:         strings.TrimSpace(in.SKU),
		Price:       in.Price.Round(2),
		IsTaxable:   in.IsTaxable,
		Department:  attrs.department,
		Category:    strings.TrimSpace(in.Category),
		Subcategory: strings.TrimSpace(in.Subcategory),
		MeatType:    attrs.meatType,
		Unit:        attrs.unit,
		Stock:       in.Stock,
		IsActive:    in.IsActive,
	}
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// GetProduct loads one product by id.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewProductDTO(product), nil
}

// ListProducts returns a cursor page of catalog entries.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	if input.Filters.Department != nil {
		if _, err := enums.ParseDepartment(*input.Filters.Department); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown department")
		}
	}

	rows, nextCursor, err := s.repo.ListProducts(ctx, productListQuery{
		Pagination: input.Pagination,
		Filters:    input.Filters,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	products := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		products = append(products, *NewProductDTO(&rows[i]))
	}
	return &ProductListResult{Products: products, NextCursor: nextCursor}, nil
}

// CreateProduct validates the payload and inserts the product.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	attrs, err := resolveAttributes(input.Department, input.Unit, input.MeatType)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	created, err := s.repo.CreateProduct(ctx, input.toModel(attrs))
	if err != nil {
		if db.IsUniqueViolation(err, "idx_products_name_department") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already exists in department")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return NewProductDTO(created), nil
}

// UpdateProduct applies any provided fields to an existing product.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if err := applyUpdateToProduct(product, input); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_products_name_department") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already exists in department")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return NewProductDTO(updated), nil
}

// DeleteProduct removes a product unless order history still references it.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.New(pkgerrors.CodeConflict, "product is referenced by existing orders")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

type productAttributes struct {
	department enums.Department
	unit       enums.UnitOfMeasure
	meatType   *enums.MeatType
}

func resolveAttributes(department, unit string, meatType *string) (productAttributes, error) {
	var attrs productAttributes

	dept, err := enums.ParseDepartment(department)
	if err != nil {
		return attrs, pkgerrors.New(pkgerrors.CodeValidation, "unknown department").
			WithDetails(map[string]any{"department": department})
	}
	attrs.department = dept

	u, err := enums.ParseUnitOfMeasure(unit)
	if err != nil {
		return attrs, pkgerrors.New(pkgerrors.CodeValidation, "unknown unit of measure").
			WithDetails(map[string]any{"unit": unit})
	}
	attrs.unit = u

	if meatType != nil && strings.TrimSpace(*meatType) != "" {
		mt, err := enums.ParseMeatType(*meatType)
		if err != nil {
			return attrs, pkgerrors.New(pkgerrors.CodeValidation, "unknown meat type").
				WithDetails(map[string]any{"meat_type": *meatType})
		}
		attrs.meatType = &mt
	}
	return attrs, nil
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) error {
	department := product.Department.String()
	if input.Department != nil {
		department = *input.Department
	}
	unit := product.Unit.String()
	if input.Unit != nil {
		unit = *input.Unit
	}
	meatType := input.MeatType
	if meatType == nil && product.MeatType != nil {
		current := product.MeatType.String()
		meatType = &current
	}

	attrs, err := resolveAttributes(department, unit, meatType)
	if err != nil {
		return err
	}
	product.Department = attrs.department
	product.Unit = attrs.unit
	product.MeatType = attrs.meatType

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.SKU != nil {
		product.SKU = strings.TrimSpace(*input.SKU)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = input.Price.Round(2)
	}
	if input.IsTaxable != nil {
		product.IsTaxable = *input.IsTaxable
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.Subcategory != nil {
		product.Subcategory = strings.TrimSpace(*input.Subcategory)
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		product.Stock = *input.Stock
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	return nil
}
