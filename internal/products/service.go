package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ubqurrotul/koperasi-backend/pkg/db/models"
	pkgerrors "github.com/ubqurrotul/koperasi-backend/pkg/errors"
)

// Service exposes admin product management. Members get read access only;
// stock moves through the transaction manager or an explicit adjustment here.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	AdjustStock(ctx context.Context, productID uuid.UUID, delta int) (*models.Product, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name          string
	Category      string
	SellPrice     decimal.Decimal
	CostPrice     decimal.Decimal
	Stock         int
	SKU           *string
	Description   *string
	SupplierPhone *string
	ImageURL      *string
}

// UpdateProductInput holds optional mutation values for a product. Stock is
// deliberately absent; it only moves through AdjustStock or recorded sales.
type UpdateProductInput struct {
	Name          *string
	Category      *string
	SellPrice     *decimal.Decimal
	CostPrice     *decimal.Decimal
	SKU           *string
	Description   *string
	SupplierPhone *string
	ImageURL      *string
}

type service struct {
	repo Repository
}

// NewService wires a product service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if input.SellPrice.IsNegative() || input.CostPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices must not be negative")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}

	product := &models.Product{
		Name:          input.Name,
		Category:      input.Category,
		SellPrice:     input.SellPrice,
		CostPrice:     input.CostPrice,
		Stock:         input.Stock,
		SKU:           input.SKU,
		Description:   input.Description,
		SupplierPhone: input.SupplierPhone,
		ImageURL:      input.ImageURL,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.SellPrice != nil {
		if input.SellPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sell price must not be negative")
		}
		product.SellPrice = *input.SellPrice
	}
	if input.CostPrice != nil {
		if input.CostPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost price must not be negative")
		}
		product.CostPrice = *input.CostPrice
	}
	if input.SKU != nil {
		product.SKU = input.SKU
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.SupplierPhone != nil {
		product.SupplierPhone = input.SupplierPhone
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, productID)
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.List(ctx)
}

func (s *service) AdjustStock(ctx context.Context, productID uuid.UUID, delta int) (*models.Product, error) {
	if delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "adjustment must not be zero")
	}
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.AdjustStock(ctx, productID, delta)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock,
			fmt.Sprintf("adjustment of %d would drive stock below zero (current %d)", delta, product.Stock))
	}
	return s.repo.FindByID(ctx, productID)
}
