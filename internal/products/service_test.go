package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/ubqurrotul/koperasi-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, Repository) {
	t.Helper()
	repo := NewRepository(newTestDB(t))
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc, repo
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{"missing name", CreateProductInput{Category: "sembako"}},
		{"missing category", CreateProductInput{Name: "Gula"}},
		{"negative price", CreateProductInput{Name: "Gula", Category: "sembako", SellPrice: decimal.NewFromInt(-1)}},
		{"negative stock", CreateProductInput{Name: "Gula", Category: "sembako", Stock: -2}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(context.Background(), tc.input)
			if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateProductPartialFields(t *testing.T) {
	svc, repo := newTestService(t)
	product := mustCreateProduct(t, repo, 4)

	newPrice := decimal.NewFromInt(70_000)
	updated, err := svc.UpdateProduct(context.Background(), product.ID, UpdateProductInput{
		SellPrice: &newPrice,
	})
	if err != nil {
		t.Fatalf("UpdateProduct error: %v", err)
	}
	if !updated.SellPrice.Equal(newPrice) {
		t.Fatalf("sell price = %s, want %s", updated.SellPrice, newPrice)
	}
	if updated.Name != product.Name || updated.Stock != product.Stock {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestGetProductNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.GetProduct(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestAdjustStockGuard(t *testing.T) {
	svc, repo := newTestService(t)
	product := mustCreateProduct(t, repo, 3)

	_, err := svc.AdjustStock(context.Background(), product.ID, -5)
	if !pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected insufficient-stock error, got %v", err)
	}

	updated, err := svc.AdjustStock(context.Background(), product.ID, -3)
	if err != nil {
		t.Fatalf("AdjustStock error: %v", err)
	}
	if updated.Stock != 0 {
		t.Fatalf("stock = %d, want 0", updated.Stock)
	}
}
