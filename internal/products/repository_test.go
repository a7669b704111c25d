package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ubqurrotul/koperasi-backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.Exec(`CREATE TABLE products (
		id             text PRIMARY KEY,
		name           text NOT NULL,
		category       text NOT NULL,
		sell_price     numeric NOT NULL,
		cost_price     numeric NOT NULL,
		stock          integer NOT NULL DEFAULT 0,
		sku            text,
		description    text,
		supplier_phone text,
		image_url      text,
		created_at     datetime,
		updated_at     datetime
	)`).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	return gdb
}

func mustCreateProduct(t *testing.T, repo Repository, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:        uuid.New(),
		Name:      "Beras 5kg",
		Category:  "sembako",
		SellPrice: decimal.NewFromInt(68_000),
		CostPrice: decimal.NewFromInt(60_000),
		Stock:     stock,
	}
	if err := repo.Create(context.Background(), product); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func TestDecrementStock(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	product := mustCreateProduct(t, repo, 3)
	ctx := context.Background()

	ok, err := repo.DecrementStock(ctx, product.ID, 2)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if !ok {
		t.Fatal("expected decrement within stock to succeed")
	}

	reloaded, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Stock != 1 {
		t.Fatalf("stock = %d, want 1", reloaded.Stock)
	}
}

func TestDecrementStockRefusesOverdraw(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	product := mustCreateProduct(t, repo, 3)
	ctx := context.Background()

	ok, err := repo.DecrementStock(ctx, product.ID, 5)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if ok {
		t.Fatal("expected overdraw to be refused")
	}

	reloaded, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Stock != 3 {
		t.Fatalf("stock changed on refused decrement: %d", reloaded.Stock)
	}
}

func TestAdjustStock(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	product := mustCreateProduct(t, repo, 2)
	ctx := context.Background()

	ok, err := repo.AdjustStock(ctx, product.ID, 10)
	if err != nil || !ok {
		t.Fatalf("restock failed: ok=%v err=%v", ok, err)
	}

	ok, err = repo.AdjustStock(ctx, product.ID, -20)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if ok {
		t.Fatal("expected negative-result adjustment to be refused")
	}

	reloaded, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Stock != 12 {
		t.Fatalf("stock = %d, want 12", reloaded.Stock)
	}
}
