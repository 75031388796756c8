package reservation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/greenmarket/greenmarket-backend/pkg/db/models"
	pkgerrors "github.com/greenmarket/greenmarket-backend/pkg/errors"
)

func TestReserveStock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	seeded := []models.Product{
		{Name: "Bottle", PriceCents: 999, Category: "Kitchen", Stock: 5},
		{Name: "Tote", PriceCents: 349, Category: "Bags", Stock: 1},
	}
	for i := range seeded {
		if err := db.Create(&seeded[i]).Error; err != nil {
			t.Fatalf("seed products: %v", err)
		}
	}

	requests := []StockReservationRequest{
		{ProductID: seeded[0].ID, Qty: 3},
		{ProductID: seeded[0].ID, Qty: 4},
		{ProductID: seeded[1].ID, Qty: 1},
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		results, terr := ReserveStock(ctx, tx, requests)
		if terr != nil {
			return terr
		}
		if len(results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(results))
		}
		if !results[0].Reserved {
			t.Fatalf("expected first reservation to succeed")
		}
		if results[1].Reserved {
			t.Fatalf("expected second reservation to fail")
		}
		if results[1].Available != 2 {
			t.Fatalf("expected 2 units left after first reservation, got %d", results[1].Available)
		}
		if !results[2].Reserved {
			t.Fatalf("expected third reservation to succeed")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("reserve transaction: %v", err)
	}

	var bottle, tote models.Product
	if err := db.First(&bottle, "id = ?", seeded[0].ID).Error; err != nil {
		t.Fatalf("load bottle: %v", err)
	}
	if err := db.First(&tote, "id = ?", seeded[1].ID).Error; err != nil {
		t.Fatalf("load tote: %v", err)
	}
	if bottle.Stock != 2 {
		t.Fatalf("unexpected bottle stock: %d", bottle.Stock)
	}
	if tote.Stock != 0 {
		t.Fatalf("unexpected tote stock: %d", tote.Stock)
	}
}

func TestReserveStockInvalidQty(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	product := models.Product{Name: "Bottle", PriceCents: 999, Category: "Kitchen", Stock: 5}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	_, err := ReserveStock(ctx, db, []StockReservationRequest{{ProductID: product.ID, Qty: 0}})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReserveStockMissingProduct(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	_, err := ReserveStock(ctx, db, []StockReservationRequest{{ProductID: 42, Qty: 1}})
	if err == nil {
		t.Fatal("expected not-found error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:reservation_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate products: %v", err)
	}
	return db
}
