package repository

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/vancr/backend/internal/model"
)

// testPool connects to the database named by TEST_DATABASE_URL. Integration
// tests are skipped under -short or when the variable is unset.
func testPool(t *testing.T) *PgProductRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	pool, err := NewPool(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return NewPgProductRepository(pool)
}

func TestPgProductRepository_CreateListDelete(t *testing.T) {
	repo := testPool(t)
	ctx := context.Background()

	p := &model.Product{
		ID:         uuid.NewString(),
		Price:      499.0,
		ImageURL:   "https://example.com/products/x.png",
		Categories: []string{"toys"},
		AgeGroups:  []string{"3-5"},
		Seasons:    []string{"summer"},
		Occasions:  []string{"birthday"},
	}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { _ = repo.Delete(ctx, p.ID) })

	if p.CreatedAt.IsZero() {
		t.Error("expected created_at to be populated")
	}

	got, err := repo.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Price != p.Price || got.ImageURL != p.ImageURL {
		t.Errorf("round trip mismatch: %+v", got)
	}

	// Tag filter must match, and a wrong tag must not.
	list, err := repo.List(ctx, model.ProductFilter{Category: "toys", AgeGroup: "3-5"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	found := false
	for _, item := range list {
		if item.ID == p.ID {
			found = true
		}
	}
	if !found {
		t.Error("expected product in filtered listing")
	}

	list, err = repo.List(ctx, model.ProductFilter{Category: "no-such-tag"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, item := range list {
		if item.ID == p.ID {
			t.Error("product matched a tag it does not carry")
		}
	}

	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.FindByID(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("find after delete: expected ErrNotFound, got %v", err)
	}
}

func TestPgProductRepository_PartialUpdate(t *testing.T) {
	repo := testPool(t)
	ctx := context.Background()

	p := &model.Product{
		ID:         uuid.NewString(),
		Price:      100,
		ImageURL:   "https://example.com/products/y.png",
		Categories: []string{"clothing"},
		AgeGroups:  []string{"6-8"},
	}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { _ = repo.Delete(ctx, p.ID) })

	newPrice := 150.0
	got, err := repo.Update(ctx, p.ID, model.ProductUpdate{Price: &newPrice})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Price != newPrice {
		t.Errorf("price = %v, want %v", got.Price, newPrice)
	}
	if len(got.Categories) != 1 || got.Categories[0] != "clothing" {
		t.Errorf("untouched field changed: %v", got.Categories)
	}
	if got.UpdatedAt == nil {
		t.Error("expected updated_at to be set")
	}
}
