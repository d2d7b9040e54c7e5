package service

import (
	"context"
	"io"

	"github.com/vancr/backend/internal/model"
)

// NewProductInput carries the validated form fields plus the image payload
// for a catalog insertion.
type NewProductInput struct {
	Price      float64
	Categories []string
	AgeGroups  []string
	Seasons    []string
	Occasions  []string

	Image       io.Reader
	ImageExt    string // lowercase, without the dot
	ContentType string
}

// ProductService defines the business logic for the product catalog.
type ProductService interface {
	// Add uploads the product image and stores the catalog entry. The
	// returned product has its ID, image URL and timestamps populated.
	Add(ctx context.Context, in NewProductInput) (*model.Product, error)

	// List returns products matching the filter, newest first.
	List(ctx context.Context, filter model.ProductFilter) ([]*model.Product, error)

	// Update applies a partial update and returns the updated product.
	Update(ctx context.Context, id string, upd model.ProductUpdate) (*model.Product, error)

	// Delete removes a product and its stored image.
	Delete(ctx context.Context, id string) error
}
