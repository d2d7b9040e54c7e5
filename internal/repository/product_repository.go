package repository

import (
	"context"

	"github.com/vancr/backend/internal/model"
)

// ProductRepository defines the persistence interface for catalog products.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	List(ctx context.Context, filter model.ProductFilter) ([]*model.Product, error)
	FindByID(ctx context.Context, id string) (*model.Product, error)
	Update(ctx context.Context, id string, upd model.ProductUpdate) (*model.Product, error)
	Delete(ctx context.Context, id string) error
}
