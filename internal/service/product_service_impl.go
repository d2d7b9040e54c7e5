package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/vancr/backend/internal/model"
	"github.com/vancr/backend/internal/repository"
	"github.com/vancr/backend/internal/storage"
)

// productServiceImpl is the production implementation of ProductService.
type productServiceImpl struct {
	repo  repository.ProductRepository
	store storage.Storage
}

// NewProductService creates a ProductService backed by the given repository
// and image store.
func NewProductService(repo repository.ProductRepository, store storage.Storage) ProductService {
	return &productServiceImpl{repo: repo, store: store}
}

// Add uploads the image first, then inserts the catalog row. If the insert
// fails the uploaded image is deleted again.
func (s *productServiceImpl) Add(ctx context.Context, in NewProductInput) (*model.Product, error) {
	id := uuid.NewString()
	key := fmt.Sprintf("products/%s.%s", id, in.ImageExt)

	url, err := s.store.Save(ctx, key, in.Image, in.ContentType)
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	p := &model.Product{
		ID:         id,
		Price:      in.Price,
		ImageURL:   url,
		Categories: in.Categories,
		AgeGroups:  in.AgeGroups,
		Seasons:    in.Seasons,
		Occasions:  in.Occasions,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			slog.Warn("orphaned product image left behind", "key", key, "error", delErr)
		}
		return nil, err
	}
	return p, nil
}

func (s *productServiceImpl) List(ctx context.Context, filter model.ProductFilter) ([]*model.Product, error) {
	return s.repo.List(ctx, filter)
}

func (s *productServiceImpl) Update(ctx context.Context, id string, upd model.ProductUpdate) (*model.Product, error) {
	return s.repo.Update(ctx, id, upd)
}

// Delete removes the catalog row, then the stored image. A missing image is
// not an error: the row is the source of truth.
func (s *productServiceImpl) Delete(ctx context.Context, id string) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if key := imageKeyFromURL(p.ImageURL); key != "" {
		if err := s.store.Delete(ctx, key); err != nil {
			slog.Warn("failed to delete product image", "key", key, "error", err)
		}
	}
	return nil
}

// imageKeyFromURL recovers the storage key ("products/<id>.<ext>") from a
// stored image URL. Returns "" when the URL has no recognizable key.
func imageKeyFromURL(url string) string {
	idx := strings.Index(url, "products/")
	if idx < 0 {
		return ""
	}
	key := url[idx:]
	if q := strings.IndexByte(key, '?'); q >= 0 {
		key = key[:q]
	}
	return key
}
