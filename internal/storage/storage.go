package storage

import (
	"context"
	"io"
)

// Storage abstracts saving and deleting public assets (product images).
// Local filesystem implementation for development, Azure Blob Storage in
// production.
type Storage interface {
	// Save stores a file and returns its public URL.
	// key is a unique path within the store (e.g. "products/<id>.jpg").
	Save(ctx context.Context, key string, data io.Reader, contentType string) (url string, err error)

	// Delete removes the file for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
