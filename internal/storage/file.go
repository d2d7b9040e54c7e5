package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FileBlob is a Blob persisted to a single local file. It gives the relay
// helper the same append path the cloud deployment uses without requiring an
// Azure account. Leases are tracked in process memory, which is as much
// exclusion as a single-host deployment needs.
type FileBlob struct {
	mu         sync.Mutex
	path       string
	leaseID    string
	leaseUntil time.Time

	nowFunc func() time.Time
}

var _ Blob = (*FileBlob)(nil)

// NewFileBlob creates a FileBlob stored at path. The file is created on the
// first upload.
func NewFileBlob(path string) *FileBlob {
	return &FileBlob{path: path, nowFunc: time.Now}
}

func (b *FileBlob) Container() string { return filepath.Dir(b.path) }
func (b *FileBlob) Name() string      { return filepath.Base(b.path) }

func (b *FileBlob) leaseActive() bool {
	return b.leaseID != "" && b.nowFunc().Before(b.leaseUntil)
}

func (b *FileBlob) Download(_ context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", b.path, err)
	}
	return data, nil
}

func (b *FileBlob) Upload(_ context.Context, data []byte, leaseID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if leaseID == "" {
		if b.leaseActive() {
			return ErrLeaseConflict
		}
	} else if !b.leaseActive() || leaseID != b.leaseID {
		return ErrLeaseConflict
	}

	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	// Write-then-rename so readers never observe a half-written workbook.
	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		return fmt.Errorf("storage: rename %s: %w", tmp, err)
	}
	return nil
}

func (b *FileBlob) AcquireLease(_ context.Context, durationSeconds int32) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := os.Stat(b.path); os.IsNotExist(err) {
		return "", ErrBlobNotFound
	}
	if b.leaseActive() {
		return "", ErrLeaseConflict
	}

	b.leaseID = uuid.NewString()
	b.leaseUntil = b.nowFunc().Add(time.Duration(durationSeconds) * time.Second)
	return b.leaseID, nil
}

func (b *FileBlob) ReleaseLease(_ context.Context, leaseID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.leaseActive() || leaseID != b.leaseID {
		return ErrLeaseConflict
	}
	b.leaseID = ""
	b.leaseUntil = time.Time{}
	return nil
}
