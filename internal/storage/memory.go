package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryBlob is an in-memory Blob with real lease semantics: exclusive
// time-bounded leases and lease-conditioned writes. It backs tests and serves
// as a degraded stand-in when no cloud storage is configured.
type MemoryBlob struct {
	mu            sync.Mutex
	containerName string
	blobName      string
	data          []byte
	exists        bool
	leaseID       string
	leaseUntil    time.Time

	nowFunc func() time.Time
}

var _ Blob = (*MemoryBlob)(nil)

// NewMemoryBlob creates an empty (non-existent) in-memory blob.
func NewMemoryBlob(containerName, blobName string) *MemoryBlob {
	return &MemoryBlob{
		containerName: containerName,
		blobName:      blobName,
		nowFunc:       time.Now,
	}
}

func (b *MemoryBlob) Container() string { return b.containerName }
func (b *MemoryBlob) Name() string      { return b.blobName }

// leaseActive reports whether a lease currently guards the blob.
// Caller must hold b.mu.
func (b *MemoryBlob) leaseActive() bool {
	return b.leaseID != "" && b.nowFunc().Before(b.leaseUntil)
}

func (b *MemoryBlob) Download(_ context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.exists {
		return nil, ErrBlobNotFound
	}
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out, nil
}

func (b *MemoryBlob) Upload(_ context.Context, data []byte, leaseID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if leaseID == "" {
		if b.leaseActive() {
			return ErrLeaseConflict
		}
	} else if !b.leaseActive() || leaseID != b.leaseID {
		return ErrLeaseConflict
	}

	b.data = make([]byte, len(data))
	copy(b.data, data)
	b.exists = true
	return nil
}

func (b *MemoryBlob) AcquireLease(_ context.Context, durationSeconds int32) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.exists {
		return "", ErrBlobNotFound
	}
	if b.leaseActive() {
		return "", ErrLeaseConflict
	}

	b.leaseID = uuid.NewString()
	b.leaseUntil = b.nowFunc().Add(time.Duration(durationSeconds) * time.Second)
	return b.leaseID, nil
}

func (b *MemoryBlob) ReleaseLease(_ context.Context, leaseID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.leaseActive() || leaseID != b.leaseID {
		return ErrLeaseConflict
	}
	b.leaseID = ""
	b.leaseUntil = time.Time{}
	return nil
}
