package storage

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned by Blob.Download when the blob does not exist yet.
var ErrBlobNotFound = errors.New("blob not found")

// ErrLeaseConflict is returned when a lease cannot be acquired because another
// writer holds one, or when a conditioned upload presents a lease id the store
// no longer recognizes.
var ErrLeaseConflict = errors.New("lease conflict")

// Blob is a handle to a single remote blob supporting time-bounded exclusive
// leases and lease-conditioned overwrites. It is the shared mutable resource
// behind the contact log: each writer performs its own full
// download → mutate → upload cycle against it.
type Blob interface {
	// Download returns the full blob contents, or ErrBlobNotFound.
	Download(ctx context.Context) ([]byte, error)

	// Upload overwrites the blob. When leaseID is non-empty the write is
	// conditioned on it: the store rejects the upload with ErrLeaseConflict
	// unless leaseID matches the blob's active lease. An empty leaseID is an
	// unconditioned write and is rejected only while another writer's lease
	// is active.
	Upload(ctx context.Context, data []byte, leaseID string) error

	// AcquireLease obtains an exclusive lease for durationSeconds and returns
	// its id. Fails with ErrLeaseConflict while another lease is active and
	// with ErrBlobNotFound when the blob does not exist yet.
	AcquireLease(ctx context.Context, durationSeconds int32) (string, error)

	// ReleaseLease releases a held lease. Releasing an expired or unknown
	// lease is an error, but the lease would lapse on its own either way.
	ReleaseLease(ctx context.Context, leaseID string) error

	// Container and Name identify the blob for acknowledgements and logs.
	Container() string
	Name() string
}
