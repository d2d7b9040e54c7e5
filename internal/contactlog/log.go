package contactlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vancr/backend/internal/storage"
	"github.com/xuri/excelize/v2"
)

// Log appends contact records to a shared workbook blob. A nil blob means the
// deployment has no storage location; Append then fails with ErrNotConfigured
// after validation.
type Log struct {
	blob      storage.Blob
	viaDirect bool

	// overridable in tests
	now   func() time.Time
	newID func() string
}

// New creates a Log writing to blob. viaDirect records whether the handle was
// built from a pre-authorized direct blob reference (reported in Ack).
func New(blob storage.Blob, viaDirect bool) *Log {
	return &Log{
		blob:      blob,
		viaDirect: viaDirect,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// leaseState is the tagged outcome of best-effort lease acquisition: either a
// held lease and its id, or no lease at all. The conditioned-upload and
// release steps are total over both cases.
type leaseState struct {
	held bool
	id   string
}

// Append validates sub, then appends exactly one row to the Contacts sheet:
// acquire lease (best-effort) → download-or-create workbook → add row →
// upload (lease-conditioned when held) → release lease.
//
// A lost lease race surfaces as an error wrapping storage.ErrLeaseConflict;
// the caller may retry, at worst duplicating one row. Append never retries on
// its own.
func (l *Log) Append(ctx context.Context, sub Submission) (Ack, error) {
	phone := strings.TrimSpace(sub.Phone)
	email := strings.TrimSpace(sub.Email)
	message := strings.TrimSpace(sub.Message)

	if email == "" && message == "" {
		return Ack{}, fmt.Errorf("%w: missing message or email", ErrValidation)
	}
	if l.blob == nil {
		return Ack{}, fmt.Errorf("%w: storage connection or blob reference missing", ErrNotConfigured)
	}

	rec := Record{
		ContactNumber: phone,
		EmailAddress:  email,
		Message:       message,
		SubmittedAt:   l.now(),
		ActionTaken:   ActionPending,
		RecordID:      l.newID(),
	}

	st := l.acquireLease(ctx)
	err := l.write(ctx, st, rec)
	l.releaseLease(ctx, st)
	if err != nil {
		return Ack{}, err
	}

	return Ack{
		Container:          l.blob.Container(),
		Blob:               l.blob.Name(),
		ViaDirectReference: l.viaDirect,
	}, nil
}

// acquireLease requests a 60s lease. Failure is not fatal: a blob that does
// not exist yet cannot be leased, and a scoped credential may lack lease
// rights. Both cases degrade to an unprotected write; only the latter is
// worth a warning.
func (l *Log) acquireLease(ctx context.Context) leaseState {
	id, err := l.blob.AcquireLease(ctx, LeaseDurationSeconds)
	if err == nil {
		return leaseState{held: true, id: id}
	}
	if !errors.Is(err, storage.ErrBlobNotFound) {
		slog.Warn("contact log lease skipped (not critical)",
			"container", l.blob.Container(),
			"blob", l.blob.Name(),
			"error", err,
		)
	}
	return leaseState{}
}

// releaseLease returns the lease early instead of letting it run out its 60s
// window. A failed release is logged and swallowed: it must never mask the
// append's outcome, and the lease expires on its own.
func (l *Log) releaseLease(ctx context.Context, st leaseState) {
	if !st.held {
		return
	}
	if err := l.blob.ReleaseLease(ctx, st.id); err != nil {
		slog.Warn("contact log lease release failed",
			"container", l.blob.Container(),
			"blob", l.blob.Name(),
			"error", err,
		)
	}
}

func (l *Log) write(ctx context.Context, st leaseState, rec Record) error {
	f, err := l.load(ctx)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := appendRecord(f, rec); err != nil {
		return err
	}
	data, err := encodeWorkbook(f)
	if err != nil {
		return err
	}
	if err := l.blob.Upload(ctx, data, st.id); err != nil {
		return fmt.Errorf("contactlog: upload: %w", err)
	}
	return nil
}

// load downloads and parses the existing workbook, or initializes a fresh one
// when the blob does not exist yet.
func (l *Log) load(ctx context.Context) (*excelize.File, error) {
	data, err := l.blob.Download(ctx)
	if errors.Is(err, storage.ErrBlobNotFound) {
		return newWorkbook()
	}
	if err != nil {
		return nil, fmt.Errorf("contactlog: download: %w", err)
	}
	return openWorkbook(data)
}
