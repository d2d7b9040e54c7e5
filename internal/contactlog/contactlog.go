// Package contactlog appends contact-form submissions to a shared
// spreadsheet blob, guarding the read-modify-write cycle with a best-effort
// blob lease.
//
// The document is a makeshift datastore: every append downloads the whole
// workbook, adds one row to the Contacts sheet and uploads the result. A 60s
// lease is requested first; when the store grants it the upload is conditioned
// on the lease id, so among lease-holding writers at most one read-modify-write
// cycle commits per contention window. When the lease cannot be acquired (a
// scoped SAS credential may lack lease rights) the append proceeds
// unprotected, preferring availability over strict consistency for a
// low-volume log.
package contactlog

import (
	"errors"
	"time"
)

// SheetName is the single worksheet holding contact rows.
const SheetName = "Contacts"

// ActionPending is the initial ActionTaken status of every stored record.
const ActionPending = "Pending"

// LeaseDurationSeconds bounds how long a crashed writer can block others.
const LeaseDurationSeconds = 60

// ErrValidation marks client input that cannot be stored (fails before any
// remote call).
var ErrValidation = errors.New("contactlog: invalid submission")

// ErrNotConfigured marks a deployment with no usable storage location.
var ErrNotConfigured = errors.New("contactlog: storage not configured")

// Submission is the caller-supplied part of a contact record. All fields are
// optional individually, but at least one of Email or Message must be
// non-empty.
type Submission struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Record is one row of the Contacts sheet.
type Record struct {
	ContactNumber string
	EmailAddress  string
	Message       string
	SubmittedAt   time.Time
	ActionTaken   string
	RecordID      string
}

// Ack reports where a successful append landed.
type Ack struct {
	Container          string `json:"container"`
	Blob               string `json:"blob"`
	ViaDirectReference bool   `json:"viaDirectReference"`
}
