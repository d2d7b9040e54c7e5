package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vancr/backend/internal/contactlog"
)

// ContactLog appends a submission to the shared workbook.
type ContactLog interface {
	Append(ctx context.Context, sub contactlog.Submission) (contactlog.Ack, error)
}

// ContactHandler handles contact form submissions.
type ContactHandler struct {
	log ContactLog
}

// NewContactHandler creates a ContactHandler writing to the given log.
func NewContactHandler(log ContactLog) *ContactHandler {
	return &ContactHandler{log: log}
}

// saveResponse is the JSON body for a successful POST /api/save-contact.
type saveResponse struct {
	OK                 bool   `json:"ok"`
	Container          string `json:"container"`
	Blob               string `json:"blob"`
	ViaDirectReference bool   `json:"viaDirectReference"`
}

// Save handles POST /api/save-contact. Either email or message must be
// present; phone alone is not enough to act on.
func (h *ContactHandler) Save(w http.ResponseWriter, r *http.Request) {
	var sub contactlog.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ack, err := h.log.Append(r.Context(), sub)
	if err != nil {
		switch {
		case errors.Is(err, contactlog.ErrValidation):
			writeError(w, http.StatusBadRequest, "Missing message or email")
		case errors.Is(err, contactlog.ErrNotConfigured):
			slog.Error("contact log not configured")
			writeError(w, http.StatusInternalServerError, "Contact storage not configured")
		default:
			slog.Error("contact append failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to save contact")
		}
		return
	}

	writeJSON(w, http.StatusOK, saveResponse{
		OK:                 true,
		Container:          ack.Container,
		Blob:               ack.Blob,
		ViaDirectReference: ack.ViaDirectReference,
	})
}
