package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocjay1/jars-ledger/internal/ledger"
	"github.com/rocjay1/jars-ledger/internal/models"
)

// Dependencies holds the ledger and the services required by the handlers.
// Blob, Queue, Archive, Email and Advice are optional; a nil client disables
// the endpoints that need it.
type Dependencies struct {
	Store   *ledger.Store
	Blob    BlobClient
	Queue   QueueClient
	Archive ArchiveClient
	Email   EmailClient
	Advice  AdviceClient

	// UserEmail receives import error reports and monthly summaries.
	UserEmail string

	// Now defaults to time.Now.
	Now func() time.Time
}

func (d *Dependencies) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// WriteError writes an error response.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// decodeJSON decodes the request body into v, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		slog.Warn("invalid request body", "path", r.URL.Path, "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// writeLedgerError maps ledger and model errors to HTTP statuses. Confirmation
// gates answer 409 with requiresConfirmation so the client can retry with the
// confirm flag set.
func writeLedgerError(w http.ResponseWriter, err error) {
	var mismatch *ledger.DistributionMismatchError
	var warning *ledger.PercentageSumWarning

	switch {
	case errors.As(err, &mismatch):
		WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":      err.Error(),
			"difference": mismatch.Difference(),
		})
	case errors.As(err, &warning):
		WriteJSON(w, http.StatusConflict, map[string]any{
			"error":                err.Error(),
			"requiresConfirmation": true,
			"total":                warning.Total,
		})
	case errors.Is(err, ledger.ErrInsufficientJarBalance):
		WriteJSON(w, http.StatusConflict, map[string]any{
			"error":                err.Error(),
			"requiresConfirmation": true,
		})
	case errors.Is(err, ledger.ErrFamilyViewReadOnly):
		WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, ledger.ErrUnknownUser):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidRate),
		errors.Is(err, ledger.ErrInvalidMode),
		errors.Is(err, ledger.ErrInvalidViewMode),
		errors.Is(err, models.ErrInvalidCurrency),
		errors.Is(err, models.ErrUnknownJar),
		errors.Is(err, models.ErrUnknownStrategy),
		errors.Is(err, models.ErrEmptyName),
		errors.Is(err, models.ErrInvalidValue):
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.Error("unexpected ledger error", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
