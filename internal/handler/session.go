package handler

import (
	"log/slog"
	"net/http"

	"github.com/rocjay1/jars-ledger/internal/ledger"
)

// HandleState returns the session snapshot.
func (d *Dependencies) HandleState(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, d.Store.Snapshot())
}

// HandleSwitchUser makes another family member the active user.
func (d *Dependencies) HandleSwitchUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := d.Store.SwitchUser(req.UserID); err != nil {
		slog.Warn("failed to switch user", "user_id", req.UserID, "error", err)
		writeLedgerError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, d.Store.Snapshot())
}

// HandleViewMode selects the individual or family view.
func (d *Dependencies) HandleViewMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode ledger.ViewMode `json:"mode"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := d.Store.SetViewMode(req.Mode); err != nil {
		slog.Warn("failed to set view mode", "mode", string(req.Mode), "error", err)
		writeLedgerError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, d.Store.Snapshot())
}
