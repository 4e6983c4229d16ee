package handler

import (
	"log/slog"
	"net/http"
)

// HandleHistory lists the archived months of a member; the active user when
// the user query parameter is absent.
func (d *Dependencies) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if d.Archive == nil {
		WriteError(w, http.StatusServiceUnavailable, "Archive is not configured")
		return
	}

	userID := r.URL.Query().Get("user")
	if userID == "" {
		userID = d.Store.Snapshot().ActiveUserID
	}
	if _, ok := d.Store.Member(userID); !ok {
		WriteError(w, http.StatusNotFound, "unknown user: "+userID)
		return
	}

	history, err := d.Archive.ListHistory(r.Context(), userID)
	if err != nil {
		slog.Error("failed to list archived months", "user_id", userID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to list history: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, history)
}
