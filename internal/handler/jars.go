package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/rocjay1/jars-ledger/internal/models"
)

// HandleJars handles GET and PUT requests for the displayed jar registry.
func (d *Dependencies) HandleJars(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		WriteJSON(w, http.StatusOK, d.Store.Displayed().Jars)

	case http.MethodPut:
		var req struct {
			Jars              models.JarRegistry `json:"jars"`
			ConfirmUnbalanced bool               `json:"confirmUnbalanced"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := d.Store.SaveJarConfig(req.Jars, req.ConfirmUnbalanced); err != nil {
			slog.Warn("failed to save jar configuration", "error", err)
			writeLedgerError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, d.Store.Displayed().Jars)

	default:
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// HandleJarDetail returns the breakdown of one jar, addressed by its code.
func (d *Dependencies) HandleJarDetail(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseJarID(strings.ToUpper(r.PathValue("id")))
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	detail, err := d.Store.JarDetail(id)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, detail)
}
