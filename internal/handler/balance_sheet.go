package handler

import (
	"log/slog"
	"net/http"

	"github.com/rocjay1/jars-ledger/internal/models"
)

// HandleAssets handles GET, POST, and DELETE requests for assets.
func (d *Dependencies) HandleAssets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		WriteJSON(w, http.StatusOK, d.Store.Displayed().Assets)

	case http.MethodPost:
		var asset models.Asset
		if !decodeJSON(w, r, &asset) {
			return
		}

		saved, err := d.Store.AddAsset(asset)
		if err != nil {
			slog.Warn("failed to add asset", "name", asset.Name, "error", err)
			writeLedgerError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, saved)

	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			WriteError(w, http.StatusBadRequest, "Missing asset ID")
			return
		}

		if err := d.Store.DeleteAsset(id); err != nil {
			slog.Warn("failed to delete asset", "id", id, "error", err)
			writeLedgerError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// HandleLiabilities handles GET, POST, PUT, and DELETE requests for liabilities.
func (d *Dependencies) HandleLiabilities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		WriteJSON(w, http.StatusOK, d.Store.Displayed().Liabilities)

	case http.MethodPost:
		var liability models.Liability
		if !decodeJSON(w, r, &liability) {
			return
		}

		saved, err := d.Store.AddLiability(liability)
		if err != nil {
			slog.Warn("failed to add liability", "name", liability.Name, "error", err)
			writeLedgerError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, saved)

	case http.MethodPut:
		var liability models.Liability
		if !decodeJSON(w, r, &liability) {
			return
		}
		if liability.ID == "" {
			WriteError(w, http.StatusBadRequest, "Missing liability ID")
			return
		}

		saved, err := d.Store.UpdateLiability(liability.ID, liability)
		if err != nil {
			slog.Warn("failed to update liability", "id", liability.ID, "error", err)
			writeLedgerError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, saved)

	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			WriteError(w, http.StatusBadRequest, "Missing liability ID")
			return
		}

		if err := d.Store.DeleteLiability(id); err != nil {
			slog.Warn("failed to delete liability", "id", id, "error", err)
			writeLedgerError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// HandleBalanceSheet returns the displayed totals in base currency.
func (d *Dependencies) HandleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, d.Store.BalanceSheet())
}
