package handler

import (
	"log/slog"
	"net/http"

	"github.com/rocjay1/jars-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// HandleRates replaces the exchange rates and, when baseCurrency is given,
// switches the base currency.
func (d *Dependencies) HandleRates(w http.ResponseWriter, r *http.Request) {
	var req struct {
		USD          decimal.Decimal      `json:"usd"`
		EUR          decimal.Decimal      `json:"eur"`
		BaseCurrency *models.CurrencyCode `json:"baseCurrency,omitempty"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := d.Store.SetExchangeRates(req.USD, req.EUR, req.BaseCurrency); err != nil {
		slog.Warn("failed to set exchange rates", "usd", req.USD.String(), "eur", req.EUR.String(), "error", err)
		writeLedgerError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, d.Store.Snapshot())
}
