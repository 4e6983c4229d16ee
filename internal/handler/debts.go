package handler

import (
	"net/http"

	"github.com/rocjay1/jars-ledger/internal/models"
)

// rankedDebt flags the liability to attack first.
type rankedDebt struct {
	models.Liability
	Priority bool `json:"priority"`
}

// HandleDebts ranks the displayed liabilities by the strategy query parameter.
func (d *Dependencies) HandleDebts(w http.ResponseWriter, r *http.Request) {
	strategy, err := models.ParseDebtStrategy(r.URL.Query().Get("strategy"))
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	ranked := d.Store.Debts(strategy)
	out := make([]rankedDebt, len(ranked))
	for i, l := range ranked {
		out[i] = rankedDebt{Liability: l, Priority: i == 0}
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"strategy": strategy,
		"debts":    out,
	})
}
