package handler

import (
	"log/slog"
	"net/http"

	"github.com/rocjay1/jars-ledger/internal/ledger"
	"github.com/rocjay1/jars-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// HandleDashboard returns the displayed financials with balance sheet and jar flows.
func (d *Dependencies) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, d.Store.Dashboard())
}

// HandleTransactions returns the displayed transaction log, newest first.
func (d *Dependencies) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, d.Store.Displayed().Transactions)
}

// HandleIncome records an income for the active user.
func (d *Dependencies) HandleIncome(w http.ResponseWriter, r *http.Request) {
	var req ledger.IncomeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := d.Store.RecordIncome(req)
	if err != nil {
		slog.Warn("failed to record income", "amount", req.Amount.String(), "currency", string(req.Currency), "mode", string(req.Mode), "error", err)
		writeLedgerError(w, err)
		return
	}

	slog.Info("recorded income", "id", res.Transaction.ID, "amount", req.Amount.String(), "currency", string(res.Transaction.Currency))
	WriteJSON(w, http.StatusCreated, res)
}

// HandleExpense records an expense against one jar of the active user.
func (d *Dependencies) HandleExpense(w http.ResponseWriter, r *http.Request) {
	var req ledger.ExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tx, err := d.Store.RecordExpense(req)
	if err != nil {
		slog.Warn("failed to record expense", "amount", req.Amount.String(), "jar", jarLabel(req.JarID), "error", err)
		writeLedgerError(w, err)
		return
	}

	slog.Info("recorded expense", "id", tx.ID, "amount", req.Amount.String(), "jar", jarLabel(tx.JarID))
	WriteJSON(w, http.StatusCreated, tx)
}

// HandleExpensePreview reports whether an expense would overdraw its jar
// without recording anything.
func (d *Dependencies) HandleExpensePreview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount   decimal.Decimal     `json:"amount"`
		Currency models.CurrencyCode `json:"currency"`
		JarID    *models.JarID       `json:"jarId"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	preview, err := d.Store.PreviewExpense(req.Amount, req.Currency, req.JarID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, preview)
}

func jarLabel(id *models.JarID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
