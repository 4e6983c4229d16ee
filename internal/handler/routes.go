package handler

import (
	"log/slog"
	"net/http"
	"strings"
)

// RegisterRoutes mounts every endpoint on mux.
func (d *Dependencies) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /api/state", d.HandleState)
	mux.HandleFunc("POST /api/session/user", d.HandleSwitchUser)
	mux.HandleFunc("POST /api/session/view", d.HandleViewMode)

	mux.HandleFunc("GET /api/dashboard", d.HandleDashboard)
	mux.HandleFunc("GET /api/transactions", d.HandleTransactions)
	mux.HandleFunc("POST /api/income", d.HandleIncome)
	mux.HandleFunc("POST /api/expense", d.HandleExpense)
	mux.HandleFunc("POST /api/expense/preview", d.HandleExpensePreview)

	mux.HandleFunc("GET /api/jars", d.HandleJars)
	mux.HandleFunc("PUT /api/jars", d.HandleJars)
	mux.HandleFunc("GET /api/jars/{id}", d.HandleJarDetail)

	mux.HandleFunc("GET /api/assets", d.HandleAssets)
	mux.HandleFunc("POST /api/assets", d.HandleAssets)
	mux.HandleFunc("DELETE /api/assets", d.HandleAssets)

	mux.HandleFunc("GET /api/liabilities", d.HandleLiabilities)
	mux.HandleFunc("POST /api/liabilities", d.HandleLiabilities)
	mux.HandleFunc("PUT /api/liabilities", d.HandleLiabilities)
	mux.HandleFunc("DELETE /api/liabilities", d.HandleLiabilities)

	mux.HandleFunc("GET /api/balance-sheet", d.HandleBalanceSheet)
	mux.HandleFunc("GET /api/debts", d.HandleDebts)
	mux.HandleFunc("PUT /api/rates", d.HandleRates)
	mux.HandleFunc("POST /api/advice", d.HandleAdvice)
	mux.HandleFunc("GET /api/history", d.HandleHistory)

	mux.HandleFunc("POST /api/upload", d.HandleUpload)

	// Use simpler path matching for the triggers to avoid method mismatch issues
	mux.HandleFunc("/ProcessQueue", d.ProcessQueue)
	mux.HandleFunc("/NightlyTrigger", d.HandleNightlyTrigger)

	// Catch-all handler for unmatched requests
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		headers := make(map[string]string)
		for k, v := range r.Header {
			headers[k] = strings.Join(v, ", ")
		}
		slog.Warn("unmatched request",
			"method", r.Method,
			"path", r.URL.Path,
			"headers", headers,
			"content_length", r.ContentLength,
		)
		http.NotFound(w, r)
	})
}
