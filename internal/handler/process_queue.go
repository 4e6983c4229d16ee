package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/rocjay1/jars-ledger/internal/csvparse"
	"github.com/rocjay1/jars-ledger/internal/ledger"
	"github.com/rocjay1/jars-ledger/internal/services"
)

// invokeRequest represents the payload from Azure Functions Custom Handler.
type invokeRequest struct {
	Data     map[string]any `json:"Data"`
	Metadata map[string]any `json:"Metadata"`
}

// ProcessQueue handles the queue trigger for importing uploaded CSVs into a
// member's ledger. Bad rows are reported by email; the message is consumed
// either way so it does not retry forever.
func (d *Dependencies) ProcessQueue(w http.ResponseWriter, r *http.Request) {
	var invokeReq invokeRequest
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("failed to read queue request body", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	if err := json.Unmarshal(bodyBytes, &invokeReq); err != nil {
		slog.Error("failed to unmarshal queue request", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to unmarshal request")
		return
	}

	queueItemVal, ok := invokeReq.Data["queueItem"]
	if !ok {
		queueItemVal, ok = invokeReq.Data["queueitem"]
		if !ok {
			WriteError(w, http.StatusBadRequest, "Missing queueItem in Data")
			return
		}
	}

	queueItemStr, ok := queueItemVal.(string)
	if !ok {
		WriteError(w, http.StatusBadRequest, "queueItem is not a string")
		return
	}

	var msg services.ImportMessage
	if err := json.Unmarshal([]byte(queueItemStr), &msg); err != nil {
		slog.Error("failed to unmarshal queueItem", "error", err)
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid queueItem JSON: %v", err))
		return
	}

	if msg.BlobName == "" || msg.UserID == "" {
		slog.Warn("queue message missing blob_name or user_id", "blob_name", msg.BlobName, "user_id", msg.UserID)
		WriteError(w, http.StatusBadRequest, "Missing blob_name or user_id")
		return
	}

	if d.Blob == nil {
		WriteError(w, http.StatusServiceUnavailable, "Import storage is not configured")
		return
	}

	slog.Info("processing queue item", "blob_name", msg.BlobName, "user_id", msg.UserID, "container", services.ImportsContainer)

	csvContent, err := d.Blob.DownloadText(r.Context(), services.ImportsContainer, msg.BlobName)
	if err != nil {
		slog.Error("failed to download CSV from blob", "blob_name", msg.BlobName, "container", services.ImportsContainer, "error", err)
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to download CSV: %v", err))
		return
	}

	transactions, parseErrors := csvparse.ParseCSV(csvContent)
	slog.Info("parsed CSV content", "blob_name", msg.BlobName, "transactions_count", len(transactions), "errors_count", len(parseErrors))

	result, err := d.Store.ImportTransactions(msg.UserID, msg.BlobName, transactions)
	if errors.Is(err, ledger.ErrUnknownUser) {
		// Consume the message; the member no longer exists.
		slog.Warn("dropping import for unknown user", "user_id", msg.UserID, "blob_name", msg.BlobName)
		w.WriteHeader(http.StatusOK)
		return
	}
	if err != nil {
		slog.Error("failed to import transactions", "user_id", msg.UserID, "error", err)
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to import transactions: %v", err))
		return
	}

	if result.Duplicate {
		// Redelivered message; the rows are already in the ledger.
		slog.Warn("blob already imported", "blob_name", msg.BlobName, "user_id", msg.UserID)
		d.deleteImportBlob(r, msg.BlobName)
		WriteJSON(w, http.StatusOK, result)
		return
	}

	allErrors := append(append([]string{}, parseErrors...), result.Errors...)
	result.Errors = allErrors
	if len(allErrors) > 0 {
		d.reportImportErrors(r, msg.UserID, allErrors)
	}

	d.deleteImportBlob(r, msg.BlobName)

	slog.Info("queue processing complete", "blob_name", msg.BlobName, "user_id", msg.UserID, "imported", result.Imported, "errors_count", len(allErrors))
	WriteJSON(w, http.StatusOK, result)
}

func (d *Dependencies) deleteImportBlob(r *http.Request, blobName string) {
	if err := d.Blob.DeleteBlob(r.Context(), services.ImportsContainer, blobName); err != nil {
		slog.Warn("failed to delete processed blob", "blob_name", blobName, "error", err)
	}
}

func (d *Dependencies) reportImportErrors(r *http.Request, userID string, errs []string) {
	if d.Email == nil || d.UserEmail == "" {
		slog.Warn("import had errors but email is not configured", "user_id", userID, "errors_count", len(errs))
		return
	}

	name := userID
	if m, ok := d.Store.Member(userID); ok {
		name = m.Name
	}
	if err := d.Email.SendImportErrorEmail(r.Context(), []string{d.UserEmail}, name, errs); err != nil {
		slog.Error("failed to send import error email", "user_id", userID, "email", d.UserEmail, "error", err)
		return
	}
	slog.Info("import error email sent", "user_id", userID, "email", d.UserEmail)
}
