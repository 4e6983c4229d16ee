package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/rocjay1/jars-ledger/internal/services"
)

// HandleUpload stages a CSV of transactions in blob storage and queues it for
// import into a member's ledger: the "user" form field, or the active user.
func (d *Dependencies) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		slog.Warn("upload attempt with invalid method", "method", r.Method, "path", r.URL.Path)
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if d.Blob == nil || d.Queue == nil {
		WriteError(w, http.StatusServiceUnavailable, "Import storage is not configured")
		return
	}

	// 10MB limit
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Warn("failed to parse multipart form", "error", err, "max_size_mb", 10)
		WriteError(w, http.StatusBadRequest, "File too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		slog.Warn("failed to get file from form", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to get file")
		return
	}
	defer file.Close()

	userID := r.FormValue("user")
	if userID == "" {
		userID = d.Store.Snapshot().ActiveUserID
	}
	if _, ok := d.Store.Member(userID); !ok {
		WriteError(w, http.StatusNotFound, "unknown user: "+userID)
		return
	}

	bytes, err := io.ReadAll(file)
	if err != nil {
		slog.Error("failed to read uploaded file", "filename", header.Filename, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}
	slog.Info("received file upload", "filename", header.Filename, "size_bytes", len(bytes), "user_id", userID)

	timestamp := d.now().Format("20060102-150405")
	filename := filepath.Base(header.Filename)
	blobName := fmt.Sprintf("uploads/%s/%s-%s", userID, timestamp, filename)

	if err := d.Blob.UploadText(r.Context(), services.ImportsContainer, blobName, string(bytes)); err != nil {
		slog.Error("failed to upload blob", "blob_name", blobName, "container", services.ImportsContainer, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to upload blob: "+err.Error())
		return
	}
	slog.Info("successfully uploaded blob", "blob_name", blobName, "container", services.ImportsContainer)

	msg := services.ImportMessage{BlobName: blobName, UserID: userID}
	if err := d.Queue.EnqueueMessage(r.Context(), services.ImportQueue, msg); err != nil {
		slog.Error("failed to enqueue message", "queue", services.ImportQueue, "blob_name", blobName, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to enqueue message: "+err.Error())
		return
	}
	slog.Info("successfully enqueued message", "queue", services.ImportQueue, "blob_name", blobName, "user_id", userID)

	WriteJSON(w, http.StatusAccepted, map[string]string{
		"status":   "queued",
		"blobName": blobName,
		"userId":   userID,
	})
}
