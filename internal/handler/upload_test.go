package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rocjay1/jars-ledger/internal/services"
	"github.com/stretchr/testify/assert"
)

func uploadRequest(t *testing.T, user string) *http.Request {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", "test.csv")
	part.Write([]byte("content"))
	if user != "" {
		writer.WriteField("user", user)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHandleUpload_Success(t *testing.T) {
	// Setup
	deps, _ := newTestDeps(t)
	mockBlob := &MockBlobClient{}
	mockQueue := &MockQueueClient{}
	deps.Blob = mockBlob
	deps.Queue = mockQueue

	// Mock Blob Upload
	mockBlob.UploadTextFunc = func(ctx context.Context, containerName, blobName, content string) error {
		assert.Equal(t, services.ImportsContainer, containerName)
		assert.Equal(t, "uploads/2/20250514-100000-test.csv", blobName)
		assert.Equal(t, "content", content)
		return nil
	}

	// Mock Queue Enqueue
	mockQueue.EnqueueMessageFunc = func(ctx context.Context, queueName string, message any) error {
		assert.Equal(t, services.ImportQueue, queueName)
		msg, ok := message.(services.ImportMessage)
		assert.True(t, ok)
		assert.Equal(t, "2", msg.UserID)
		assert.True(t, strings.HasSuffix(msg.BlobName, "-test.csv"))
		return nil
	}

	w := httptest.NewRecorder()

	// Execute
	deps.HandleUpload(w, uploadRequest(t, "2"))

	// Assert
	assert.Equal(t, http.StatusAccepted, w.Code)
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "queued", resp["status"])
	assert.Equal(t, "2", resp["userId"])
	assert.NotEmpty(t, resp["blobName"])
}

func TestHandleUpload_DefaultsToActiveUser(t *testing.T) {
	deps, _ := newTestDeps(t)
	deps.Blob = &MockBlobClient{}
	var got services.ImportMessage
	deps.Queue = &MockQueueClient{
		EnqueueMessageFunc: func(ctx context.Context, queueName string, message any) error {
			got = message.(services.ImportMessage)
			return nil
		},
	}

	w := httptest.NewRecorder()
	deps.HandleUpload(w, uploadRequest(t, ""))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "1", got.UserID)
}

func TestHandleUpload_UnknownUser(t *testing.T) {
	deps, _ := newTestDeps(t)
	deps.Blob = &MockBlobClient{}
	deps.Queue = &MockQueueClient{}

	w := httptest.NewRecorder()
	deps.HandleUpload(w, uploadRequest(t, "42"))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleUpload_MethodNotAllowed(t *testing.T) {
	deps := &Dependencies{}
	req := httptest.NewRequest(http.MethodGet, "/api/upload", nil)
	w := httptest.NewRecorder()

	deps.HandleUpload(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandleUpload_NotConfigured(t *testing.T) {
	deps, _ := newTestDeps(t)
	w := httptest.NewRecorder()

	deps.HandleUpload(w, uploadRequest(t, ""))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandleUpload_MissingFile(t *testing.T) {
	deps := &Dependencies{Blob: &MockBlobClient{}, Queue: &MockQueueClient{}}
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()

	deps.HandleUpload(w, req)

	// FormFile error or ParseMultipartForm error often leads to 400
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUpload_UploadError(t *testing.T) {
	deps, _ := newTestDeps(t)
	deps.Queue = &MockQueueClient{}
	deps.Blob = &MockBlobClient{
		UploadTextFunc: func(ctx context.Context, containerName, blobName, content string) error {
			return errors.New("upload failed")
		},
	}

	w := httptest.NewRecorder()
	deps.HandleUpload(w, uploadRequest(t, ""))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to upload blob")
}

func TestHandleUpload_EnqueueError(t *testing.T) {
	deps, _ := newTestDeps(t)
	deps.Blob = &MockBlobClient{}
	deps.Queue = &MockQueueClient{
		EnqueueMessageFunc: func(ctx context.Context, queueName string, message any) error {
			return errors.New("enqueue failed")
		},
	}

	w := httptest.NewRecorder()
	deps.HandleUpload(w, uploadRequest(t, ""))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to enqueue message")
}
