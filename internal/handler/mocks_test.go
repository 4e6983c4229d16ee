package handler

import (
	"context"
	"sync"

	"github.com/rocjay1/jars-ledger/internal/models"
	"github.com/rocjay1/jars-ledger/internal/services"
)

// MockBlobClient is a mock implementation of BlobClient
type MockBlobClient struct {
	UploadTextFunc   func(ctx context.Context, containerName, blobName, content string) error
	DownloadTextFunc func(ctx context.Context, containerName, blobName string) (string, error)
	DeleteBlobFunc   func(ctx context.Context, containerName, blobName string) error
}

func (m *MockBlobClient) UploadText(ctx context.Context, containerName, blobName, content string) error {
	if m.UploadTextFunc != nil {
		return m.UploadTextFunc(ctx, containerName, blobName, content)
	}
	return nil
}

func (m *MockBlobClient) DownloadText(ctx context.Context, containerName, blobName string) (string, error) {
	if m.DownloadTextFunc != nil {
		return m.DownloadTextFunc(ctx, containerName, blobName)
	}
	return "", nil
}

func (m *MockBlobClient) DeleteBlob(ctx context.Context, containerName, blobName string) error {
	if m.DeleteBlobFunc != nil {
		return m.DeleteBlobFunc(ctx, containerName, blobName)
	}
	return nil
}

// MockQueueClient is a mock implementation of QueueClient
type MockQueueClient struct {
	EnqueueMessageFunc func(ctx context.Context, queueName string, message any) error
}

func (m *MockQueueClient) EnqueueMessage(ctx context.Context, queueName string, message any) error {
	if m.EnqueueMessageFunc != nil {
		return m.EnqueueMessageFunc(ctx, queueName, message)
	}
	return nil
}

// MockArchiveClient is a mock implementation of ArchiveClient. Calls from
// concurrent goroutines are serialized.
type MockArchiveClient struct {
	mu               sync.Mutex
	ArchiveMonthFunc func(ctx context.Context, userID string, currency models.CurrencyCode, stats models.MonthlyStats) error
	ListHistoryFunc  func(ctx context.Context, userID string) ([]services.ArchivedMonth, error)
}

func (m *MockArchiveClient) ArchiveMonth(ctx context.Context, userID string, currency models.CurrencyCode, stats models.MonthlyStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ArchiveMonthFunc != nil {
		return m.ArchiveMonthFunc(ctx, userID, currency, stats)
	}
	return nil
}

func (m *MockArchiveClient) ListHistory(ctx context.Context, userID string) ([]services.ArchivedMonth, error) {
	if m.ListHistoryFunc != nil {
		return m.ListHistoryFunc(ctx, userID)
	}
	return nil, nil
}

// MockEmailClient is a mock implementation of EmailClient. Calls from
// concurrent goroutines are serialized.
type MockEmailClient struct {
	mu                       sync.Mutex
	SendEmailFunc            func(ctx context.Context, to []string, subject, body string) error
	SendImportErrorEmailFunc func(ctx context.Context, recipients []string, userName string, errors []string) error
	SendMonthlySummaryFunc   func(ctx context.Context, recipients []string, userName string, currency models.CurrencyCode, stats models.MonthlyStats) error
}

func (m *MockEmailClient) SendEmail(ctx context.Context, to []string, subject, body string) error {
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, to, subject, body)
	}
	return nil
}

func (m *MockEmailClient) SendImportErrorEmail(ctx context.Context, recipients []string, userName string, errors []string) error {
	if m.SendImportErrorEmailFunc != nil {
		return m.SendImportErrorEmailFunc(ctx, recipients, userName, errors)
	}
	return nil
}

func (m *MockEmailClient) SendMonthlySummary(ctx context.Context, recipients []string, userName string, currency models.CurrencyCode, stats models.MonthlyStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendMonthlySummaryFunc != nil {
		return m.SendMonthlySummaryFunc(ctx, recipients, userName, currency, stats)
	}
	return nil
}

// MockAdviceClient is a mock implementation of AdviceClient
type MockAdviceClient struct {
	GetAdviceFunc func(ctx context.Context, c services.AdviceContext, question string) string
}

func (m *MockAdviceClient) GetAdvice(ctx context.Context, c services.AdviceContext, question string) string {
	if m.GetAdviceFunc != nil {
		return m.GetAdviceFunc(ctx, c, question)
	}
	return ""
}
