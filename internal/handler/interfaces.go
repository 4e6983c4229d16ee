package handler

import (
	"context"

	"github.com/rocjay1/jars-ledger/internal/models"
	"github.com/rocjay1/jars-ledger/internal/services"
)

// BlobClient defines the interface for blob storage operations used by handlers.
type BlobClient interface {
	UploadText(ctx context.Context, containerName, blobName, content string) error
	DownloadText(ctx context.Context, containerName, blobName string) (string, error)
	DeleteBlob(ctx context.Context, containerName, blobName string) error
}

// QueueClient defines the interface for queue operations used by handlers.
type QueueClient interface {
	EnqueueMessage(ctx context.Context, queueName string, message any) error
}

// ArchiveClient stores closed months and reads them back.
type ArchiveClient interface {
	ArchiveMonth(ctx context.Context, userID string, currency models.CurrencyCode, stats models.MonthlyStats) error
	ListHistory(ctx context.Context, userID string) ([]services.ArchivedMonth, error)
}

// EmailClient defines the interface for email operations used by handlers.
type EmailClient interface {
	SendEmail(ctx context.Context, to []string, subject, body string) error
	SendImportErrorEmail(ctx context.Context, recipients []string, userName string, errors []string) error
	SendMonthlySummary(ctx context.Context, recipients []string, userName string, currency models.CurrencyCode, stats models.MonthlyStats) error
}

// AdviceClient answers a question about a financial snapshot. It never fails;
// problems come back as a fallback message.
type AdviceClient interface {
	GetAdvice(ctx context.Context, c services.AdviceContext, question string) string
}
