package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
)

// ImportQueue carries one message per uploaded CSV.
const ImportQueue = "transaction-imports"

// ImportMessage points the queue worker at a staged CSV and the member whose
// ledger it belongs to.
type ImportMessage struct {
	BlobName string `json:"blob_name"`
	UserID   string `json:"user_id"`
}

// QueueService publishes work items to Azure Queue Storage.
type QueueService struct {
	serviceClient *azqueue.ServiceClient
}

// NewQueueService connects to serviceURL, using the Azurite shared key for
// plain-http URLs and cred otherwise.
func NewQueueService(serviceURL string, cred azcore.TokenCredential) (*QueueService, error) {
	if serviceURL == "" {
		return nil, fmt.Errorf("queue service URL is required")
	}

	slog.Info("initializing queue service", "queue_url", serviceURL)
	var client *azqueue.ServiceClient
	if isEmulator(serviceURL) {
		slog.Info("using Azurite shared key credentials for queue service")
		name, key := emulatorAccount()
		sk, err := azqueue.NewSharedKeyCredential(name, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		client, err = azqueue.NewServiceClientWithSharedKeyCredential(serviceURL, sk, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create queue service client with shared key: %w", err)
		}
	} else {
		var err error
		client, err = azqueue.NewServiceClient(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create queue service client: %w", err)
		}
	}

	slog.Info("queue service initialized successfully")
	return &QueueService{serviceClient: client}, nil
}

// EnqueueMessage JSON-encodes message and adds it to queueName, base64
// wrapped so queue-triggered hosts decode it unchanged.
func (s *QueueService) EnqueueMessage(ctx context.Context, queueName string, message any) error {
	queueClient := s.serviceClient.NewQueueClient(queueName)

	_, err := queueClient.Create(ctx, nil)
	if err != nil && !strings.Contains(err.Error(), "QueueAlreadyExists") {
		slog.Warn("failed to create queue", "queue", queueName, "error", err)
	}

	msgBytes, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(msgBytes)

	if _, err := queueClient.EnqueueMessage(ctx, encoded, nil); err != nil {
		slog.Error("failed to enqueue message", "queue", queueName, "error", err)
		return fmt.Errorf("failed to enqueue message to %s: %w", queueName, err)
	}

	slog.Info("enqueued message", "queue", queueName)
	return nil
}
