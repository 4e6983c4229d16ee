package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/rocjay1/jars-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// ArchivedMonth is a closed stats entry read back from the archive table.
type ArchivedMonth struct {
	UserID     string              `json:"userId"`
	Currency   models.CurrencyCode `json:"currency"`
	Stats      models.MonthlyStats `json:"stats"`
	ArchivedAt string              `json:"archivedAt,omitempty"`
}

// ArchiveService stores closed months in Azure Table Storage. Entities are
// partitioned by member id and keyed by month label.
type ArchiveService struct {
	serviceClient *aztables.ServiceClient
	table         string
}

// NewArchiveService connects to serviceURL and makes sure table exists.
func NewArchiveService(ctx context.Context, serviceURL, table string, cred azcore.TokenCredential) (*ArchiveService, error) {
	if serviceURL == "" {
		return nil, fmt.Errorf("table service URL is required")
	}
	if table == "" {
		table = "monthlyarchive"
	}

	var client *aztables.ServiceClient
	if isEmulator(serviceURL) {
		slog.Info("using Azurite credentials for archive service")
		name, key := emulatorAccount()
		sk, err := aztables.NewSharedKeyCredential(name, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		client, err = aztables.NewServiceClientWithSharedKey(serviceURL, sk, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create table service client with shared key: %w", err)
		}
	} else {
		var err error
		client, err = aztables.NewServiceClient(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create table service client: %w", err)
		}
	}

	svc := &ArchiveService{serviceClient: client, table: table}
	if err := svc.createTable(ctx); err != nil {
		return nil, err
	}

	slog.Info("archive service initialized successfully", "table_url", serviceURL, "archive_table", table)
	return svc, nil
}

func (s *ArchiveService) createTable(ctx context.Context) error {
	_, err := s.serviceClient.CreateTable(ctx, s.table, nil)
	if err != nil {
		var azErr *azcore.ResponseError
		if errors.As(err, &azErr) && azErr.ErrorCode == "TableAlreadyExists" {
			return nil
		}
		return fmt.Errorf("failed to create table %s: %w", s.table, err)
	}
	return nil
}

// ArchiveMonth upserts one member's closed month.
func (s *ArchiveService) ArchiveMonth(ctx context.Context, userID string, currency models.CurrencyCode, stats models.MonthlyStats) error {
	entity, err := json.Marshal(archiveEntity(userID, currency, stats, time.Now()))
	if err != nil {
		return fmt.Errorf("failed to marshal archive entity: %w", err)
	}

	client := s.serviceClient.NewClient(s.table)
	if _, err := client.UpsertEntity(ctx, entity, nil); err != nil {
		return fmt.Errorf("failed to archive month %s for user %s: %w", stats.Month, userID, err)
	}
	slog.Info("month archived", "user_id", userID, "month", stats.Month)
	return nil
}

// ListHistory returns every archived month of a member, oldest first.
func (s *ArchiveService) ListHistory(ctx context.Context, userID string) ([]ArchivedMonth, error) {
	client := s.serviceClient.NewClient(s.table)

	filter := fmt.Sprintf("PartitionKey eq '%s'", strings.ReplaceAll(userID, "'", "''"))
	pager := client.NewListEntitiesPager(&aztables.ListEntitiesOptions{
		Filter: &filter,
	})

	history := []ArchivedMonth{}
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list archived months: %w", err)
		}
		for _, raw := range resp.Entities {
			m, err := parseArchiveEntity(raw)
			if err != nil {
				slog.Warn("skipping unreadable archive entity", "user_id", userID, "error", err)
				continue
			}
			history = append(history, m)
		}
	}

	sort.Slice(history, func(i, j int) bool {
		return history[i].Stats.Month < history[j].Stats.Month
	})
	return history, nil
}

// Amounts are stored as strings to keep decimal precision.
func archiveEntity(userID string, currency models.CurrencyCode, stats models.MonthlyStats, at time.Time) map[string]any {
	return map[string]any{
		"PartitionKey": userID,
		"RowKey":       stats.Month,
		"Currency":     string(currency),
		"Income":       stats.Income.String(),
		"Expenses":     stats.Expenses.String(),
		"NetWorth":     stats.NetWorth.String(),
		"ArchivedAt":   at.UTC().Format(time.RFC3339),
	}
}

func parseArchiveEntity(raw []byte) (ArchivedMonth, error) {
	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ArchivedMonth{}, err
	}

	getString := func(key string) string {
		if v, ok := parsed[key].(string); ok {
			return v
		}
		return ""
	}
	getDecimal := func(key string) decimal.Decimal {
		switch v := parsed[key].(type) {
		case string:
			d, err := decimal.NewFromString(v)
			if err != nil {
				return decimal.Zero
			}
			return d
		case float64:
			return decimal.NewFromFloat(v)
		}
		return decimal.Zero
	}

	month := getString("RowKey")
	if month == "" {
		return ArchivedMonth{}, fmt.Errorf("archive entity has no RowKey")
	}
	return ArchivedMonth{
		UserID:   getString("PartitionKey"),
		Currency: models.CurrencyCode(getString("Currency")),
		Stats: models.MonthlyStats{
			Month:    month,
			Income:   getDecimal("Income"),
			Expenses: getDecimal("Expenses"),
			NetWorth: getDecimal("NetWorth"),
		},
		ArchivedAt: getString("ArchivedAt"),
	}, nil
}
