package ledger

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/rocjay1/jars-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// ImportResult reports the outcome of a bulk import. Duplicate is set when the
// source had already been imported for the user and nothing was recorded.
type ImportResult struct {
	UserID    string   `json:"userId"`
	Source    string   `json:"source,omitempty"`
	Imported  int      `json:"imported"`
	Duplicate bool     `json:"duplicate,omitempty"`
	Errors    []string `json:"errors"`
}

type importKey struct {
	userID string
	source string
}

// ImportTransactions records parsed rows for one member, independent of the
// session's active user and view mode. Income rows use automatic distribution
// and expense rows accept overdrafts. A row that fails validation is reported
// and skipped; the others are still recorded.
//
// source names the file the rows came from. A source already imported for the
// user is skipped, so a redelivered queue message does not record its rows
// twice. An empty source disables the check.
func (s *Store) ImportTransactions(userID, source string, rows []models.Transaction) (ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return ImportResult{}, fmt.Errorf("%w: %s", ErrUnknownUser, userID)
	}

	key := importKey{userID: userID, source: source}
	if source != "" {
		if _, seen := s.importedSources[key]; seen {
			slog.Warn("skipping already imported source", "user_id", userID, "source", source)
			return ImportResult{UserID: userID, Source: source, Duplicate: true, Errors: []string{}}, nil
		}
	}

	res := ImportResult{UserID: userID, Source: source, Errors: []string{}}
	for i, row := range rows {
		at := row.Date
		if at.IsZero() {
			at = s.now()
		}

		var err error
		switch row.Type {
		case models.TransactionIncome:
			_, err = s.recordIncome(u, IncomeRequest{
				Amount:      row.Amount,
				Currency:    row.Currency,
				Description: row.Description,
				Mode:        DistributionAuto,
				IsPassive:   row.IsPassive,
			}, at)
		case models.TransactionExpense:
			_, err = s.recordExpense(u, ExpenseRequest{
				Amount:           row.Amount,
				Currency:         row.Currency,
				Description:      row.Description,
				JarID:            row.JarID,
				ConfirmOverdraft: true,
				IsPassive:        row.IsPassive,
			}, at)
		default:
			err = fmt.Errorf("invalid transaction type %q", row.Type)
		}

		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Transaction %d: %v", i+1, err))
			continue
		}
		res.Imported++
	}

	if source != "" {
		s.importedSources[key] = struct{}{}
	}
	slog.Info("transactions imported", "user_id", userID, "source", source, "imported", res.Imported, "failed", len(res.Errors))
	return res, nil
}

// ClosedMonth is a finished stats entry for one member.
type ClosedMonth struct {
	UserID   string              `json:"userId"`
	UserName string              `json:"userName"`
	Currency models.CurrencyCode `json:"currency"`
	Stats    models.MonthlyStats `json:"stats"`
}

// CloseMonth freezes every member's current stats entry and opens a new one
// for the month of now, carrying net worth forward. Members whose current
// entry already belongs to that month are left alone, so repeated calls are
// harmless. Every closed month is also queued in PendingArchive until
// MarkArchived is called for it.
func (s *Store) CloseMonth(now time.Time) []ClosedMonth {
	s.mu.Lock()
	defer s.mu.Unlock()

	label := models.MonthLabel(now)
	var closed []ClosedMonth
	for _, m := range s.members {
		u := s.users[m.ID]
		cur := u.CurrentStats()
		if cur == nil || cur.Month == label {
			continue
		}

		finished := *cur
		u.MonthlyStats = append(u.MonthlyStats, models.MonthlyStats{
			Month:    label,
			Income:   decimal.Zero,
			Expenses: decimal.Zero,
			NetWorth: finished.NetWorth,
		})
		cm := ClosedMonth{
			UserID:   m.ID,
			UserName: m.Name,
			Currency: s.base,
			Stats:    finished,
		}
		closed = append(closed, cm)
		s.pendingArchive = append(s.pendingArchive, cm)
		slog.Info("month closed", "user_id", m.ID, "month", finished.Month, "net_worth", finished.NetWorth.String())
	}
	return closed
}

// PendingArchive returns the closed months that have not been archived yet,
// oldest first.
func (s *Store) PendingArchive() []ClosedMonth {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ClosedMonth{}, s.pendingArchive...)
}

// MarkArchived drops one closed month from the pending list once it has been
// stored.
func (s *Store) MarkArchived(userID, month string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, cm := range s.pendingArchive {
		if cm.UserID == userID && cm.Stats.Month == month {
			s.pendingArchive = append(s.pendingArchive[:i:i], s.pendingArchive[i+1:]...)
			return
		}
	}
}
