package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rocjay1/jars-ledger/internal/ledger"
	"golang.org/x/sync/errgroup"
)

// HandleNightlyTrigger closes the month when the calendar has moved on. It is
// safe to fire every night: members already in the current month are skipped
// and months whose archive failed earlier are retried.
func (d *Dependencies) HandleNightlyTrigger(w http.ResponseWriter, r *http.Request) {
	closed, err := d.RunMonthClose(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"closed": len(closed)})
}

// RunMonthClose rolls every member's stats into a new month, archives every
// closed month still pending and emails the summaries of the months closed by
// this run. A month leaves the pending list only once its archive succeeds, so
// a failed archive is retried on the next run. Archive failures are returned;
// email failures are only logged.
func (d *Dependencies) RunMonthClose(ctx context.Context) ([]ledger.ClosedMonth, error) {
	now := d.now()
	slog.Info("starting month close", "now", now.Format("2006-01-02"))

	closed := d.Store.CloseMonth(now)
	if len(closed) == 0 {
		slog.Info("no months to close")
	}

	// Archive and email calls are independent; one failure does not cancel the rest.
	var g errgroup.Group

	if d.Archive == nil {
		slog.Warn("archive is not configured; closed months are kept in memory only")
	} else {
		for _, c := range d.Store.PendingArchive() {
			g.Go(func() error {
				if err := d.Archive.ArchiveMonth(ctx, c.UserID, c.Currency, c.Stats); err != nil {
					slog.Error("failed to archive month", "user_id", c.UserID, "month", c.Stats.Month, "error", err)
					return fmt.Errorf("failed to archive %s for user %s: %w", c.Stats.Month, c.UserID, err)
				}
				d.Store.MarkArchived(c.UserID, c.Stats.Month)
				slog.Info("month archived", "user_id", c.UserID, "month", c.Stats.Month)
				return nil
			})
		}
	}

	switch {
	case len(closed) == 0:
	case d.Email == nil || d.UserEmail == "":
		slog.Warn("USER_EMAIL or email service is not set; skipping monthly summaries")
	default:
		for _, c := range closed {
			g.Go(func() error {
				if err := d.Email.SendMonthlySummary(ctx, []string{d.UserEmail}, c.UserName, c.Currency, c.Stats); err != nil {
					slog.Error("failed to send monthly summary", "user_id", c.UserID, "email", d.UserEmail, "error", err)
					return nil
				}
				slog.Info("monthly summary sent", "user_id", c.UserID, "month", c.Stats.Month)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return closed, err
	}
	slog.Info("month close complete", "closed", len(closed))
	return closed, nil
}
