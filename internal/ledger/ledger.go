package ledger

import (
	"log/slog"
	"strings"

	"github.com/rocjay1/jars-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// commit applies a finished jar mutation together with its transaction: the
// transaction is prepended to the log, its description is remembered, and the
// current month's stats absorb amountBase. Callers validate everything first;
// commit itself cannot fail.
func (s *Store) commit(u *models.UserFinancials, jars models.JarRegistry, tx models.Transaction, rawDescription string, amountBase decimal.Decimal) {
	u.Jars = jars
	u.Transactions = append([]models.Transaction{tx}, u.Transactions...)
	s.rememberDescription(rawDescription)

	if cur := u.CurrentStats(); cur != nil {
		*cur = cur.Apply(tx.Type, amountBase)
	} else {
		slog.Warn("no monthly stats entry to update", "transaction_id", tx.ID)
	}

	slog.Info("transaction recorded",
		"transaction_id", tx.ID,
		"type", string(tx.Type),
		"amount", tx.Amount.String(),
		"currency", string(tx.Currency),
		"amount_base", amountBase.String(),
	)
}

// rememberDescription adds d to the saved descriptions unless it is empty or
// already known. Order is first-seen.
func (s *Store) rememberDescription(d string) {
	d = strings.TrimSpace(d)
	if d == "" {
		return
	}
	if _, ok := s.descriptionSet[d]; ok {
		return
	}
	s.descriptionSet[d] = struct{}{}
	s.descriptions = append(s.descriptions, d)
}
