package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

// Transaction is an immutable ledger record. Amount is always positive and kept
// in the currency it was entered in; the sign comes from Type.
type Transaction struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    CurrencyCode    `json:"currency"`
	Type        TransactionType `json:"type"`
	JarID       *JarID          `json:"jarId,omitempty"` // debited jar, expenses only
	IsPassive   bool            `json:"isPassive"`
}

// SignedAmount returns the amount with the sign implied by the type.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
