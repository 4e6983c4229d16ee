package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthLabelLayout formats the month label of a MonthlyStats entry.
const MonthLabelLayout = "2006-01"

// MonthLabel returns the stats label for the month containing t.
func MonthLabel(t time.Time) string {
	return t.Format(MonthLabelLayout)
}

// MonthlyStats aggregates one calendar month in base currency.
type MonthlyStats struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	NetWorth decimal.Decimal `json:"netWorth"`
}

// Apply folds a base-currency transaction amount into the entry.
func (s MonthlyStats) Apply(kind TransactionType, amountBase decimal.Decimal) MonthlyStats {
	switch kind {
	case TransactionIncome:
		s.Income = s.Income.Add(amountBase)
		s.NetWorth = s.NetWorth.Add(amountBase)
	case TransactionExpense:
		s.Expenses = s.Expenses.Add(amountBase)
		s.NetWorth = s.NetWorth.Sub(amountBase)
	}
	return s
}

// Cashflow is income minus expenses.
func (s MonthlyStats) Cashflow() decimal.Decimal {
	return s.Income.Sub(s.Expenses)
}
