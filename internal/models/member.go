package models

import (
	"github.com/shopspring/decimal"
)

// Role is a family member's role tag.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleMember Role = "Member"
	RoleChild  Role = "Child"
)

// FamilyMember is one profile on the family roster.
type FamilyMember struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar"`
}

// UserFinancials is everything one member owns: jars, balance sheet items,
// the transaction log (newest first) and the monthly stats history.
type UserFinancials struct {
	Jars         JarRegistry    `json:"jars"`
	Assets       []Asset        `json:"assets"`
	Liabilities  []Liability    `json:"liabilities"`
	Transactions []Transaction  `json:"transactions"`
	MonthlyStats []MonthlyStats `json:"monthlyStats"`
}

// NewUserFinancials returns an empty ledger with default jars and a single
// stats entry for month.
func NewUserFinancials(month string) *UserFinancials {
	return &UserFinancials{
		Jars:         DefaultJarRegistry(),
		Assets:       []Asset{},
		Liabilities:  []Liability{},
		Transactions: []Transaction{},
		MonthlyStats: []MonthlyStats{{
			Month:    month,
			Income:   decimal.Zero,
			Expenses: decimal.Zero,
			NetWorth: decimal.Zero,
		}},
	}
}

// Clone returns a deep copy safe to hand out of the store.
func (u *UserFinancials) Clone() UserFinancials {
	return UserFinancials{
		Jars:         u.Jars,
		Assets:       append([]Asset{}, u.Assets...),
		Liabilities:  append([]Liability{}, u.Liabilities...),
		Transactions: append([]Transaction{}, u.Transactions...),
		MonthlyStats: append([]MonthlyStats{}, u.MonthlyStats...),
	}
}

// CurrentStats returns the last (current month) stats entry.
func (u *UserFinancials) CurrentStats() *MonthlyStats {
	if len(u.MonthlyStats) == 0 {
		return nil
	}
	return &u.MonthlyStats[len(u.MonthlyStats)-1]
}

// GetTransactions returns the transactions of the given type, all when kind is empty.
func (u *UserFinancials) GetTransactions(kind TransactionType) []Transaction {
	var out []Transaction
	for _, t := range u.Transactions {
		if kind != "" && t.Type != kind {
			continue
		}
		out = append(out, t)
	}
	return out
}
