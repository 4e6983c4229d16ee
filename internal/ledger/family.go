package ledger

import (
	"github.com/rocjay1/jars-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// FamilyView builds the family rollup from the per-member ledgers. It is
// recomputed on every call and never stored.
//
// Jar balances are summed per jar. Name, description, percentage and color
// come from the first roster member and are cosmetic. Assets, liabilities and
// transactions are concatenated in roster order. Monthly stats are not merged:
// the first member's history stands in as the trend line.
func FamilyView(members []models.FamilyMember, users map[string]*models.UserFinancials) models.UserFinancials {
	view := models.UserFinancials{
		Jars:         models.DefaultJarRegistry(),
		Assets:       []models.Asset{},
		Liabilities:  []models.Liability{},
		Transactions: []models.Transaction{},
		MonthlyStats: []models.MonthlyStats{},
	}
	for _, id := range models.AllJars {
		view.Jars[id].Balance = decimal.Zero
	}

	first := true
	for _, m := range members {
		u, ok := users[m.ID]
		if !ok {
			continue
		}
		if first {
			view.Jars = view.Jars.WithConfig(u.Jars)
			view.MonthlyStats = append(view.MonthlyStats, u.MonthlyStats...)
			first = false
		}
		for _, id := range models.AllJars {
			view.Jars[id].Balance = view.Jars[id].Balance.Add(u.Jars[id].Balance)
		}
		view.Assets = append(view.Assets, u.Assets...)
		view.Liabilities = append(view.Liabilities, u.Liabilities...)
		view.Transactions = append(view.Transactions, u.Transactions...)
	}
	return view
}
