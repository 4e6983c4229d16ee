package ledger

import (
	"fmt"
	"time"

	"github.com/rocjay1/jars-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultMembers is the roster used when none is configured.
func DefaultMembers() []models.FamilyMember {
	return []models.FamilyMember{
		{ID: "1", Name: "Roberto", Role: models.RoleAdmin, Avatar: "https://picsum.photos/200"},
		{ID: "2", Name: "Ana", Role: models.RoleMember, Avatar: "https://picsum.photos/201"},
	}
}

// DefaultDescriptions pre-fills the description suggestions.
var DefaultDescriptions = []string{
	"Salario Mensual", "Renta de Propiedad", "Dividendos", "Comestibles",
	"Restaurante", "Cine", "Gasolina", "Electricidad", "Internet", "Educación Online",
}

var demoBalances = [models.NumJars]int64{
	models.JarNEC: 10000000,
	models.JarLIB: 48000000,
	models.JarALP: 6000000,
	models.JarEDU: 1600000,
	models.JarJUE: 1200000,
	models.JarDAR: 600000,
}

var demoStats = []struct{ income, expenses, netWorth int64 }{
	{16000000, 14000000, 112000000},
	{16800000, 14400000, 114400000},
	{16000000, 13600000, 116800000},
	{18000000, 15200000, 119600000},
	{18400000, 15600000, 122400000},
}

// SeedDemo loads sample jars, balance sheet and five months of history into
// one member's ledger. The last stats entry is the current month. Amounts are
// in COP and are converted when the base differs.
func (s *Store) SeedDemo(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUser, userID)
	}
	conv := s.converter()
	cop := func(v int64) decimal.Decimal {
		return conv.Convert(decimal.NewFromInt(v), models.CurrencyCOP, s.base)
	}

	for _, id := range models.AllJars {
		u.Jars[id].Balance = cop(demoBalances[id])
	}

	u.Assets = []models.Asset{
		{ID: s.newID(), OwnerID: userID, Name: "Apartamento Renta", Value: decimal.NewFromInt(600000000), Currency: models.CurrencyCOP, MonthlyCashflow: decimal.NewFromInt(3200000), Type: models.AssetRealEstate},
		{ID: s.newID(), OwnerID: userID, Name: "Portafolio Dividendos", Value: decimal.NewFromInt(10000), Currency: models.CurrencyUSD, MonthlyCashflow: decimal.NewFromInt(40), Type: models.AssetStock},
	}
	u.Liabilities = []models.Liability{
		{ID: s.newID(), OwnerID: userID, Name: "Hipoteca Casa", TotalOwed: decimal.NewFromInt(480000000), Currency: models.CurrencyCOP, MonthlyPayment: decimal.NewFromInt(3600000), InterestRate: decimal.RequireFromString("12.5"), Type: models.LiabilityMortgage},
		{ID: s.newID(), OwnerID: userID, Name: "Préstamo Auto", TotalOwed: decimal.NewFromInt(6000), Currency: models.CurrencyUSD, MonthlyPayment: decimal.NewFromInt(150), InterestRate: decimal.RequireFromString("7.2"), Type: models.LiabilityCar},
	}

	now := s.now()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	u.MonthlyStats = make([]models.MonthlyStats, 0, len(demoStats))
	for i, st := range demoStats {
		month := current.AddDate(0, i-len(demoStats)+1, 0)
		u.MonthlyStats = append(u.MonthlyStats, models.MonthlyStats{
			Month:    models.MonthLabel(month),
			Income:   cop(st.income),
			Expenses: cop(st.expenses),
			NetWorth: cop(st.netWorth),
		})
	}
	return nil
}
