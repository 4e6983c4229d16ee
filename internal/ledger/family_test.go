package ledger

import (
	"testing"

	"github.com/rocjay1/jars-ledger/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFamilyView_SumsBalances(t *testing.T) {
	members := DefaultMembers()
	u1 := models.NewUserFinancials("2025-05")
	u2 := models.NewUserFinancials("2025-05")
	u1.Jars[models.JarNEC].Balance = decimal.NewFromInt(10000000)
	u2.Jars[models.JarNEC].Balance = decimal.NewFromInt(5000000)
	u2.Jars[models.JarNEC].Name = "Otro nombre"
	u1.Assets = []models.Asset{{ID: "a1", Name: "Casa"}}
	u2.Assets = []models.Asset{{ID: "a2", Name: "Carro"}}
	u1.MonthlyStats[0].NetWorth = decimal.NewFromInt(42)

	view := FamilyView(members, map[string]*models.UserFinancials{"1": u1, "2": u2})

	assert.True(t, view.Jars[models.JarNEC].Balance.Equal(decimal.NewFromInt(15000000)))
	assert.True(t, view.Jars[models.JarLIB].Balance.IsZero())
	assert.Equal(t, "Necesidades", view.Jars[models.JarNEC].Name)
	require.Len(t, view.Assets, 2)
	assert.Equal(t, "a1", view.Assets[0].ID)
	assert.Equal(t, "a2", view.Assets[1].ID)
	require.Len(t, view.MonthlyStats, 1)
	assert.True(t, view.MonthlyStats[0].NetWorth.Equal(decimal.NewFromInt(42)))
}

func TestFamilyView_DoesNotAliasUsers(t *testing.T) {
	u1 := models.NewUserFinancials("2025-05")
	users := map[string]*models.UserFinancials{"1": u1}
	members := []models.FamilyMember{{ID: "1", Name: "Solo"}}

	view := FamilyView(members, users)
	view.Jars[models.JarNEC].Balance = decimal.NewFromInt(99)
	view.MonthlyStats[0].Income = decimal.NewFromInt(99)

	assert.True(t, u1.Jars[models.JarNEC].Balance.IsZero())
	assert.True(t, u1.MonthlyStats[0].Income.IsZero())
}

func TestStore_DisplayedFollowsViewMode(t *testing.T) {
	s := newTestStore(t)
	_, err := s.RecordIncome(IncomeRequest{Amount: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	require.NoError(t, s.SwitchUser("2"))
	_, err = s.RecordIncome(IncomeRequest{Amount: decimal.NewFromInt(3000)})
	require.NoError(t, err)

	assert.True(t, s.Displayed().Jars.TotalBalance().Equal(decimal.NewFromInt(3000)))

	require.NoError(t, s.SetViewMode(ViewFamily))
	family := s.Displayed()
	assert.True(t, family.Jars.TotalBalance().Equal(decimal.NewFromInt(4000)))
	assert.Len(t, family.Transactions, 2)
	// Trend line comes from the first member.
	assert.True(t, family.CurrentStats().Income.Equal(decimal.NewFromInt(1000)))
}
