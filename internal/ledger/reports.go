package ledger

import (
	"sort"
	"time"

	"github.com/rocjay1/jars-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// JarFlow is the money that went into and out of one jar, in base currency.
type JarFlow struct {
	JarID     models.JarID    `json:"jarId"`
	Name      string          `json:"name"`
	Allocated decimal.Decimal `json:"allocated"`
	Spent     decimal.Decimal `json:"spent"`
}

// FlowSummary is the income/expense picture behind the dashboard charts.
type FlowSummary struct {
	Currency      models.CurrencyCode `json:"currency"`
	TotalIncome   decimal.Decimal     `json:"totalIncome"`
	TotalExpenses decimal.Decimal     `json:"totalExpenses"`
	Cashflow      decimal.Decimal     `json:"cashflow"`
	Jars          []JarFlow           `json:"jars"`
}

// JarFlows derives per-jar flows from a transaction log. Income is spread by
// each jar's current percentage; expenses count against the jar they debited.
func JarFlows(u models.UserFinancials, conv models.Converter, base models.CurrencyCode) FlowSummary {
	sum := FlowSummary{
		Currency:      base,
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		Jars:          make([]JarFlow, 0, models.NumJars),
	}
	var allocated, spent [models.NumJars]decimal.Decimal

	for _, t := range u.Transactions {
		amountBase := conv.Convert(t.Amount, t.Currency, base)
		switch t.Type {
		case models.TransactionIncome:
			sum.TotalIncome = sum.TotalIncome.Add(amountBase)
			for _, id := range models.AllJars {
				allocated[id] = allocated[id].Add(amountBase.Mul(u.Jars[id].Percentage.Div(hundred)))
			}
		case models.TransactionExpense:
			sum.TotalExpenses = sum.TotalExpenses.Add(amountBase)
			if t.JarID != nil && t.JarID.Valid() {
				spent[*t.JarID] = spent[*t.JarID].Add(amountBase)
			}
		}
	}

	for _, id := range models.AllJars {
		sum.Jars = append(sum.Jars, JarFlow{
			JarID:     id,
			Name:      u.Jars[id].Name,
			Allocated: allocated[id],
			Spent:     spent[id],
		})
	}
	sum.Cashflow = sum.TotalIncome.Sub(sum.TotalExpenses)
	return sum
}

// ExpenseGroup totals a jar's expenses sharing one description.
type ExpenseGroup struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// JarHistoryEntry is one line of a jar's history: a direct expense or the
// implied share of an income.
type JarHistoryEntry struct {
	ID           string              `json:"id"`
	Date         time.Time           `json:"date"`
	Description  string              `json:"description"`
	Amount       decimal.Decimal     `json:"amount"`
	Currency     models.CurrencyCode `json:"currency"`
	IsAllocation bool                `json:"isAllocation"`
}

// JarDetail breaks down the activity of one jar.
//
// AllocatedIncome, Expenses, NetFlow and the groups are converted to base
// before summing. LegacyRawExpenses and LegacyRawAllocated add the raw entered
// amounts regardless of currency, the way the dashboard used to.
type JarDetail struct {
	Jar                models.Jar          `json:"jar"`
	Currency           models.CurrencyCode `json:"currency"`
	AllocatedIncome    decimal.Decimal     `json:"allocatedIncome"`
	Expenses           decimal.Decimal     `json:"expenses"`
	NetFlow            decimal.Decimal     `json:"netFlow"`
	ExpensesByDesc     []ExpenseGroup      `json:"expensesByDescription"`
	History            []JarHistoryEntry   `json:"history"`
	LegacyRawExpenses  decimal.Decimal     `json:"legacyRawExpenses"`
	LegacyRawAllocated decimal.Decimal     `json:"legacyRawAllocated"`
}

// NewJarDetail computes the breakdown of jar id over u's transactions. Income
// shares use the jar's current percentage since allocations are not stored.
func NewJarDetail(u models.UserFinancials, id models.JarID, conv models.Converter, base models.CurrencyCode) (JarDetail, error) {
	if !id.Valid() {
		return JarDetail{}, models.ErrUnknownJar
	}
	jar := u.Jars[id]
	share := jar.Percentage.Div(hundred)

	d := JarDetail{
		Jar:                jar,
		Currency:           base,
		AllocatedIncome:    decimal.Zero,
		Expenses:           decimal.Zero,
		ExpensesByDesc:     []ExpenseGroup{},
		History:            []JarHistoryEntry{},
		LegacyRawExpenses:  decimal.Zero,
		LegacyRawAllocated: decimal.Zero,
	}

	byDesc := map[string]decimal.Decimal{}
	var order []string
	for _, t := range u.Transactions {
		amountBase := conv.Convert(t.Amount, t.Currency, base)
		switch {
		case t.Type == models.TransactionExpense && t.JarID != nil && *t.JarID == id:
			d.Expenses = d.Expenses.Add(amountBase)
			d.LegacyRawExpenses = d.LegacyRawExpenses.Add(t.Amount)
			if _, seen := byDesc[t.Description]; !seen {
				order = append(order, t.Description)
			}
			byDesc[t.Description] = byDesc[t.Description].Add(amountBase)
			d.History = append(d.History, JarHistoryEntry{
				ID:          t.ID,
				Date:        t.Date,
				Description: t.Description,
				Amount:      t.Amount,
				Currency:    t.Currency,
			})
		case t.Type == models.TransactionIncome:
			d.AllocatedIncome = d.AllocatedIncome.Add(amountBase.Mul(share))
			d.LegacyRawAllocated = d.LegacyRawAllocated.Add(t.Amount.Mul(share))
			d.History = append(d.History, JarHistoryEntry{
				ID:           "alloc-" + t.ID,
				Date:         t.Date,
				Description:  "Asignación: " + t.Description,
				Amount:       t.Amount.Mul(share),
				Currency:     t.Currency,
				IsAllocation: true,
			})
		}
	}
	d.NetFlow = d.AllocatedIncome.Sub(d.Expenses)

	for _, desc := range order {
		d.ExpensesByDesc = append(d.ExpensesByDesc, ExpenseGroup{Description: desc, Amount: byDesc[desc]})
	}
	sort.SliceStable(d.ExpensesByDesc, func(i, j int) bool {
		return d.ExpensesByDesc[i].Amount.GreaterThan(d.ExpensesByDesc[j].Amount)
	})
	sort.SliceStable(d.History, func(i, j int) bool {
		return d.History[i].Date.After(d.History[j].Date)
	})
	return d, nil
}

// Dashboard is everything the main screen shows for the displayed view.
type Dashboard struct {
	ViewMode     ViewMode              `json:"viewMode"`
	ActiveUserID string                `json:"activeUserId"`
	Financials   models.UserFinancials `json:"financials"`
	BalanceSheet models.BalanceSheet   `json:"balanceSheet"`
	Flows        FlowSummary           `json:"flows"`
}

// Dashboard computes the displayed projection with its derived summaries.
func (s *Store) Dashboard() Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := s.displayed()
	conv := s.converter()
	return Dashboard{
		ViewMode:     s.viewMode,
		ActiveUserID: s.activeUser,
		Financials:   view,
		BalanceSheet: models.NewBalanceSheet(view.Assets, view.Liabilities, conv, s.base),
		Flows:        JarFlows(view, conv, s.base),
	}
}

// BalanceSheet totals the displayed assets and liabilities in base currency.
func (s *Store) BalanceSheet() models.BalanceSheet {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := s.displayed()
	return models.NewBalanceSheet(view.Assets, view.Liabilities, s.converter(), s.base)
}

// JarDetail breaks down one jar of the displayed view.
func (s *Store) JarDetail(id models.JarID) (JarDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return NewJarDetail(s.displayed(), id, s.converter(), s.base)
}

// Debts ranks the displayed liabilities.
func (s *Store) Debts(strategy models.DebtStrategy) []models.Liability {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.PrioritizeDebts(s.displayed().Liabilities, strategy)
}
