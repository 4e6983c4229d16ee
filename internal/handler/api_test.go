package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rocjay1/jars-ledger/internal/ledger"
	"github.com/rocjay1/jars-ledger/internal/models"
	"github.com/rocjay1/jars-ledger/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dashboardBody struct {
	ViewMode   ledger.ViewMode `json:"viewMode"`
	Financials struct {
		Jars         models.JarRegistry   `json:"jars"`
		Transactions []models.Transaction `json:"transactions"`
	} `json:"financials"`
	BalanceSheet models.BalanceSheet `json:"balanceSheet"`
}

type errorBody struct {
	Error                string          `json:"error"`
	RequiresConfirmation bool            `json:"requiresConfirmation"`
	Difference           decimal.Decimal `json:"difference"`
	Total                decimal.Decimal `json:"total"`
}

func TestHealth(t *testing.T) {
	_, h := newTestDeps(t)

	w := doJSON(t, h, http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestIncome_AutoDistribution(t *testing.T) {
	_, h := newTestDeps(t)

	w := doJSON(t, h, http.MethodPost, "/api/income", `{"amount":1000000,"currency":"COP","description":"Salario"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	dash := decodeBody[dashboardBody](t, doJSON(t, h, http.MethodGet, "/api/dashboard", nil))
	assert.True(t, dash.Financials.Jars[models.JarNEC].Balance.Equal(decimal.NewFromInt(550000)))
	assert.True(t, dash.Financials.Jars[models.JarDAR].Balance.Equal(decimal.NewFromInt(50000)))
	assert.True(t, dash.Financials.Jars.TotalBalance().Equal(decimal.NewFromInt(1000000)))
	require.Len(t, dash.Financials.Transactions, 1)
	assert.Equal(t, "Salario", dash.Financials.Transactions[0].Description)
}

func TestIncome_ManualMismatch(t *testing.T) {
	_, h := newTestDeps(t)

	w := doJSON(t, h, http.MethodPost, "/api/income", `{
		"amount": 1000,
		"mode": "manual",
		"manualAllocations": {"NEC": 500, "LIB": 400}
	}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeBody[errorBody](t, w)
	assert.True(t, body.Difference.Equal(decimal.NewFromInt(100)), body.Difference.String())

	txs := decodeBody[[]models.Transaction](t, doJSON(t, h, http.MethodGet, "/api/transactions", nil))
	assert.Empty(t, txs)
}

func TestIncome_Validation(t *testing.T) {
	_, h := newTestDeps(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{"amount":`, http.StatusBadRequest},
		{"zero amount", `{"amount":0}`, http.StatusUnprocessableEntity},
		{"unknown currency", `{"amount":10,"currency":"GBP"}`, http.StatusUnprocessableEntity},
		{"unknown mode", `{"amount":10,"mode":"weekly"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, h, http.MethodPost, "/api/income", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestExpense_OverdraftNeedsConfirmation(t *testing.T) {
	_, h := newTestDeps(t)
	require.Equal(t, http.StatusCreated, doJSON(t, h, http.MethodPost, "/api/income", `{"amount":1000000}`).Code)

	// JUE holds 100,000
	w := doJSON(t, h, http.MethodPost, "/api/expense", `{"amount":150000,"jarId":"JUE","description":"Concierto"}`)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.True(t, decodeBody[errorBody](t, w).RequiresConfirmation)

	w = doJSON(t, h, http.MethodPost, "/api/expense", `{"amount":150000,"jarId":"JUE","description":"Concierto","confirmOverdraft":true}`)
	require.Equal(t, http.StatusCreated, w.Code)

	dash := decodeBody[dashboardBody](t, doJSON(t, h, http.MethodGet, "/api/dashboard", nil))
	assert.True(t, dash.Financials.Jars[models.JarJUE].Balance.Equal(decimal.NewFromInt(-50000)))
	assert.True(t, dash.Financials.Jars[models.JarNEC].Balance.Equal(decimal.NewFromInt(550000)))
}

func TestExpense_UnknownJarIsBadRequest(t *testing.T) {
	_, h := newTestDeps(t)

	w := doJSON(t, h, http.MethodPost, "/api/expense", `{"amount":10,"jarId":"XYZ"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExpense_MissingJar(t *testing.T) {
	_, h := newTestDeps(t)
	require.Equal(t, http.StatusCreated, doJSON(t, h, http.MethodPost, "/api/income", `{"amount":1000000}`).Code)

	for _, body := range []string{
		`{"amount":1000,"description":"sin jarro"}`,
		`{"amount":1000,"description":"sin jarro","jarId":null}`,
	} {
		w := doJSON(t, h, http.MethodPost, "/api/expense", body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, body)
		assert.Contains(t, decodeBody[errorBody](t, w).Error, "unknown jar")
	}

	w := doJSON(t, h, http.MethodPost, "/api/expense/preview", `{"amount":1000}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	dash := decodeBody[dashboardBody](t, doJSON(t, h, http.MethodGet, "/api/dashboard", nil))
	assert.True(t, dash.Financials.Jars[models.JarNEC].Balance.Equal(decimal.NewFromInt(550000)))
	assert.Len(t, dash.Financials.Transactions, 1)
}

func TestExpensePreview(t *testing.T) {
	_, h := newTestDeps(t)
	require.Equal(t, http.StatusCreated, doJSON(t, h, http.MethodPost, "/api/income", `{"amount":1000000}`).Code)

	w := doJSON(t, h, http.MethodPost, "/api/expense/preview", `{"amount":30,"currency":"USD","jarId":"JUE"}`)
	require.Equal(t, http.StatusOK, w.Code)

	preview := decodeBody[ledger.ExpensePreview](t, w)
	assert.True(t, preview.AmountBase.Equal(decimal.NewFromInt(120000)))
	assert.True(t, preview.ExceedsBalance)

	txs := decodeBody[[]models.Transaction](t, doJSON(t, h, http.MethodGet, "/api/transactions", nil))
	assert.Len(t, txs, 1)
}

func TestFamilyViewIsReadOnly(t *testing.T) {
	_, h := newTestDeps(t)

	w := doJSON(t, h, http.MethodPost, "/api/session/view", `{"mode":"family"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ledger.ViewFamily, decodeBody[ledger.State](t, w).ViewMode)

	w = doJSON(t, h, http.MethodPost, "/api/income", `{"amount":1000}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	body := decodeBody[errorBody](t, w)
	assert.False(t, body.RequiresConfirmation)
	assert.Contains(t, body.Error, "read-only")

	w = doJSON(t, h, http.MethodPost, "/api/session/view", `{"mode":"everyone"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSwitchUser(t *testing.T) {
	_, h := newTestDeps(t)

	w := doJSON(t, h, http.MethodPost, "/api/session/user", `{"userId":"2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", decodeBody[ledger.State](t, w).ActiveUserID)

	w = doJSON(t, h, http.MethodPost, "/api/session/user", `{"userId":"99"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaveJarConfig_Unbalanced(t *testing.T) {
	_, h := newTestDeps(t)

	jars := models.DefaultJarRegistry()
	jars[models.JarDAR].Percentage = decimal.Zero // 95%

	w := doJSON(t, h, http.MethodPut, "/api/jars", map[string]any{"jars": jars})
	require.Equal(t, http.StatusConflict, w.Code)
	body := decodeBody[errorBody](t, w)
	assert.True(t, body.RequiresConfirmation)
	assert.True(t, body.Total.Equal(decimal.NewFromInt(95)))

	w = doJSON(t, h, http.MethodPut, "/api/jars", map[string]any{"jars": jars, "confirmUnbalanced": true})
	require.Equal(t, http.StatusOK, w.Code)
	saved := decodeBody[models.JarRegistry](t, w)
	assert.True(t, saved[models.JarDAR].Percentage.IsZero())
}

func TestJarDetail(t *testing.T) {
	_, h := newTestDeps(t)
	require.Equal(t, http.StatusCreated, doJSON(t, h, http.MethodPost, "/api/income", `{"amount":1000000}`).Code)

	w := doJSON(t, h, http.MethodGet, "/api/jars/nec", nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decodeBody[struct {
		AllocatedIncome decimal.Decimal `json:"allocatedIncome"`
	}](t, w)
	assert.True(t, detail.AllocatedIncome.Equal(decimal.NewFromInt(550000)))

	w = doJSON(t, h, http.MethodGet, "/api/jars/XYZ", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssetsAndLiabilities(t *testing.T) {
	_, h := newTestDeps(t)

	w := doJSON(t, h, http.MethodPost, "/api/assets", `{"name":"Apartamento","value":300000000,"currency":"COP","monthlyCashflow":1500000,"type":"RealEstate"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	asset := decodeBody[models.Asset](t, w)
	assert.Equal(t, "1", asset.OwnerID)
	assert.NotEmpty(t, asset.ID)

	w = doJSON(t, h, http.MethodPost, "/api/assets", `{"name":"  ","value":10,"currency":"COP"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/liabilities", `{"name":"Tarjeta","totalOwed":1000,"currency":"USD","monthlyPayment":100,"interestRate":28}`)
	require.Equal(t, http.StatusCreated, w.Code)
	liability := decodeBody[models.Liability](t, w)
	assert.Equal(t, models.LiabilityLoan, liability.Type)

	w = doJSON(t, h, http.MethodPut, "/api/liabilities", map[string]any{
		"id": liability.ID, "name": "Tarjeta Visa", "totalOwed": "800", "currency": "USD", "type": "CreditCard",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Tarjeta Visa", decodeBody[models.Liability](t, w).Name)

	bs := decodeBody[models.BalanceSheet](t, doJSON(t, h, http.MethodGet, "/api/balance-sheet", nil))
	assert.True(t, bs.TotalAssets.Equal(decimal.NewFromInt(300000000)))
	assert.True(t, bs.TotalLiabilities.Equal(decimal.NewFromInt(3200000)))

	w = doJSON(t, h, http.MethodDelete, "/api/assets?id="+asset.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, h, http.MethodDelete, "/api/assets?id="+asset.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, h, http.MethodDelete, "/api/liabilities", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDebts(t *testing.T) {
	_, h := newTestDeps(t)
	for _, body := range []string{
		`{"name":"Carro","totalOwed":40000000,"currency":"COP","interestRate":12}`,
		`{"name":"Tarjeta","totalOwed":2000000,"currency":"COP","interestRate":30}`,
		`{"name":"Libre inversión","totalOwed":10000000,"currency":"COP","interestRate":18}`,
	} {
		require.Equal(t, http.StatusCreated, doJSON(t, h, http.MethodPost, "/api/liabilities", body).Code)
	}

	type ranked struct {
		Strategy models.DebtStrategy `json:"strategy"`
		Debts    []struct {
			Name     string `json:"name"`
			Priority bool   `json:"priority"`
		} `json:"debts"`
	}

	got := decodeBody[ranked](t, doJSON(t, h, http.MethodGet, "/api/debts?strategy=avalanche", nil))
	require.Len(t, got.Debts, 3)
	assert.Equal(t, "Tarjeta", got.Debts[0].Name)
	assert.True(t, got.Debts[0].Priority)
	assert.False(t, got.Debts[1].Priority)

	got = decodeBody[ranked](t, doJSON(t, h, http.MethodGet, "/api/debts", nil))
	assert.Equal(t, models.StrategySnowball, got.Strategy)
	assert.Equal(t, "Tarjeta", got.Debts[0].Name)
	assert.Equal(t, "Carro", got.Debts[2].Name)

	w := doJSON(t, h, http.MethodGet, "/api/debts?strategy=random", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRates(t *testing.T) {
	_, h := newTestDeps(t)
	require.Equal(t, http.StatusCreated, doJSON(t, h, http.MethodPost, "/api/income", `{"amount":4000000}`).Code)

	w := doJSON(t, h, http.MethodPut, "/api/rates", `{"usd":0,"eur":4300}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, h, http.MethodPut, "/api/rates", `{"usd":4000,"eur":4300,"baseCurrency":"USD"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.CurrencyUSD, decodeBody[ledger.State](t, w).BaseCurrency)

	dash := decodeBody[dashboardBody](t, doJSON(t, h, http.MethodGet, "/api/dashboard", nil))
	assert.True(t, dash.Financials.Jars.TotalBalance().Equal(decimal.NewFromInt(1000)))
}

func TestAdvice(t *testing.T) {
	deps, h := newTestDeps(t)
	require.Equal(t, http.StatusCreated, doJSON(t, h, http.MethodPost, "/api/income", `{"amount":1000000}`).Code)

	w := doJSON(t, h, http.MethodPost, "/api/advice", `{"question":"¿Cómo voy?"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.AdviceFailed, decodeBody[map[string]string](t, w)["advice"])

	var got services.AdviceContext
	deps.Advice = &MockAdviceClient{
		GetAdviceFunc: func(ctx context.Context, c services.AdviceContext, question string) string {
			got = c
			assert.Equal(t, "¿Cómo voy?", question)
			return "Sigue así"
		},
	}
	w = doJSON(t, h, http.MethodPost, "/api/advice", `{"question":"¿Cómo voy?"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Sigue así", decodeBody[map[string]string](t, w)["advice"])
	assert.Equal(t, "Roberto", got.UserName)
	assert.Equal(t, "COP", got.Currency)
	assert.True(t, got.FreedomBalance.Equal(decimal.NewFromInt(100000)))

	require.Equal(t, http.StatusOK, doJSON(t, h, http.MethodPost, "/api/session/view", `{"mode":"family"}`).Code)
	require.Equal(t, http.StatusOK, doJSON(t, h, http.MethodPost, "/api/advice", `{}`).Code)
	assert.Equal(t, familyName, got.UserName)
}

func TestHistory(t *testing.T) {
	deps, h := newTestDeps(t)

	w := doJSON(t, h, http.MethodGet, "/api/history", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	deps.Archive = &MockArchiveClient{
		ListHistoryFunc: func(ctx context.Context, userID string) ([]services.ArchivedMonth, error) {
			if userID == "2" {
				return nil, errors.New("table unavailable")
			}
			return []services.ArchivedMonth{{UserID: userID, Stats: models.MonthlyStats{Month: "2025-04"}}}, nil
		},
	}

	w = doJSON(t, h, http.MethodGet, "/api/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decodeBody[[]services.ArchivedMonth](t, w)
	require.Len(t, history, 1)
	assert.Equal(t, "1", history[0].UserID)

	w = doJSON(t, h, http.MethodGet, "/api/history?user=2", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/history?user=42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnmatchedRoute(t *testing.T) {
	_, h := newTestDeps(t)

	w := doJSON(t, h, http.MethodGet, "/api/nothing-here", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
