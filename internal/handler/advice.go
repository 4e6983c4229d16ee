package handler

import (
	"log/slog"
	"net/http"

	"github.com/rocjay1/jars-ledger/internal/ledger"
	"github.com/rocjay1/jars-ledger/internal/models"
	"github.com/rocjay1/jars-ledger/internal/services"
)

// familyName labels the advice context when the family view is displayed.
const familyName = "Familia"

// HandleAdvice asks the financial coach about the displayed view. The answer
// is always 200; coach failures come back as a fallback message.
func (d *Dependencies) HandleAdvice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if d.Advice == nil {
		slog.Warn("advice requested but the advice service is not configured")
		WriteJSON(w, http.StatusOK, map[string]string{"advice": services.AdviceFailed})
		return
	}

	adviceCtx := d.adviceContext(d.Store.Dashboard())
	slog.Info("requesting advice", "user", adviceCtx.UserName, "has_question", req.Question != "")
	advice := d.Advice.GetAdvice(r.Context(), adviceCtx, req.Question)
	WriteJSON(w, http.StatusOK, map[string]string{"advice": advice})
}

func (d *Dependencies) adviceContext(dash ledger.Dashboard) services.AdviceContext {
	name := familyName
	if dash.ViewMode == ledger.ViewIndividual {
		if m, ok := d.Store.Member(dash.ActiveUserID); ok {
			name = m.Name
		}
	}

	bs := dash.BalanceSheet
	return services.AdviceContext{
		UserName:         name,
		Currency:         string(bs.Currency),
		FreedomBalance:   dash.Financials.Jars[models.JarLIB].Balance,
		TotalAssets:      bs.TotalAssets,
		PassiveCashflow:  bs.PassiveIncome,
		TotalLiabilities: bs.TotalLiabilities,
		DebtPayments:     bs.DebtPayments,
	}
}
