package services

import (
	"fmt"
	"html"
	"strings"

	"github.com/rocjay1/jars-ledger/internal/models"
)

// RenderErrorSection renders the list of skipped rows.
func RenderErrorSection(errors []string) string {
	if len(errors) == 0 {
		return ""
	}

	var items strings.Builder
	for _, e := range errors {
		items.WriteString(fmt.Sprintf("<li>%s</li>", html.EscapeString(e)))
	}

	return fmt.Sprintf(`
		<div style="background-color: #fff4f4; border-left: 5px solid #d13438; padding: 15px; margin-bottom: 20px;">
			<h3 style="color: #d13438; margin-top: 0; font-size: 18px;">Algunas transacciones no se importaron</h3>
			<ul style="margin-bottom: 0; padding-left: 20px;">
				%s
			</ul>
		</div>
	`, items.String())
}

// RenderImportErrorBody renders the full HTML body for an import error email.
func RenderImportErrorBody(userName string, errors []string) string {
	return fmt.Sprintf(`
		<html>
		<body style="font-family: 'Segoe UI', sans-serif; color: #333; line-height: 1.6; background-color: #f4f4f4; margin: 0; padding: 20px;">
			<div style="max-width: 600px; margin: 0 auto; background: white; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
				<div style="background-color: #d13438; padding: 20px; text-align: center; color: white;">
					<h2 style="margin: 0;">Importación con errores</h2>
				</div>
				<div style="padding: 20px;">
					<p>El archivo CSV de <strong>%s</strong> se procesó con los siguientes errores:</p>
					%s
				</div>
			</div>
		</body>
		</html>
	`, html.EscapeString(userName), RenderErrorSection(errors))
}

// RenderMonthlySummary renders the month-close email of one member.
func RenderMonthlySummary(userName string, currency models.CurrencyCode, stats models.MonthlyStats) string {
	cashflow := stats.Cashflow()
	color := "#107c10"
	if cashflow.IsNegative() {
		color = "#d13438"
	}

	row := func(label, value string) string {
		return fmt.Sprintf(`<tr><td style="padding: 8px 0; color: #666;">%s</td><td style="padding: 8px 0; text-align: right; font-weight: 600;">%s</td></tr>`, label, value)
	}
	money := func(v string) string {
		return fmt.Sprintf("$%s %s", v, currency)
	}

	return fmt.Sprintf(`
		<html>
		<body style="font-family: 'Segoe UI', sans-serif; color: #333; line-height: 1.6; background-color: #f4f4f4; margin: 0; padding: 20px;">
			<div style="max-width: 600px; margin: 0 auto; background: white; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
				<div style="background-color: #059669; padding: 20px; text-align: center; color: white;">
					<h2 style="margin: 0;">Resumen de %s</h2>
					<p style="margin: 4px 0 0;">%s</p>
				</div>
				<div style="padding: 20px;">
					<table style="width: 100%%; border-collapse: collapse;">
						%s
						%s
						<tr><td style="padding: 8px 0; color: #666;">Flujo de caja</td><td style="padding: 8px 0; text-align: right; font-weight: 600; color: %s;">%s</td></tr>
						%s
					</table>
				</div>
			</div>
		</body>
		</html>
	`,
		html.EscapeString(stats.Month),
		html.EscapeString(userName),
		row("Ingresos", money(stats.Income.StringFixed(2))),
		row("Gastos", money(stats.Expenses.StringFixed(2))),
		color, money(cashflow.StringFixed(2)),
		row("Patrimonio neto", money(stats.NetWorth.StringFixed(2))),
	)
}
