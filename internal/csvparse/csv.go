package csvparse

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rocjay1/jars-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// DateLayout is the expected format of the Date column.
const DateLayout = "2006-01-02"

// ParseCSV parses transactions from a CSV string with the columns
// Date, Description, Amount, Currency, Type, Jar, Passive.
// It returns the valid rows and one error message per invalid row.
// Returned transactions have no ID; the ledger assigns one on import.
func ParseCSV(content string) ([]models.Transaction, []string) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, []string{fmt.Sprintf("Failed to read CSV: %v", err)}
	}

	if len(records) < 2 {
		return []models.Transaction{}, nil // Empty or header-only
	}

	headers := parseHeaders(records[0])
	transactions := []models.Transaction{}
	var errors []string

	for i, record := range records[1:] {
		rowNum := i + 2
		if len(record) < len(headers) {
			errors = append(errors, fmt.Sprintf("Row %d: Not enough fields", rowNum))
			continue
		}

		rowMap := make(map[string]string, len(headers))
		for j, header := range headers {
			rowMap[header] = strings.TrimSpace(record[j])
		}

		t, err := mapToTransaction(rowMap)
		if err != nil {
			errors = append(errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		transactions = append(transactions, *t)
	}

	return transactions, errors
}

func parseHeaders(row []string) []string {
	headers := make([]string, len(row))
	for i, h := range row {
		headers[i] = strings.TrimSpace(h)
	}
	return headers
}

func mapToTransaction(row map[string]string) (*models.Transaction, error) {
	dateStr := row["Date"]
	if dateStr == "" {
		return nil, fmt.Errorf("missing Date")
	}
	date, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Date format: %s", dateStr)
	}

	amountStr := row["Amount"]
	if amountStr == "" {
		return nil, fmt.Errorf("missing Amount")
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Amount: %s", amountStr)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("non-positive Amount: %s", amountStr)
	}

	// Blank currency means the ledger's base currency.
	var currency models.CurrencyCode
	if c := strings.ToUpper(row["Currency"]); c != "" {
		currency, err = models.ParseCurrency(c)
		if err != nil {
			return nil, fmt.Errorf("invalid Currency: %s", row["Currency"])
		}
	}

	t := &models.Transaction{
		Date:        date,
		Description: row["Description"],
		Amount:      amount,
		Currency:    currency,
	}

	switch strings.ToUpper(row["Type"]) {
	case string(models.TransactionIncome):
		t.Type = models.TransactionIncome
	case string(models.TransactionExpense):
		t.Type = models.TransactionExpense
		jarStr := strings.ToUpper(row["Jar"])
		if jarStr == "" {
			return nil, fmt.Errorf("missing Jar for expense")
		}
		jar, err := models.ParseJarID(jarStr)
		if err != nil {
			return nil, fmt.Errorf("invalid Jar: %s", row["Jar"])
		}
		t.JarID = &jar
	case "":
		return nil, fmt.Errorf("missing Type")
	default:
		return nil, fmt.Errorf("invalid Type: %s", row["Type"])
	}

	if p := row["Passive"]; p != "" {
		passive, err := strconv.ParseBool(p)
		if err != nil {
			return nil, fmt.Errorf("invalid Passive: %s", p)
		}
		t.IsPassive = passive
	}

	return t, nil
}
