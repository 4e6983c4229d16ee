package ledger

import (
	"encoding/json"

	"github.com/rocjay1/jars-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// DistributionMode selects how income is split across jars.
type DistributionMode string

const (
	DistributionAuto   DistributionMode = "auto"
	DistributionManual DistributionMode = "manual"
)

// ManualTolerance is the largest accepted gap, in units of the entered
// currency, between the manual entries and the declared total.
var ManualTolerance = decimal.NewFromInt(1)

var hundred = decimal.NewFromInt(100)

// Allocation is the per-jar share of an income, in base currency.
type Allocation [models.NumJars]decimal.Decimal

// Total sums the six shares.
func (a Allocation) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range a {
		total = total.Add(v)
	}
	return total
}

// MarshalJSON encodes the allocation keyed by jar code.
func (a Allocation) MarshalJSON() ([]byte, error) {
	m := make(map[models.JarID]decimal.Decimal, models.NumJars)
	for _, id := range models.AllJars {
		m[id] = a[id]
	}
	return json.Marshal(m)
}

// AutoDistribute splits amountBase by each jar's configured percentage. The
// shares are not normalized, so they only add up to amountBase when the
// percentages add up to 100.
func AutoDistribute(amountBase decimal.Decimal, jars models.JarRegistry) Allocation {
	var a Allocation
	for _, id := range models.AllJars {
		a[id] = amountBase.Mul(jars[id].Percentage.Div(hundred))
	}
	return a
}

// ManualDistribute validates user-entered shares against total and converts each
// share to base on its own. Shares and total are in the entered currency.
func ManualDistribute(total decimal.Decimal, entries map[models.JarID]decimal.Decimal, entered, base models.CurrencyCode, conv models.Converter) (Allocation, error) {
	var a Allocation

	sum := decimal.Zero
	for id, v := range entries {
		if !id.Valid() {
			return a, models.ErrUnknownJar
		}
		if v.IsNegative() {
			return a, ErrInvalidAmount
		}
		sum = sum.Add(v)
	}

	if total.Sub(sum).Abs().GreaterThan(ManualTolerance) {
		return a, &DistributionMismatchError{Allocated: sum, Declared: total}
	}

	for _, id := range models.AllJars {
		a[id] = conv.Convert(entries[id], entered, base)
	}
	return a, nil
}
