package models

import (
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"
)

// CurrencyCode identifies one of the supported currencies.
type CurrencyCode string

const (
	CurrencyCOP CurrencyCode = "COP"
	CurrencyUSD CurrencyCode = "USD"
	CurrencyEUR CurrencyCode = "EUR"

	// AnchorCurrency is the pivot every conversion passes through.
	AnchorCurrency = CurrencyCOP
)

// SupportedCurrencies lists the currencies in display order.
var SupportedCurrencies = []CurrencyCode{CurrencyCOP, CurrencyUSD, CurrencyEUR}

var ErrInvalidCurrency = errors.New("invalid currency")

// Valid reports whether c is one of the supported currencies.
func (c CurrencyCode) Valid() bool {
	switch c {
	case CurrencyCOP, CurrencyUSD, CurrencyEUR:
		return true
	}
	return false
}

// ParseCurrency validates a currency code.
func ParseCurrency(s string) (CurrencyCode, error) {
	c := CurrencyCode(s)
	if !c.Valid() {
		return "", ErrInvalidCurrency
	}
	return c, nil
}

// ExchangeRates maps a currency to the number of anchor units (COP) per unit.
type ExchangeRates map[CurrencyCode]decimal.Decimal

// DefaultExchangeRates returns the rates the dashboard starts with.
func DefaultExchangeRates() ExchangeRates {
	return ExchangeRates{
		CurrencyCOP: decimal.NewFromInt(1),
		CurrencyUSD: decimal.NewFromInt(4000),
		CurrencyEUR: decimal.NewFromInt(4300),
	}
}

// Clone returns an independent copy of the table.
func (r ExchangeRates) Clone() ExchangeRates {
	out := make(ExchangeRates, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Converter converts amounts between currencies using a rate table.
// OnRateFallback, when set, is called every time a missing or zero rate is
// replaced with 1.
type Converter struct {
	Rates          ExchangeRates
	OnRateFallback func(CurrencyCode)
}

// NewConverter returns a Converter over rates.
func NewConverter(rates ExchangeRates) Converter {
	return Converter{Rates: rates}
}

// Convert moves amount from one currency to another through the anchor.
// There are no cross rates: USD to EUR goes USD -> COP -> EUR.
func (c Converter) Convert(amount decimal.Decimal, from, to CurrencyCode) decimal.Decimal {
	if from == to {
		return amount
	}

	inAnchor := amount
	if from != AnchorCurrency {
		inAnchor = amount.Mul(c.rate(from))
	}

	if to == AnchorCurrency {
		return inAnchor
	}
	return inAnchor.Div(c.rate(to))
}

func (c Converter) rate(code CurrencyCode) decimal.Decimal {
	r, ok := c.Rates[code]
	if !ok || r.IsZero() {
		slog.Warn("exchange rate missing, falling back to 1", "currency", string(code))
		if c.OnRateFallback != nil {
			c.OnRateFallback(code)
		}
		return decimal.NewFromInt(1)
	}
	return r
}
