package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// AssetType categorizes things that put money in your pocket.
type AssetType string

const (
	AssetRealEstate  AssetType = "RealEstate"
	AssetBusiness    AssetType = "Business"
	AssetStock       AssetType = "Stock"
	AssetPaper       AssetType = "Paper"
	AssetCommodities AssetType = "Commodities"
)

// LiabilityType categorizes things that take money out of your pocket.
type LiabilityType string

const (
	LiabilityMortgage   LiabilityType = "Mortgage"
	LiabilityLoan       LiabilityType = "Loan"
	LiabilityCreditCard LiabilityType = "CreditCard"
	LiabilityCar        LiabilityType = "Car"
)

var (
	ErrEmptyName    = errors.New("name is required")
	ErrInvalidValue = errors.New("value must be greater than zero")
)

// Asset is a value-bearing item. Values are in the asset's own currency.
type Asset struct {
	ID              string          `json:"id"`
	OwnerID         string          `json:"ownerId,omitempty"`
	Name            string          `json:"name"`
	Value           decimal.Decimal `json:"value"`
	Currency        CurrencyCode    `json:"currency"`
	MonthlyCashflow decimal.Decimal `json:"monthlyCashflow"`
	Type            AssetType       `json:"type"`
}

// Normalize trims the name and fills in the default type.
func (a *Asset) Normalize() {
	a.Name = strings.TrimSpace(a.Name)
	switch a.Type {
	case AssetRealEstate, AssetBusiness, AssetStock, AssetPaper, AssetCommodities:
	default:
		a.Type = AssetPaper
	}
}

// Validate checks the fields a user must supply.
func (a Asset) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if !a.Value.IsPositive() {
		return ErrInvalidValue
	}
	if !a.Currency.Valid() {
		return ErrInvalidCurrency
	}
	return nil
}

// Liability is a debt-bearing item with an annual interest rate in percent.
type Liability struct {
	ID             string          `json:"id"`
	OwnerID        string          `json:"ownerId,omitempty"`
	Name           string          `json:"name"`
	TotalOwed      decimal.Decimal `json:"totalOwed"`
	Currency       CurrencyCode    `json:"currency"`
	MonthlyPayment decimal.Decimal `json:"monthlyPayment"`
	InterestRate   decimal.Decimal `json:"interestRate"`
	Type           LiabilityType   `json:"type"`
}

// Normalize trims the name and fills in the default type.
func (l *Liability) Normalize() {
	l.Name = strings.TrimSpace(l.Name)
	switch l.Type {
	case LiabilityMortgage, LiabilityLoan, LiabilityCreditCard, LiabilityCar:
	default:
		l.Type = LiabilityLoan
	}
}

// Validate checks the fields a user must supply.
func (l Liability) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return ErrEmptyName
	}
	if !l.TotalOwed.IsPositive() {
		return ErrInvalidValue
	}
	if !l.Currency.Valid() {
		return ErrInvalidCurrency
	}
	return nil
}

// BalanceSheet summarizes assets and liabilities in base currency.
type BalanceSheet struct {
	Currency         CurrencyCode    `json:"currency"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	PassiveIncome    decimal.Decimal `json:"passiveIncome"`
	DebtPayments     decimal.Decimal `json:"debtPayments"`
	NetWorth         decimal.Decimal `json:"netWorth"`
	MonthlyCashflow  decimal.Decimal `json:"monthlyCashflow"`
}

// NewBalanceSheet converts every item to base and totals them.
func NewBalanceSheet(assets []Asset, liabilities []Liability, conv Converter, base CurrencyCode) BalanceSheet {
	bs := BalanceSheet{
		Currency:         base,
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		PassiveIncome:    decimal.Zero,
		DebtPayments:     decimal.Zero,
	}
	for _, a := range assets {
		bs.TotalAssets = bs.TotalAssets.Add(conv.Convert(a.Value, a.Currency, base))
		bs.PassiveIncome = bs.PassiveIncome.Add(conv.Convert(a.MonthlyCashflow, a.Currency, base))
	}
	for _, l := range liabilities {
		bs.TotalLiabilities = bs.TotalLiabilities.Add(conv.Convert(l.TotalOwed, l.Currency, base))
		bs.DebtPayments = bs.DebtPayments.Add(conv.Convert(l.MonthlyPayment, l.Currency, base))
	}
	bs.NetWorth = bs.TotalAssets.Sub(bs.TotalLiabilities)
	bs.MonthlyCashflow = bs.PassiveIncome.Sub(bs.DebtPayments)
	return bs
}
