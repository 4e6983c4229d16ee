package models

import (
	"errors"
	"sort"
)

// DebtStrategy selects how liabilities are ranked for payoff.
type DebtStrategy string

const (
	// StrategySnowball pays the smallest balance first.
	StrategySnowball DebtStrategy = "snowball"
	// StrategyAvalanche pays the highest interest rate first.
	StrategyAvalanche DebtStrategy = "avalanche"
)

var ErrUnknownStrategy = errors.New("unknown debt strategy")

// ParseDebtStrategy validates a strategy name. Empty means snowball.
func ParseDebtStrategy(s string) (DebtStrategy, error) {
	switch DebtStrategy(s) {
	case "", StrategySnowball:
		return StrategySnowball, nil
	case StrategyAvalanche:
		return StrategyAvalanche, nil
	}
	return "", ErrUnknownStrategy
}

// PrioritizeDebts returns a ranked copy of liabilities. Ties keep input order.
// The first element is the one to attack first.
func PrioritizeDebts(liabilities []Liability, strategy DebtStrategy) []Liability {
	out := make([]Liability, len(liabilities))
	copy(out, liabilities)

	sort.SliceStable(out, func(i, j int) bool {
		if strategy == StrategyAvalanche {
			return out[i].InterestRate.GreaterThan(out[j].InterestRate)
		}
		return out[i].TotalOwed.LessThan(out[j].TotalOwed)
	})
	return out
}
