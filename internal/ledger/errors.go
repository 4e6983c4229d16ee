package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrInvalidRate            = errors.New("exchange rates must be greater than zero")
	ErrInvalidMode            = errors.New("invalid distribution mode")
	ErrInvalidViewMode        = errors.New("invalid view mode")
	ErrUnknownUser            = errors.New("unknown user")
	ErrNotFound               = errors.New("not found")
	ErrNoMembers              = errors.New("family roster is empty")
	ErrFamilyViewReadOnly     = errors.New("family view is read-only; switch to an individual view to make changes")
	ErrInsufficientJarBalance = errors.New("jar balance is lower than the expense; confirm to allow a negative balance")
)

// DistributionMismatchError rejects a manual distribution whose entries do not
// add up to the declared total.
type DistributionMismatchError struct {
	Allocated decimal.Decimal
	Declared  decimal.Decimal
}

// Difference is declared minus allocated.
func (e *DistributionMismatchError) Difference() decimal.Decimal {
	return e.Declared.Sub(e.Allocated)
}

func (e *DistributionMismatchError) Error() string {
	return fmt.Sprintf("distribution (%s) does not match the total amount (%s); difference: %s",
		e.Allocated.StringFixed(2), e.Declared.String(), e.Difference().StringFixed(2))
}

// PercentageSumWarning is returned when a jar configuration does not add up to
// 100% and the caller has not confirmed saving it anyway.
type PercentageSumWarning struct {
	Total decimal.Decimal
}

func (e *PercentageSumWarning) Error() string {
	return fmt.Sprintf("jar percentages add up to %s%%, 100%% is recommended; confirm to save anyway", e.Total.String())
}
