package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError describes a single invariant violation on an expense.
type ValidationError struct {
	Field       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Description)
}

var hundred = decimal.NewFromInt(100)

// Validate checks the invariants every persisted expense must hold.
func (e Expense) Validate() []ValidationError {
	var errs []ValidationError

	if !e.Amount.IsPositive() {
		errs = append(errs, ValidationError{
			Field:       "amount",
			Description: fmt.Sprintf("amount %s must be positive", e.Amount),
		})
	}

	// Minor-unit precision: no more than 2 decimal places.
	if !e.Amount.Mul(hundred).Equal(e.Amount.Mul(hundred).Floor()) {
		errs = append(errs, ValidationError{
			Field:       "amount",
			Description: fmt.Sprintf("amount %s has more than 2 decimal places", e.Amount),
		})
	}

	if e.Month < 1 || e.Month > 12 {
		errs = append(errs, ValidationError{
			Field:       "month",
			Description: fmt.Sprintf("month %d not in 1..12", e.Month),
		})
	}

	if e.Year < 1 {
		errs = append(errs, ValidationError{
			Field:       "year",
			Description: fmt.Sprintf("year %d must be positive", e.Year),
		})
	}

	switch {
	case e.InstallmentIndex < 0 || e.InstallmentTotal < 0:
		errs = append(errs, ValidationError{
			Field:       "installment",
			Description: "installment index and total cannot be negative",
		})
	case e.InstallmentIndex > 0 && e.InstallmentTotal == 0:
		errs = append(errs, ValidationError{
			Field:       "installment",
			Description: fmt.Sprintf("installment %d has no total", e.InstallmentIndex),
		})
	case e.InstallmentIndex > e.InstallmentTotal:
		errs = append(errs, ValidationError{
			Field:       "installment",
			Description: fmt.Sprintf("installment %d exceeds total %d", e.InstallmentIndex, e.InstallmentTotal),
		})
	}

	return errs
}
