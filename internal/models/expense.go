package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrExpenseDescriptionRequired = errors.New("expense description is required")
	ErrExpenseDateRequired        = errors.New("expense date is required")
	ErrInvalidExpenseCategory     = errors.New("expense category must be Sick, Bereavement or Other")
)

// ExpenseCategory names the fund an expense is paid from.
type ExpenseCategory string

const (
	ExpenseSick        ExpenseCategory = "Sick"
	ExpenseBereavement ExpenseCategory = "Bereavement"
	ExpenseOther       ExpenseCategory = "Other"
)

// Expense is money paid out of the shared funds.
type Expense struct {
	ID          string          `json:"id"`
	Date        int64           `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    ExpenseCategory `json:"category"`
	CreatedAt   int64           `json:"createdAt"`
}

// Validate checks the required form fields.
func (e *Expense) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return ErrExpenseDescriptionRequired
	}
	if e.Date == 0 {
		return ErrExpenseDateRequired
	}
	if e.Amount.IsNegative() {
		return fmt.Errorf("expense amount: %w", ErrNegativeAmount)
	}
	switch e.Category {
	case ExpenseSick, ExpenseBereavement, ExpenseOther:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidExpenseCategory, e.Category)
	}
}
