package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the aggregate state of a payment.
type PaymentStatus string

const (
	StatusPaid   PaymentStatus = "Paid"
	StatusUnpaid PaymentStatus = "Unpaid"

	// StatusLate is never stored. It is derived at read time for unpaid
	// payments whose due date has passed.
	StatusLate PaymentStatus = "Late"
)

// Contribution is one category line of a payment.
type Contribution struct {
	CategoryID string          `json:"categoryId"`
	Label      string          `json:"label"`
	Amount     decimal.Decimal `json:"amount"`
	Paid       bool            `json:"paid"`
}

// Payment is one member's contribution record for a group and a month.
// TotalAmount and Status are derived from Contributions and must be kept in
// sync by whoever writes the record.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string `json:"id"`

	MemberID string `json:"memberId"`
	GroupID  string `json:"groupId"`

	// DueDate is the end of the month the payment belongs to.
	DueDate time.Time `json:"dueDate"`

	// Contributions is unique by CategoryID.
	Contributions []Contribution `json:"contributions"`

	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      PaymentStatus   `json:"status"`

	// Version increases on every transactional write.
	Version int64 `json:"version"`

	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// Contribution returns the line for categoryID.
func (p *Payment) Contribution(categoryID string) (*Contribution, bool) {
	for i := range p.Contributions {
		if p.Contributions[i].CategoryID == categoryID {
			return &p.Contributions[i], true
		}
	}
	return nil, false
}

// MonthKey returns the month the payment is due in.
func (p *Payment) MonthKey() MonthKey {
	return MonthKeyOf(p.DueDate)
}
