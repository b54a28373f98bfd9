package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/arisan/internal/models"
)

// DeriveStatus folds per-category lines into the aggregate status and total.
// The payment is Paid only when every line is paid; zero-amount lines still
// have to be marked paid.
func DeriveStatus(contributions []models.Contribution) (models.PaymentStatus, decimal.Decimal) {
	total := decimal.Zero
	status := models.StatusPaid
	for _, c := range contributions {
		total = total.Add(c.Amount)
		if !c.Paid {
			status = models.StatusUnpaid
		}
	}
	return status, total
}

// Apply recomputes p.Status and p.TotalAmount from p.Contributions.
func Apply(p *models.Payment) {
	p.Status, p.TotalAmount = DeriveStatus(p.Contributions)
}

// DisplayStatus layers Late on top of the stored status. It is never persisted.
func DisplayStatus(p *models.Payment, now time.Time) models.PaymentStatus {
	if p.Status == models.StatusUnpaid && now.After(p.DueDate) {
		return models.StatusLate
	}
	return p.Status
}
