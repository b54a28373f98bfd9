package calculator

import (
	"testing"
	"time"

	"github.com/mmynk/arisan/internal/models"
)

func TestSummarize(t *testing.T) {
	month := models.MonthKey{Year: 2024, Month: time.August}
	other := month.Previous()

	payments := []*models.Payment{
		{
			MemberID: "m1",
			DueDate:  month.End(),
			Contributions: []models.Contribution{
				{CategoryID: "main", Label: "Arisan", Amount: amount(50000), Paid: true},
				{CategoryID: "sick", Label: "Sakit", Amount: amount(10000), Paid: true},
			},
			Status: models.StatusPaid,
		},
		{
			MemberID: "m2",
			DueDate:  month.End(),
			Contributions: []models.Contribution{
				{CategoryID: "main", Label: "Arisan", Amount: amount(50000), Paid: false},
				{CategoryID: "sick", Label: "Sakit", Amount: amount(10000), Paid: true},
			},
			Status: models.StatusUnpaid,
		},
		{
			MemberID: "m1",
			DueDate:  other.End(),
			Contributions: []models.Contribution{
				{CategoryID: "main", Amount: amount(999), Paid: true},
			},
			Status: models.StatusPaid,
		},
	}
	expenses := []*models.Expense{
		{Date: month.Start().Add(48 * time.Hour).Unix(), Amount: amount(15000), Category: models.ExpenseSick},
		{Date: other.Start().Unix(), Amount: amount(1), Category: models.ExpenseSick},
	}

	got := Summarize(month, payments, expenses, month.End().Add(time.Hour))

	if got.Month != "2024-7" {
		t.Errorf("month = %s, want 2024-7", got.Month)
	}
	if !got.Expected.Equal(amount(120000)) {
		t.Errorf("expected = %s, want 120000", got.Expected)
	}
	if !got.Collected.Equal(amount(70000)) {
		t.Errorf("collected = %s, want 70000", got.Collected)
	}
	if !got.Outstanding.Equal(amount(50000)) {
		t.Errorf("outstanding = %s, want 50000", got.Outstanding)
	}
	if got.PaidCount != 1 || got.LateCount != 1 || got.UnpaidCount != 0 {
		t.Errorf("counts paid=%d late=%d unpaid=%d, want 1/1/0", got.PaidCount, got.LateCount, got.UnpaidCount)
	}
	if len(got.Categories) != 2 || got.Categories[0].CategoryID != "main" {
		t.Fatalf("categories = %+v", got.Categories)
	}

	var sick FundBalance
	for _, f := range got.Funds {
		if f.Fund == models.ExpenseSick {
			sick = f
		}
	}
	if !sick.Collected.Equal(amount(20000)) || !sick.Spent.Equal(amount(15000)) || !sick.Balance.Equal(amount(5000)) {
		t.Errorf("sick fund = %+v, want collected 20000 spent 15000 balance 5000", sick)
	}
}
