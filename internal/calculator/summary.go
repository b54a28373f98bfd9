package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/arisan/internal/models"
)

// CategoryTotal is the expected and collected amount of one category in a month.
type CategoryTotal struct {
	CategoryID string          `json:"categoryId"`
	Label      string          `json:"label"`
	Expected   decimal.Decimal `json:"expected"`
	Collected  decimal.Decimal `json:"collected"`
}

// FundBalance is what one fund took in and paid out in a month.
type FundBalance struct {
	Fund      models.ExpenseCategory `json:"fund"`
	Collected decimal.Decimal        `json:"collected"`
	Spent     decimal.Decimal        `json:"spent"`
	Balance   decimal.Decimal        `json:"balance"` // Collected - Spent; negative means the fund was overdrawn
}

// MonthlySummary is the finance overview of one group for one month.
type MonthlySummary struct {
	Month       string          `json:"month"`
	Expected    decimal.Decimal `json:"expected"`
	Collected   decimal.Decimal `json:"collected"`
	Outstanding decimal.Decimal `json:"outstanding"`
	PaidCount   int             `json:"paidCount"`
	UnpaidCount int             `json:"unpaidCount"`
	LateCount   int             `json:"lateCount"`
	Categories  []CategoryTotal `json:"categories"`
	Funds       []FundBalance   `json:"funds"`
}

// fundSources maps each expense category to the contribution category that
// feeds it.
var fundSources = []struct {
	fund     models.ExpenseCategory
	category string
}{
	{models.ExpenseSick, models.CategorySick},
	{models.ExpenseBereavement, models.CategoryBereavement},
	{models.ExpenseOther, models.CategoryCash},
}

// Summarize computes the monthly overview from the month's payments and the
// expenses dated in that month. Payments and expenses outside month are ignored.
//
// Algorithm:
// - For each payment line: expected += amount; collected += amount if paid
// - Outstanding = expected - collected
// - Each payment counts once as Paid, Unpaid or Late (Late per DisplayStatus at now)
// - Funds: collected from the feeding category minus expenses of that fund
func Summarize(month models.MonthKey, payments []*models.Payment, expenses []*models.Expense, now time.Time) MonthlySummary {
	summary := MonthlySummary{
		Month:       month.String(),
		Expected:    decimal.Zero,
		Collected:   decimal.Zero,
		Outstanding: decimal.Zero,
	}

	// Track totals per category in first-seen order
	totals := make(map[string]*CategoryTotal)
	var order []string

	for _, p := range payments {
		if !month.Contains(p.DueDate) {
			continue
		}
		switch DisplayStatus(p, now) {
		case models.StatusPaid:
			summary.PaidCount++
		case models.StatusLate:
			summary.LateCount++
		default:
			summary.UnpaidCount++
		}

		for _, c := range p.Contributions {
			t, ok := totals[c.CategoryID]
			if !ok {
				t = &CategoryTotal{CategoryID: c.CategoryID, Label: c.Label, Expected: decimal.Zero, Collected: decimal.Zero}
				totals[c.CategoryID] = t
				order = append(order, c.CategoryID)
			}
			t.Expected = t.Expected.Add(c.Amount)
			summary.Expected = summary.Expected.Add(c.Amount)
			if c.Paid {
				t.Collected = t.Collected.Add(c.Amount)
				summary.Collected = summary.Collected.Add(c.Amount)
			}
		}
	}
	summary.Outstanding = summary.Expected.Sub(summary.Collected)

	for _, id := range order {
		summary.Categories = append(summary.Categories, *totals[id])
	}

	spent := make(map[models.ExpenseCategory]decimal.Decimal)
	for _, e := range expenses {
		if !month.Contains(time.Unix(e.Date, 0)) {
			continue
		}
		spent[e.Category] = spent[e.Category].Add(e.Amount)
	}
	for _, src := range fundSources {
		collected := decimal.Zero
		if t, ok := totals[src.category]; ok {
			collected = t.Collected
		}
		out := spent[src.fund]
		summary.Funds = append(summary.Funds, FundBalance{
			Fund:      src.fund,
			Collected: collected,
			Spent:     out,
			Balance:   collected.Sub(out),
		})
	}

	return summary
}
