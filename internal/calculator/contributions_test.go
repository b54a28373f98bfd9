package calculator

import (
	"testing"

	"github.com/mmynk/arisan/internal/models"
)

func TestExpectedContributions(t *testing.T) {
	settings := &models.ContributionSettings{
		MonthKey:    "2024-7",
		Main:        amount(20000),
		Cash:        amount(5000),
		Sick:        amount(0),
		Bereavement: amount(2000),
		Others: []models.OtherContribution{
			{ID: "trip", Description: "Family trip", Amount: amount(10000)},
			{ID: "unused", Description: "Nothing this month", Amount: amount(0)},
		},
	}

	t.Run("main group gets every positive category", func(t *testing.T) {
		group := &models.Group{Name: "Arisan Keluarga"}
		got := ExpectedContributions(settings, group, true)

		wantIDs := []string{"main", "cash", "bereavement", "trip"}
		if len(got) != len(wantIDs) {
			t.Fatalf("got %d lines, want %d: %+v", len(got), len(wantIDs), got)
		}
		for i, id := range wantIDs {
			if got[i].CategoryID != id {
				t.Errorf("line %d = %s, want %s", i, got[i].CategoryID, id)
			}
			if got[i].Paid {
				t.Errorf("line %s starts paid", id)
			}
		}
		if got[3].Label != "Family trip" {
			t.Errorf("other label = %q, want description", got[3].Label)
		}
	})

	t.Run("main is kept even at zero", func(t *testing.T) {
		zero := &models.ContributionSettings{MonthKey: "2024-7"}
		got := ExpectedContributions(zero, &models.Group{}, true)
		if len(got) != 1 || got[0].CategoryID != models.CategoryMain {
			t.Fatalf("got %+v, want single main line", got)
		}
	})

	t.Run("simple group gets its flat amount", func(t *testing.T) {
		group := &models.Group{Name: "Arisan Ibu", ContributionAmount: amount(75000)}
		got := ExpectedContributions(settings, group, false)
		if len(got) != 1 {
			t.Fatalf("got %d lines, want 1", len(got))
		}
		if got[0].CategoryID != models.CategoryMain || !got[0].Amount.Equal(amount(75000)) {
			t.Errorf("got %+v, want main=75000", got[0])
		}
	})
}

func TestNeedsUpdateAndMergePaid(t *testing.T) {
	existing := []models.Contribution{
		{CategoryID: "main", Amount: amount(50000), Paid: true},
		{CategoryID: "cash", Amount: amount(5000), Paid: false},
		{CategoryID: "stale", Amount: amount(100), Paid: true},
	}

	same := []models.Contribution{
		{CategoryID: "main", Amount: amount(50000)},
		{CategoryID: "cash", Amount: amount(5000)},
	}
	if NeedsUpdate(same, existing) {
		t.Error("NeedsUpdate = true for matching amounts with an extra stale category")
	}

	changed := []models.Contribution{
		{CategoryID: "main", Amount: amount(90000)},
		{CategoryID: "cash", Amount: amount(5000)},
	}
	if !NeedsUpdate(changed, existing) {
		t.Error("NeedsUpdate = false after main amount changed")
	}

	added := append(same, models.Contribution{CategoryID: "sick", Amount: amount(1000)})
	if !NeedsUpdate(added, existing) {
		t.Error("NeedsUpdate = false after a category was added")
	}

	merged := MergePaid(changed, existing)
	if len(merged) != 2 {
		t.Fatalf("merged has %d lines, want 2", len(merged))
	}
	if !merged[0].Paid || !merged[0].Amount.Equal(amount(90000)) {
		t.Errorf("main = %+v, want paid with new amount", merged[0])
	}
	if merged[1].Paid {
		t.Error("cash became paid")
	}
	if changed[0].Paid {
		t.Error("MergePaid mutated its expected input")
	}
}
