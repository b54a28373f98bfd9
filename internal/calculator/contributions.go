package calculator

import (
	"github.com/mmynk/arisan/internal/models"
)

// ExpectedContributions lists the lines a payment should carry for the given
// settings. The main group gets every configured category with a positive
// amount (main is always present); any other group gets a single main line
// with its flat contribution amount. All lines start unpaid.
func ExpectedContributions(settings *models.ContributionSettings, group *models.Group, isMain bool) []models.Contribution {
	if !isMain {
		return []models.Contribution{{
			CategoryID: models.CategoryMain,
			Label:      models.CategoryLabel(models.CategoryMain),
			Amount:     group.ContributionAmount,
		}}
	}

	var lines []models.Contribution
	for _, c := range settings.Categories() {
		if c.ID != models.CategoryMain && !c.Amount.IsPositive() {
			continue
		}
		lines = append(lines, models.Contribution{CategoryID: c.ID, Label: c.Label, Amount: c.Amount})
	}
	return lines
}

// NeedsUpdate reports whether existing lacks an expected category or carries
// a different amount for one. Extra categories in existing are ignored.
func NeedsUpdate(expected, existing []models.Contribution) bool {
	current := make(map[string]models.Contribution, len(existing))
	for _, c := range existing {
		current[c.CategoryID] = c
	}
	for _, want := range expected {
		have, ok := current[want.CategoryID]
		if !ok || !have.Amount.Equal(want.Amount) {
			return true
		}
	}
	return false
}

// MergePaid returns a copy of expected with the paid flags carried over from
// existing. Categories not in expected are dropped.
func MergePaid(expected, existing []models.Contribution) []models.Contribution {
	paid := make(map[string]bool, len(existing))
	for _, c := range existing {
		paid[c.CategoryID] = c.Paid
	}
	merged := make([]models.Contribution, len(expected))
	for i, c := range expected {
		c.Paid = paid[c.CategoryID]
		merged[i] = c
	}
	return merged
}
