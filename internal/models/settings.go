package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Fixed contribution category IDs. Payments key their contributions by these
// IDs and by the IDs of OtherContribution entries.
const (
	CategoryMain        = "main"
	CategoryCash        = "cash"
	CategorySick        = "sick"
	CategoryBereavement = "bereavement"
)

var fixedLabels = map[string]string{
	CategoryMain:        "Arisan",
	CategoryCash:        "Kas",
	CategorySick:        "Sakit",
	CategoryBereavement: "Duka",
}

var (
	ErrOtherDescriptionRequired = errors.New("other contribution needs a description")
	ErrDuplicateCategory        = errors.New("duplicate category id")
)

// OtherContribution is an ad hoc category configured for a month.
type OtherContribution struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// ContributionSettings holds the per-member amounts for one month. A month
// without a document inherits from the month before it, then from defaults.
type ContributionSettings struct {
	// MonthKey is the document key, e.g. "2024-7".
	MonthKey string `json:"monthKey"`

	Main        decimal.Decimal     `json:"main"`
	Cash        decimal.Decimal     `json:"cash"`
	Sick        decimal.Decimal     `json:"sick"`
	Bereavement decimal.Decimal     `json:"bereavement"`
	Others      []OtherContribution `json:"others"`

	// UpdatedAt is the Unix timestamp of the last save.
	UpdatedAt int64 `json:"updatedAt"`
}

// Category is the uniform view of one configured category.
type Category struct {
	ID     string
	Label  string
	Amount decimal.Decimal
}

// Categories flattens the fixed categories and the others list into one slice,
// fixed categories first.
func (s *ContributionSettings) Categories() []Category {
	cats := []Category{
		{ID: CategoryMain, Label: fixedLabels[CategoryMain], Amount: s.Main},
		{ID: CategoryCash, Label: fixedLabels[CategoryCash], Amount: s.Cash},
		{ID: CategorySick, Label: fixedLabels[CategorySick], Amount: s.Sick},
		{ID: CategoryBereavement, Label: fixedLabels[CategoryBereavement], Amount: s.Bereavement},
	}
	for _, o := range s.Others {
		cats = append(cats, Category{ID: o.ID, Label: o.Description, Amount: o.Amount})
	}
	return cats
}

// Validate rejects negative amounts, unnamed others and colliding IDs.
func (s *ContributionSettings) Validate() error {
	if _, err := ParseMonthKey(s.MonthKey); err != nil {
		return err
	}
	for _, o := range s.Others {
		if strings.TrimSpace(o.ID) == "" || strings.TrimSpace(o.Description) == "" {
			return ErrOtherDescriptionRequired
		}
	}
	seen := make(map[string]bool)
	for _, c := range s.Categories() {
		if c.Amount.IsNegative() {
			return fmt.Errorf("%s: %w", c.ID, ErrNegativeAmount)
		}
		if seen[c.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateCategory, c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

// CategoryLabel returns the display label of a fixed category, or id itself.
func CategoryLabel(id string) string {
	if label, ok := fixedLabels[id]; ok {
		return label
	}
	return id
}
