package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrGroupNameRequired = errors.New("group name is required")
	ErrDuplicateMember   = errors.New("member listed more than once")
	ErrInvalidCycle      = errors.New("cycle must be monthly or weekly")
	ErrNegativeAmount    = errors.New("amount cannot be negative")
	ErrWinnerNotMember   = errors.New("current winner must be a group member")
)

// Cycle is how often a group collects contributions.
type Cycle string

const (
	CycleMonthly Cycle = "monthly"
	CycleWeekly  Cycle = "weekly"
)

// WinnerRecord is one entry of a group's draw history.
type WinnerRecord struct {
	// Month is the MonthKey string of the draw.
	Month string `json:"month"`

	// MemberID is the member who won.
	MemberID string `json:"memberId"`

	// DrawnAt is the Unix timestamp of the draw.
	DrawnAt int64 `json:"drawnAt"`
}

// Group is an arisan group: a set of members contributing on a cycle, one of
// whom is drawn as the winner each period.
//
// The designated main group (see config finance.main_group_name) carries the
// full multi-category contribution breakdown. Every other group collects the
// single flat ContributionAmount.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group.
	Name string `json:"name"`

	Cycle Cycle `json:"cycle"`

	// ContributionAmount is the flat per-member amount for non-main groups.
	ContributionAmount decimal.Decimal `json:"contributionAmount"`

	// MemberIDs is the ordered membership list. It has set semantics.
	MemberIDs []string `json:"memberIds"`

	// CurrentWinnerID is empty until the first draw.
	CurrentWinnerID string `json:"currentWinnerId,omitempty"`

	// WinnerHistory is append-only.
	WinnerHistory []WinnerRecord `json:"winnerHistory"`

	// Version increases on every write and guards read-modify-write cycles.
	Version int64 `json:"version"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`
}

// HasMember reports whether memberID is in the membership list.
func (g *Group) HasMember(memberID string) bool {
	for _, id := range g.MemberIDs {
		if id == memberID {
			return true
		}
	}
	return false
}

// HasWon reports whether memberID already appears in the winner history.
func (g *Group) HasWon(memberID string) bool {
	for _, rec := range g.WinnerHistory {
		if rec.MemberID == memberID {
			return true
		}
	}
	return false
}

// RemoveMember drops memberID from the membership list and clears it as the
// current winner. It reports whether anything changed.
func (g *Group) RemoveMember(memberID string) bool {
	changed := false
	kept := g.MemberIDs[:0]
	for _, id := range g.MemberIDs {
		if id == memberID {
			changed = true
			continue
		}
		kept = append(kept, id)
	}
	g.MemberIDs = kept
	if g.CurrentWinnerID == memberID {
		g.CurrentWinnerID = ""
		changed = true
	}
	return changed
}

// Validate checks the group's own invariants. It does not check that member
// IDs refer to existing members; the service layer does that.
func (g *Group) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrGroupNameRequired
	}
	switch g.Cycle {
	case CycleMonthly, CycleWeekly:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCycle, g.Cycle)
	}
	if g.ContributionAmount.IsNegative() {
		return fmt.Errorf("contribution amount: %w", ErrNegativeAmount)
	}
	seen := make(map[string]bool, len(g.MemberIDs))
	for _, id := range g.MemberIDs {
		if seen[id] {
			return fmt.Errorf("%w: %s", ErrDuplicateMember, id)
		}
		seen[id] = true
	}
	if g.CurrentWinnerID != "" && !seen[g.CurrentWinnerID] {
		return ErrWinnerNotMember
	}
	return nil
}
