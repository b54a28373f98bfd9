// Package lottery draws the periodic arisan winner.
package lottery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/mmynk/arisan/internal/models"
	"github.com/mmynk/arisan/internal/storage"
)

// ErrExhausted means every member of the group has already won.
var ErrExhausted = errors.New("all members have already won")

// Outcome is the result of a successful draw.
type Outcome struct {
	Winner *models.Member `json:"winner"`
	Group  *models.Group  `json:"group"`
}

// Drawer picks winners without replacement.
type Drawer struct {
	store storage.Store
	intn  func(n int) int
	now   func() time.Time
}

// Option configures a Drawer.
type Option func(*Drawer)

// WithIntn replaces the random source. intn must return a value in [0, n).
func WithIntn(intn func(n int) int) Option {
	return func(d *Drawer) { d.intn = intn }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(d *Drawer) { d.now = now }
}

// NewDrawer creates a drawer backed by store.
func NewDrawer(store storage.Store, opts ...Option) *Drawer {
	d := &Drawer{store: store, intn: rand.IntN, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Eligible returns the members of group that have not won yet, in membership order.
func Eligible(group *models.Group) []string {
	var ids []string
	for _, id := range group.MemberIDs {
		if !group.HasWon(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Draw picks a uniformly random eligible member of groupID, records it as the
// current winner and appends it to the winner history, all in one
// transaction. When nobody is eligible it returns ErrExhausted and writes nothing.
func (d *Drawer) Draw(ctx context.Context, groupID string) (*Outcome, error) {
	var group *models.Group
	err := d.store.RunTransaction(ctx, func(tx storage.Tx) error {
		g, err := tx.GetGroup(ctx, groupID)
		if err != nil {
			return err
		}

		eligible := Eligible(g)
		if len(eligible) == 0 {
			return fmt.Errorf("%w: group %s", ErrExhausted, groupID)
		}

		now := d.now()
		winnerID := eligible[d.intn(len(eligible))]
		g.CurrentWinnerID = winnerID
		g.WinnerHistory = append(g.WinnerHistory, models.WinnerRecord{
			Month:    models.MonthKeyOf(now).String(),
			MemberID: winnerID,
			DrawnAt:  now.Unix(),
		})
		if err := tx.UpdateGroup(ctx, g); err != nil {
			return err
		}
		group = g
		return nil
	})
	if err != nil {
		return nil, err
	}

	winner, err := d.store.GetMember(ctx, group.CurrentWinnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load winner: %w", err)
	}

	slog.Info("Winner drawn",
		"group_id", groupID,
		"member_id", winner.ID,
		"remaining", len(Eligible(group)),
	)
	return &Outcome{Winner: winner, Group: group}, nil
}
