package finance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/arisan/internal/calculator"
	"github.com/mmynk/arisan/internal/models"
	"github.com/mmynk/arisan/internal/storage"
)

// Result counts the writes a reconciliation committed.
type Result struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// GroupMatcher decides whether a group is the designated main group.
type GroupMatcher func(group *models.Group) bool

// MainGroupByName matches the group whose trimmed name equals name, ignoring case.
func MainGroupByName(name string) GroupMatcher {
	name = strings.TrimSpace(name)
	return func(group *models.Group) bool {
		return strings.EqualFold(strings.TrimSpace(group.Name), name)
	}
}

// Reconciler ensures one payment per member per month and keeps payment
// amounts in line with the resolved settings.
type Reconciler struct {
	store    storage.Store
	resolver *Resolver
	isMain   GroupMatcher
}

// NewReconciler creates a reconciler.
func NewReconciler(store storage.Store, resolver *Resolver, isMain GroupMatcher) *Reconciler {
	return &Reconciler{store: store, resolver: resolver, isMain: isMain}
}

// Reconcile converges the payments of groupID for month in one transaction:
// every current member gets a payment, and every existing payment of the
// month whose amounts differ from the settings is re-priced with its paid
// flags kept. A missing group or unresolvable settings abort before the
// transaction starts. A conflicting concurrent write aborts the transaction
// with storage.ErrConflict; callers re-run the whole call.
func (r *Reconciler) Reconcile(ctx context.Context, groupID string, month models.MonthKey) (Result, error) {
	group, err := r.store.GetGroup(ctx, groupID)
	if err != nil {
		return Result{}, err
	}

	resolved, err := r.resolver.Resolve(ctx, month)
	if err != nil {
		return Result{}, err
	}
	expected := calculator.ExpectedContributions(resolved.Settings, group, r.isMain(group))

	var result Result
	err = r.store.RunTransaction(ctx, func(tx storage.Tx) error {
		result = Result{}

		payments, err := tx.ListPaymentsByGroup(ctx, groupID)
		if err != nil {
			return err
		}

		covered := make(map[string]bool, len(group.MemberIDs))
		for _, p := range payments {
			if !month.Contains(p.DueDate) {
				continue
			}
			covered[p.MemberID] = true

			if !calculator.NeedsUpdate(expected, p.Contributions) {
				continue
			}
			p.Contributions = calculator.MergePaid(expected, p.Contributions)
			calculator.Apply(p)
			if err := tx.UpdatePayment(ctx, p); err != nil {
				return err
			}
			result.Updated++
		}

		for _, memberID := range group.MemberIDs {
			if covered[memberID] {
				continue
			}
			p := &models.Payment{
				MemberID:      memberID,
				GroupID:       groupID,
				DueDate:       month.End(),
				Contributions: calculator.MergePaid(expected, nil),
			}
			calculator.Apply(p)
			if err := tx.CreatePayment(ctx, p); err != nil {
				return err
			}
			covered[memberID] = true
			result.Created++
		}
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to reconcile payments: %w", err)
	}

	slog.Info("Payments reconciled",
		"group_id", groupID,
		"month", month.String(),
		"settings_source", resolved.Source,
		"created", result.Created,
		"updated", result.Updated,
	)
	return result, nil
}
