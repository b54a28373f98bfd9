package storage

import (
	"context"

	"github.com/mmynk/arisan/internal/models"
)

// Guard wraps a Store and enforces write rules: only admins may change
// documents. Reads pass through. A denied write returns an *OpError wrapping
// ErrPermissionDenied that carries the attempted payload.
type Guard struct {
	Store
}

// NewGuard wraps store with write rules.
func NewGuard(store Store) *Guard {
	return &Guard{Store: store}
}

func checkWrite(ctx context.Context, op Op, path string, payload any) error {
	p, ok := PrincipalFrom(ctx)
	if ok && p.Role == models.RoleAdmin {
		return nil
	}
	return &OpError{Op: op, Path: path, Payload: payload, Err: ErrPermissionDenied}
}

func (g *Guard) CreateMember(ctx context.Context, member *models.Member) error {
	if err := checkWrite(ctx, OpCreate, CollectionMembers, member); err != nil {
		return err
	}
	return g.Store.CreateMember(ctx, member)
}

func (g *Guard) UpdateMember(ctx context.Context, member *models.Member) error {
	if err := checkWrite(ctx, OpUpdate, Path(CollectionMembers, member.ID), member); err != nil {
		return err
	}
	return g.Store.UpdateMember(ctx, member)
}

func (g *Guard) DeleteMember(ctx context.Context, memberID string) error {
	if err := checkWrite(ctx, OpDelete, Path(CollectionMembers, memberID), nil); err != nil {
		return err
	}
	return g.Store.DeleteMember(ctx, memberID)
}

func (g *Guard) CreateGroup(ctx context.Context, group *models.Group) error {
	if err := checkWrite(ctx, OpCreate, CollectionGroups, group); err != nil {
		return err
	}
	return g.Store.CreateGroup(ctx, group)
}

func (g *Guard) UpdateGroup(ctx context.Context, group *models.Group) error {
	if err := checkWrite(ctx, OpUpdate, Path(CollectionGroups, group.ID), group); err != nil {
		return err
	}
	return g.Store.UpdateGroup(ctx, group)
}

func (g *Guard) DeleteGroup(ctx context.Context, groupID string) error {
	if err := checkWrite(ctx, OpDelete, Path(CollectionGroups, groupID), nil); err != nil {
		return err
	}
	return g.Store.DeleteGroup(ctx, groupID)
}

func (g *Guard) SaveSettings(ctx context.Context, settings *models.ContributionSettings) error {
	if err := checkWrite(ctx, OpUpdate, Path(CollectionSettings, settings.MonthKey), settings); err != nil {
		return err
	}
	return g.Store.SaveSettings(ctx, settings)
}

func (g *Guard) BatchSavePayments(ctx context.Context, payments []*models.Payment) error {
	if err := checkWrite(ctx, OpBatch, CollectionPayments, payments); err != nil {
		return err
	}
	return g.Store.BatchSavePayments(ctx, payments)
}

func (g *Guard) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if err := checkWrite(ctx, OpCreate, CollectionExpenses, expense); err != nil {
		return err
	}
	return g.Store.CreateExpense(ctx, expense)
}

func (g *Guard) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	if err := checkWrite(ctx, OpUpdate, Path(CollectionExpenses, expense.ID), expense); err != nil {
		return err
	}
	return g.Store.UpdateExpense(ctx, expense)
}

func (g *Guard) DeleteExpense(ctx context.Context, expenseID string) error {
	if err := checkWrite(ctx, OpDelete, Path(CollectionExpenses, expenseID), nil); err != nil {
		return err
	}
	return g.Store.DeleteExpense(ctx, expenseID)
}

func (g *Guard) CreateAnnouncement(ctx context.Context, announcement *models.Announcement) error {
	if err := checkWrite(ctx, OpCreate, CollectionAnnouncements, announcement); err != nil {
		return err
	}
	return g.Store.CreateAnnouncement(ctx, announcement)
}

func (g *Guard) DeleteAnnouncement(ctx context.Context, announcementID string) error {
	if err := checkWrite(ctx, OpDelete, Path(CollectionAnnouncements, announcementID), nil); err != nil {
		return err
	}
	return g.Store.DeleteAnnouncement(ctx, announcementID)
}

// RunTransaction hands fn a Tx whose writes are checked the same way.
func (g *Guard) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	return g.Store.RunTransaction(ctx, func(tx Tx) error {
		return fn(guardedTx{Tx: tx})
	})
}

type guardedTx struct {
	Tx
}

func (t guardedTx) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if err := checkWrite(ctx, OpCreate, CollectionPayments, payment); err != nil {
		return err
	}
	return t.Tx.CreatePayment(ctx, payment)
}

func (t guardedTx) UpdatePayment(ctx context.Context, payment *models.Payment) error {
	if err := checkWrite(ctx, OpUpdate, Path(CollectionPayments, payment.ID), payment); err != nil {
		return err
	}
	return t.Tx.UpdatePayment(ctx, payment)
}

func (t guardedTx) UpdateGroup(ctx context.Context, group *models.Group) error {
	if err := checkWrite(ctx, OpUpdate, Path(CollectionGroups, group.ID), group); err != nil {
		return err
	}
	return t.Tx.UpdateGroup(ctx, group)
}
