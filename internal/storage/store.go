// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/arisan/internal/models"
)

// Collection names. They double as the first segment of document paths in
// OpError and as the topics of Subscribe.
const (
	CollectionMembers       = "members"
	CollectionGroups        = "groups"
	CollectionPayments      = "payments"
	CollectionExpenses      = "expenses"
	CollectionSettings      = "contributionSettings"
	CollectionAnnouncements = "announcements"
	CollectionUsers         = "users"
)

// Store defines the document-store contract the services run against.
// This abstraction allows swapping storage backends (SQLite, a hosted document
// database, ...) without changing the service layer.
type Store interface {
	CreateMember(ctx context.Context, member *models.Member) error
	GetMember(ctx context.Context, memberID string) (*models.Member, error)
	ListMembers(ctx context.Context) ([]*models.Member, error)
	UpdateMember(ctx context.Context, member *models.Member) error
	// DeleteMember removes the member and strips it from every group.
	DeleteMember(ctx context.Context, memberID string) error

	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroups(ctx context.Context) ([]*models.Group, error)
	// UpdateGroup fails with ErrConflict when group.Version is stale.
	UpdateGroup(ctx context.Context, group *models.Group) error
	DeleteGroup(ctx context.Context, groupID string) error

	// GetSettings returns ErrNotFound when the month has no document.
	GetSettings(ctx context.Context, monthKey string) (*models.ContributionSettings, error)
	// SaveSettings upserts the document for settings.MonthKey.
	SaveSettings(ctx context.Context, settings *models.ContributionSettings) error
	ListSettings(ctx context.Context) ([]*models.ContributionSettings, error)

	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)
	ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.Payment, error)
	// BatchSavePayments overwrites the given payments in one write without
	// version checks. The last writer wins.
	BatchSavePayments(ctx context.Context, payments []*models.Payment) error

	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	ListExpenses(ctx context.Context) ([]*models.Expense, error)
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error

	CreateAnnouncement(ctx context.Context, announcement *models.Announcement) error
	ListAnnouncements(ctx context.Context) ([]*models.Announcement, error)
	DeleteAnnouncement(ctx context.Context, announcementID string) error

	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CountUsers(ctx context.Context) (int, error)

	// RunTransaction runs fn inside one atomic transaction. If fn returns an
	// error, nothing it wrote is kept. The transaction is not retried.
	RunTransaction(ctx context.Context, fn func(tx Tx) error) error

	// Subscribe delivers the full current contents of collection to fn, then
	// again after every committed change to it, until unsubscribe is called.
	Subscribe(ctx context.Context, collection string, fn func(Snapshot)) (unsubscribe func(), err error)

	// Close releases any resources held by the store.
	Close() error
}

// Tx is the handle passed to RunTransaction callbacks.
type Tx interface {
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.Payment, error)
	CreatePayment(ctx context.Context, payment *models.Payment) error
	// UpdatePayment fails with ErrConflict when payment.Version is stale.
	UpdatePayment(ctx context.Context, payment *models.Payment) error
	// UpdateGroup fails with ErrConflict when group.Version is stale.
	UpdateGroup(ctx context.Context, group *models.Group) error
}

// Snapshot is the full contents of a collection at one point in time.
// Documents holds a typed slice such as []*models.Member.
type Snapshot struct {
	Collection string `json:"collection"`
	Documents  any    `json:"documents"`
}
