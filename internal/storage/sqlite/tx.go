package sqlite

import (
	"context"
	"database/sql"

	"github.com/mmynk/arisan/internal/models"
	"github.com/mmynk/arisan/internal/storage"
)

// txStore is the storage.Tx handed to RunTransaction callbacks. It records
// which collections were written so subscribers can be notified after commit.
type txStore struct {
	tx      *sql.Tx
	touched map[string]bool
}

func (t *txStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return getGroup(ctx, t.tx, groupID)
}

func (t *txStore) ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.Payment, error) {
	return listPayments(ctx, t.tx, groupID)
}

func (t *txStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if err := insertPayment(ctx, t.tx, payment); err != nil {
		return err
	}
	t.touched[storage.CollectionPayments] = true
	return nil
}

func (t *txStore) UpdatePayment(ctx context.Context, payment *models.Payment) error {
	if err := updatePayment(ctx, t.tx, payment); err != nil {
		return err
	}
	t.touched[storage.CollectionPayments] = true
	return nil
}

func (t *txStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	if err := updateGroup(ctx, t.tx, group); err != nil {
		return err
	}
	t.touched[storage.CollectionGroups] = true
	return nil
}
