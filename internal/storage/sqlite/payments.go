package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/arisan/internal/models"
	"github.com/mmynk/arisan/internal/storage"
)

const paymentColumns = "id, group_id, member_id, due_date, contributions, total_amount, status, version, created_at, updated_at"

func scanPayment(row interface{ Scan(...any) error }) (*models.Payment, error) {
	p := &models.Payment{}
	var dueDate int64
	var contributions string
	err := row.Scan(&p.ID, &p.GroupID, &p.MemberID, &dueDate, &contributions,
		&p.TotalAmount, &p.Status, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.DueDate = time.Unix(dueDate, 0).UTC()
	if err := json.Unmarshal([]byte(contributions), &p.Contributions); err != nil {
		return nil, fmt.Errorf("failed to decode contributions for %s: %w", p.ID, err)
	}
	return p, nil
}

func encodeContributions(p *models.Payment) (string, error) {
	if p.Contributions == nil {
		p.Contributions = []models.Contribution{}
	}
	b, err := json.Marshal(p.Contributions)
	if err != nil {
		return "", fmt.Errorf("failed to encode contributions: %w", err)
	}
	return string(b), nil
}

// GetPayment retrieves a payment by ID.
func (s *SQLiteStore) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	p, err := scanPayment(s.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE id = ?", paymentID))
	if err == sql.ErrNoRows {
		return nil, storage.NotFound(storage.CollectionPayments, paymentID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

// ListPaymentsByGroup retrieves every payment of a group, oldest month first.
func (s *SQLiteStore) ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.Payment, error) {
	return listPayments(ctx, s.db, groupID)
}

// BatchSavePayments overwrites the given payments in one transaction without
// checking versions. Versions are still advanced so later transactional
// writers see the change.
func (s *SQLiteStore) BatchSavePayments(ctx context.Context, payments []*models.Payment) error {
	if len(payments) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, p := range payments {
		contributions, err := encodeContributions(p)
		if err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx,
			`UPDATE payments SET contributions = ?, total_amount = ?, status = ?, version = version + 1, updated_at = ?
			 WHERE id = ?`,
			contributions, p.TotalAmount, p.Status, now, p.ID,
		)
		if err != nil {
			return &storage.OpError{Op: storage.OpBatch, Path: storage.Path(storage.CollectionPayments, p.ID), Payload: p, Err: mapErr(err)}
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return storage.NotFound(storage.CollectionPayments, p.ID)
		}
		p.UpdatedAt = now
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", mapErr(err))
	}

	s.publish(storage.CollectionPayments)
	return nil
}

// listPayments lists one group's payments, or all payments when groupID is empty.
func listPayments(ctx context.Context, q querier, groupID string) ([]*models.Payment, error) {
	query := "SELECT " + paymentColumns + " FROM payments"
	var args []any
	if groupID != "" {
		query += " WHERE group_id = ?"
		args = append(args, groupID)
	}
	query += " ORDER BY due_date, member_id"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

func insertPayment(ctx context.Context, q querier, p *models.Payment) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if p.CreatedAt == 0 {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	p.Version = 1

	contributions, err := encodeContributions(p)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx,
		"INSERT INTO payments ("+paymentColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.GroupID, p.MemberID, p.DueDate.Unix(), contributions,
		p.TotalAmount, p.Status, p.Version, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return &storage.OpError{Op: storage.OpCreate, Path: storage.Path(storage.CollectionPayments, p.ID), Payload: p, Err: mapErr(err)}
	}
	return nil
}

func updatePayment(ctx context.Context, q querier, p *models.Payment) error {
	contributions, err := encodeContributions(p)
	if err != nil {
		return err
	}
	now := time.Now().Unix()
	result, err := q.ExecContext(ctx,
		`UPDATE payments SET contributions = ?, total_amount = ?, status = ?, version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		contributions, p.TotalAmount, p.Status, now, p.ID, p.Version,
	)
	if err != nil {
		return &storage.OpError{Op: storage.OpUpdate, Path: storage.Path(storage.CollectionPayments, p.ID), Payload: p, Err: mapErr(err)}
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return &storage.OpError{Op: storage.OpUpdate, Path: storage.Path(storage.CollectionPayments, p.ID), Payload: p, Err: storage.ErrConflict}
	}
	p.Version++
	p.UpdatedAt = now
	return nil
}
