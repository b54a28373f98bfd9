package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/arisan/internal/models"
	"github.com/mmynk/arisan/internal/storage"
)

const memberColumns = "id, name, phone, email, address, joined_at, created_at"

func scanMember(row interface{ Scan(...any) error }) (*models.Member, error) {
	m := &models.Member{}
	err := row.Scan(&m.ID, &m.Name, &m.Phone, &m.Email, &m.Address, &m.JoinedAt, &m.CreatedAt)
	return m, err
}

// CreateMember persists a new member.
func (s *SQLiteStore) CreateMember(ctx context.Context, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.CreatedAt == 0 {
		member.CreatedAt = time.Now().Unix()
	}
	if member.JoinedAt == 0 {
		member.JoinedAt = member.CreatedAt
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO members ("+memberColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		member.ID, member.Name, member.Phone, member.Email, member.Address, member.JoinedAt, member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", mapErr(err))
	}

	s.publish(storage.CollectionMembers)
	return nil
}

// GetMember retrieves a member by ID.
func (s *SQLiteStore) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	m, err := scanMember(s.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE id = ?", memberID))
	if err == sql.ErrNoRows {
		return nil, storage.NotFound(storage.CollectionMembers, memberID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

// ListMembers retrieves all members ordered by name.
func (s *SQLiteStore) ListMembers(ctx context.Context) ([]*models.Member, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+memberColumns+" FROM members ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// UpdateMember overwrites a member's editable fields.
func (s *SQLiteStore) UpdateMember(ctx context.Context, member *models.Member) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE members SET name = ?, phone = ?, email = ?, address = ?, joined_at = ? WHERE id = ?",
		member.Name, member.Phone, member.Email, member.Address, member.JoinedAt, member.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", mapErr(err))
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return storage.NotFound(storage.CollectionMembers, member.ID)
	}

	s.publish(storage.CollectionMembers)
	return nil
}

// DeleteMember removes a member. The group_members foreign key cascades the
// removal into every group; groups that had the member as current winner get
// it cleared. Every touched group has its version bumped.
func (s *SQLiteStore) DeleteMember(ctx context.Context, memberID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE groups SET version = version + 1,
		   current_winner_id = CASE WHEN current_winner_id = ? THEN NULL ELSE current_winner_id END
		 WHERE id IN (SELECT group_id FROM group_members WHERE member_id = ?) OR current_winner_id = ?`,
		memberID, memberID, memberID,
	)
	if err != nil {
		return fmt.Errorf("failed to update member groups: %w", mapErr(err))
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM members WHERE id = ?", memberID)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", mapErr(err))
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return storage.NotFound(storage.CollectionMembers, memberID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", mapErr(err))
	}

	s.publish(storage.CollectionMembers)
	s.publish(storage.CollectionGroups)
	return nil
}
