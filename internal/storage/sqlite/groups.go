package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/arisan/internal/models"
	"github.com/mmynk/arisan/internal/storage"
)

// ErrHistoryRewrite is returned when an update would drop winner history entries.
var ErrHistoryRewrite = errors.New("winner history is append-only")

const groupColumns = "id, name, cycle, contribution_amount, current_winner_id, version, created_at"

func scanGroup(row interface{ Scan(...any) error }) (*models.Group, error) {
	g := &models.Group{}
	var winner sql.NullString
	err := row.Scan(&g.ID, &g.Name, &g.Cycle, &g.ContributionAmount, &winner, &g.Version, &g.CreatedAt)
	if winner.Valid {
		g.CurrentWinnerID = winner.String
	}
	return g, err
}

// CreateGroup persists a new group with its membership list.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	if group.Cycle == "" {
		group.Cycle = models.CycleMonthly
	}
	group.Version = 1

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups ("+groupColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		group.ID, group.Name, group.Cycle, group.ContributionAmount, nullable(group.CurrentWinnerID),
		group.Version, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", mapErr(err))
	}
	if err := writeGroupMembers(ctx, tx, group); err != nil {
		return err
	}
	if err := appendWinnerHistory(ctx, tx, group); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", mapErr(err))
	}

	s.publish(storage.CollectionGroups)
	return nil
}

// GetGroup retrieves a group by ID, including members and winner history.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return getGroup(ctx, s.db, groupID)
}

// ListGroups retrieves all groups ordered by name.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+groupColumns+" FROM groups ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var groups []*models.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	// Rows must be closed before these queries: the pool has a single connection.
	for _, g := range groups {
		if err := loadGroupChildren(ctx, s.db, g); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// UpdateGroup writes the group if its version still matches.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := updateGroup(ctx, tx, group); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", mapErr(err))
	}

	s.publish(storage.CollectionGroups)
	return nil
}

// DeleteGroup removes a group. Its payments are kept.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", mapErr(err))
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return storage.NotFound(storage.CollectionGroups, groupID)
	}

	s.publish(storage.CollectionGroups)
	return nil
}

func getGroup(ctx context.Context, q querier, groupID string) (*models.Group, error) {
	g, err := scanGroup(q.QueryRowContext(ctx,
		"SELECT "+groupColumns+" FROM groups WHERE id = ?", groupID))
	if err == sql.ErrNoRows {
		return nil, storage.NotFound(storage.CollectionGroups, groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if err := loadGroupChildren(ctx, q, g); err != nil {
		return nil, err
	}
	return g, nil
}

func loadGroupChildren(ctx context.Context, q querier, g *models.Group) error {
	rows, err := q.QueryContext(ctx,
		"SELECT member_id FROM group_members WHERE group_id = ? ORDER BY position",
		g.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get group members: %w", err)
	}
	g.MemberIDs = []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan group member: %w", err)
		}
		g.MemberIDs = append(g.MemberIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate group members: %w", err)
	}

	histRows, err := q.QueryContext(ctx,
		"SELECT month, member_id, drawn_at FROM winner_history WHERE group_id = ? ORDER BY seq",
		g.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get winner history: %w", err)
	}
	g.WinnerHistory = []models.WinnerRecord{}
	for histRows.Next() {
		var rec models.WinnerRecord
		if err := histRows.Scan(&rec.Month, &rec.MemberID, &rec.DrawnAt); err != nil {
			histRows.Close()
			return fmt.Errorf("failed to scan winner record: %w", err)
		}
		g.WinnerHistory = append(g.WinnerHistory, rec)
	}
	histRows.Close()
	if err := histRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate winner history: %w", err)
	}
	return nil
}

// updateGroup performs the version-checked write. On success group.Version is
// advanced to the stored value.
func updateGroup(ctx context.Context, q querier, group *models.Group) error {
	result, err := q.ExecContext(ctx,
		`UPDATE groups SET name = ?, cycle = ?, contribution_amount = ?, current_winner_id = ?, version = version + 1
		 WHERE id = ? AND version = ?`,
		group.Name, group.Cycle, group.ContributionAmount, nullable(group.CurrentWinnerID),
		group.ID, group.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", mapErr(err))
	}
	if n, _ := result.RowsAffected(); n == 0 {
		var exists int
		err := q.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", group.ID).Scan(&exists)
		if err == sql.ErrNoRows {
			return storage.NotFound(storage.CollectionGroups, group.ID)
		}
		return &storage.OpError{
			Op:      storage.OpUpdate,
			Path:    storage.Path(storage.CollectionGroups, group.ID),
			Payload: group,
			Err:     storage.ErrConflict,
		}
	}

	if _, err := q.ExecContext(ctx, "DELETE FROM group_members WHERE group_id = ?", group.ID); err != nil {
		return fmt.Errorf("failed to clear group members: %w", mapErr(err))
	}
	if err := writeGroupMembers(ctx, q, group); err != nil {
		return err
	}
	if err := appendWinnerHistory(ctx, q, group); err != nil {
		return err
	}

	group.Version++
	return nil
}

func writeGroupMembers(ctx context.Context, q querier, group *models.Group) error {
	for i, memberID := range group.MemberIDs {
		_, err := q.ExecContext(ctx,
			"INSERT INTO group_members (group_id, member_id, position) VALUES (?, ?, ?)",
			group.ID, memberID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", mapErr(err))
		}
	}
	return nil
}

// appendWinnerHistory inserts the entries of group.WinnerHistory that are not
// stored yet. Stored entries are never rewritten.
func appendWinnerHistory(ctx context.Context, q querier, group *models.Group) error {
	var stored int
	err := q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM winner_history WHERE group_id = ?", group.ID,
	).Scan(&stored)
	if err != nil {
		return fmt.Errorf("failed to count winner history: %w", err)
	}
	if len(group.WinnerHistory) < stored {
		return fmt.Errorf("%w: group %s has %d entries, update has %d",
			ErrHistoryRewrite, group.ID, stored, len(group.WinnerHistory))
	}

	for seq := stored; seq < len(group.WinnerHistory); seq++ {
		rec := group.WinnerHistory[seq]
		_, err := q.ExecContext(ctx,
			"INSERT INTO winner_history (group_id, seq, month, member_id, drawn_at) VALUES (?, ?, ?, ?, ?)",
			group.ID, seq, rec.Month, rec.MemberID, rec.DrawnAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert winner record: %w", mapErr(err))
		}
	}
	return nil
}

// nullable maps "" to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
