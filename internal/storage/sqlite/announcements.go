package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/arisan/internal/models"
	"github.com/mmynk/arisan/internal/storage"
)

// CreateAnnouncement persists a new announcement.
func (s *SQLiteStore) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt == 0 {
		a.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO announcements (id, title, body, created_at) VALUES (?, ?, ?, ?)",
		a.ID, a.Title, a.Body, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert announcement: %w", mapErr(err))
	}

	s.publish(storage.CollectionAnnouncements)
	return nil
}

// ListAnnouncements retrieves all announcements, newest first.
func (s *SQLiteStore) ListAnnouncements(ctx context.Context) ([]*models.Announcement, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, body, created_at FROM announcements ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	defer rows.Close()

	var list []*models.Announcement
	for rows.Next() {
		a := &models.Announcement{}
		if err := rows.Scan(&a.ID, &a.Title, &a.Body, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan announcement: %w", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate announcements: %w", err)
	}
	return list, nil
}

// DeleteAnnouncement removes an announcement by ID.
func (s *SQLiteStore) DeleteAnnouncement(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM announcements WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete announcement: %w", mapErr(err))
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return storage.NotFound(storage.CollectionAnnouncements, id)
	}

	s.publish(storage.CollectionAnnouncements)
	return nil
}
