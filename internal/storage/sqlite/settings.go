package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mmynk/arisan/internal/models"
	"github.com/mmynk/arisan/internal/storage"
)

const settingsColumns = "month_key, main, cash, sick, bereavement, others, updated_at"

func scanSettings(row interface{ Scan(...any) error }) (*models.ContributionSettings, error) {
	cs := &models.ContributionSettings{}
	var others string
	if err := row.Scan(&cs.MonthKey, &cs.Main, &cs.Cash, &cs.Sick, &cs.Bereavement, &others, &cs.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(others), &cs.Others); err != nil {
		return nil, fmt.Errorf("failed to decode others for %s: %w", cs.MonthKey, err)
	}
	return cs, nil
}

// GetSettings retrieves the settings document of one month.
func (s *SQLiteStore) GetSettings(ctx context.Context, monthKey string) (*models.ContributionSettings, error) {
	cs, err := scanSettings(s.db.QueryRowContext(ctx,
		"SELECT "+settingsColumns+" FROM contribution_settings WHERE month_key = ?", monthKey))
	if err == sql.ErrNoRows {
		return nil, storage.NotFound(storage.CollectionSettings, monthKey)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return cs, nil
}

// SaveSettings inserts or replaces the settings document of settings.MonthKey.
func (s *SQLiteStore) SaveSettings(ctx context.Context, settings *models.ContributionSettings) error {
	if settings.Others == nil {
		settings.Others = []models.OtherContribution{}
	}
	others, err := json.Marshal(settings.Others)
	if err != nil {
		return fmt.Errorf("failed to encode others: %w", err)
	}
	settings.UpdatedAt = time.Now().Unix()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO contribution_settings (`+settingsColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(month_key) DO UPDATE SET
		   main = excluded.main, cash = excluded.cash, sick = excluded.sick,
		   bereavement = excluded.bereavement, others = excluded.others, updated_at = excluded.updated_at`,
		settings.MonthKey, settings.Main, settings.Cash, settings.Sick, settings.Bereavement,
		string(others), settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", mapErr(err))
	}

	s.publish(storage.CollectionSettings)
	return nil
}

// ListSettings retrieves every settings document.
func (s *SQLiteStore) ListSettings(ctx context.Context) ([]*models.ContributionSettings, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+settingsColumns+" FROM contribution_settings ORDER BY updated_at DESC, month_key")
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	var all []*models.ContributionSettings
	for rows.Next() {
		cs, err := scanSettings(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settings: %w", err)
		}
		all = append(all, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settings: %w", err)
	}
	return all, nil
}
