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

const expenseColumns = "id, date, description, amount, category, created_at"

func scanExpense(row interface{ Scan(...any) error }) (*models.Expense, error) {
	e := &models.Expense{}
	err := row.Scan(&e.ID, &e.Date, &e.Description, &e.Amount, &e.Category, &e.CreatedAt)
	return e, err
}

// CreateExpense persists a new expense.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO expenses ("+expenseColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		expense.ID, expense.Date, expense.Description, expense.Amount, expense.Category, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", mapErr(err))
	}

	s.publish(storage.CollectionExpenses)
	return nil
}

// GetExpense retrieves an expense by ID.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	e, err := scanExpense(s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?", expenseID))
	if err == sql.ErrNoRows {
		return nil, storage.NotFound(storage.CollectionExpenses, expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

// ListExpenses retrieves all expenses, newest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+expenseColumns+" FROM expenses ORDER BY date DESC, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

// UpdateExpense overwrites an expense.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE expenses SET date = ?, description = ?, amount = ?, category = ? WHERE id = ?",
		expense.Date, expense.Description, expense.Amount, expense.Category, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", mapErr(err))
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return storage.NotFound(storage.CollectionExpenses, expense.ID)
	}

	s.publish(storage.CollectionExpenses)
	return nil
}

// DeleteExpense removes an expense by ID.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", mapErr(err))
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return storage.NotFound(storage.CollectionExpenses, expenseID)
	}

	s.publish(storage.CollectionExpenses)
	return nil
}
