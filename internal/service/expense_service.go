package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/arisan/internal/diagnostics"
	"github.com/mmynk/arisan/internal/models"
	"github.com/mmynk/arisan/internal/storage"
)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	store    storage.Store
	reporter *diagnostics.Reporter
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(store storage.Store, reporter *diagnostics.Reporter) *ExpenseService {
	return &ExpenseService{store: store, reporter: reporter}
}

// CreateExpense records money paid out of a fund.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	slog.Info("CreateExpense request received", "category", req.Msg.Category, "amount", req.Msg.Amount)

	expense := &models.Expense{
		Date:        req.Msg.Date,
		Description: req.Msg.Description,
		Amount:      req.Msg.Amount,
		Category:    req.Msg.Category,
	}
	if err := expense.Validate(); err != nil {
		return nil, s.reporter.Error(ctx, ExpenseServiceCreateExpenseProcedure, diagnostics.Invalid(err))
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, s.reporter.Error(ctx, ExpenseServiceCreateExpenseProcedure, err)
	}
	return connect.NewResponse(&ExpenseResponse{Expense: expense}), nil
}

// ListExpenses returns every expense, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, s.reporter.Error(ctx, ExpenseServiceListExpensesProcedure, err)
	}
	if expenses == nil {
		expenses = []*models.Expense{}
	}
	return connect.NewResponse(&ListExpensesResponse{Expenses: expenses}), nil
}

// UpdateExpense overwrites an expense.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[UpdateExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, s.reporter.Error(ctx, ExpenseServiceUpdateExpenseProcedure, err)
	}
	expense.Date = req.Msg.Date
	expense.Description = req.Msg.Description
	expense.Amount = req.Msg.Amount
	expense.Category = req.Msg.Category
	if err := expense.Validate(); err != nil {
		return nil, s.reporter.Error(ctx, ExpenseServiceUpdateExpenseProcedure, diagnostics.Invalid(err))
	}

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		return nil, s.reporter.Error(ctx, ExpenseServiceUpdateExpenseProcedure, err)
	}
	return connect.NewResponse(&ExpenseResponse{Expense: expense}), nil
}

// DeleteExpense removes an expense.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	if err := s.store.DeleteExpense(ctx, req.Msg.ExpenseID); err != nil {
		return nil, s.reporter.Error(ctx, ExpenseServiceDeleteExpenseProcedure, err)
	}
	return connect.NewResponse(&DeleteResponse{}), nil
}
