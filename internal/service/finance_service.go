package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/arisan/internal/calculator"
	"github.com/mmynk/arisan/internal/diagnostics"
	"github.com/mmynk/arisan/internal/finance"
	"github.com/mmynk/arisan/internal/metrics"
	"github.com/mmynk/arisan/internal/models"
	"github.com/mmynk/arisan/internal/storage"
)

var (
	ErrSettingsRequired = errors.New("settings are required")
	ErrUnknownCategory  = errors.New("payment has no such category")
	ErrGroupRequired    = errors.New("group id is required")
)

// FinanceService implements the Connect FinanceService: contribution
// settings, payment reconciliation and payment status.
type FinanceService struct {
	store      storage.Store
	resolver   *finance.Resolver
	reconciler *finance.Reconciler
	reporter   *diagnostics.Reporter
	reconciles *inflight
	now        func() time.Time
}

// NewFinanceService creates a new FinanceService.
func NewFinanceService(store storage.Store, resolver *finance.Resolver, reconciler *finance.Reconciler, reporter *diagnostics.Reporter) *FinanceService {
	return &FinanceService{
		store:      store,
		resolver:   resolver,
		reconciler: reconciler,
		reporter:   reporter,
		reconciles: newInflight(),
		now:        time.Now,
	}
}

func parseMonth(s string) (models.MonthKey, error) {
	month, err := models.ParseMonthKey(s)
	if err != nil {
		return models.MonthKey{}, diagnostics.Invalid(err)
	}
	return month, nil
}

// GetSettings returns the effective settings of a month and where they came from.
func (s *FinanceService) GetSettings(ctx context.Context, req *connect.Request[GetSettingsRequest]) (*connect.Response[GetSettingsResponse], error) {
	month, err := parseMonth(req.Msg.Month)
	if err != nil {
		return nil, s.reporter.Error(ctx, FinanceServiceGetSettingsProcedure, err)
	}

	resolved, err := s.resolver.Resolve(ctx, month)
	if err != nil {
		return nil, s.reporter.Error(ctx, FinanceServiceGetSettingsProcedure, err)
	}
	return connect.NewResponse(&GetSettingsResponse{Settings: resolved.Settings, Source: resolved.Source}), nil
}

// SaveSettings upserts the settings document of a month.
func (s *FinanceService) SaveSettings(ctx context.Context, req *connect.Request[SaveSettingsRequest]) (*connect.Response[SaveSettingsResponse], error) {
	settings := req.Msg.Settings
	if settings == nil {
		return nil, s.reporter.Error(ctx, FinanceServiceSaveSettingsProcedure, diagnostics.Invalid(ErrSettingsRequired))
	}
	slog.Info("SaveSettings request received", "month", settings.MonthKey)

	if err := settings.Validate(); err != nil {
		return nil, s.reporter.Error(ctx, FinanceServiceSaveSettingsProcedure, diagnostics.Invalid(err))
	}
	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return nil, s.reporter.Error(ctx, FinanceServiceSaveSettingsProcedure, err)
	}

	slog.Info("Settings saved", "month", settings.MonthKey)
	return connect.NewResponse(&SaveSettingsResponse{Settings: settings}), nil
}

// ReconcilePayments generates and re-prices the payments of a group for a month.
func (s *FinanceService) ReconcilePayments(ctx context.Context, req *connect.Request[ReconcilePaymentsRequest]) (*connect.Response[ReconcilePaymentsResponse], error) {
	slog.Info("ReconcilePayments request received", "group_id", req.Msg.GroupID, "month", req.Msg.Month)

	if req.Msg.GroupID == "" {
		return nil, s.reporter.Error(ctx, FinanceServiceReconcilePaymentsProcedure, diagnostics.Invalid(ErrGroupRequired))
	}
	month, err := parseMonth(req.Msg.Month)
	if err != nil {
		return nil, s.reporter.Error(ctx, FinanceServiceReconcilePaymentsProcedure, err)
	}

	release, err := s.reconciles.acquire(req.Msg.GroupID)
	if err != nil {
		return nil, s.reporter.Error(ctx, FinanceServiceReconcilePaymentsProcedure, err)
	}
	defer release()

	start := time.Now()
	result, err := s.reconciler.Reconcile(ctx, req.Msg.GroupID, month)
	metrics.ReconcileDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			metrics.Reconciliations.WithLabelValues("conflict").Inc()
		} else {
			metrics.Reconciliations.WithLabelValues("error").Inc()
		}
		return nil, s.reporter.Error(ctx, FinanceServiceReconcilePaymentsProcedure, err)
	}
	metrics.Reconciliations.WithLabelValues("ok").Inc()
	metrics.PaymentWrites.WithLabelValues("created").Add(float64(result.Created))
	metrics.PaymentWrites.WithLabelValues("updated").Add(float64(result.Updated))

	return connect.NewResponse(&ReconcilePaymentsResponse{Created: result.Created, Updated: result.Updated}), nil
}

// ListPayments returns the payments of a group for a month with their display status.
func (s *FinanceService) ListPayments(ctx context.Context, req *connect.Request[ListPaymentsRequest]) (*connect.Response[ListPaymentsResponse], error) {
	month, err := parseMonth(req.Msg.Month)
	if err != nil {
		return nil, s.reporter.Error(ctx, FinanceServiceListPaymentsProcedure, err)
	}

	payments, err := s.store.ListPaymentsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, s.reporter.Error(ctx, FinanceServiceListPaymentsProcedure, err)
	}

	now := s.now()
	views := []PaymentView{}
	for _, p := range payments {
		if !month.Contains(p.DueDate) {
			continue
		}
		views = append(views, PaymentView{Payment: p, DisplayStatus: calculator.DisplayStatus(p, now)})
	}
	return connect.NewResponse(&ListPaymentsResponse{Payments: views}), nil
}

// SetPaidFlags toggles category paid flags on one or more payments and saves
// them in one batch. Total and status are re-derived. The batch carries no
// version check, so the last writer wins.
func (s *FinanceService) SetPaidFlags(ctx context.Context, req *connect.Request[SetPaidFlagsRequest]) (*connect.Response[SetPaidFlagsResponse], error) {
	slog.Info("SetPaidFlags request received", "flags", len(req.Msg.Flags))

	byID := make(map[string]*models.Payment)
	var order []*models.Payment
	for _, flag := range req.Msg.Flags {
		p, ok := byID[flag.PaymentID]
		if !ok {
			var err error
			p, err = s.store.GetPayment(ctx, flag.PaymentID)
			if err != nil {
				return nil, s.reporter.Error(ctx, FinanceServiceSetPaidFlagsProcedure, err)
			}
			byID[flag.PaymentID] = p
			order = append(order, p)
		}

		c, ok := p.Contribution(flag.CategoryID)
		if !ok {
			err := fmt.Errorf("%w: %s on %s", ErrUnknownCategory, flag.CategoryID, flag.PaymentID)
			return nil, s.reporter.Error(ctx, FinanceServiceSetPaidFlagsProcedure, diagnostics.Invalid(err))
		}
		c.Paid = flag.Paid
	}

	for _, p := range order {
		calculator.Apply(p)
	}
	if err := s.store.BatchSavePayments(ctx, order); err != nil {
		return nil, s.reporter.Error(ctx, FinanceServiceSetPaidFlagsProcedure, err)
	}

	if order == nil {
		order = []*models.Payment{}
	}
	return connect.NewResponse(&SetPaidFlagsResponse{Payments: order}), nil
}

// GetMonthlySummary totals a group's contributions and the fund balances for a month.
func (s *FinanceService) GetMonthlySummary(ctx context.Context, req *connect.Request[GetMonthlySummaryRequest]) (*connect.Response[GetMonthlySummaryResponse], error) {
	month, err := parseMonth(req.Msg.Month)
	if err != nil {
		return nil, s.reporter.Error(ctx, FinanceServiceGetMonthlySummaryProcedure, err)
	}

	payments, err := s.store.ListPaymentsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, s.reporter.Error(ctx, FinanceServiceGetMonthlySummaryProcedure, err)
	}
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, s.reporter.Error(ctx, FinanceServiceGetMonthlySummaryProcedure, err)
	}

	summary := calculator.Summarize(month, payments, expenses, s.now())
	return connect.NewResponse(&GetMonthlySummaryResponse{Summary: summary}), nil
}
