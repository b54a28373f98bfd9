package service

import (
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/arisan/internal/finance"
	"github.com/mmynk/arisan/internal/models"
)

func TestSettingsRoundTrip(t *testing.T) {
	ts := setupTestServer(t)
	token := register(t, ts, "admin@example.com").Token

	got := mustCall[GetSettingsRequest, GetSettingsResponse](t, ts, token, FinanceServiceGetSettingsProcedure, &GetSettingsRequest{Month: "2024-7"})
	if got.Source != finance.SourceDefault || !got.Settings.Main.Equal(finance.DefaultMainAmount) {
		t.Errorf("unset month = %s main=%s, want default 50000", got.Source, got.Settings.Main)
	}

	mustCall[SaveSettingsRequest, SaveSettingsResponse](t, ts, token, FinanceServiceSaveSettingsProcedure, &SaveSettingsRequest{
		Settings: &models.ContributionSettings{MonthKey: "2024-6", Main: decimal.NewFromInt(90000)},
	})

	got = mustCall[GetSettingsRequest, GetSettingsResponse](t, ts, token, FinanceServiceGetSettingsProcedure, &GetSettingsRequest{Month: "2024-7"})
	if got.Source != finance.SourcePrevious || !got.Settings.Main.Equal(decimal.NewFromInt(90000)) {
		t.Errorf("next month = %s main=%s, want previous 90000", got.Source, got.Settings.Main)
	}

	_, err := call[SaveSettingsRequest, SaveSettingsResponse](t, ts, token, FinanceServiceSaveSettingsProcedure, &SaveSettingsRequest{
		Settings: &models.ContributionSettings{MonthKey: "2024-7", Main: decimal.NewFromInt(-1)},
	})
	wantCode(t, err, connect.CodeInvalidArgument)

	_, err = call[GetSettingsRequest, GetSettingsResponse](t, ts, token, FinanceServiceGetSettingsProcedure, &GetSettingsRequest{Month: "2024-12"})
	wantCode(t, err, connect.CodeInvalidArgument)
}

func TestReconcileAndPay(t *testing.T) {
	ts := setupTestServer(t)
	// Every payment of 2024 is past due.
	ts.finance.now = func() time.Time { return time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC) }

	token := register(t, ts, "admin@example.com").Token
	ids := createMembers(t, ts, token, "m1", "m2")
	group := createGroup(t, ts, token, testMainGroup, ids)

	mustCall[SaveSettingsRequest, SaveSettingsResponse](t, ts, token, FinanceServiceSaveSettingsProcedure, &SaveSettingsRequest{
		Settings: &models.ContributionSettings{
			MonthKey: "2024-7",
			Main:     decimal.NewFromInt(20000),
			Cash:     decimal.NewFromInt(5000),
		},
	})

	reconcile := &ReconcilePaymentsRequest{GroupID: group.ID, Month: "2024-7"}
	first := mustCall[ReconcilePaymentsRequest, ReconcilePaymentsResponse](t, ts, token, FinanceServiceReconcilePaymentsProcedure, reconcile)
	if first.Created != 2 || first.Updated != 0 {
		t.Fatalf("first reconcile = %+v, want 2 created", first)
	}
	second := mustCall[ReconcilePaymentsRequest, ReconcilePaymentsResponse](t, ts, token, FinanceServiceReconcilePaymentsProcedure, reconcile)
	if second.Created != 0 || second.Updated != 0 {
		t.Fatalf("second reconcile = %+v, want no changes", second)
	}

	list := mustCall[ListPaymentsRequest, ListPaymentsResponse](t, ts, token, FinanceServiceListPaymentsProcedure, &ListPaymentsRequest{GroupID: group.ID, Month: "2024-7"})
	if len(list.Payments) != 2 {
		t.Fatalf("ListPayments returned %d, want 2", len(list.Payments))
	}
	for _, p := range list.Payments {
		if p.Status != models.StatusUnpaid || p.DisplayStatus != models.StatusLate {
			t.Errorf("payment %s status=%s display=%s, want Unpaid/Late", p.ID, p.Status, p.DisplayStatus)
		}
		if !p.TotalAmount.Equal(decimal.NewFromInt(25000)) {
			t.Errorf("TotalAmount = %s, want 25000", p.TotalAmount)
		}
	}

	target := list.Payments[0]
	paid := mustCall[SetPaidFlagsRequest, SetPaidFlagsResponse](t, ts, token, FinanceServiceSetPaidFlagsProcedure, &SetPaidFlagsRequest{
		Flags: []PaidFlag{
			{PaymentID: target.ID, CategoryID: models.CategoryMain, Paid: true},
			{PaymentID: target.ID, CategoryID: models.CategoryCash, Paid: true},
		},
	})
	if len(paid.Payments) != 1 || paid.Payments[0].Status != models.StatusPaid {
		t.Fatalf("SetPaidFlags = %+v, want one Paid payment", paid.Payments)
	}

	summary := mustCall[GetMonthlySummaryRequest, GetMonthlySummaryResponse](t, ts, token, FinanceServiceGetMonthlySummaryProcedure, &GetMonthlySummaryRequest{GroupID: group.ID, Month: "2024-7"})
	s := summary.Summary
	if !s.Expected.Equal(decimal.NewFromInt(50000)) || !s.Collected.Equal(decimal.NewFromInt(25000)) {
		t.Errorf("summary expected=%s collected=%s, want 50000/25000", s.Expected, s.Collected)
	}
	if s.PaidCount != 1 || s.LateCount != 1 {
		t.Errorf("summary paid=%d late=%d, want 1/1", s.PaidCount, s.LateCount)
	}

	_, err := call[SetPaidFlagsRequest, SetPaidFlagsResponse](t, ts, token, FinanceServiceSetPaidFlagsProcedure, &SetPaidFlagsRequest{
		Flags: []PaidFlag{{PaymentID: target.ID, CategoryID: "nope", Paid: true}},
	})
	wantCode(t, err, connect.CodeInvalidArgument)
}

func TestReconcileErrors(t *testing.T) {
	ts := setupTestServer(t)
	token := register(t, ts, "admin@example.com").Token
	viewer := register(t, ts, "viewer@example.com").Token
	ids := createMembers(t, ts, token, "Ani")
	group := createGroup(t, ts, token, testMainGroup, ids)

	_, err := call[ReconcilePaymentsRequest, ReconcilePaymentsResponse](t, ts, token, FinanceServiceReconcilePaymentsProcedure, &ReconcilePaymentsRequest{GroupID: group.ID, Month: "July"})
	wantCode(t, err, connect.CodeInvalidArgument)

	_, err = call[ReconcilePaymentsRequest, ReconcilePaymentsResponse](t, ts, token, FinanceServiceReconcilePaymentsProcedure, &ReconcilePaymentsRequest{GroupID: "missing", Month: "2024-7"})
	wantCode(t, err, connect.CodeNotFound)

	_, err = call[ReconcilePaymentsRequest, ReconcilePaymentsResponse](t, ts, viewer, FinanceServiceReconcilePaymentsProcedure, &ReconcilePaymentsRequest{GroupID: group.ID, Month: "2024-7"})
	wantCode(t, err, connect.CodePermissionDenied)

	denials := ts.reporter.Denials()
	if len(denials) != 1 || denials[0].Path != "payments" || denials[0].Op != "create" {
		t.Errorf("denials = %+v, want one payment create", denials)
	}

	list := mustCall[ListPaymentsRequest, ListPaymentsResponse](t, ts, token, FinanceServiceListPaymentsProcedure, &ListPaymentsRequest{GroupID: group.ID, Month: "2024-7"})
	if len(list.Payments) != 0 {
		t.Errorf("denied reconcile left %d payments", len(list.Payments))
	}
}
