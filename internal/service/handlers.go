package service

import (
	"net/http"

	"connectrpc.com/connect"
)

// Service names, used as URL path prefixes.
const (
	AuthServiceName         = "arisan.v1.AuthService"
	MemberServiceName       = "arisan.v1.MemberService"
	GroupServiceName        = "arisan.v1.GroupService"
	FinanceServiceName      = "arisan.v1.FinanceService"
	ExpenseServiceName      = "arisan.v1.ExpenseService"
	AnnouncementServiceName = "arisan.v1.AnnouncementService"
	WatchServiceName        = "arisan.v1.WatchService"
)

// Fully-qualified procedure names.
const (
	AuthServiceRegisterProcedure       = "/arisan.v1.AuthService/Register"
	AuthServiceLoginProcedure          = "/arisan.v1.AuthService/Login"
	AuthServiceGetCurrentUserProcedure = "/arisan.v1.AuthService/GetCurrentUser"

	MemberServiceCreateMemberProcedure = "/arisan.v1.MemberService/CreateMember"
	MemberServiceGetMemberProcedure    = "/arisan.v1.MemberService/GetMember"
	MemberServiceListMembersProcedure  = "/arisan.v1.MemberService/ListMembers"
	MemberServiceUpdateMemberProcedure = "/arisan.v1.MemberService/UpdateMember"
	MemberServiceDeleteMemberProcedure = "/arisan.v1.MemberService/DeleteMember"

	GroupServiceCreateGroupProcedure = "/arisan.v1.GroupService/CreateGroup"
	GroupServiceGetGroupProcedure    = "/arisan.v1.GroupService/GetGroup"
	GroupServiceListGroupsProcedure  = "/arisan.v1.GroupService/ListGroups"
	GroupServiceUpdateGroupProcedure = "/arisan.v1.GroupService/UpdateGroup"
	GroupServiceDeleteGroupProcedure = "/arisan.v1.GroupService/DeleteGroup"
	GroupServiceDrawWinnerProcedure  = "/arisan.v1.GroupService/DrawWinner"

	FinanceServiceGetSettingsProcedure       = "/arisan.v1.FinanceService/GetSettings"
	FinanceServiceSaveSettingsProcedure      = "/arisan.v1.FinanceService/SaveSettings"
	FinanceServiceReconcilePaymentsProcedure = "/arisan.v1.FinanceService/ReconcilePayments"
	FinanceServiceListPaymentsProcedure      = "/arisan.v1.FinanceService/ListPayments"
	FinanceServiceSetPaidFlagsProcedure      = "/arisan.v1.FinanceService/SetPaidFlags"
	FinanceServiceGetMonthlySummaryProcedure = "/arisan.v1.FinanceService/GetMonthlySummary"

	ExpenseServiceCreateExpenseProcedure = "/arisan.v1.ExpenseService/CreateExpense"
	ExpenseServiceListExpensesProcedure  = "/arisan.v1.ExpenseService/ListExpenses"
	ExpenseServiceUpdateExpenseProcedure = "/arisan.v1.ExpenseService/UpdateExpense"
	ExpenseServiceDeleteExpenseProcedure = "/arisan.v1.ExpenseService/DeleteExpense"

	AnnouncementServiceCreateAnnouncementProcedure = "/arisan.v1.AnnouncementService/CreateAnnouncement"
	AnnouncementServiceListAnnouncementsProcedure  = "/arisan.v1.AnnouncementService/ListAnnouncements"
	AnnouncementServiceDeleteAnnouncementProcedure = "/arisan.v1.AnnouncementService/DeleteAnnouncement"

	WatchServiceWatchProcedure = "/arisan.v1.WatchService/Watch"
)

// PublicProcedures can be called without a session token.
var PublicProcedures = []string{
	AuthServiceRegisterProcedure,
	AuthServiceLoginProcedure,
}

// serviceMux routes the procedures of one service.
type serviceMux map[string]http.Handler

func (m serviceMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h, ok := m[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.ServeHTTP(w, r)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{Codec()}, opts...)
}

// NewAuthServiceHandler builds an HTTP handler for the AuthService.
// It returns the path on which to mount the handler and the handler itself.
func NewAuthServiceHandler(svc *AuthService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + AuthServiceName + "/", serviceMux{
		AuthServiceRegisterProcedure:       connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...),
		AuthServiceLoginProcedure:          connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...),
		AuthServiceGetCurrentUserProcedure: connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...),
	}
}

// NewMemberServiceHandler builds an HTTP handler for the MemberService.
func NewMemberServiceHandler(svc *MemberService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + MemberServiceName + "/", serviceMux{
		MemberServiceCreateMemberProcedure: connect.NewUnaryHandler(MemberServiceCreateMemberProcedure, svc.CreateMember, opts...),
		MemberServiceGetMemberProcedure:    connect.NewUnaryHandler(MemberServiceGetMemberProcedure, svc.GetMember, opts...),
		MemberServiceListMembersProcedure:  connect.NewUnaryHandler(MemberServiceListMembersProcedure, svc.ListMembers, opts...),
		MemberServiceUpdateMemberProcedure: connect.NewUnaryHandler(MemberServiceUpdateMemberProcedure, svc.UpdateMember, opts...),
		MemberServiceDeleteMemberProcedure: connect.NewUnaryHandler(MemberServiceDeleteMemberProcedure, svc.DeleteMember, opts...),
	}
}

// NewGroupServiceHandler builds an HTTP handler for the GroupService.
func NewGroupServiceHandler(svc *GroupService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + GroupServiceName + "/", serviceMux{
		GroupServiceCreateGroupProcedure: connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...),
		GroupServiceGetGroupProcedure:    connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...),
		GroupServiceListGroupsProcedure:  connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...),
		GroupServiceUpdateGroupProcedure: connect.NewUnaryHandler(GroupServiceUpdateGroupProcedure, svc.UpdateGroup, opts...),
		GroupServiceDeleteGroupProcedure: connect.NewUnaryHandler(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts...),
		GroupServiceDrawWinnerProcedure:  connect.NewUnaryHandler(GroupServiceDrawWinnerProcedure, svc.DrawWinner, opts...),
	}
}

// NewFinanceServiceHandler builds an HTTP handler for the FinanceService.
func NewFinanceServiceHandler(svc *FinanceService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + FinanceServiceName + "/", serviceMux{
		FinanceServiceGetSettingsProcedure:       connect.NewUnaryHandler(FinanceServiceGetSettingsProcedure, svc.GetSettings, opts...),
		FinanceServiceSaveSettingsProcedure:      connect.NewUnaryHandler(FinanceServiceSaveSettingsProcedure, svc.SaveSettings, opts...),
		FinanceServiceReconcilePaymentsProcedure: connect.NewUnaryHandler(FinanceServiceReconcilePaymentsProcedure, svc.ReconcilePayments, opts...),
		FinanceServiceListPaymentsProcedure:      connect.NewUnaryHandler(FinanceServiceListPaymentsProcedure, svc.ListPayments, opts...),
		FinanceServiceSetPaidFlagsProcedure:      connect.NewUnaryHandler(FinanceServiceSetPaidFlagsProcedure, svc.SetPaidFlags, opts...),
		FinanceServiceGetMonthlySummaryProcedure: connect.NewUnaryHandler(FinanceServiceGetMonthlySummaryProcedure, svc.GetMonthlySummary, opts...),
	}
}

// NewExpenseServiceHandler builds an HTTP handler for the ExpenseService.
func NewExpenseServiceHandler(svc *ExpenseService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + ExpenseServiceName + "/", serviceMux{
		ExpenseServiceCreateExpenseProcedure: connect.NewUnaryHandler(ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, opts...),
		ExpenseServiceListExpensesProcedure:  connect.NewUnaryHandler(ExpenseServiceListExpensesProcedure, svc.ListExpenses, opts...),
		ExpenseServiceUpdateExpenseProcedure: connect.NewUnaryHandler(ExpenseServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...),
		ExpenseServiceDeleteExpenseProcedure: connect.NewUnaryHandler(ExpenseServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...),
	}
}

// NewAnnouncementServiceHandler builds an HTTP handler for the AnnouncementService.
func NewAnnouncementServiceHandler(svc *AnnouncementService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + AnnouncementServiceName + "/", serviceMux{
		AnnouncementServiceCreateAnnouncementProcedure: connect.NewUnaryHandler(AnnouncementServiceCreateAnnouncementProcedure, svc.CreateAnnouncement, opts...),
		AnnouncementServiceListAnnouncementsProcedure:  connect.NewUnaryHandler(AnnouncementServiceListAnnouncementsProcedure, svc.ListAnnouncements, opts...),
		AnnouncementServiceDeleteAnnouncementProcedure: connect.NewUnaryHandler(AnnouncementServiceDeleteAnnouncementProcedure, svc.DeleteAnnouncement, opts...),
	}
}

// NewWatchServiceHandler builds an HTTP handler for the WatchService.
func NewWatchServiceHandler(svc *WatchService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + WatchServiceName + "/", serviceMux{
		WatchServiceWatchProcedure: connect.NewServerStreamHandler(WatchServiceWatchProcedure, svc.Watch, opts...),
	}
}
