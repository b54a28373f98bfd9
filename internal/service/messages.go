package service

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/arisan/internal/calculator"
	"github.com/mmynk/arisan/internal/finance"
	"github.com/mmynk/arisan/internal/models"
	"github.com/mmynk/arisan/internal/storage"
)

// Auth

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the public view of an account; it never carries the password hash.
type User struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	DisplayName string      `json:"displayName"`
	Role        models.Role `json:"role"`
	CreatedAt   int64       `json:"createdAt"`
}

type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

func toUser(u *models.User) *User {
	return &User{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName, Role: u.Role, CreatedAt: u.CreatedAt}
}

// Members

type CreateMemberRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	JoinedAt int64  `json:"joinedAt"`
}

type MemberResponse struct {
	Member *models.Member `json:"member"`
}

type GetMemberRequest struct {
	MemberID string `json:"memberId"`
}

type ListMembersRequest struct{}

type ListMembersResponse struct {
	Members []*models.Member `json:"members"`
}

type UpdateMemberRequest struct {
	MemberID string `json:"memberId"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	JoinedAt int64  `json:"joinedAt"`
}

type DeleteMemberRequest struct {
	MemberID string `json:"memberId"`
}

type DeleteResponse struct{}

// Groups

type CreateGroupRequest struct {
	Name               string          `json:"name"`
	Cycle              models.Cycle    `json:"cycle"`
	ContributionAmount decimal.Decimal `json:"contributionAmount"`
	MemberIDs          []string        `json:"memberIds"`
}

type GroupResponse struct {
	Group *models.Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*models.Group `json:"groups"`
}

// UpdateGroupRequest replaces the editable fields of a group. Version must be
// the version the caller read; a stale version fails with Aborted.
type UpdateGroupRequest struct {
	GroupID            string          `json:"groupId"`
	Name               string          `json:"name"`
	Cycle              models.Cycle    `json:"cycle"`
	ContributionAmount decimal.Decimal `json:"contributionAmount"`
	MemberIDs          []string        `json:"memberIds"`
	Version            int64           `json:"version"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"groupId"`
}

type DrawWinnerRequest struct {
	GroupID string `json:"groupId"`
}

type DrawWinnerResponse struct {
	Winner *models.Member `json:"winner"`
	Group  *models.Group  `json:"group"`
}

// Finance

type GetSettingsRequest struct {
	Month string `json:"month"`
}

type GetSettingsResponse struct {
	Settings *models.ContributionSettings `json:"settings"`
	// Source is exact, previous or default.
	Source finance.Source `json:"source"`
}

type SaveSettingsRequest struct {
	Settings *models.ContributionSettings `json:"settings"`
}

type SaveSettingsResponse struct {
	Settings *models.ContributionSettings `json:"settings"`
}

type ReconcilePaymentsRequest struct {
	GroupID string `json:"groupId"`
	Month   string `json:"month"`
}

type ReconcilePaymentsResponse struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

type ListPaymentsRequest struct {
	GroupID string `json:"groupId"`
	Month   string `json:"month"`
}

// PaymentView is a stored payment plus its read-time status.
type PaymentView struct {
	*models.Payment
	DisplayStatus models.PaymentStatus `json:"displayStatus"`
}

type ListPaymentsResponse struct {
	Payments []PaymentView `json:"payments"`
}

// PaidFlag sets one category of one payment paid or unpaid.
type PaidFlag struct {
	PaymentID  string `json:"paymentId"`
	CategoryID string `json:"categoryId"`
	Paid       bool   `json:"paid"`
}

type SetPaidFlagsRequest struct {
	Flags []PaidFlag `json:"flags"`
}

type SetPaidFlagsResponse struct {
	Payments []*models.Payment `json:"payments"`
}

type GetMonthlySummaryRequest struct {
	GroupID string `json:"groupId"`
	Month   string `json:"month"`
}

type GetMonthlySummaryResponse struct {
	Summary calculator.MonthlySummary `json:"summary"`
}

// Expenses

type CreateExpenseRequest struct {
	Date        int64                  `json:"date"`
	Description string                 `json:"description"`
	Amount      decimal.Decimal        `json:"amount"`
	Category    models.ExpenseCategory `json:"category"`
}

type ExpenseResponse struct {
	Expense *models.Expense `json:"expense"`
}

type ListExpensesRequest struct{}

type ListExpensesResponse struct {
	Expenses []*models.Expense `json:"expenses"`
}

type UpdateExpenseRequest struct {
	ExpenseID   string                 `json:"expenseId"`
	Date        int64                  `json:"date"`
	Description string                 `json:"description"`
	Amount      decimal.Decimal        `json:"amount"`
	Category    models.ExpenseCategory `json:"category"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

// Announcements

type CreateAnnouncementRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type AnnouncementResponse struct {
	Announcement *models.Announcement `json:"announcement"`
}

type ListAnnouncementsRequest struct{}

type ListAnnouncementsResponse struct {
	Announcements []*models.Announcement `json:"announcements"`
}

type DeleteAnnouncementRequest struct {
	AnnouncementID string `json:"announcementId"`
}

// Watch

type WatchRequest struct {
	Collection string `json:"collection"`
}

type WatchResponse struct {
	Snapshot storage.Snapshot `json:"snapshot"`
}
