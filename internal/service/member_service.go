package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/arisan/internal/diagnostics"
	"github.com/mmynk/arisan/internal/models"
	"github.com/mmynk/arisan/internal/storage"
)

// MemberService implements the Connect MemberService.
type MemberService struct {
	store    storage.Store
	reporter *diagnostics.Reporter
}

// NewMemberService creates a new MemberService with the given storage backend.
func NewMemberService(store storage.Store, reporter *diagnostics.Reporter) *MemberService {
	return &MemberService{store: store, reporter: reporter}
}

// CreateMember adds a member to the family roster.
func (s *MemberService) CreateMember(ctx context.Context, req *connect.Request[CreateMemberRequest]) (*connect.Response[MemberResponse], error) {
	slog.Info("CreateMember request received", "name", req.Msg.Name)

	member := &models.Member{
		Name:     req.Msg.Name,
		Phone:    req.Msg.Phone,
		Email:    req.Msg.Email,
		Address:  req.Msg.Address,
		JoinedAt: req.Msg.JoinedAt,
	}
	if err := member.Validate(); err != nil {
		return nil, s.reporter.Error(ctx, MemberServiceCreateMemberProcedure, diagnostics.Invalid(err))
	}

	if err := s.store.CreateMember(ctx, member); err != nil {
		return nil, s.reporter.Error(ctx, MemberServiceCreateMemberProcedure, err)
	}

	slog.Info("Member created", "member_id", member.ID)
	return connect.NewResponse(&MemberResponse{Member: member}), nil
}

// GetMember retrieves a member by ID.
func (s *MemberService) GetMember(ctx context.Context, req *connect.Request[GetMemberRequest]) (*connect.Response[MemberResponse], error) {
	member, err := s.store.GetMember(ctx, req.Msg.MemberID)
	if err != nil {
		return nil, s.reporter.Error(ctx, MemberServiceGetMemberProcedure, err)
	}
	return connect.NewResponse(&MemberResponse{Member: member}), nil
}

// ListMembers retrieves all members.
func (s *MemberService) ListMembers(ctx context.Context, req *connect.Request[ListMembersRequest]) (*connect.Response[ListMembersResponse], error) {
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, s.reporter.Error(ctx, MemberServiceListMembersProcedure, err)
	}
	if members == nil {
		members = []*models.Member{}
	}

	slog.Debug("ListMembers successful", "count", len(members))
	return connect.NewResponse(&ListMembersResponse{Members: members}), nil
}

// UpdateMember overwrites a member's details.
func (s *MemberService) UpdateMember(ctx context.Context, req *connect.Request[UpdateMemberRequest]) (*connect.Response[MemberResponse], error) {
	slog.Info("UpdateMember request received", "member_id", req.Msg.MemberID)

	member, err := s.store.GetMember(ctx, req.Msg.MemberID)
	if err != nil {
		return nil, s.reporter.Error(ctx, MemberServiceUpdateMemberProcedure, err)
	}
	member.Name = req.Msg.Name
	member.Phone = req.Msg.Phone
	member.Email = req.Msg.Email
	member.Address = req.Msg.Address
	if req.Msg.JoinedAt != 0 {
		member.JoinedAt = req.Msg.JoinedAt
	}
	if err := member.Validate(); err != nil {
		return nil, s.reporter.Error(ctx, MemberServiceUpdateMemberProcedure, diagnostics.Invalid(err))
	}

	if err := s.store.UpdateMember(ctx, member); err != nil {
		return nil, s.reporter.Error(ctx, MemberServiceUpdateMemberProcedure, err)
	}
	return connect.NewResponse(&MemberResponse{Member: member}), nil
}

// DeleteMember removes a member and strips it from every group.
// Payments the member already has are kept.
func (s *MemberService) DeleteMember(ctx context.Context, req *connect.Request[DeleteMemberRequest]) (*connect.Response[DeleteResponse], error) {
	slog.Info("DeleteMember request received", "member_id", req.Msg.MemberID)

	if err := s.store.DeleteMember(ctx, req.Msg.MemberID); err != nil {
		return nil, s.reporter.Error(ctx, MemberServiceDeleteMemberProcedure, err)
	}

	slog.Info("Member deleted", "member_id", req.Msg.MemberID)
	return connect.NewResponse(&DeleteResponse{}), nil
}
