package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/arisan/internal/diagnostics"
	"github.com/mmynk/arisan/internal/lottery"
	"github.com/mmynk/arisan/internal/metrics"
	"github.com/mmynk/arisan/internal/models"
	"github.com/mmynk/arisan/internal/storage"
)

// ErrUnknownMember is returned when a group lists a member that does not exist.
var ErrUnknownMember = errors.New("unknown member")

// GroupService implements the Connect GroupService
type GroupService struct {
	store    storage.Store
	drawer   *lottery.Drawer
	reporter *diagnostics.Reporter
	draws    *inflight
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, drawer *lottery.Drawer, reporter *diagnostics.Reporter) *GroupService {
	return &GroupService{
		store:    store,
		drawer:   drawer,
		reporter: reporter,
		draws:    newInflight(),
	}
}

// checkMembers verifies that every ID refers to an existing member.
func (s *GroupService) checkMembers(ctx context.Context, memberIDs []string) error {
	for _, id := range memberIDs {
		if _, err := s.store.GetMember(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return diagnostics.Invalid(fmt.Errorf("%w: %s", ErrUnknownMember, id))
			}
			return err
		}
	}
	return nil
}

// CreateGroup creates a new group.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[GroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.MemberIDs),
	)

	group := &models.Group{
		Name:               req.Msg.Name,
		Cycle:              req.Msg.Cycle,
		ContributionAmount: req.Msg.ContributionAmount,
		MemberIDs:          req.Msg.MemberIDs,
	}
	if group.Cycle == "" {
		group.Cycle = models.CycleMonthly
	}
	if group.MemberIDs == nil {
		group.MemberIDs = []string{}
	}
	if err := group.Validate(); err != nil {
		return nil, s.reporter.Error(ctx, GroupServiceCreateGroupProcedure, diagnostics.Invalid(err))
	}
	if err := s.checkMembers(ctx, group.MemberIDs); err != nil {
		return nil, s.reporter.Error(ctx, GroupServiceCreateGroupProcedure, err)
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, s.reporter.Error(ctx, GroupServiceCreateGroupProcedure, err)
	}

	slog.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&GroupResponse{Group: group}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GroupResponse], error) {
	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, s.reporter.Error(ctx, GroupServiceGetGroupProcedure, err)
	}
	return connect.NewResponse(&GroupResponse{Group: group}), nil
}

// ListGroups retrieves all groups.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, s.reporter.Error(ctx, GroupServiceListGroupsProcedure, err)
	}
	if groups == nil {
		groups = []*models.Group{}
	}

	slog.Debug("ListGroups successful", "count", len(groups))
	return connect.NewResponse(&ListGroupsResponse{Groups: groups}), nil
}

// UpdateGroup replaces a group's name, cycle, amount and membership. The
// winner history is never touched here. A removed member stops being the
// current winner.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[UpdateGroupRequest]) (*connect.Response[GroupResponse], error) {
	slog.Info("UpdateGroup request received",
		"group_id", req.Msg.GroupID,
		"name", req.Msg.Name,
		"members_count", len(req.Msg.MemberIDs),
	)

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, s.reporter.Error(ctx, GroupServiceUpdateGroupProcedure, err)
	}

	group.Name = req.Msg.Name
	if req.Msg.Cycle != "" {
		group.Cycle = req.Msg.Cycle
	}
	group.ContributionAmount = req.Msg.ContributionAmount
	group.MemberIDs = req.Msg.MemberIDs
	if group.MemberIDs == nil {
		group.MemberIDs = []string{}
	}
	if group.CurrentWinnerID != "" && !group.HasMember(group.CurrentWinnerID) {
		group.CurrentWinnerID = ""
	}
	if req.Msg.Version != 0 {
		group.Version = req.Msg.Version
	}

	if err := group.Validate(); err != nil {
		return nil, s.reporter.Error(ctx, GroupServiceUpdateGroupProcedure, diagnostics.Invalid(err))
	}
	if err := s.checkMembers(ctx, group.MemberIDs); err != nil {
		return nil, s.reporter.Error(ctx, GroupServiceUpdateGroupProcedure, err)
	}

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, s.reporter.Error(ctx, GroupServiceUpdateGroupProcedure, err)
	}

	slog.Info("Group updated", "group_id", group.ID, "version", group.Version)
	return connect.NewResponse(&GroupResponse{Group: group}), nil
}

// DeleteGroup deletes a group. Its payments are kept.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if err := s.store.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		return nil, s.reporter.Error(ctx, GroupServiceDeleteGroupProcedure, err)
	}
	return connect.NewResponse(&DeleteResponse{}), nil
}

// DrawWinner picks the next winner of a group.
func (s *GroupService) DrawWinner(ctx context.Context, req *connect.Request[DrawWinnerRequest]) (*connect.Response[DrawWinnerResponse], error) {
	slog.Info("DrawWinner request received", "group_id", req.Msg.GroupID)

	release, err := s.draws.acquire(req.Msg.GroupID)
	if err != nil {
		return nil, s.reporter.Error(ctx, GroupServiceDrawWinnerProcedure, err)
	}
	defer release()

	outcome, err := s.drawer.Draw(ctx, req.Msg.GroupID)
	if err != nil {
		if errors.Is(err, lottery.ErrExhausted) {
			metrics.Draws.WithLabelValues("exhausted").Inc()
		} else {
			metrics.Draws.WithLabelValues("error").Inc()
		}
		return nil, s.reporter.Error(ctx, GroupServiceDrawWinnerProcedure, err)
	}
	metrics.Draws.WithLabelValues("ok").Inc()

	return connect.NewResponse(&DrawWinnerResponse{Winner: outcome.Winner, Group: outcome.Group}), nil
}
