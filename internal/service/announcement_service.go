package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/arisan/internal/diagnostics"
	"github.com/mmynk/arisan/internal/models"
	"github.com/mmynk/arisan/internal/storage"
)

// AnnouncementService implements the Connect AnnouncementService.
type AnnouncementService struct {
	store    storage.Store
	reporter *diagnostics.Reporter
}

func NewAnnouncementService(store storage.Store, reporter *diagnostics.Reporter) *AnnouncementService {
	return &AnnouncementService{store: store, reporter: reporter}
}

func (s *AnnouncementService) CreateAnnouncement(ctx context.Context, req *connect.Request[CreateAnnouncementRequest]) (*connect.Response[AnnouncementResponse], error) {
	a := &models.Announcement{Title: req.Msg.Title, Body: req.Msg.Body}
	if err := a.Validate(); err != nil {
		return nil, s.reporter.Error(ctx, AnnouncementServiceCreateAnnouncementProcedure, diagnostics.Invalid(err))
	}
	if err := s.store.CreateAnnouncement(ctx, a); err != nil {
		return nil, s.reporter.Error(ctx, AnnouncementServiceCreateAnnouncementProcedure, err)
	}
	return connect.NewResponse(&AnnouncementResponse{Announcement: a}), nil
}

func (s *AnnouncementService) ListAnnouncements(ctx context.Context, req *connect.Request[ListAnnouncementsRequest]) (*connect.Response[ListAnnouncementsResponse], error) {
	list, err := s.store.ListAnnouncements(ctx)
	if err != nil {
		return nil, s.reporter.Error(ctx, AnnouncementServiceListAnnouncementsProcedure, err)
	}
	if list == nil {
		list = []*models.Announcement{}
	}
	return connect.NewResponse(&ListAnnouncementsResponse{Announcements: list}), nil
}

func (s *AnnouncementService) DeleteAnnouncement(ctx context.Context, req *connect.Request[DeleteAnnouncementRequest]) (*connect.Response[DeleteResponse], error) {
	if err := s.store.DeleteAnnouncement(ctx, req.Msg.AnnouncementID); err != nil {
		return nil, s.reporter.Error(ctx, AnnouncementServiceDeleteAnnouncementProcedure, err)
	}
	return connect.NewResponse(&DeleteResponse{}), nil
}
