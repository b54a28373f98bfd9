package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/arisan/internal/diagnostics"
	"github.com/mmynk/arisan/internal/storage"
)

// WatchService streams full collection snapshots to the dashboard.
type WatchService struct {
	store    storage.Store
	reporter *diagnostics.Reporter
}

// NewWatchService creates a new WatchService.
func NewWatchService(store storage.Store, reporter *diagnostics.Reporter) *WatchService {
	return &WatchService{store: store, reporter: reporter}
}

// Watch sends the current contents of a collection, then a new snapshot after
// every change, until the client goes away. A slow client only ever gets the
// latest snapshot; intermediate ones are dropped.
func (s *WatchService) Watch(ctx context.Context, req *connect.Request[WatchRequest], stream *connect.ServerStream[WatchResponse]) error {
	collection := req.Msg.Collection
	slog.Info("Watch started", "collection", collection)

	updates := make(chan storage.Snapshot, 1)
	unsubscribe, err := s.store.Subscribe(ctx, collection, func(snap storage.Snapshot) {
		for {
			select {
			case updates <- snap:
				return
			default:
			}
			// Replace the pending snapshot with the newer one.
			select {
			case <-updates:
			default:
			}
		}
	})
	if err != nil {
		if errors.Is(err, storage.ErrUnknownCollection) {
			err = diagnostics.Invalid(err)
		}
		return s.reporter.Error(ctx, WatchServiceWatchProcedure, err)
	}
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Watch ended", "collection", collection)
			return nil
		case snap := <-updates:
			if err := stream.Send(&WatchResponse{Snapshot: snap}); err != nil {
				return err
			}
		}
	}
}
