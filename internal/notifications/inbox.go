// Package notifications keeps a polled view of a user's pending inbound
// connection requests and projects it for display.
package notifications

import (
	"context"
	"log/slog"
	"sort"

	"vibeconnect/internal/middleware"
	"vibeconnect/internal/models"
	"vibeconnect/internal/observability"
	"vibeconnect/internal/repository"
)

// Source produces the current notifications for a viewer.
type Source interface {
	Refresh(ctx context.Context, viewerID uint) ([]models.Notification, error)
}

// Inbox builds notifications from the entity store.
type Inbox struct {
	connections repository.ConnectionRepository
	profiles    repository.ProfileRepository
}

// NewInbox returns an Inbox reading from the given repositories.
func NewInbox(connections repository.ConnectionRepository, profiles repository.ProfileRepository) *Inbox {
	return &Inbox{connections: connections, profiles: profiles}
}

// Refresh lists the viewer's pending inbound requests joined with each sender's profile.
// A request whose sender profile cannot be loaded is dropped; only a failed
// listing fails the call. The result is ordered oldest first.
func (i *Inbox) Refresh(ctx context.Context, viewerID uint) ([]models.Notification, error) {
	reqs, err := i.connections.ListPendingForRecipient(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	out := make([]models.Notification, 0, len(reqs))
	for _, req := range reqs {
		sender, err := i.profiles.GetByUserID(ctx, req.InitiatorID)
		if err != nil {
			observability.NotificationsDropped.WithLabelValues(observability.Outcome(err)).Inc()
			middleware.Logger.WarnContext(ctx, "dropping notification: sender profile unavailable",
				slog.Uint64("request_id", uint64(req.ID)),
				slog.Uint64("sender_id", uint64(req.InitiatorID)),
				slog.String("error", err.Error()),
			)
			continue
		}
		out = append(out, models.NewNotification(req, *sender))
	}

	sortOldestFirst(out)
	return out, nil
}

func sortOldestFirst(items []models.Notification) {
	sort.SliceStable(items, func(a, b int) bool {
		return before(items[a], items[b])
	})
}

func before(a, b models.Notification) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.SourceRequestID < b.SourceRequestID
}
