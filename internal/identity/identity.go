// Package identity carries the signed-in viewer through a context.Context.
package identity

import (
	"context"

	"vibeconnect/internal/models"
)

type viewerKey struct{}

// WithViewer returns a copy of ctx carrying userID as the current identity.
func WithViewer(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, viewerKey{}, userID)
}

// FromContext returns the viewer stored in ctx, if any.
func FromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(viewerKey{}).(uint)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

// Current resolves the signed-in viewer or fails with an unauthorized error.
func Current(ctx context.Context) (uint, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return 0, models.NewUnauthorizedError("No signed-in user")
	}
	return id, nil
}
