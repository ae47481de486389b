// Package requestctx carries ambient request data (the authenticated
// principal, client IP, user agent) through context so services and the
// activity recorder can read it without depending on the HTTP layer.
package requestctx

import (
	"context"

	"backoffice/internal/model"
)

type actorContextKey struct{}

type requestInfoContextKey struct{}

// RequestInfo holds the client metadata captured into each activity log.
type RequestInfo struct {
	IPAddress string
	UserAgent string
}

// WithActor stores the authenticated principal in context.
func WithActor(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, actorContextKey{}, user)
}

// Actor extracts the authenticated principal, or nil when the request is
// unauthenticated or the work is system-initiated.
func Actor(ctx context.Context) *model.User {
	user, _ := ctx.Value(actorContextKey{}).(*model.User)
	return user
}

// WithRequestInfo stores client metadata in context.
func WithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoContextKey{}, info)
}

// Info extracts client metadata; zero values when absent.
func Info(ctx context.Context) RequestInfo {
	info, _ := ctx.Value(requestInfoContextKey{}).(RequestInfo)
	return info
}
