package middleware

import (
	"context"

	"github.com/haritkart/storefront/internal/session"
)

type contextKey string

const (
	ctxUserID  contextKey = "user_id"
	ctxRole    contextKey = "actor_role"
	ctxProfile contextKey = "profile"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

func ProfileFromContext(ctx context.Context) *session.Profile {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxProfile).(*session.Profile); ok {
		return v
	}
	return nil
}

// WithProfile seeds the context with the resolved user, mainly for tests.
func WithProfile(ctx context.Context, profile *session.Profile) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if profile == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, ctxProfile, profile)
	ctx = context.WithValue(ctx, ctxUserID, profile.ID)
	return context.WithValue(ctx, ctxRole, profile.Role)
}
