package session

import (
	"context"
	"net/http"

	pkgerrors "github.com/haritkart/storefront/pkg/errors"
	"github.com/haritkart/storefront/pkg/logger"
	"github.com/haritkart/storefront/pkg/upstream"
)

type upstreamCaller interface {
	Do(ctx context.Context, req upstream.Request, out any) (*upstream.Meta, error)
}

// Resolver turns a browser session cookie into a user profile, consulting
// the cache before the core API.
type Resolver struct {
	api   upstreamCaller
	store *Store
	logg  *logger.Logger
}

func NewResolver(api upstreamCaller, store *Store, logg *logger.Logger) *Resolver {
	return &Resolver{api: api, store: store, logg: logg}
}

// Resolve returns the profile for the session, or an unauthorized error
// pointing the caller at the login page.
func (r *Resolver) Resolve(ctx context.Context, rawCookie string) (*Profile, error) {
	if rawCookie == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required").WithRedirect("/login")
	}

	cached, err := r.store.Get(ctx, rawCookie)
	if err != nil && r.logg != nil {
		r.logg.Warn(r.logg.WithField(ctx, "cache_error", err.Error()), "session.cache.read_failed")
	}
	if cached != nil {
		return cached, nil
	}

	ctx = upstream.WithSessionCookies(ctx, rawCookie)

	var payload struct {
		User Profile `json:"user"`
	}
	if _, err := r.api.Do(ctx, upstream.Request{
		Op:     "auth.whoami",
		Method: http.MethodGet,
		Path:   "/api/v1/users/me",
	}, &payload); err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeUnauthorized {
			return nil, typed.WithRedirect("/login")
		}
		return nil, err
	}

	if err := r.store.Put(ctx, rawCookie, &payload.User); err != nil && r.logg != nil {
		r.logg.Warn(r.logg.WithField(ctx, "cache_error", err.Error()), "session.cache.write_failed")
	}
	return &payload.User, nil
}

// Invalidate drops any cached profile for the session.
func (r *Resolver) Invalidate(ctx context.Context, rawCookie string) {
	if err := r.store.Clear(ctx, rawCookie); err != nil && r.logg != nil {
		r.logg.Warn(r.logg.WithField(ctx, "cache_error", err.Error()), "session.cache.clear_failed")
	}
}
