package middleware

import (
	"context"
	"net/http"

	"github.com/haritkart/storefront/api/responses"
	"github.com/haritkart/storefront/internal/session"
	"github.com/haritkart/storefront/pkg/logger"
	"github.com/haritkart/storefront/pkg/upstream"
)

// ProfileResolver turns a raw Cookie header into the authenticated user.
type ProfileResolver interface {
	Resolve(ctx context.Context, rawCookie string) (*session.Profile, error)
}

// SessionCookies copies the browser's Cookie header into the context so
// every upstream call made for this request carries the session. It does
// not require a session to be present.
func SessionCookies() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := upstream.WithSessionCookies(r.Context(), r.Header.Get("Cookie"))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Session resolves the caller's profile and seeds the request context with
// it. Requests without a valid session are rejected with a login redirect.
func Session(resolver ProfileResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			profile, err := resolver.Resolve(ctx, r.Header.Get("Cookie"))
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}

			ctx = WithProfile(ctx, profile)
			if logg != nil {
				ctx = logg.WithUserID(ctx, profile.ID)
				ctx = logg.WithActorRole(ctx, profile.Role)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
