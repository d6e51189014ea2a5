package upstream

import "context"

type sessionCtxKey struct{}

// WithSessionCookies stores the raw Cookie header from the browser so every
// upstream call made for this request carries the user's session.
func WithSessionCookies(ctx context.Context, rawCookieHeader string) context.Context {
	if rawCookieHeader == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionCtxKey{}, rawCookieHeader)
}

// SessionCookiesFromContext returns the raw Cookie header, if any.
func SessionCookiesFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(sessionCtxKey{}).(string); ok {
		return v
	}
	return ""
}
