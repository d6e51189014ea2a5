package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/haritkart/storefront/internal/session"
	"github.com/haritkart/storefront/pkg/types"
	"github.com/haritkart/storefront/pkg/upstream"
)

type fakeResolver struct {
	profile *session.Profile
	err     error
	cookie  string
}

func (f *fakeResolver) Resolve(_ context.Context, rawCookie string) (*session.Profile, error) {
	f.cookie = rawCookie
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

func TestSessionSeedsContext(t *testing.T) {
	resolver := &fakeResolver{profile: &session.Profile{ID: "u1", Role: session.RoleConsumer}}
	var gotUser, gotRole string
	handler := Session(resolver, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Cookie", "session=abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resolver.cookie != "session=abc" {
		t.Fatalf("resolver saw cookie %q", resolver.cookie)
	}
	if gotUser != "u1" || gotRole != session.RoleConsumer {
		t.Fatalf("context not seeded: user=%q role=%q", gotUser, gotRole)
	}
}

func TestSessionRejectsWithLoginRedirect(t *testing.T) {
	resolver := &fakeResolver{err: unauthorizedLoginErr()}
	handler := Session(resolver, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var payload types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.RedirectTo != "/login" {
		t.Fatalf("expected /login redirect, got %q", payload.RedirectTo)
	}
}

func TestSessionCookiesAttachesHeader(t *testing.T) {
	var seen string
	handler := SessionCookies()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = upstream.SessionCookiesFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Cookie", "session=xyz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "session=xyz" {
		t.Fatalf("cookie not attached, got %q", seen)
	}
}
