package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/haritkart/storefront/internal/session"
	"github.com/haritkart/storefront/pkg/config"
	pkgerrors "github.com/haritkart/storefront/pkg/errors"
	pkgredis "github.com/haritkart/storefront/pkg/redis"
	"github.com/haritkart/storefront/pkg/upstream"
)

type scriptedCall struct {
	method  string
	path    string
	data    string
	cookies []*http.Cookie
	err     error
}

type scriptedAPI struct {
	t     *testing.T
	calls []scriptedCall
	next  int
}

func (s *scriptedAPI) Do(_ context.Context, req upstream.Request, out any) (*upstream.Meta, error) {
	s.t.Helper()
	if s.next >= len(s.calls) {
		s.t.Fatalf("unexpected upstream call %s %s", req.Method, req.Path)
	}
	call := s.calls[s.next]
	s.next++

	if req.Method != call.method || req.Path != call.path {
		s.t.Fatalf("expected %s %s, got %s %s", call.method, call.path, req.Method, req.Path)
	}
	if call.err != nil {
		return nil, call.err
	}
	if out != nil && call.data != "" {
		if err := json.Unmarshal([]byte(call.data), out); err != nil {
			s.t.Fatalf("unmarshal scripted data: %v", err)
		}
	}
	return &upstream.Meta{Cookies: call.cookies}, nil
}

func (s *scriptedAPI) done() {
	s.t.Helper()
	if s.next != len(s.calls) {
		s.t.Fatalf("expected %d upstream calls, saw %d", len(s.calls), s.next)
	}
}

func newSvc(t *testing.T, calls ...scriptedCall) (Service, *scriptedAPI, *session.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := pkgredis.New(context.Background(), config.RedisConfig{Address: mr.Addr()})
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	api := &scriptedAPI{t: t, calls: calls}
	store := session.NewStore(client, time.Minute)
	resolver := session.NewResolver(api, store, nil)
	svc, err := NewService(api, resolver, store, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, api, store
}

func TestLoginRelaysCookies(t *testing.T) {
	svc, api, _ := newSvc(t, scriptedCall{
		method:  "POST",
		path:    "/api/v1/users/login",
		data:    `{"user":{"id":"u1","name":"Asha","email":"a@x.in","role":"consumer"}}`,
		cookies: []*http.Cookie{{Name: "session", Value: "abc"}},
	})

	result, err := svc.Login(context.Background(), LoginInput{Email: "a@x.in", Password: "secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	api.done()
	if result.User.ID != "u1" || result.User.Role != session.RoleConsumer {
		t.Fatalf("unexpected user %+v", result.User)
	}
	if len(result.Cookies) != 1 || result.Cookies[0].Name != "session" {
		t.Fatalf("session cookie not relayed: %+v", result.Cookies)
	}
}

func TestLogoutFailOpenClearsCache(t *testing.T) {
	svc, api, store := newSvc(t,
		scriptedCall{method: "GET", path: "/api/v1/users/me", data: `{"user":{"id":"u1","role":"consumer"}}`},
		scriptedCall{method: "GET", path: "/api/v1/users/logout", err: pkgerrors.New(pkgerrors.CodeDependency, "upstream down")},
	)

	ctx := context.Background()
	if _, err := svc.WhoAmI(ctx, "session=abc"); err != nil {
		t.Fatalf("whoami: %v", err)
	}

	_, err := svc.Logout(ctx, "session=abc")
	if err == nil {
		t.Fatalf("expected combined error from failed upstream logout")
	}
	api.done()

	cached, err := store.Get(ctx, "session=abc")
	if err != nil {
		t.Fatalf("cache get: %v", err)
	}
	if cached != nil {
		t.Fatalf("cache must be cleared even when upstream logout fails")
	}
}

func TestBecomeFarmerInvalidatesCache(t *testing.T) {
	svc, api, store := newSvc(t,
		scriptedCall{method: "GET", path: "/api/v1/users/me", data: `{"user":{"id":"u1","role":"consumer"}}`},
		scriptedCall{method: "POST", path: "/api/v1/users/become-farmer", data: `{"user":{"id":"u1","role":"farmer"}}`},
	)

	ctx := context.Background()
	if _, err := svc.WhoAmI(ctx, "session=abc"); err != nil {
		t.Fatalf("whoami: %v", err)
	}

	updated, err := svc.BecomeFarmer(ctx, "session=abc", BecomeFarmerInput{FarmLocation: "Nashik", Experience: 3})
	if err != nil {
		t.Fatalf("become farmer: %v", err)
	}
	api.done()
	if updated.Role != session.RoleFarmer {
		t.Fatalf("unexpected role %q", updated.Role)
	}

	cached, err := store.Get(ctx, "session=abc")
	if err != nil {
		t.Fatalf("cache get: %v", err)
	}
	if cached != nil {
		t.Fatalf("stale consumer profile must be dropped")
	}
}

func TestSelectConsumerRolePersistsLocally(t *testing.T) {
	svc, api, store := newSvc(t,
		scriptedCall{method: "GET", path: "/api/v1/users/me", data: `{"user":{"id":"u1","role":""}}`},
	)

	ctx := context.Background()
	profile, err := svc.SelectConsumerRole(ctx, "session=abc")
	if err != nil {
		t.Fatalf("select role: %v", err)
	}
	api.done()
	if profile.Role != session.RoleConsumer {
		t.Fatalf("unexpected role %q", profile.Role)
	}

	cached, err := store.Get(ctx, "session=abc")
	if err != nil || cached == nil {
		t.Fatalf("expected cached profile, got %v %v", cached, err)
	}
	if cached.Role != session.RoleConsumer {
		t.Fatalf("role not persisted, got %q", cached.Role)
	}
}

func TestSelectConsumerRoleRejectsFarmer(t *testing.T) {
	svc, api, _ := newSvc(t,
		scriptedCall{method: "GET", path: "/api/v1/users/me", data: `{"user":{"id":"u1","role":"farmer"}}`},
	)

	_, err := svc.SelectConsumerRole(context.Background(), "session=abc")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if typed.Redirect() != "/dashboard/farmer" {
		t.Fatalf("expected dashboard redirect, got %q", typed.Redirect())
	}
	api.done()
}

func TestUpdatePasswordRejectsMismatchLocally(t *testing.T) {
	svc, api, _ := newSvc(t)
	_, err := svc.UpdatePassword(context.Background(), "session=abc", UpdatePasswordInput{
		CurrentPassword: "old", Password: "new1", PasswordConfirm: "new2",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	api.done()
}

func TestForgotPassword(t *testing.T) {
	svc, api, _ := newSvc(t, scriptedCall{
		method: "POST",
		path:   "/api/v1/users/forgotpassword",
		data:   `{"reset_url":"https://core.example.com/reset/tok"}`,
	})

	result, err := svc.ForgotPassword(context.Background(), "a@x.in")
	if err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	api.done()
	if result.ResetURL == "" {
		t.Fatalf("reset url not carried through")
	}
}

func TestResetPasswordValidatesToken(t *testing.T) {
	svc, api, _ := newSvc(t)
	if _, err := svc.ResetPassword(context.Background(), " ", ResetPasswordInput{Password: "x", ConfirmPassword: "x"}); pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error")
	}
	api.done()
}
