package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/multierr"

	"github.com/haritkart/storefront/internal/session"
	pkgerrors "github.com/haritkart/storefront/pkg/errors"
	"github.com/haritkart/storefront/pkg/logger"
	"github.com/haritkart/storefront/pkg/upstream"
)

type apiCaller interface {
	Do(ctx context.Context, req upstream.Request, out any) (*upstream.Meta, error)
}

// Result is an auth operation's outcome: the user plus any session cookies
// the upstream issued, which must be relayed to the browser.
type Result struct {
	User    *session.Profile
	Cookies []*http.Cookie
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

// BecomeFarmerInput is the detail sheet a consumer files to start selling.
type BecomeFarmerInput struct {
	Experience     int      `json:"experience"`
	FarmLocation   string   `json:"farm_location"`
	Certifications []string `json:"certifications"`
	Location       string   `json:"location"`
	Specialization string   `json:"specialization"`
}

type UpdateProfileInput struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Mobile *string `json:"mobile,omitempty"`
}

type UpdatePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type ResetPasswordInput struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ForgotPasswordResult carries the upstream acknowledgement. ResetURL is
// only populated by non-production upstreams.
type ForgotPasswordResult struct {
	Message  string
	ResetURL string
}

// Service fronts the core API's user and session endpoints. It owns the
// profile cache: any call that changes the user drops the cached copy.
type Service interface {
	WhoAmI(ctx context.Context, rawCookie string) (*session.Profile, error)
	Login(ctx context.Context, input LoginInput) (*Result, error)
	Signup(ctx context.Context, input SignupInput) (*Result, error)
	Logout(ctx context.Context, rawCookie string) ([]*http.Cookie, error)
	BecomeFarmer(ctx context.Context, rawCookie string, input BecomeFarmerInput) (*session.Profile, error)
	SelectConsumerRole(ctx context.Context, rawCookie string) (*session.Profile, error)
	UpdateProfile(ctx context.Context, rawCookie string, input UpdateProfileInput) (*session.Profile, error)
	UpdatePassword(ctx context.Context, rawCookie string, input UpdatePasswordInput) (*Result, error)
	ForgotPassword(ctx context.Context, email string) (*ForgotPasswordResult, error)
	ResetPassword(ctx context.Context, token string, input ResetPasswordInput) (*Result, error)
}

type service struct {
	api      apiCaller
	resolver *session.Resolver
	store    *session.Store
	logg     *logger.Logger
}

// NewService builds the auth service.
func NewService(api apiCaller, resolver *session.Resolver, store *session.Store, logg *logger.Logger) (Service, error) {
	if api == nil {
		return nil, fmt.Errorf("api caller required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("session resolver required")
	}
	if store == nil {
		return nil, fmt.Errorf("session store required")
	}
	return &service{api: api, resolver: resolver, store: store, logg: logg}, nil
}

func (s *service) WhoAmI(ctx context.Context, rawCookie string) (*session.Profile, error) {
	return s.resolver.Resolve(ctx, rawCookie)
}

func (s *service) Login(ctx context.Context, input LoginInput) (*Result, error) {
	return s.authCall(ctx, "auth.login", http.MethodPost, "/api/v1/users/login", input)
}

func (s *service) Signup(ctx context.Context, input SignupInput) (*Result, error) {
	return s.authCall(ctx, "auth.signup", http.MethodPost, "/api/v1/users/signup", input)
}

// Logout ends the session fail-open: the cached profile is always dropped
// and expired cookies are still relayed even when the upstream call fails,
// so the browser ends up logged out either way.
func (s *service) Logout(ctx context.Context, rawCookie string) ([]*http.Cookie, error) {
	var errs error

	meta, err := s.api.Do(upstream.WithSessionCookies(ctx, rawCookie), upstream.Request{
		Op:     "auth.logout",
		Method: http.MethodGet,
		Path:   "/api/v1/users/logout",
	}, nil)
	errs = multierr.Append(errs, err)

	errs = multierr.Append(errs, s.store.Clear(ctx, rawCookie))

	var cookies []*http.Cookie
	if meta != nil {
		cookies = meta.Cookies
	}
	return cookies, errs
}

func (s *service) BecomeFarmer(ctx context.Context, rawCookie string, input BecomeFarmerInput) (*session.Profile, error) {
	if strings.TrimSpace(input.FarmLocation) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "farm location is required")
	}
	return s.profileCall(ctx, rawCookie, "auth.become_farmer", http.MethodPost, "/api/v1/users/become-farmer", input)
}

// SelectConsumerRole marks a roleless account as a consumer. The core API
// has no dedicated endpoint for this; the role only matters to storefront
// gating, so it lives in the cached profile.
func (s *service) SelectConsumerRole(ctx context.Context, rawCookie string) (*session.Profile, error) {
	profile, err := s.resolver.Resolve(ctx, rawCookie)
	if err != nil {
		return nil, err
	}
	if profile.Role == session.RoleFarmer {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "farmers cannot switch back to consumer").
			WithRedirect("/dashboard/farmer")
	}

	profile.Role = session.RoleConsumer
	if err := s.store.Put(ctx, rawCookie, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist role selection")
	}
	return profile, nil
}

func (s *service) UpdateProfile(ctx context.Context, rawCookie string, input UpdateProfileInput) (*session.Profile, error) {
	return s.profileCall(ctx, rawCookie, "auth.update_profile", http.MethodPatch, "/api/v1/users/updateMe", input)
}

// UpdatePassword changes the password; the upstream reissues the session
// cookie, which the caller must relay.
func (s *service) UpdatePassword(ctx context.Context, rawCookie string, input UpdatePasswordInput) (*Result, error) {
	if input.Password != input.PasswordConfirm {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "passwords do not match")
	}

	result, err := s.doAuthRequest(upstream.WithSessionCookies(ctx, rawCookie), "auth.update_password", http.MethodPatch, "/api/v1/users/updatePassword", input)
	if err != nil {
		return nil, err
	}
	s.resolver.Invalidate(ctx, rawCookie)
	return result, nil
}

func (s *service) ForgotPassword(ctx context.Context, email string) (*ForgotPasswordResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	var payload struct {
		ResetURL string `json:"reset_url"`
	}
	meta, err := s.api.Do(ctx, upstream.Request{
		Op:     "auth.forgot_password",
		Method: http.MethodPost,
		Path:   "/api/v1/users/forgotpassword",
		Body:   map[string]string{"email": email},
	}, &payload)
	if err != nil {
		return nil, err
	}
	return &ForgotPasswordResult{Message: meta.Message, ResetURL: payload.ResetURL}, nil
}

func (s *service) ResetPassword(ctx context.Context, token string, input ResetPasswordInput) (*Result, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reset token is required")
	}
	if input.Password != input.ConfirmPassword {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "passwords do not match")
	}
	return s.doAuthRequest(ctx, "auth.reset_password", http.MethodPatch, "/api/v1/users/resetPassword/"+url.PathEscape(token), input)
}

// authCall runs an unauthenticated auth endpoint that returns a user and
// issues session cookies.
func (s *service) authCall(ctx context.Context, op, method, path string, body any) (*Result, error) {
	return s.doAuthRequest(ctx, op, method, path, body)
}

func (s *service) doAuthRequest(ctx context.Context, op, method, path string, body any) (*Result, error) {
	var payload struct {
		User session.Profile `json:"user"`
	}
	meta, err := s.api.Do(ctx, upstream.Request{
		Op:     op,
		Method: method,
		Path:   path,
		Body:   body,
	}, &payload)
	if err != nil {
		return nil, err
	}
	return &Result{User: &payload.User, Cookies: meta.Cookies}, nil
}

// profileCall runs an authenticated user mutation, then drops the cached
// profile so the next read reflects the change.
func (s *service) profileCall(ctx context.Context, rawCookie, op, method, path string, body any) (*session.Profile, error) {
	var payload struct {
		User session.Profile `json:"user"`
	}
	if _, err := s.api.Do(upstream.WithSessionCookies(ctx, rawCookie), upstream.Request{
		Op:     op,
		Method: method,
		Path:   path,
		Body:   body,
	}, &payload); err != nil {
		return nil, err
	}
	s.resolver.Invalidate(ctx, rawCookie)
	return &payload.User, nil
}
