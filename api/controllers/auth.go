package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/haritkart/storefront/api/responses"
	"github.com/haritkart/storefront/api/validators"
	authsvc "github.com/haritkart/storefront/internal/auth"
	pkgerrors "github.com/haritkart/storefront/pkg/errors"
	"github.com/haritkart/storefront/pkg/logger"
)

func relayCookies(w http.ResponseWriter, cookies []*http.Cookie) {
	for _, cookie := range cookies {
		http.SetCookie(w, cookie)
	}
}

// Me returns the authenticated user for the current session cookie.
func Me(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := svc.WhoAmI(r.Context(), r.Header.Get("Cookie"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"user": user})
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func Login(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), authsvc.LoginInput{
			Email:    validators.SanitizeString(payload.Email, 254),
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		relayCookies(w, result.Cookies)
		responses.WriteSuccess(w, map[string]any{"user": result.User})
	}
}

type signupRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"required,max=20"`
	Password string `json:"password" validate:"required,min=8"`
}

func Signup(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload signupRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Signup(r.Context(), authsvc.SignupInput{
			Name:     validators.SanitizeString(payload.Name, 120),
			Email:    validators.SanitizeString(payload.Email, 254),
			Mobile:   validators.SanitizeString(payload.Mobile, 20),
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		relayCookies(w, result.Cookies)
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"user": result.User})
	}
}

// Logout ends the session. The session always ends client-side, so upstream
// trouble is logged and the call still succeeds.
func Logout(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookies, err := svc.Logout(r.Context(), r.Header.Get("Cookie"))
		if err != nil && logg != nil {
			logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "auth.logout.degraded")
		}
		relayCookies(w, cookies)
		responses.WriteSuccess(w, map[string]string{"message": "logged out"})
	}
}

type becomeFarmerRequest struct {
	Experience     int      `json:"experience" validate:"min=0"`
	FarmLocation   string   `json:"farm_location" validate:"required,max=200"`
	Certifications []string `json:"certifications"`
	Location       string   `json:"location" validate:"required,max=200"`
	Specialization string   `json:"specialization" validate:"required,max=120"`
}

func BecomeFarmer(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload becomeFarmerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.BecomeFarmer(r.Context(), r.Header.Get("Cookie"), authsvc.BecomeFarmerInput{
			Experience:     payload.Experience,
			FarmLocation:   payload.FarmLocation,
			Certifications: payload.Certifications,
			Location:       payload.Location,
			Specialization: payload.Specialization,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"user": user})
	}
}

type selectRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=consumer farmer"`
}

// SelectRole records a fresh account's role choice. Picking farmer needs
// the farm detail sheet, so that branch points the client at the
// become-farmer flow instead.
func SelectRole(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload selectRoleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.Role == "farmer" {
			err := pkgerrors.New(pkgerrors.CodeValidation, "farmer role requires farm details").
				WithRedirect("/select-role/farmer-details")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.SelectConsumerRole(r.Context(), r.Header.Get("Cookie"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"user": user})
	}
}

type updateProfileRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,max=120"`
	Email  *string `json:"email,omitempty" validate:"omitempty,email"`
	Mobile *string `json:"mobile,omitempty" validate:"omitempty,max=20"`
}

func UpdateMe(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateProfileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.UpdateProfile(r.Context(), r.Header.Get("Cookie"), authsvc.UpdateProfileInput{
			Name:   payload.Name,
			Email:  payload.Email,
			Mobile: payload.Mobile,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"user": user})
	}
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
}

func UpdatePassword(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updatePasswordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UpdatePassword(r.Context(), r.Header.Get("Cookie"), authsvc.UpdatePasswordInput{
			CurrentPassword: payload.CurrentPassword,
			Password:        payload.Password,
			PasswordConfirm: payload.PasswordConfirm,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		relayCookies(w, result.Cookies)
		responses.WriteSuccess(w, map[string]any{"user": result.User})
	}
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func ForgotPassword(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload forgotPasswordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ForgotPassword(r.Context(), payload.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		data := map[string]any{"message": result.Message}
		if result.ResetURL != "" {
			data["reset_url"] = result.ResetURL
		}
		responses.WriteSuccess(w, data)
	}
}

type resetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

func ResetPassword(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload resetPasswordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ResetPassword(r.Context(), chi.URLParam(r, "token"), authsvc.ResetPasswordInput{
			Password:        payload.Password,
			ConfirmPassword: payload.ConfirmPassword,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		relayCookies(w, result.Cookies)
		responses.WriteSuccess(w, map[string]any{"user": result.User})
	}
}
