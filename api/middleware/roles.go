package middleware

import (
	"net/http"

	"github.com/haritkart/storefront/api/responses"
	"github.com/haritkart/storefront/internal/session"
	pkgerrors "github.com/haritkart/storefront/pkg/errors"
	"github.com/haritkart/storefront/pkg/logger"
)

// RequireRole gates a route group on the caller's role. Mismatches carry a
// redirect hint so the web client can send the user somewhere sensible: a
// roleless account to role selection, a farmer to their dashboard, anyone
// else back to the storefront.
func RequireRole(role string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actual := RoleFromContext(r.Context())
			if actual == role {
				next.ServeHTTP(w, r)
				return
			}

			err := pkgerrors.New(pkgerrors.CodeForbidden, "access denied").
				WithRedirect(redirectForRole(actual))
			responses.WriteError(r.Context(), logg, w, err)
		})
	}
}

func redirectForRole(actual string) string {
	switch actual {
	case "":
		return "/select-role"
	case session.RoleFarmer:
		return "/dashboard/farmer"
	}
	return "/"
}
