package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/haritkart/storefront/pkg/config"
)

// CORS applies the allowed-origin policy for the storefront web client.
// Credentials stay enabled because the session rides on a cookie.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
