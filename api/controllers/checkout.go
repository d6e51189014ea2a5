package controllers

import (
	"net/http"

	"github.com/haritkart/storefront/api/responses"
	"github.com/haritkart/storefront/api/validators"
	checkoutsvc "github.com/haritkart/storefront/internal/checkout"
	"github.com/haritkart/storefront/pkg/config"
	"github.com/haritkart/storefront/pkg/logger"
)

type checkoutRequest struct {
	AddressID string `json:"address_id" validate:"required"`
}

func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Checkout(r.Context(), payload.AddressID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PaymentConfig hands the hosted checkout page its publishable key.
func PaymentConfig(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"public_key": cfg.Payment.PublicKey,
		})
	}
}
