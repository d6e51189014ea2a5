package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/haritkart/storefront/api/responses"
	"github.com/haritkart/storefront/api/validators"
	addresssvc "github.com/haritkart/storefront/internal/addresses"
	"github.com/haritkart/storefront/pkg/logger"
)

func ListAddresses(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		book, err := svc.ListMine(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"addresses": book})
	}
}

type addAddressRequest struct {
	Name         string  `json:"name" validate:"max=120"`
	AddressLine1 string  `json:"address_line1" validate:"required,max=200"`
	AddressLine2 *string `json:"address_line2,omitempty" validate:"omitempty,max=200"`
	City         string  `json:"city" validate:"required,max=100"`
	State        string  `json:"state" validate:"required,max=100"`
	Country      string  `json:"country" validate:"required,max=100"`
	PostalCode   string  `json:"postal_code" validate:"required,max=20"`
	IsPrimary    *bool   `json:"is_primary,omitempty"`
}

func (req addAddressRequest) toInput() addresssvc.Input {
	return addresssvc.Input{
		Name:         req.Name,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		Country:      req.Country,
		PostalCode:   req.PostalCode,
		IsPrimary:    req.IsPrimary,
	}
}

func AddAddress(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Add(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"address": created})
	}
}

type updateAddressRequest struct {
	Name         string  `json:"name,omitempty" validate:"max=120"`
	AddressLine1 string  `json:"address_line1,omitempty" validate:"max=200"`
	AddressLine2 *string `json:"address_line2,omitempty" validate:"omitempty,max=200"`
	City         string  `json:"city,omitempty" validate:"max=100"`
	State        string  `json:"state,omitempty" validate:"max=100"`
	Country      string  `json:"country,omitempty" validate:"max=100"`
	PostalCode   string  `json:"postal_code,omitempty" validate:"max=20"`
	IsPrimary    *bool   `json:"is_primary,omitempty"`
}

func UpdateAddress(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), chi.URLParam(r, "addressID"), addresssvc.Input{
			Name:         payload.Name,
			AddressLine1: payload.AddressLine1,
			AddressLine2: payload.AddressLine2,
			City:         payload.City,
			State:        payload.State,
			Country:      payload.Country,
			PostalCode:   payload.PostalCode,
			IsPrimary:    payload.IsPrimary,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"address": updated})
	}
}

func DeleteAddress(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "addressID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "address deleted"})
	}
}

func SetPrimaryAddress(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		updated, err := svc.SetPrimary(r.Context(), chi.URLParam(r, "addressID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"address": updated})
	}
}
