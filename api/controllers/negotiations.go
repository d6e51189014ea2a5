package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/haritkart/storefront/api/responses"
	"github.com/haritkart/storefront/api/validators"
	negotiationsvc "github.com/haritkart/storefront/internal/negotiations"
	productsvc "github.com/haritkart/storefront/internal/products"
	"github.com/haritkart/storefront/pkg/logger"
	"github.com/haritkart/storefront/pkg/types"
)

type sendOfferRequest struct {
	ProductID           string        `json:"product_id" validate:"required"`
	OfferedPricePerUnit types.Decimal `json:"offered_price_per_unit"`
	Quantity            int           `json:"quantity" validate:"required,min=1"`
}

// SendOffer loads the product first so the offer is judged against the
// current catalog price and order bounds before anything is sent upstream.
func SendOffer(svc negotiationsvc.Service, catalog productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload sendOfferRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := catalog.Get(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SendOffer(r.Context(), negotiationsvc.SendOfferInput{
			ProductID:         payload.ProductID,
			OfferedPrice:      payload.OfferedPricePerUnit,
			Quantity:          payload.Quantity,
			Negotiable:        product.Negotiate,
			MinQty:            product.MinQty,
			MaxQty:            product.MaxQty,
			CatalogPrice:      product.Price,
			HasCatalogContext: true,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func MyOffers(svc negotiationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offers, err := svc.ListMine(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"negotiations": offers})
	}
}

func ReceivedOffers(svc negotiationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offers, err := svc.ListReceived(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"negotiations": offers})
	}
}

func AcceptOffer(svc negotiationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offer, err := svc.Accept(r.Context(), chi.URLParam(r, "offerID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"negotiation": offer})
	}
}

func RejectOffer(svc negotiationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offer, err := svc.Reject(r.Context(), chi.URLParam(r, "offerID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"negotiation": offer})
	}
}
