package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/haritkart/storefront/api/responses"
	"github.com/haritkart/storefront/api/validators"
	productsvc "github.com/haritkart/storefront/internal/products"
	pkgerrors "github.com/haritkart/storefront/pkg/errors"
	"github.com/haritkart/storefront/pkg/logger"
	"github.com/haritkart/storefront/pkg/types"
)

func parseBoolParam(r *http.Request, key string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a boolean").
			WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParseQueryInt(r, "page", 0, 1, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		verified, err := parseBoolParam(r, "verified")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		negotiate, err := parseBoolParam(r, "negotiate")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), productsvc.ListParams{
			Category:  r.URL.Query().Get("category"),
			Search:    validators.SanitizeString(r.URL.Query().Get("search"), 120),
			Sort:      validators.SanitizeString(r.URL.Query().Get("sort"), 60),
			Page:      page,
			Limit:     limit,
			Verified:  verified,
			Negotiate: negotiate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := svc.Get(r.Context(), chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"product": product})
	}
}

func SearchProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := validators.SanitizeString(r.URL.Query().Get("q"), 120)
		found, err := svc.Search(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"products": found})
	}
}

func ListCategories(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}

func MyProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listings, err := svc.Mine(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"products": listings})
	}
}

type createProductRequest struct {
	Name          string        `json:"name" validate:"required,max=160"`
	Price         types.Decimal `json:"price"`
	StockQuantity int           `json:"stock_quantity" validate:"min=0"`
	CategoryID    string        `json:"category_id" validate:"required"`
	Negotiate     bool          `json:"negotiate"`
	Description   string        `json:"description" validate:"max=4000"`
	KeyHighlights []string      `json:"key_highlights" validate:"max=10,dive,max=200"`
	MinQty        int           `json:"min_qty" validate:"min=0"`
	MaxQty        int           `json:"max_qty" validate:"min=0"`
}

func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !payload.Price.IsPositive() {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero"))
			return
		}

		product, err := svc.Create(r.Context(), productsvc.CreateInput{
			Name:          validators.SanitizeString(payload.Name, 160),
			Price:         payload.Price,
			StockQuantity: payload.StockQuantity,
			CategoryID:    payload.CategoryID,
			Negotiate:     payload.Negotiate,
			Description:   payload.Description,
			KeyHighlights: payload.KeyHighlights,
			MinQty:        payload.MinQty,
			MaxQty:        payload.MaxQty,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"product": product})
	}
}

type updateProductRequest struct {
	Name          *string        `json:"name,omitempty" validate:"omitempty,max=160"`
	Price         *types.Decimal `json:"price,omitempty"`
	StockQuantity *int           `json:"stock_quantity,omitempty" validate:"omitempty,min=0"`
	CategoryID    *string        `json:"category_id,omitempty"`
	Negotiate     *bool          `json:"negotiate,omitempty"`
	Description   *string        `json:"description,omitempty" validate:"omitempty,max=4000"`
	KeyHighlights []string       `json:"key_highlights,omitempty" validate:"omitempty,max=10,dive,max=200"`
	MinQty        *int           `json:"min_qty,omitempty" validate:"omitempty,min=0"`
	MaxQty        *int           `json:"max_qty,omitempty" validate:"omitempty,min=0"`
}

func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Price != nil && !payload.Price.IsPositive() {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero"))
			return
		}

		product, err := svc.Update(r.Context(), chi.URLParam(r, "productID"), productsvc.UpdateInput{
			Name:          payload.Name,
			Price:         payload.Price,
			StockQuantity: payload.StockQuantity,
			CategoryID:    payload.CategoryID,
			Negotiate:     payload.Negotiate,
			Description:   payload.Description,
			KeyHighlights: payload.KeyHighlights,
			MinQty:        payload.MinQty,
			MaxQty:        payload.MaxQty,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"product": product})
	}
}

func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "productID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "product deleted"})
	}
}
