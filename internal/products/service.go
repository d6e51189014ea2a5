package products

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	pkgerrors "github.com/haritkart/storefront/pkg/errors"
	"github.com/haritkart/storefront/pkg/upstream"
)

type apiCaller interface {
	Do(ctx context.Context, req upstream.Request, out any) (*upstream.Meta, error)
}

// Service exposes the product catalog, both the public browsing surface and
// the farmer's own-listing management.
type Service interface {
	List(ctx context.Context, params ListParams) (*Page, error)
	Get(ctx context.Context, productID string) (*Product, error)
	Search(ctx context.Context, query string) ([]Product, error)
	Categories(ctx context.Context) ([]Category, error)
	Mine(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, input CreateInput) (*Product, error)
	Update(ctx context.Context, productID string, input UpdateInput) (*Product, error)
	Delete(ctx context.Context, productID string) error
}

type service struct {
	api apiCaller
}

// NewService builds the catalog service over the core API.
func NewService(api apiCaller) (Service, error) {
	if api == nil {
		return nil, fmt.Errorf("api caller required")
	}
	return &service{api: api}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*Page, error) {
	path := "/api/v1/products"
	if category := strings.TrimSpace(params.Category); category != "" {
		path = "/api/v1/products/category/" + url.PathEscape(category)
	}

	query := url.Values{}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Sort != "" {
		query.Set("sort", params.Sort)
	}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Verified != nil {
		query.Set("verified", strconv.FormatBool(*params.Verified))
	}
	if params.Negotiate != nil {
		query.Set("negotiate", strconv.FormatBool(*params.Negotiate))
	}

	var payload struct {
		Products []Product `json:"products"`
	}
	meta, err := s.api.Do(ctx, upstream.Request{
		Op:     "products.list",
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	}, &payload)
	if err != nil {
		return nil, err
	}

	return &Page{
		Products:    payload.Products,
		Results:     meta.Results,
		Total:       meta.Total,
		CurrentPage: meta.CurrentPage,
		TotalPages:  meta.TotalPages,
	}, nil
}

func (s *service) Get(ctx context.Context, productID string) (*Product, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	var payload struct {
		Product Product `json:"product"`
	}
	if _, err := s.api.Do(ctx, upstream.Request{
		Op:     "products.get",
		Method: http.MethodGet,
		Path:   "/api/v1/products/" + url.PathEscape(productID),
	}, &payload); err != nil {
		return nil, err
	}
	return &payload.Product, nil
}

func (s *service) Search(ctx context.Context, queryText string) ([]Product, error) {
	queryText = strings.TrimSpace(queryText)
	if queryText == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query is required")
	}

	query := url.Values{}
	query.Set("q", queryText)

	var payload struct {
		Products []Product `json:"products"`
	}
	if _, err := s.api.Do(ctx, upstream.Request{
		Op:     "products.search",
		Method: http.MethodGet,
		Path:   "/api/v1/products/search",
		Query:  query,
	}, &payload); err != nil {
		return nil, err
	}
	return payload.Products, nil
}

func (s *service) Categories(ctx context.Context) ([]Category, error) {
	var payload struct {
		Categories []Category `json:"categories"`
	}
	if _, err := s.api.Do(ctx, upstream.Request{
		Op:     "products.categories",
		Method: http.MethodGet,
		Path:   "/api/v1/categories",
	}, &payload); err != nil {
		return nil, err
	}
	return payload.Categories, nil
}

func (s *service) Mine(ctx context.Context) ([]Product, error) {
	var payload struct {
		Products []Product `json:"products"`
	}
	if _, err := s.api.Do(ctx, upstream.Request{
		Op:     "products.mine",
		Method: http.MethodGet,
		Path:   "/api/v1/products/my-products",
	}, &payload); err != nil {
		return nil, err
	}
	return payload.Products, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Product, error) {
	if err := validateQtyBounds(input.MinQty, input.MaxQty); err != nil {
		return nil, err
	}

	var payload struct {
		Product Product `json:"product"`
	}
	if _, err := s.api.Do(ctx, upstream.Request{
		Op:     "products.create",
		Method: http.MethodPost,
		Path:   "/api/v1/products",
		Body:   input,
	}, &payload); err != nil {
		return nil, err
	}
	return &payload.Product, nil
}

func (s *service) Update(ctx context.Context, productID string, input UpdateInput) (*Product, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.MinQty != nil && input.MaxQty != nil {
		if err := validateQtyBounds(*input.MinQty, *input.MaxQty); err != nil {
			return nil, err
		}
	}

	var payload struct {
		Product Product `json:"product"`
	}
	if _, err := s.api.Do(ctx, upstream.Request{
		Op:     "products.update",
		Method: http.MethodPatch,
		Path:   "/api/v1/products/" + url.PathEscape(productID),
		Body:   input,
	}, &payload); err != nil {
		return nil, err
	}
	return &payload.Product, nil
}

func (s *service) Delete(ctx context.Context, productID string) error {
	if strings.TrimSpace(productID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	_, err := s.api.Do(ctx, upstream.Request{
		Op:     "products.delete",
		Method: http.MethodDelete,
		Path:   "/api/v1/products/" + url.PathEscape(productID),
	}, nil)
	return err
}

func validateQtyBounds(minQty, maxQty int) error {
	if minQty < 0 || maxQty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity bounds must be non-negative")
	}
	if maxQty > 0 && minQty > maxQty {
		return pkgerrors.New(pkgerrors.CodeValidation, "min_qty cannot exceed max_qty")
	}
	return nil
}
