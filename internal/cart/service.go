package cart

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/haritkart/storefront/internal/products"
	pkgerrors "github.com/haritkart/storefront/pkg/errors"
	"github.com/haritkart/storefront/pkg/upstream"
)

type apiCaller interface {
	Do(ctx context.Context, req upstream.Request, out any) (*upstream.Meta, error)
}

type productLoader interface {
	Get(ctx context.Context, productID string) (*products.Product, error)
}

// Service manages the consumer's cart. Every mutation refetches the cart so
// the caller always sees the upstream's authoritative state, never a local
// projection.
type Service interface {
	View(ctx context.Context) (*Cart, error)
	Add(ctx context.Context, productID string, quantity int) (*Cart, error)
	UpdateQuantity(ctx context.Context, cartItemID string, quantity int) (*Cart, error)
	Remove(ctx context.Context, cartItemID string) (*Cart, error)
	Clear(ctx context.Context) (*Cart, error)
}

type service struct {
	api     apiCaller
	catalog productLoader
}

// NewService builds the cart service. The catalog loader supplies stock
// levels for quantity clamping.
func NewService(api apiCaller, catalog productLoader) (Service, error) {
	if api == nil {
		return nil, fmt.Errorf("api caller required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{api: api, catalog: catalog}, nil
}

func (s *service) View(ctx context.Context) (*Cart, error) {
	return s.fetch(ctx)
}

func (s *service) Add(ctx context.Context, productID string, quantity int) (*Cart, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	if _, err := s.api.Do(ctx, upstream.Request{
		Op:     "cart.add",
		Method: http.MethodPost,
		Path:   "/api/v1/cart",
		Body: map[string]any{
			"product_id": productID,
			"quantity":   quantity,
		},
	}, nil); err != nil {
		return nil, err
	}
	return s.fetch(ctx)
}

// UpdateQuantity clamps the requested quantity to the product's order
// bounds and remaining stock before asking the upstream to apply it. A
// clamped result below 1 removes the line instead. Negotiated lines with a
// locked quantity are rejected outright.
func (s *service) UpdateQuantity(ctx context.Context, cartItemID string, quantity int) (*Cart, error) {
	if strings.TrimSpace(cartItemID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required")
	}

	current, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	item := findItem(current, cartItemID)
	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	if item.QuantityFixed {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity is fixed for this negotiated item")
	}

	clamped, err := s.clampQuantity(ctx, item, quantity)
	if err != nil {
		return nil, err
	}
	if clamped < 1 {
		return s.Remove(ctx, cartItemID)
	}
	if clamped == item.Quantity.Int() {
		return current, nil
	}

	if _, err := s.api.Do(ctx, upstream.Request{
		Op:     "cart.update",
		Method: http.MethodPut,
		Path:   "/api/v1/cart/" + url.PathEscape(cartItemID),
		Body:   map[string]any{"quantity": clamped},
	}, nil); err != nil {
		return nil, err
	}
	return s.fetch(ctx)
}

func (s *service) Remove(ctx context.Context, cartItemID string) (*Cart, error) {
	if strings.TrimSpace(cartItemID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required")
	}

	if _, err := s.api.Do(ctx, upstream.Request{
		Op:     "cart.remove",
		Method: http.MethodDelete,
		Path:   "/api/v1/cart/" + url.PathEscape(cartItemID),
	}, nil); err != nil {
		return nil, err
	}
	return s.fetch(ctx)
}

func (s *service) Clear(ctx context.Context) (*Cart, error) {
	if _, err := s.api.Do(ctx, upstream.Request{
		Op:     "cart.clear",
		Method: http.MethodPost,
		Path:   "/api/v1/cart/clear",
	}, nil); err != nil {
		return nil, err
	}
	return s.fetch(ctx)
}

func (s *service) fetch(ctx context.Context) (*Cart, error) {
	var payload wireCart
	if _, err := s.api.Do(ctx, upstream.Request{
		Op:     "cart.view",
		Method: http.MethodGet,
		Path:   "/api/v1/cart",
	}, &payload); err != nil {
		return nil, err
	}
	return payload.toCart(), nil
}

// clampQuantity bounds the request to [min_qty, max_qty] intersected with
// available stock. Bounds missing from the cart line are fetched from the
// catalog, which also supplies the stock level.
func (s *service) clampQuantity(ctx context.Context, item *Item, requested int) (int, error) {
	product, err := s.catalog.Get(ctx, item.ProductID)
	if err != nil {
		return 0, err
	}

	minQty := product.MinQty
	if item.MinQty != nil {
		minQty = *item.MinQty
	}
	maxQty := product.MaxQty
	if item.MaxQty != nil {
		maxQty = *item.MaxQty
	}

	clamped := requested
	if minQty > 0 && clamped < minQty && clamped >= 1 {
		clamped = minQty
	}
	if maxQty > 0 && clamped > maxQty {
		clamped = maxQty
	}
	if clamped > product.StockQuantity {
		clamped = product.StockQuantity
	}
	return clamped, nil
}

func findItem(c *Cart, cartItemID string) *Item {
	for i := range c.Items {
		if c.Items[i].CartItemID == cartItemID {
			return &c.Items[i]
		}
	}
	return nil
}
