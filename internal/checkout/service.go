package checkout

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/haritkart/storefront/internal/cart"
	pkgerrors "github.com/haritkart/storefront/pkg/errors"
	"github.com/haritkart/storefront/pkg/types"
	"github.com/haritkart/storefront/pkg/upstream"
)

type apiCaller interface {
	Do(ctx context.Context, req upstream.Request, out any) (*upstream.Meta, error)
}

type cartViewer interface {
	View(ctx context.Context) (*cart.Cart, error)
}

// StripeItem is a cart line shaped for the payment provider.
type StripeItem struct {
	PriceData struct {
		Currency    string `json:"currency"`
		UnitAmount  int64  `json:"unit_amount"`
		ProductData struct {
			Name        string   `json:"name"`
			Description string   `json:"description,omitempty"`
			Images      []string `json:"images,omitempty"`
		} `json:"product_data"`
	} `json:"price_data"`
	Quantity int `json:"quantity"`
}

// Result is a completed checkout handoff: the pending order plus the
// payment session the browser must be sent to.
type Result struct {
	OrderID          string        `json:"order_id"`
	TotalAmount      types.Decimal `json:"total_amount"`
	PaymentSessionID string        `json:"payment_session_id"`
	PaymentURL       string        `json:"payment_url"`
}

// Service drives the checkout flow: verify the cart, create the pending
// order, then open a payment session. A payment-session failure leaves the
// pending order in place; the error names the step so support can follow up.
type Service interface {
	Checkout(ctx context.Context, addressID string) (*Result, error)
}

type service struct {
	api  apiCaller
	cart cartViewer
}

func NewService(api apiCaller, cartSvc cartViewer) (Service, error) {
	if api == nil {
		return nil, fmt.Errorf("api caller required")
	}
	if cartSvc == nil {
		return nil, fmt.Errorf("cart viewer required")
	}
	return &service{api: api, cart: cartSvc}, nil
}

func (s *service) Checkout(ctx context.Context, addressID string) (*Result, error) {
	if strings.TrimSpace(addressID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required").
			WithDetails(map[string]any{"step": "preconditions"})
	}

	current, err := s.cart.View(ctx)
	if err != nil {
		return nil, withStep(err, "preconditions")
	}
	if len(current.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty").
			WithDetails(map[string]any{"step": "preconditions"})
	}

	var order struct {
		OrderID        string        `json:"order_id"`
		ItemsForStripe []StripeItem  `json:"items_for_stripe"`
		TotalAmount    types.Decimal `json:"total_amount"`
	}
	if _, err := s.api.Do(ctx, upstream.Request{
		Op:     "checkout.create_order",
		Method: http.MethodPost,
		Path:   "/api/v1/cart/checkout",
		Body:   map[string]any{"address_id": addressID},
	}, &order); err != nil {
		return nil, withStep(err, "create_order")
	}

	var sessionPayload struct {
		Session struct {
			ID  string `json:"id"`
			URL string `json:"url"`
		} `json:"session"`
	}
	if _, err := s.api.Do(ctx, upstream.Request{
		Op:     "checkout.payment_session",
		Method: http.MethodPost,
		Path:   "/api/v1/cart/checkout-session",
		Body: map[string]any{
			"order_id":         order.OrderID,
			"items_for_stripe": order.ItemsForStripe,
		},
	}, &sessionPayload); err != nil {
		// The pending order already exists upstream; surface which step
		// broke and which order is now awaiting payment.
		return nil, withStep(err, "payment_session", "order_id", order.OrderID)
	}

	return &Result{
		OrderID:          order.OrderID,
		TotalAmount:      order.TotalAmount,
		PaymentSessionID: sessionPayload.Session.ID,
		PaymentURL:       sessionPayload.Session.URL,
	}, nil
}

func withStep(err error, step string, extra ...string) error {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checkout failed")
	}
	details := map[string]any{"step": step}
	for i := 0; i+1 < len(extra); i += 2 {
		if extra[i+1] != "" {
			details[extra[i]] = extra[i+1]
		}
	}
	return typed.WithDetails(details)
}
