package orders

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	pkgerrors "github.com/haritkart/storefront/pkg/errors"
	"github.com/haritkart/storefront/pkg/types"
	"github.com/haritkart/storefront/pkg/upstream"
)

// Order statuses a farmer may move an order through.
var allowedStatusUpdates = map[string]struct{}{
	"processing": {},
	"shipped":    {},
	"delivered":  {},
	"cancelled":  {},
}

type apiCaller interface {
	Do(ctx context.Context, req upstream.Request, out any) (*upstream.Meta, error)
}

// Summary is one row in an order history listing.
type Summary struct {
	ID               string        `json:"id"`
	TotalPrice       types.Decimal `json:"total_price"`
	PaymentStatus    string        `json:"payment_status"`
	OrderStatus      string        `json:"order_status"`
	CreatedAt        string        `json:"created_at"`
	UpdatedAt        string        `json:"updated_at"`
	ItemCount        types.FlexInt `json:"item_count"`
	FirstProductName *string       `json:"first_product_name"`
}

// ItemDetail is a purchased line with the price frozen at purchase time.
type ItemDetail struct {
	ID          string        `json:"id"`
	ProductID   string        `json:"product_id"`
	ProductName string        `json:"product_name"`
	Quantity    types.FlexInt `json:"quantity"`
	Price       types.Decimal `json:"price"`
	SellerID    string        `json:"seller_id,omitempty"`
	SellerName  string        `json:"seller_name,omitempty"`
}

// AddressDetail is the delivery address snapshot on an order.
type AddressDetail struct {
	ID           string  `json:"id"`
	AddressLine1 string  `json:"address_line1"`
	AddressLine2 *string `json:"address_line2,omitempty"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Country      string  `json:"country"`
	PostalCode   string  `json:"postal_code"`
}

// Detail is a full order with items and delivery address.
type Detail struct {
	Summary
	Items           []ItemDetail   `json:"items"`
	DeliveryAddress *AddressDetail `json:"delivery_address"`
	ConsumerName    string         `json:"consumer_name,omitempty"`
}

// ListParams filters an order history listing.
type ListParams struct {
	Status string
	Page   int
	Limit  int
}

// Service covers both sides of order history: the consumer's purchases and
// the farmer's sales.
type Service interface {
	ListMine(ctx context.Context, params ListParams) ([]Summary, error)
	Detail(ctx context.Context, orderID string) (*Detail, error)
	Cancel(ctx context.Context, orderID string) (*Detail, error)
	ListSales(ctx context.Context, params ListParams) ([]Summary, error)
	SaleDetail(ctx context.Context, orderID string) (*Detail, error)
	UpdateStatus(ctx context.Context, orderID, status string) (*Detail, error)
}

type service struct {
	api apiCaller
}

func NewService(api apiCaller) (Service, error) {
	if api == nil {
		return nil, fmt.Errorf("api caller required")
	}
	return &service{api: api}, nil
}

func (s *service) ListMine(ctx context.Context, params ListParams) ([]Summary, error) {
	return s.list(ctx, "orders.list_mine", "/api/v1/orders", params)
}

func (s *service) Detail(ctx context.Context, orderID string) (*Detail, error) {
	return s.detail(ctx, "orders.detail", "/api/v1/orders/", orderID)
}

// Cancel asks the upstream to cancel a pending order. State rules live
// upstream; a refusal comes back as a state conflict for the caller.
func (s *service) Cancel(ctx context.Context, orderID string) (*Detail, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	var payload struct {
		Order Detail `json:"order"`
	}
	if _, err := s.api.Do(ctx, upstream.Request{
		Op:     "orders.cancel",
		Method: http.MethodPatch,
		Path:   "/api/v1/orders/" + url.PathEscape(orderID) + "/cancel",
	}, &payload); err != nil {
		return nil, err
	}
	return &payload.Order, nil
}

func (s *service) ListSales(ctx context.Context, params ListParams) ([]Summary, error) {
	return s.list(ctx, "orders.list_sales", "/api/v1/orders/farmer/my-sales", params)
}

func (s *service) SaleDetail(ctx context.Context, orderID string) (*Detail, error) {
	return s.detail(ctx, "orders.sale_detail", "/api/v1/orders/farmer/", orderID)
}

// UpdateStatus moves a sale through fulfilment. Unknown statuses are
// rejected before the network is touched.
func (s *service) UpdateStatus(ctx context.Context, orderID, status string) (*Detail, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	status = strings.ToLower(strings.TrimSpace(status))
	if _, ok := allowedStatusUpdates[status]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").
			WithDetails(map[string]any{"status": status})
	}

	var payload struct {
		Order Detail `json:"order"`
	}
	if _, err := s.api.Do(ctx, upstream.Request{
		Op:     "orders.update_status",
		Method: http.MethodPatch,
		Path:   "/api/v1/orders/farmer/" + url.PathEscape(orderID) + "/status",
		Body:   map[string]string{"status": status},
	}, &payload); err != nil {
		return nil, err
	}
	return &payload.Order, nil
}

func (s *service) list(ctx context.Context, op, path string, params ListParams) ([]Summary, error) {
	query := url.Values{}
	if params.Status != "" {
		query.Set("status", params.Status)
	}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}

	var payload struct {
		Orders []Summary `json:"orders"`
	}
	if _, err := s.api.Do(ctx, upstream.Request{
		Op:     op,
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	}, &payload); err != nil {
		return nil, err
	}
	return payload.Orders, nil
}

func (s *service) detail(ctx context.Context, op, prefix, orderID string) (*Detail, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	var payload struct {
		Order Detail `json:"order"`
	}
	if _, err := s.api.Do(ctx, upstream.Request{
		Op:     op,
		Method: http.MethodGet,
		Path:   prefix + url.PathEscape(orderID),
	}, &payload); err != nil {
		return nil, err
	}
	return &payload.Order, nil
}
