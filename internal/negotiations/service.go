package negotiations

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/haritkart/storefront/pkg/errors"
	"github.com/haritkart/storefront/pkg/types"
	"github.com/haritkart/storefront/pkg/upstream"
)

// Offer statuses as the core API reports them.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
	StatusExpired  = "expired"
)

type apiCaller interface {
	Do(ctx context.Context, req upstream.Request, out any) (*upstream.Meta, error)
}

// Offer is a price negotiation between a consumer and a farmer.
type Offer struct {
	ID                string        `json:"id"`
	OfferPricePerUnit types.Decimal `json:"offer_price_per_unit"`
	Quantity          types.FlexInt `json:"quantity"`
	Status            string        `json:"status"`
	OfferDate         string        `json:"offer_date"`
	ResponseDate      *string       `json:"response_date"`
	ProductName       string        `json:"product_name"`
	ProductID         string        `json:"product_id"`
	FarmerName        string        `json:"farmer_name,omitempty"`
	FarmerID          string        `json:"farmer_id,omitempty"`
	ConsumerName      string        `json:"consumer_name,omitempty"`
	ConsumerID        string        `json:"consumer_id,omitempty"`
}

// SendOfferInput carries the offer plus the product facts it is judged
// against, so a bad offer is rejected without touching the network.
type SendOfferInput struct {
	ProductID         string
	OfferedPrice      types.Decimal
	Quantity          int
	Negotiable        bool
	MinQty            int
	MaxQty            int
	CatalogPrice      types.Decimal
	HasCatalogContext bool
}

// SendOfferResult is the upstream acknowledgement.
type SendOfferResult struct {
	OfferID   string `json:"offerId"`
	OfferDate string `json:"offerDate"`
}

// Service handles price negotiations: consumers send and track offers,
// farmers answer them.
type Service interface {
	SendOffer(ctx context.Context, input SendOfferInput) (*SendOfferResult, error)
	ListMine(ctx context.Context) ([]Offer, error)
	ListReceived(ctx context.Context) ([]Offer, error)
	Accept(ctx context.Context, offerID string) (*Offer, error)
	Reject(ctx context.Context, offerID string) (*Offer, error)
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

// SendOffer validates the offer against the product's negotiation rules
// before sending it. Invalid offers never reach the upstream.
func (s *service) SendOffer(ctx context.Context, input SendOfferInput) (*SendOfferResult, error) {
	if err := validateOffer(input); err != nil {
		return nil, err
	}

	var result SendOfferResult
	if _, err := s.api.Do(ctx, upstream.Request{
		Op:     "negotiations.send",
		Method: http.MethodPost,
		Path:   "/api/v1/negotiations",
		Body: map[string]any{
			"productId":           input.ProductID,
			"offeredPricePerUnit": input.OfferedPrice,
			"quantity":            input.Quantity,
		},
	}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) ListMine(ctx context.Context) ([]Offer, error) {
	return s.list(ctx, "negotiations.list_mine", "/api/v1/negotiations/consumer")
}

func (s *service) ListReceived(ctx context.Context) ([]Offer, error) {
	return s.list(ctx, "negotiations.list_received", "/api/v1/negotiations/farmer")
}

// Accept answers a pending offer. The offer's current status is checked
// first so a stale dashboard cannot answer the same offer twice.
func (s *service) Accept(ctx context.Context, offerID string) (*Offer, error) {
	return s.answer(ctx, offerID, "accept")
}

func (s *service) Reject(ctx context.Context, offerID string) (*Offer, error) {
	return s.answer(ctx, offerID, "reject")
}

func (s *service) answer(ctx context.Context, offerID, verb string) (*Offer, error) {
	if strings.TrimSpace(offerID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer id is required")
	}

	received, err := s.ListReceived(ctx)
	if err != nil {
		return nil, err
	}
	current := findOffer(received, offerID)
	if current == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
	}
	if current.Status != StatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "offer is no longer pending").
			WithDetails(map[string]any{"status": current.Status})
	}

	var payload struct {
		Offer Offer `json:"offer"`
	}
	if _, err := s.api.Do(ctx, upstream.Request{
		Op:     "negotiations." + verb,
		Method: http.MethodPatch,
		Path:   "/api/v1/negotiations/" + verb + "/" + url.PathEscape(offerID),
	}, &payload); err != nil {
		return nil, err
	}
	if payload.Offer.ID == "" {
		payload.Offer = *current
		if verb == "accept" {
			payload.Offer.Status = StatusAccepted
		} else {
			payload.Offer.Status = StatusRejected
		}
	}
	return &payload.Offer, nil
}

func (s *service) list(ctx context.Context, op, path string) ([]Offer, error) {
	var payload struct {
		Offers []Offer `json:"offers"`
	}
	if _, err := s.api.Do(ctx, upstream.Request{
		Op:     op,
		Method: http.MethodGet,
		Path:   path,
	}, &payload); err != nil {
		return nil, err
	}
	return payload.Offers, nil
}

func validateOffer(input SendOfferInput) error {
	if strings.TrimSpace(input.ProductID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if !input.Negotiable {
		return pkgerrors.New(pkgerrors.CodeValidation, "this product is not open to negotiation")
	}
	if !input.OfferedPrice.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "offered price must be greater than zero")
	}
	if input.HasCatalogContext && input.OfferedPrice.GreaterThanOrEqual(input.CatalogPrice.Decimal) {
		return pkgerrors.New(pkgerrors.CodeValidation, "offered price must be below the listed price")
	}
	if input.Quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.MinQty > 0 && input.Quantity < input.MinQty {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be at least %d", input.MinQty))
	}
	if input.MaxQty > 0 && input.Quantity > input.MaxQty {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity cannot exceed %d", input.MaxQty))
	}
	return nil
}

func findOffer(offers []Offer, offerID string) *Offer {
	for i := range offers {
		if offers[i].ID == offerID {
			return &offers[i]
		}
	}
	return nil
}
