package negotiations

import (
	"context"
	"encoding/json"
	"testing"

	pkgerrors "github.com/haritkart/storefront/pkg/errors"
	"github.com/haritkart/storefront/pkg/types"
	"github.com/haritkart/storefront/pkg/upstream"
)

type scriptedCall struct {
	method string
	path   string
	data   string
	err    error
}

type scriptedAPI struct {
	t     *testing.T
	calls []scriptedCall
	next  int
}

func (s *scriptedAPI) Do(_ context.Context, req upstream.Request, out any) (*upstream.Meta, error) {
	s.t.Helper()
	if s.next >= len(s.calls) {
		s.t.Fatalf("unexpected upstream call %s %s", req.Method, req.Path)
	}
	call := s.calls[s.next]
	s.next++

	if req.Method != call.method || req.Path != call.path {
		s.t.Fatalf("expected %s %s, got %s %s", call.method, call.path, req.Method, req.Path)
	}
	if call.err != nil {
		return nil, call.err
	}
	if out != nil && call.data != "" {
		if err := json.Unmarshal([]byte(call.data), out); err != nil {
			s.t.Fatalf("unmarshal scripted data: %v", err)
		}
	}
	return &upstream.Meta{}, nil
}

func (s *scriptedAPI) done() {
	s.t.Helper()
	if s.next != len(s.calls) {
		s.t.Fatalf("expected %d upstream calls, saw %d", len(s.calls), s.next)
	}
}

func newSvc(t *testing.T, calls ...scriptedCall) (Service, *scriptedAPI) {
	t.Helper()
	api := &scriptedAPI{t: t, calls: calls}
	svc, err := NewService(api)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, api
}

func mustDecimal(t *testing.T, s string) types.Decimal {
	t.Helper()
	d, err := types.DecimalFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}

func validInput(t *testing.T) SendOfferInput {
	return SendOfferInput{
		ProductID:         "p1",
		OfferedPrice:      mustDecimal(t, "50.00"),
		Quantity:          10,
		Negotiable:        true,
		MinQty:            5,
		MaxQty:            60,
		CatalogPrice:      mustDecimal(t, "60.00"),
		HasCatalogContext: true,
	}
}

func TestSendOfferSucceeds(t *testing.T) {
	svc, api := newSvc(t, scriptedCall{
		method: "POST",
		path:   "/api/v1/negotiations",
		data:   `{"offerId":"o1","offerDate":"2025-04-16T17:24:20Z"}`,
	})

	result, err := svc.SendOffer(context.Background(), validInput(t))
	if err != nil {
		t.Fatalf("send offer: %v", err)
	}
	api.done()
	if result.OfferID != "o1" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestSendOfferInvalidNeverHitsNetwork(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*SendOfferInput)
	}{
		{"not negotiable", func(in *SendOfferInput) { in.Negotiable = false }},
		{"zero price", func(in *SendOfferInput) { in.OfferedPrice = types.Decimal{} }},
		{"price at catalog", func(in *SendOfferInput) { in.OfferedPrice = in.CatalogPrice }},
		{"below min qty", func(in *SendOfferInput) { in.Quantity = 2 }},
		{"above max qty", func(in *SendOfferInput) { in.Quantity = 100 }},
		{"zero quantity", func(in *SendOfferInput) { in.Quantity = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, api := newSvc(t)
			input := validInput(t)
			tc.mutate(&input)

			_, err := svc.SendOffer(context.Background(), input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			api.done()
		})
	}
}

const receivedOffers = `{"offers":[
	{"id":"o1","offer_price_per_unit":"50.00","quantity":"10","status":"pending","offer_date":"d1","response_date":null,"product_name":"Rice","product_id":"p1","consumer_name":"Asha","consumer_id":"u2"},
	{"id":"o2","offer_price_per_unit":"40.00","quantity":"5","status":"accepted","offer_date":"d2","response_date":"d3","product_name":"Rice","product_id":"p1"}
]}`

func TestListReceivedParsesStringNumerics(t *testing.T) {
	svc, api := newSvc(t, scriptedCall{method: "GET", path: "/api/v1/negotiations/farmer", data: receivedOffers})

	offers, err := svc.ListReceived(context.Background())
	if err != nil {
		t.Fatalf("list received: %v", err)
	}
	api.done()
	if len(offers) != 2 {
		t.Fatalf("expected 2 offers, got %d", len(offers))
	}
	if offers[0].OfferPricePerUnit.StringFixed(2) != "50.00" || offers[0].Quantity.Int() != 10 {
		t.Fatalf("string numerics not parsed: %+v", offers[0])
	}
}

func TestAcceptPendingOffer(t *testing.T) {
	svc, api := newSvc(t,
		scriptedCall{method: "GET", path: "/api/v1/negotiations/farmer", data: receivedOffers},
		scriptedCall{method: "PATCH", path: "/api/v1/negotiations/accept/o1", data: `{"offer":{"id":"o1","status":"accepted"}}`},
	)

	offer, err := svc.Accept(context.Background(), "o1")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	api.done()
	if offer.Status != StatusAccepted {
		t.Fatalf("unexpected status %q", offer.Status)
	}
}

func TestRejectNonPendingOfferIsStateConflict(t *testing.T) {
	svc, api := newSvc(t,
		scriptedCall{method: "GET", path: "/api/v1/negotiations/farmer", data: receivedOffers},
	)

	_, err := svc.Reject(context.Background(), "o2")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	api.done()
}

func TestAnswerUnknownOffer(t *testing.T) {
	svc, api := newSvc(t,
		scriptedCall{method: "GET", path: "/api/v1/negotiations/farmer", data: receivedOffers},
	)

	_, err := svc.Accept(context.Background(), "missing")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	api.done()
}
