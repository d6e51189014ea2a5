package addresses

import (
	"context"
	"encoding/json"
	"testing"

	pkgerrors "github.com/haritkart/storefront/pkg/errors"
	"github.com/haritkart/storefront/pkg/upstream"
)

type scriptedCall struct {
	method string
	path   string
	body   string
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
	if call.body != "" {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			s.t.Fatalf("marshal body: %v", err)
		}
		if string(raw) != call.body {
			s.t.Fatalf("expected body %s, got %s", call.body, raw)
		}
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

func TestListMine(t *testing.T) {
	svc, api := newSvc(t, scriptedCall{
		method: "GET",
		path:   "/api/v1/users/me/addresses",
		data:   `{"addresses":[{"id":"a1","address_line1":"12 Lake Rd","city":"Pune","state":"MH","country":"IN","postal_code":"411001","is_primary":true}]}`,
	})

	addrs, err := svc.ListMine(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	api.done()
	if len(addrs) != 1 || !addrs[0].IsPrimary {
		t.Fatalf("unexpected addresses %+v", addrs)
	}
}

func TestAddUnwrapsAddress(t *testing.T) {
	svc, api := newSvc(t, scriptedCall{
		method: "POST",
		path:   "/api/v1/users/me/addresses",
		data:   `{"address":{"id":"a2","address_line1":"5 Hill St","city":"Nashik","state":"MH","country":"IN","postal_code":"422001"}}`,
	})

	addr, err := svc.Add(context.Background(), Input{AddressLine1: "5 Hill St", City: "Nashik", State: "MH", Country: "IN", PostalCode: "422001"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	api.done()
	if addr.ID != "a2" {
		t.Fatalf("unexpected address %+v", addr)
	}
}

func TestSetPrimarySendsOnlyFlag(t *testing.T) {
	svc, api := newSvc(t, scriptedCall{
		method: "PUT",
		path:   "/api/v1/users/me/addresses/a1",
		body:   `{"is_primary":true}`,
		data:   `{"address":{"id":"a1","is_primary":true}}`,
	})

	addr, err := svc.SetPrimary(context.Background(), "a1")
	if err != nil {
		t.Fatalf("set primary: %v", err)
	}
	api.done()
	if !addr.IsPrimary {
		t.Fatalf("expected primary address, got %+v", addr)
	}
}

func TestDeleteRequiresID(t *testing.T) {
	svc, api := newSvc(t)
	if err := svc.Delete(context.Background(), "  "); pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error")
	}
	api.done()
}

func TestDelete(t *testing.T) {
	svc, api := newSvc(t, scriptedCall{method: "DELETE", path: "/api/v1/users/me/addresses/a1"})
	if err := svc.Delete(context.Background(), "a1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	api.done()
}
