package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	cartsvc "github.com/haritkart/storefront/internal/cart"
	pkgerrors "github.com/haritkart/storefront/pkg/errors"
)

type stubCartService struct {
	cart *cartsvc.Cart
	err  error

	lastItemID   string
	lastQuantity int
}

func (s *stubCartService) View(context.Context) (*cartsvc.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) Add(_ context.Context, productID string, quantity int) (*cartsvc.Cart, error) {
	s.lastItemID = productID
	s.lastQuantity = quantity
	return s.cart, s.err
}

func (s *stubCartService) UpdateQuantity(_ context.Context, cartItemID string, quantity int) (*cartsvc.Cart, error) {
	s.lastItemID = cartItemID
	s.lastQuantity = quantity
	return s.cart, s.err
}

func (s *stubCartService) Remove(_ context.Context, cartItemID string) (*cartsvc.Cart, error) {
	s.lastItemID = cartItemID
	return s.cart, s.err
}

func (s *stubCartService) Clear(context.Context) (*cartsvc.Cart, error) {
	return s.cart, s.err
}

func TestAddToCart(t *testing.T) {
	svc := &stubCartService{cart: &cartsvc.Cart{}}
	handler := AddToCart(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", strings.NewReader(`{"product_id":"p1","quantity":5}`))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastItemID != "p1" || svc.lastQuantity != 5 {
		t.Fatalf("add not passed through: %q %d", svc.lastItemID, svc.lastQuantity)
	}
}

func TestAddToCartRejectsMissingQuantity(t *testing.T) {
	handler := AddToCart(&stubCartService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", strings.NewReader(`{"product_id":"p1"}`))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpdateCartItemAllowsZero(t *testing.T) {
	svc := &stubCartService{cart: &cartsvc.Cart{}}
	handler := UpdateCartItem(svc, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/ci1", strings.NewReader(`{"quantity":0}`))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParam(req, "cartItemID", "ci1")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastItemID != "ci1" || svc.lastQuantity != 0 {
		t.Fatalf("zero quantity must reach the service: %q %d", svc.lastItemID, svc.lastQuantity)
	}
}

func TestUpdateCartItemRequiresQuantityField(t *testing.T) {
	handler := UpdateCartItem(&stubCartService{}, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/ci1", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParam(req, "cartItemID", "ci1")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestViewCartError(t *testing.T) {
	handler := ViewCart(&stubCartService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "please log in")}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}

	var envelope struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Status != "fail" {
		t.Fatalf("expected fail status, got %q", envelope.Status)
	}
}
