package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	if meta := MetadataFor(CodeNotFound); meta.HTTPStatus != http.StatusNotFound {
		t.Fatalf("unexpected status for not found: %d", meta.HTTPStatus)
	}
	if meta := MetadataFor(Code("nope")); meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown codes should map to internal, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("socket closed")
	err := Wrap(CodeDependency, cause, "fetch cart")

	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to be discoverable")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAsFindsTypedErrorInChain(t *testing.T) {
	inner := New(CodeValidation, "quantity out of range")
	wrapped := fmt.Errorf("update cart: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatalf("expected typed error")
	}
	if typed.Message() != "quantity out of range" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestWithRedirect(t *testing.T) {
	err := New(CodeUnauthorized, "login required").WithRedirect("/login")
	if err.Redirect() != "/login" {
		t.Fatalf("unexpected redirect %q", err.Redirect())
	}
}

type fakeUpstreamErr struct{}

func (fakeUpstreamErr) Error() string            { return "status 502" }
func (fakeUpstreamErr) UpstreamStatus() int      { return 502 }
func (fakeUpstreamErr) UpstreamEndpoint() string { return "GET /api/v1/cart" }

func TestDumpExtractsUpstreamDetail(t *testing.T) {
	err := Wrap(CodeDependency, fakeUpstreamErr{}, "view cart")
	d := Dump(err)

	if d.UpstreamStatus != 502 {
		t.Fatalf("expected upstream status 502, got %d", d.UpstreamStatus)
	}
	if d.UpstreamEndpoint != "GET /api/v1/cart" {
		t.Fatalf("unexpected endpoint %q", d.UpstreamEndpoint)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("expected full chain, got %v", d.Chain)
	}
}
