package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/haritkart/storefront/pkg/errors"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (fn roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return fn(req)
}

func newTestClient(t *testing.T, fn roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient("https://core.example.com/api/v1",
		WithHTTPClient(&http.Client{Transport: fn}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestDoUnwrapsEnvelopeAndMeta(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.String() != "https://core.example.com/api/v1/products?page=2" {
			t.Fatalf("unexpected url %s", req.URL)
		}
		if got := req.Header.Get("Accept"); got != "application/json" {
			t.Fatalf("unexpected accept header %q", got)
		}
		resp := jsonResponse(http.StatusOK, `{
			"status": "success",
			"results": 2,
			"total": 14,
			"currentPage": 2,
			"totalPages": 7,
			"data": {"products": [{"id": "p1"}, {"id": "p2"}]}
		}`)
		resp.Header.Add("Set-Cookie", "session=abc; Path=/; HttpOnly")
		return resp, nil
	})

	var out struct {
		Products []struct {
			ID string `json:"id"`
		} `json:"products"`
	}
	meta, err := client.Do(context.Background(), Request{
		Op:     "products.list",
		Method: http.MethodGet,
		Path:   "/products",
		Query:  map[string][]string{"page": {"2"}},
	}, &out)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if len(out.Products) != 2 || out.Products[1].ID != "p2" {
		t.Fatalf("unexpected payload %+v", out)
	}
	if meta.Total != 14 || meta.CurrentPage != 2 || meta.TotalPages != 7 {
		t.Fatalf("unexpected meta %+v", meta)
	}
	if len(meta.Cookies) != 1 || meta.Cookies[0].Name != "session" {
		t.Fatalf("expected captured session cookie, got %+v", meta.Cookies)
	}
}

func TestDoForwardsSessionCookie(t *testing.T) {
	var seen string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		seen = req.Header.Get("Cookie")
		return jsonResponse(http.StatusOK, `{"status":"success"}`), nil
	})

	ctx := WithSessionCookies(context.Background(), "session=abc; refresh=def")
	if _, err := client.Do(ctx, Request{Op: "auth.whoami", Method: http.MethodGet, Path: "/users/whoami"}, nil); err != nil {
		t.Fatalf("do: %v", err)
	}
	if seen != "session=abc; refresh=def" {
		t.Fatalf("cookie header not forwarded, got %q", seen)
	}
}

func TestDoSendsJSONBody(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if got := req.Header.Get("Content-Type"); got != "application/json" {
			t.Fatalf("unexpected content type %q", got)
		}
		raw, _ := io.ReadAll(req.Body)
		if !strings.Contains(string(raw), `"product_id":"p1"`) {
			t.Fatalf("unexpected body %s", raw)
		}
		return jsonResponse(http.StatusCreated, `{"status":"success","message":"added to cart"}`), nil
	})

	meta, err := client.Do(context.Background(), Request{
		Op:     "cart.add",
		Method: http.MethodPost,
		Path:   "/cart",
		Body:   map[string]string{"product_id": "p1"},
	}, nil)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if meta.Message != "added to cart" {
		t.Fatalf("unexpected message %q", meta.Message)
	}
}

func TestDoMapsServerFailures(t *testing.T) {
	cases := []struct {
		status  int
		body    string
		code    pkgerrors.Code
		message string
	}{
		{http.StatusUnauthorized, `{"status":"fail","message":"please log in"}`, pkgerrors.CodeUnauthorized, "please log in"},
		{http.StatusForbidden, `{"status":"fail","message":"farmers only"}`, pkgerrors.CodeForbidden, "farmers only"},
		{http.StatusNotFound, `{"status":"fail","message":"no such product"}`, pkgerrors.CodeNotFound, "no such product"},
		{http.StatusBadRequest, `{"status":"fail","message":"quantity out of range"}`, pkgerrors.CodeValidation, "quantity out of range"},
		{http.StatusInternalServerError, `{"status":"error","message":"boom"}`, pkgerrors.CodeDependency, "boom"},
		{http.StatusBadGateway, "not json at all", pkgerrors.CodeDependency, "not json at all"},
	}

	for _, tc := range cases {
		client := newTestClient(t, func(*http.Request) (*http.Response, error) {
			return jsonResponse(tc.status, tc.body), nil
		})
		_, err := client.Do(context.Background(), Request{Op: "x", Method: http.MethodGet, Path: "/x"}, nil)
		typed := pkgerrors.As(err)
		if typed == nil {
			t.Fatalf("status %d: expected typed error, got %v", tc.status, err)
		}
		if typed.Code() != tc.code {
			t.Fatalf("status %d: expected code %s, got %s", tc.status, tc.code, typed.Code())
		}
		if typed.Message() != tc.message {
			t.Fatalf("status %d: expected message %q, got %q", tc.status, tc.message, typed.Message())
		}
	}
}

func TestDoNetworkFailure(t *testing.T) {
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	_, err := client.Do(context.Background(), Request{Op: "cart.view", Method: http.MethodGet, Path: "/cart"}, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if typed.Message() != "network error, please check your connection" {
		t.Fatalf("unexpected message %q", typed.Message())
	}

	var call *CallError
	if !errors.As(err, &call) {
		t.Fatalf("expected CallError in chain")
	}
	if call.Status != 0 || call.Endpoint != "GET /cart" {
		t.Fatalf("unexpected call error %+v", call)
	}
}

func TestDumpCarriesUpstreamDetail(t *testing.T) {
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusConflict, `{"status":"fail","message":"already offered"}`), nil
	})

	_, err := client.Do(context.Background(), Request{Op: "negotiations.offer", Method: http.MethodPost, Path: "/negotiations/offer"}, nil)
	dump := pkgerrors.Dump(err)
	if dump.UpstreamStatus != http.StatusConflict {
		t.Fatalf("unexpected upstream status %d", dump.UpstreamStatus)
	}
	if dump.UpstreamEndpoint != "POST /negotiations/offer" {
		t.Fatalf("unexpected upstream endpoint %q", dump.UpstreamEndpoint)
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("   "); err == nil {
		t.Fatalf("expected error for empty base url")
	}
}
