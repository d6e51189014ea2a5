package addresses

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/haritkart/storefront/pkg/errors"
	"github.com/haritkart/storefront/pkg/upstream"
)

const basePath = "/api/v1/users/me/addresses"

type apiCaller interface {
	Do(ctx context.Context, req upstream.Request, out any) (*upstream.Meta, error)
}

// Address is a saved delivery address.
type Address struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id,omitempty"`
	Name         string  `json:"name,omitempty"`
	AddressLine1 string  `json:"address_line1"`
	AddressLine2 *string `json:"address_line2,omitempty"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Country      string  `json:"country"`
	PostalCode   string  `json:"postal_code"`
	IsPrimary    bool    `json:"is_primary"`
	CreatedAt    string  `json:"created_at,omitempty"`
}

// Input carries the writable address fields. Updates are partial, so empty
// fields stay off the wire.
type Input struct {
	Name         string  `json:"name,omitempty"`
	AddressLine1 string  `json:"address_line1,omitempty"`
	AddressLine2 *string `json:"address_line2,omitempty"`
	City         string  `json:"city,omitempty"`
	State        string  `json:"state,omitempty"`
	Country      string  `json:"country,omitempty"`
	PostalCode   string  `json:"postal_code,omitempty"`
	IsPrimary    *bool   `json:"is_primary,omitempty"`
}

// Service manages the consumer's address book.
type Service interface {
	ListMine(ctx context.Context) ([]Address, error)
	Add(ctx context.Context, input Input) (*Address, error)
	Update(ctx context.Context, addressID string, input Input) (*Address, error)
	Delete(ctx context.Context, addressID string) error
	SetPrimary(ctx context.Context, addressID string) (*Address, error)
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

func (s *service) ListMine(ctx context.Context) ([]Address, error) {
	var payload struct {
		Addresses []Address `json:"addresses"`
	}
	if _, err := s.api.Do(ctx, upstream.Request{
		Op:     "addresses.list",
		Method: http.MethodGet,
		Path:   basePath,
	}, &payload); err != nil {
		return nil, err
	}
	return payload.Addresses, nil
}

func (s *service) Add(ctx context.Context, input Input) (*Address, error) {
	var payload struct {
		Address Address `json:"address"`
	}
	if _, err := s.api.Do(ctx, upstream.Request{
		Op:     "addresses.add",
		Method: http.MethodPost,
		Path:   basePath,
		Body:   input,
	}, &payload); err != nil {
		return nil, err
	}
	return &payload.Address, nil
}

func (s *service) Update(ctx context.Context, addressID string, input Input) (*Address, error) {
	if strings.TrimSpace(addressID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address id is required")
	}

	var payload struct {
		Address Address `json:"address"`
	}
	if _, err := s.api.Do(ctx, upstream.Request{
		Op:     "addresses.update",
		Method: http.MethodPut,
		Path:   basePath + "/" + url.PathEscape(addressID),
		Body:   input,
	}, &payload); err != nil {
		return nil, err
	}
	return &payload.Address, nil
}

func (s *service) Delete(ctx context.Context, addressID string) error {
	if strings.TrimSpace(addressID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "address id is required")
	}
	_, err := s.api.Do(ctx, upstream.Request{
		Op:     "addresses.delete",
		Method: http.MethodDelete,
		Path:   basePath + "/" + url.PathEscape(addressID),
	}, nil)
	return err
}

// SetPrimary flags one address as the default; the upstream clears the flag
// on the others.
func (s *service) SetPrimary(ctx context.Context, addressID string) (*Address, error) {
	primary := true
	return s.Update(ctx, addressID, Input{IsPrimary: &primary})
}
