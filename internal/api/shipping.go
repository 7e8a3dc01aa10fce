package api

import (
	"context"
	"net/http"

	"github.com/EvanMworia/client/internal/dto"
)

type ShippingAPI struct{ c *Client }

func NewShippingAPI(c *Client) *ShippingAPI { return &ShippingAPI{c: c} }

func (sa *ShippingAPI) Addresses(ctx context.Context) ([]dto.Address, error) {
	var addrs []dto.Address
	if err := sa.c.Do(ctx, http.MethodGet, "/shipping/addresses/me", nil, &addrs); err != nil {
		return nil, err
	}
	return addrs, nil
}

// DefaultAddress returns nil when no default address exists yet. The backend
// answers with a list holding at most one entry.
func (sa *ShippingAPI) DefaultAddress(ctx context.Context) (*dto.Address, error) {
	var addrs []dto.Address
	if err := sa.c.Do(ctx, http.MethodGet, "/shipping/default-address/me", nil, &addrs); err != nil {
		return nil, err
	}
	if len(addrs) == 0 {
		return nil, nil
	}
	return &addrs[0], nil
}

func (sa *ShippingAPI) Create(ctx context.Context, addr dto.Address) error {
	return sa.c.Do(ctx, http.MethodPost, "/shipping/add-shipping", addr, nil)
}

func (sa *ShippingAPI) Update(ctx context.Context, shippingID string, addr dto.Address) error {
	return sa.c.Do(ctx, http.MethodPatch, "/shipping/edit-address/"+shippingID, addr, nil)
}

func (sa *ShippingAPI) Delete(ctx context.Context, shippingID string) error {
	return sa.c.Do(ctx, http.MethodDelete, "/shipping/delete-address/"+shippingID, nil, nil)
}

func (sa *ShippingAPI) SetDefault(ctx context.Context, shippingID string, isDefault bool) error {
	req := dto.SetDefaultRequest{}
	if isDefault {
		req.IsDefault = 1
	}
	return sa.c.Do(ctx, http.MethodPatch, "/shipping/set-as-default/"+shippingID, req, nil)
}
