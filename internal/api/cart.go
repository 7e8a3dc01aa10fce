package api

import (
	"context"
	"net/http"

	"github.com/EvanMworia/client/internal/dto"
)

type CartAPI struct{ c *Client }

func NewCartAPI(c *Client) *CartAPI { return &CartAPI{c: c} }

func (ca *CartAPI) Items(ctx context.Context) ([]dto.CartItem, error) {
	var items []dto.CartItem
	if err := ca.c.Do(ctx, http.MethodGet, "/cart/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Add returns the created line when the backend includes one; callers fall
// back to a refetch when it doesn't.
func (ca *CartAPI) Add(ctx context.Context, productID string, quantity int) (*dto.CartItem, error) {
	req := dto.AddCartItemRequest{ProductID: productID, Quantity: quantity}
	var resp dto.AddCartItemResponse
	if err := ca.c.Do(ctx, http.MethodPost, "/cart/add", req, &resp); err != nil {
		return nil, err
	}
	return resp.CartItem, nil
}

func (ca *CartAPI) UpdateQuantity(ctx context.Context, cartItemID string, quantity int) error {
	req := dto.UpdateCartItemRequest{Quantity: quantity}
	return ca.c.Do(ctx, http.MethodPut, "/cart/update/"+cartItemID, req, nil)
}

func (ca *CartAPI) Remove(ctx context.Context, cartItemID string) error {
	return ca.c.Do(ctx, http.MethodDelete, "/cart/remove/"+cartItemID, nil, nil)
}

func (ca *CartAPI) Clear(ctx context.Context) error {
	return ca.c.Do(ctx, http.MethodDelete, "/cart/clear", nil, nil)
}
