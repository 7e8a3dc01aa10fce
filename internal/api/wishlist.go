package api

import (
	"context"
	"net/http"

	"github.com/EvanMworia/client/internal/dto"
)

type WishlistAPI struct{ c *Client }

func NewWishlistAPI(c *Client) *WishlistAPI { return &WishlistAPI{c: c} }

func (wa *WishlistAPI) Items(ctx context.Context) ([]dto.WishlistItem, error) {
	var items []dto.WishlistItem
	if err := wa.c.Do(ctx, http.MethodGet, "/wishlist/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (wa *WishlistAPI) Add(ctx context.Context, productID string) error {
	req := dto.AddWishlistItemRequest{ProductId: productID}
	return wa.c.Do(ctx, http.MethodPost, "/wishlist/add-to-wishlist", req, nil)
}

// QuickRemove deletes by product id, the toggle-control path.
func (wa *WishlistAPI) QuickRemove(ctx context.Context, productID string) error {
	return wa.c.Do(ctx, http.MethodDelete, "/wishlist/quick-remove/"+productID, nil, nil)
}

// Remove deletes by wishlist item id, the list-page path.
func (wa *WishlistAPI) Remove(ctx context.Context, itemID string) error {
	return wa.c.Do(ctx, http.MethodDelete, "/wishlist/remove/"+itemID, nil, nil)
}

func (wa *WishlistAPI) Clear(ctx context.Context) error {
	return wa.c.Do(ctx, http.MethodDelete, "/wishlist/clear", nil, nil)
}
