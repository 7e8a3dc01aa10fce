package api

import (
	"context"
	"net/http"

	"github.com/EvanMworia/client/internal/dto"
)

type OrdersAPI struct{ c *Client }

func NewOrdersAPI(c *Client) *OrdersAPI { return &OrdersAPI{c: c} }

// Placed lists the orders the user placed as a buyer.
func (oa *OrdersAPI) Placed(ctx context.Context, userID string) ([]dto.Order, error) {
	var orders []dto.Order
	req := dto.OrdersRequest{UserId: userID}
	if err := oa.c.Do(ctx, http.MethodPost, "/orders/placed", req, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Received lists the orders a seller's store received.
func (oa *OrdersAPI) Received(ctx context.Context, userID string) ([]dto.Order, error) {
	var orders []dto.Order
	req := dto.OrdersRequest{UserId: userID}
	if err := oa.c.Do(ctx, http.MethodPost, "/orders/received", req, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
