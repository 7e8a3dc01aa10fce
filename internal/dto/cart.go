package dto

import "github.com/shopspring/decimal"

// CartItem mirrors the backend's cart line shape. CartItemId is the
// server-assigned line id; the cart manager may hold a temporary id until
// the create call settles.
type CartItem struct {
	CartItemId           string          `json:"CartItemId"`
	ProductId            string          `json:"ProductId"`
	Quantity             int             `json:"Quantity"`
	Price                decimal.Decimal `json:"Price"`
	ProductName          string          `json:"ProductName"`
	ProductImageUrl      string          `json:"ProductImageUrl"`
	SellerId             string          `json:"SellerId,omitempty"`
	SellerName           string          `json:"SellerName,omitempty"`
	SellerCountry        string          `json:"SellerCountry,omitempty"`
	ShippingPrice        decimal.Decimal `json:"ShippingPrice"`
	ExpressShippingPrice decimal.Decimal `json:"ExpressShippingPrice"`
}

type AddCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type AddCartItemResponse struct {
	Message  string    `json:"message"`
	CartItem *CartItem `json:"cartItem"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"Quantity"`
}
