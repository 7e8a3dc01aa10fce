package dto

import "github.com/shopspring/decimal"

type WishlistItem struct {
	WishlistItemId  string          `json:"WishlistItemId"`
	ProductId       string          `json:"ProductId"`
	ProductName     string          `json:"ProductName"`
	Price           decimal.Decimal `json:"Price"`
	ProductImageUrl string          `json:"ProductImageUrl"`
}

type AddWishlistItemRequest struct {
	ProductId string `json:"ProductId"`
}
