package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ProductId   string          `json:"ProductId"`
	ProductName string          `json:"ProductName"`
	Quantity    int             `json:"Quantity"`
	Price       decimal.Decimal `json:"Price"`
}

type Order struct {
	OrderId     string          `json:"OrderId"`
	BuyerId     string          `json:"BuyerId,omitempty"`
	SellerId    string          `json:"SellerId,omitempty"`
	Items       []OrderItem     `json:"Items"`
	TotalAmount decimal.Decimal `json:"TotalAmount"`
	Status      string          `json:"Status"`
	CreatedAt   time.Time       `json:"CreatedAt"`
}

// OrdersRequest scopes an order listing to the caller. The backend exposes
// these as POST endpoints taking the user id in the body.
type OrdersRequest struct {
	UserId string `json:"UserId"`
}
