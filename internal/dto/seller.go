package dto

import "github.com/shopspring/decimal"

// Seller is the store record behind the back-office screens. IsVerified
// doubles as the store-active flag and follows the backend's 0/1 convention.
type Seller struct {
	SellerId   string `json:"SellerId,omitempty"`
	UserId     string `json:"UserId"`
	StoreName  string `json:"StoreName,omitempty"`
	Country    string `json:"Country,omitempty"`
	IsVerified int    `json:"IsVerified"`
}

// NewProduct carries the fields of the multipart product upload; images
// travel as repeated "images" file parts alongside.
type NewProduct struct {
	ProductName          string
	Description          string
	Price                decimal.Decimal
	InStock              int
	CategoryId           string
	SubCategoryId        string
	ShippingPrice        decimal.Decimal
	ExpressShippingPrice decimal.Decimal
}

type UpdateProductRequest struct {
	ProductName string          `json:"ProductName,omitempty"`
	Description string          `json:"Description,omitempty"`
	Price       decimal.Decimal `json:"Price,omitempty"`
	Stock       *int            `json:"Stock,omitempty"`
}
