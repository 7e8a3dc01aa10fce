package dto

import "github.com/shopspring/decimal"

type Product struct {
	ProductId            string          `json:"ProductId"`
	ProductName          string          `json:"ProductName"`
	Description          string          `json:"Description"`
	Price                decimal.Decimal `json:"Price"`
	Stock                int             `json:"Stock"`
	ImageUrl             string          `json:"ImageUrl"`
	CategoryId           string          `json:"CategoryId"`
	SubCategoryId        string          `json:"SubCategoryId,omitempty"`
	SellerId             string          `json:"SellerId,omitempty"`
	SellerName           string          `json:"SellerName,omitempty"`
	SellerCountry        string          `json:"SellerCountry,omitempty"`
	ShippingPrice        decimal.Decimal `json:"ShippingPrice"`
	ExpressShippingPrice decimal.Decimal `json:"ExpressShippingPrice"`
}

type Category struct {
	CategoryId   string `json:"CategoryId"`
	CategoryName string `json:"CategoryName"`
	ImageUrl     string `json:"ImageUrl,omitempty"`
}

type SubCategory struct {
	SubCategoryId   string `json:"SubCategoryId"`
	CategoryId      string `json:"CategoryId"`
	SubCategoryName string `json:"SubCategoryName"`
}
