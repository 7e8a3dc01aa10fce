package dto

// Address is a shipping address from the address book. IsDefault follows the
// backend's 0/1 convention rather than a JSON bool.
type Address struct {
	ShippingId      string `json:"ShippingId,omitempty"`
	FullName        string `json:"FullName" validate:"required"`
	PhoneNumber     string `json:"PhoneNumber" validate:"required"`
	AddressLine1    string `json:"AddressLine1" validate:"required"`
	AddressLine2    string `json:"AddressLine2,omitempty"`
	City            string `json:"City" validate:"required"`
	StateOrProvince string `json:"StateOrProvince,omitempty"`
	PostalCode      string `json:"PostalCode,omitempty"`
	Country         string `json:"Country" validate:"required"`
	IsDefault       int    `json:"IsDefault"`
}

type SetDefaultRequest struct {
	IsDefault int `json:"IsDefault"`
}
