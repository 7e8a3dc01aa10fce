package dto

// ShippingMethod is the per-line delivery choice made at checkout.
type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
)

// CheckoutDraftRequest is the snapshot sent before payment-session creation:
// cart lines, the chosen shipping method per product, and the destination.
type CheckoutDraftRequest struct {
	CartItems       []CartItem                `json:"cartItems"`
	ShippingOptions map[string]ShippingMethod `json:"shippingOptions"`
	ShippingAddress Address                   `json:"shippingAddress"`
}

type CheckoutDraftResponse struct {
	DraftId string `json:"draftId"`
	Message string `json:"message,omitempty"`
}

type CreateSessionRequest struct {
	DraftId string `json:"draftId"`
}

type CreateSessionResponse struct {
	URL string `json:"url"`
}

type VerifyPaymentResponse struct {
	Status  string `json:"status"`
	OrderId string `json:"orderId,omitempty"`
	Message string `json:"message,omitempty"`
}
