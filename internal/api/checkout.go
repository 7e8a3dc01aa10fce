package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/EvanMworia/client/internal/dto"
)

type CheckoutAPI struct{ c *Client }

func NewCheckoutAPI(c *Client) *CheckoutAPI { return &CheckoutAPI{c: c} }

func (ca *CheckoutAPI) CreateDraft(ctx context.Context, draft dto.CheckoutDraftRequest) (*dto.CheckoutDraftResponse, error) {
	var resp dto.CheckoutDraftResponse
	if err := ca.c.Do(ctx, http.MethodPost, "/checkout/draft", draft, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (ca *CheckoutAPI) CreateSession(ctx context.Context, draftID string) (*dto.CreateSessionResponse, error) {
	req := dto.CreateSessionRequest{DraftId: draftID}
	var resp dto.CreateSessionResponse
	if err := ca.c.Do(ctx, http.MethodPost, "/checkout/create-session", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyPayment is called after the payment page redirects back with a
// session id.
func (ca *CheckoutAPI) VerifyPayment(ctx context.Context, sessionID string) (*dto.VerifyPaymentResponse, error) {
	var resp dto.VerifyPaymentResponse
	path := "/orders/verify-payment?session_id=" + url.QueryEscape(sessionID)
	if err := ca.c.Do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
