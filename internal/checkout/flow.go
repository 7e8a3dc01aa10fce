// Package checkout drives the read-then-submit pipeline: load address and
// cart, pick shipping per line, validate, create the draft, then the payment
// session. The flow is one-shot per attempt and halts on the first failure.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/EvanMworia/client/internal/dto"
	"github.com/EvanMworia/client/internal/notify"
	"github.com/EvanMworia/client/internal/session"
)

var (
	ErrNoAddress         = errors.New("checkout: no default address")
	ErrIncompleteAddress = errors.New("checkout: default address incomplete")
	ErrEmptyCart         = errors.New("checkout: cart is empty")
	ErrNoDraftID         = errors.New("checkout: draft response missing draftId")
	ErrNoPaymentURL      = errors.New("checkout: session response missing url")
)

type ShippingBackend interface {
	DefaultAddress(ctx context.Context) (*dto.Address, error)
}

type CartBackend interface {
	Items(ctx context.Context) ([]dto.CartItem, error)
}

type CheckoutBackend interface {
	CreateDraft(ctx context.Context, draft dto.CheckoutDraftRequest) (*dto.CheckoutDraftResponse, error)
	CreateSession(ctx context.Context, draftID string) (*dto.CreateSessionResponse, error)
}

// SessionGuard is the pre-mutation expiry check; *session.Session satisfies
// it.
type SessionGuard interface {
	Guard() (*session.Identity, error)
}

type Flow struct {
	shipping ShippingBackend
	cart     CartBackend
	checkout CheckoutBackend
	guard    SessionGuard
	notify   notify.Notifier
	validate *validator.Validate

	mu         sync.Mutex
	address    *dto.Address
	lines      []dto.CartItem
	selections map[string]dto.ShippingMethod
}

// NewFlow wires the three backend slices plus an optional session guard;
// pass a nil guard to skip the expiry re-check (tests).
func NewFlow(shipping ShippingBackend, cart CartBackend, co CheckoutBackend, guard SessionGuard, n notify.Notifier) *Flow {
	if n == nil {
		n = notify.LogNotifier{}
	}
	return &Flow{
		shipping: shipping,
		cart:     cart,
		checkout: co,
		guard:    guard,
		notify:   n,
		validate: validator.New(),
	}
}

// Load fetches the default address and the cart in parallel, then defaults
// every line to standard shipping.
func (f *Flow) Load(ctx context.Context) error {
	var (
		addr  *dto.Address
		lines []dto.CartItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := f.shipping.DefaultAddress(gctx)
		if err != nil {
			return fmt.Errorf("load default address: %w", err)
		}
		addr = a
		return nil
	})
	g.Go(func() error {
		items, err := f.cart.Items(gctx)
		if err != nil {
			return fmt.Errorf("load cart items: %w", err)
		}
		lines = items
		return nil
	})
	if err := g.Wait(); err != nil {
		f.notify.Error("Failed to load checkout")
		return err
	}

	selections := make(map[string]dto.ShippingMethod, len(lines))
	for _, l := range lines {
		selections[l.ProductId] = dto.ShippingStandard
	}

	f.mu.Lock()
	f.address = addr
	f.lines = lines
	f.selections = selections
	f.mu.Unlock()
	return nil
}

// SelectShipping records the delivery choice for one line. Unknown products
// and unknown methods are ignored.
func (f *Flow) SelectShipping(productID string, method dto.ShippingMethod) {
	if method != dto.ShippingStandard && method != dto.ShippingExpress {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.selections[productID]; ok {
		f.selections[productID] = method
	}
}

// Total is Σ(price × quantity + selected shipping fee), recomputed from
// current selections on every call.
func (f *Flow) Total() decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := decimal.Zero
	for _, l := range f.lines {
		fee := l.ShippingPrice
		if f.selections[l.ProductId] == dto.ShippingExpress {
			fee = l.ExpressShippingPrice
		}
		total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))).Add(fee))
	}
	return total
}

func (f *Flow) Address() *dto.Address {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.address == nil {
		return nil
	}
	a := *f.address
	return &a
}

func (f *Flow) Lines() []dto.CartItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]dto.CartItem, len(f.lines))
	copy(out, f.lines)
	return out
}

// Validate gates submission: a default address with all required fields and
// a non-empty cart.
func (f *Flow) Validate() error {
	f.mu.Lock()
	addr := f.address
	empty := len(f.lines) == 0
	f.mu.Unlock()

	if addr == nil {
		return ErrNoAddress
	}
	if err := f.validate.Struct(addr); err != nil {
		return fmt.Errorf("%w: %v", ErrIncompleteAddress, err)
	}
	if empty {
		return ErrEmptyCart
	}
	return nil
}

// Submit validates, creates the draft, then the payment session, and
// returns the external payment page URL the caller should navigate to. No
// draft call is issued when validation fails.
func (f *Flow) Submit(ctx context.Context) (string, error) {
	if f.guard != nil {
		if _, err := f.guard.Guard(); err != nil {
			f.notify.Error("Your session has expired. Please log in again.")
			return "", err
		}
	}
	if err := f.Validate(); err != nil {
		f.notify.Error(validationMessage(err))
		return "", err
	}

	f.mu.Lock()
	draft := dto.CheckoutDraftRequest{
		CartItems:       append([]dto.CartItem(nil), f.lines...),
		ShippingOptions: make(map[string]dto.ShippingMethod, len(f.selections)),
		ShippingAddress: *f.address,
	}
	for k, v := range f.selections {
		draft.ShippingOptions[k] = v
	}
	f.mu.Unlock()

	resp, err := f.checkout.CreateDraft(ctx, draft)
	if err != nil {
		f.notify.Error("Checkout failed. Please try again.")
		return "", err
	}
	if resp.DraftId == "" {
		f.notify.Error("Failed to create checkout draft.")
		return "", ErrNoDraftID
	}

	sess, err := f.checkout.CreateSession(ctx, resp.DraftId)
	if err != nil {
		f.notify.Error("Failed to initiate checkout session.")
		return "", err
	}
	if sess.URL == "" {
		f.notify.Error("Failed to initiate checkout session.")
		return "", ErrNoPaymentURL
	}

	f.notify.Success("Redirecting to secure payment...")
	return sess.URL, nil
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoAddress):
		return "Please add a default address before checkout."
	case errors.Is(err, ErrIncompleteAddress):
		return "Your default address seems incomplete. Please fill all fields to ensure accuracy in delivery."
	case errors.Is(err, ErrEmptyCart):
		return "Your cart is empty."
	default:
		return "Checkout failed. Please try again."
	}
}
