// Package cart holds the client-side cart: the authoritative-from-server
// line list plus optimistic add/remove/update/clear with rollback. Local
// state always reflects the user's intent immediately; a failed backend call
// fully reverts its own effect and nothing else.
package cart

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/EvanMworia/client/internal/dto"
	"github.com/EvanMworia/client/internal/notify"
	"github.com/EvanMworia/client/internal/optimistic"
)

// Backend is the slice of the cart API the manager needs; *api.CartAPI
// satisfies it.
type Backend interface {
	Items(ctx context.Context) ([]dto.CartItem, error)
	Add(ctx context.Context, productID string, quantity int) (*dto.CartItem, error)
	UpdateQuantity(ctx context.Context, cartItemID string, quantity int) error
	Remove(ctx context.Context, cartItemID string) error
	Clear(ctx context.Context) error
}

// DisplayMeta is the product info snapshotted onto a freshly inserted line
// so the UI can render it before the server answers.
type DisplayMeta struct {
	Price                decimal.Decimal
	ProductName          string
	ProductImageUrl      string
	SellerId             string
	SellerName           string
	SellerCountry        string
	ShippingPrice        decimal.Decimal
	ExpressShippingPrice decimal.Decimal
}

const tempIDPrefix = "temp-"

// Manager keeps the line list and serializes mutations per product so two
// rapid clicks on the same line cannot interleave their confirm/rollback
// steps.
type Manager struct {
	backend Backend
	notify  notify.Notifier

	mu       sync.Mutex
	lines    []dto.CartItem
	fetchGen uint64

	// Per-line mutations hold gate for reading; Clear holds it for writing,
	// so a clear never captures or restores state while a line mutation is
	// mid-flight.
	gate sync.RWMutex
	keys keyedMutex
}

func NewManager(backend Backend, n notify.Notifier) *Manager {
	if n == nil {
		n = notify.LogNotifier{}
	}
	return &Manager{backend: backend, notify: n}
}

// Fetch replaces local state with server truth. A fetch that was cancelled,
// or that lost to a later fetch, discards its response instead of
// overwriting newer state.
func (m *Manager) Fetch(ctx context.Context) error {
	m.mu.Lock()
	m.fetchGen++
	gen := m.fetchGen
	m.mu.Unlock()

	items, err := m.backend.Items(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		m.notify.Error("Failed to load cart")
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ctx.Err() != nil || gen != m.fetchGen {
		return ctx.Err()
	}
	m.lines = items
	return nil
}

// Lines returns a copy of the current line list.
func (m *Manager) Lines() []dto.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]dto.CartItem, len(m.lines))
	copy(out, m.lines)
	return out
}

// TotalCount is the sum of quantities, recomputed on every read.
func (m *Manager) TotalCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, l := range m.lines {
		total += l.Quantity
	}
	return total
}

// Subtotal is Σ(price × quantity), before shipping.
func (m *Manager) Subtotal() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, l := range m.lines {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// Add puts quantity of a product in the cart. An existing line is
// incremented in place; otherwise a line with a temporary id is inserted and
// later swapped for the server's line (or the cart refetched when the server
// omits it).
func (m *Manager) Add(ctx context.Context, productID string, quantity int, meta DisplayMeta) error {
	if quantity < 1 {
		quantity = 1
	}

	m.gate.RLock()
	defer m.gate.RUnlock()
	unlock := m.keys.lock(productID)
	defer unlock()

	if m.hasLineForProduct(productID) {
		return m.addIncrement(ctx, productID, quantity)
	}
	return m.addInsert(ctx, productID, quantity, meta)
}

func (m *Manager) addIncrement(ctx context.Context, productID string, quantity int) error {
	cmd := optimistic.Command[int]{
		Capture: func() int {
			m.mu.Lock()
			defer m.mu.Unlock()
			if l := m.lineForProduct(productID); l != nil {
				return l.Quantity
			}
			return 0
		},
		Apply: func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if l := m.lineForProduct(productID); l != nil {
				l.Quantity += quantity
			}
		},
		Call: func(ctx context.Context) error {
			_, err := m.backend.Add(ctx, productID, quantity)
			return err
		},
		Rollback: func(prev int) {
			m.mu.Lock()
			defer m.mu.Unlock()
			if l := m.lineForProduct(productID); l != nil {
				l.Quantity = max(1, l.Quantity-quantity)
			}
		},
	}
	if err := cmd.Run(ctx); err != nil {
		m.notify.Error("Failed to add to cart")
		return err
	}
	return nil
}

func (m *Manager) addInsert(ctx context.Context, productID string, quantity int, meta DisplayMeta) error {
	tempID := tempIDPrefix + uuid.NewString()
	line := dto.CartItem{
		CartItemId:           tempID,
		ProductId:            productID,
		Quantity:             quantity,
		Price:                meta.Price,
		ProductName:          meta.ProductName,
		ProductImageUrl:      meta.ProductImageUrl,
		SellerId:             meta.SellerId,
		SellerName:           meta.SellerName,
		SellerCountry:        meta.SellerCountry,
		ShippingPrice:        meta.ShippingPrice,
		ExpressShippingPrice: meta.ExpressShippingPrice,
	}

	m.mu.Lock()
	m.lines = append([]dto.CartItem{line}, m.lines...)
	m.mu.Unlock()

	created, err := m.backend.Add(ctx, productID, quantity)
	if err != nil {
		m.mu.Lock()
		m.lines = removeByID(m.lines, tempID)
		m.mu.Unlock()
		m.notify.Error("Failed to add to cart")
		return err
	}

	if created != nil {
		m.mu.Lock()
		for i := range m.lines {
			if m.lines[i].CartItemId == tempID {
				m.lines[i] = *created
				break
			}
		}
		m.mu.Unlock()
		return nil
	}
	// Server did not echo the created line back.
	return m.Fetch(ctx)
}

// Remove deletes a line by its line id, or by product id as a convenience.
// An unknown id is a no-op with no call issued.
func (m *Manager) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	line, idx := m.findLine(id)
	m.mu.Unlock()
	if line == nil {
		return nil
	}

	m.gate.RLock()
	defer m.gate.RUnlock()
	unlock := m.keys.lock(line.ProductId)
	defer unlock()

	// Re-resolve under the key lock; a prior mutation may have settled.
	m.mu.Lock()
	line, idx = m.findLine(id)
	m.mu.Unlock()
	if line == nil {
		return nil
	}
	removed := *line

	cmd := optimistic.Command[int]{
		Capture: func() int { return idx },
		Apply: func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.lines = removeByID(m.lines, removed.CartItemId)
		},
		Call: func(ctx context.Context) error {
			return m.backend.Remove(ctx, removed.CartItemId)
		},
		Rollback: func(prev int) {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.lines = insertAt(m.lines, prev, removed)
		},
	}
	if err := cmd.Run(ctx); err != nil {
		m.notify.Error("Failed to remove item from cart")
		return err
	}
	return nil
}

// UpdateQuantity sets a line's quantity, never below 1. An unknown line id
// is a no-op.
func (m *Manager) UpdateQuantity(ctx context.Context, cartItemID string, newQuantity int) error {
	if newQuantity < 1 {
		newQuantity = 1
	}

	m.mu.Lock()
	line, _ := m.findLine(cartItemID)
	m.mu.Unlock()
	if line == nil {
		return nil
	}

	m.gate.RLock()
	defer m.gate.RUnlock()
	unlock := m.keys.lock(line.ProductId)
	defer unlock()

	cmd := optimistic.Command[int]{
		Capture: func() int {
			m.mu.Lock()
			defer m.mu.Unlock()
			if l, _ := m.findLine(cartItemID); l != nil {
				return l.Quantity
			}
			return 1
		},
		Apply: func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if l, _ := m.findLine(cartItemID); l != nil {
				l.Quantity = newQuantity
			}
		},
		Call: func(ctx context.Context) error {
			return m.backend.UpdateQuantity(ctx, cartItemID, newQuantity)
		},
		Rollback: func(prev int) {
			m.mu.Lock()
			defer m.mu.Unlock()
			if l, _ := m.findLine(cartItemID); l != nil {
				l.Quantity = prev
			}
		},
	}
	if err := cmd.Run(ctx); err != nil {
		m.notify.Error("Failed to update quantity")
		return err
	}
	return nil
}

// Clear empties the cart, restoring the full previous list on failure. It
// waits for in-flight line mutations to settle so its snapshot cannot carry
// another mutation's unconfirmed state.
func (m *Manager) Clear(ctx context.Context) error {
	m.gate.Lock()
	defer m.gate.Unlock()

	cmd := optimistic.Command[[]dto.CartItem]{
		Capture: func() []dto.CartItem {
			m.mu.Lock()
			defer m.mu.Unlock()
			prev := make([]dto.CartItem, len(m.lines))
			copy(prev, m.lines)
			return prev
		},
		Apply: func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.lines = nil
		},
		Call: func(ctx context.Context) error {
			return m.backend.Clear(ctx)
		},
		Rollback: func(prev []dto.CartItem) {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.lines = prev
		},
	}
	if err := cmd.Run(ctx); err != nil {
		m.notify.Error("Failed to clear cart")
		return err
	}
	return nil
}

// IsTempLine reports whether a line is still waiting for its server id.
func IsTempLine(l dto.CartItem) bool {
	return strings.HasPrefix(l.CartItemId, tempIDPrefix)
}

func (m *Manager) hasLineForProduct(productID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lineForProduct(productID) != nil
}

// lineForProduct returns a pointer into m.lines; callers hold m.mu.
func (m *Manager) lineForProduct(productID string) *dto.CartItem {
	for i := range m.lines {
		if m.lines[i].ProductId == productID {
			return &m.lines[i]
		}
	}
	return nil
}

// findLine matches by line id first, then by product id; callers hold m.mu.
func (m *Manager) findLine(id string) (*dto.CartItem, int) {
	for i := range m.lines {
		if m.lines[i].CartItemId == id || m.lines[i].ProductId == id {
			return &m.lines[i], i
		}
	}
	return nil, -1
}

func removeByID(lines []dto.CartItem, cartItemID string) []dto.CartItem {
	out := lines[:0]
	for _, l := range lines {
		if l.CartItemId != cartItemID {
			out = append(out, l)
		}
	}
	return out
}

func insertAt(lines []dto.CartItem, idx int, line dto.CartItem) []dto.CartItem {
	if idx < 0 || idx > len(lines) {
		idx = 0
	}
	lines = append(lines, dto.CartItem{})
	copy(lines[idx+1:], lines[idx:])
	lines[idx] = line
	return lines
}
