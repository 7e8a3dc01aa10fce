// Package wishlist tracks per-product membership for the current user, with
// optimistic toggles. A failed toggle rolls the displayed state back instead
// of leaving it diverged from the backend.
package wishlist

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/EvanMworia/client/internal/dto"
	"github.com/EvanMworia/client/internal/notify"
	"github.com/EvanMworia/client/internal/optimistic"
)

// Backend is the slice of the wishlist API this package needs;
// *api.WishlistAPI satisfies it.
type Backend interface {
	Items(ctx context.Context) ([]dto.WishlistItem, error)
	Add(ctx context.Context, productID string) error
	QuickRemove(ctx context.Context, productID string) error
	Remove(ctx context.Context, itemID string) error
	Clear(ctx context.Context) error
}

type Wishlist struct {
	backend Backend
	notify  notify.Notifier

	mu     sync.Mutex
	items  []dto.WishlistItem
	loaded bool

	sfg singleflight.Group
}

func New(backend Backend, n notify.Notifier) *Wishlist {
	if n == nil {
		n = notify.LogNotifier{}
	}
	return &Wishlist{backend: backend, notify: n}
}

// Refresh replaces local membership with server truth. Concurrent callers
// (every product card checks membership on mount) share one request.
func (w *Wishlist) Refresh(ctx context.Context) error {
	_, err, _ := w.sfg.Do("refresh", func() (any, error) {
		items, err := w.backend.Items(ctx)
		if err != nil {
			return nil, err
		}
		w.mu.Lock()
		w.items = items
		w.loaded = true
		w.mu.Unlock()
		return nil, nil
	})
	return err
}

// ensureLoaded fetches the list the first time membership is needed.
func (w *Wishlist) ensureLoaded(ctx context.Context) error {
	w.mu.Lock()
	loaded := w.loaded
	w.mu.Unlock()
	if loaded {
		return nil
	}
	return w.Refresh(ctx)
}

// Contains reports whether the product is wishlisted, loading the list on
// first use.
func (w *Wishlist) Contains(ctx context.Context, productID string) (bool, error) {
	if err := w.ensureLoaded(ctx); err != nil {
		return false, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.indexOfProduct(productID) >= 0, nil
}

// Items returns a copy of the loaded wishlist.
func (w *Wishlist) Items() []dto.WishlistItem {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]dto.WishlistItem, len(w.items))
	copy(out, w.items)
	return out
}

// Toggle flips membership for one product: add when absent, quick-remove
// when present. Membership comes from the server-loaded list, never from an
// empty default, so the first toggle on an already wishlisted product takes
// the remove path. Both directions are optimistic with full rollback.
func (w *Wishlist) Toggle(ctx context.Context, productID string, meta dto.WishlistItem) (bool, error) {
	if err := w.ensureLoaded(ctx); err != nil {
		w.notify.Error("Failed to update wishlist")
		return false, err
	}

	w.mu.Lock()
	member := w.indexOfProduct(productID) >= 0
	w.mu.Unlock()

	if member {
		if err := w.removeOptimistic(ctx, productID); err != nil {
			return true, err
		}
		w.notify.Success("Product removed from wishlist")
		return false, nil
	}

	meta.ProductId = productID
	if err := w.addOptimistic(ctx, meta); err != nil {
		return false, err
	}
	w.notify.Success("Added to wishlist")
	return true, nil
}

func (w *Wishlist) addOptimistic(ctx context.Context, item dto.WishlistItem) error {
	cmd := optimistic.Command[struct{}]{
		Capture: func() struct{} { return struct{}{} },
		Apply: func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			w.items = append(w.items, item)
		},
		Call: func(ctx context.Context) error {
			return w.backend.Add(ctx, item.ProductId)
		},
		Rollback: func(struct{}) {
			w.mu.Lock()
			defer w.mu.Unlock()
			if i := w.indexOfProduct(item.ProductId); i >= 0 {
				w.items = append(w.items[:i], w.items[i+1:]...)
			}
		},
	}
	if err := cmd.Run(ctx); err != nil {
		w.notify.Error("Failed to update wishlist")
		return err
	}
	return nil
}

func (w *Wishlist) removeOptimistic(ctx context.Context, productID string) error {
	var removed dto.WishlistItem
	var at int
	cmd := optimistic.Command[struct{}]{
		Capture: func() struct{} { return struct{}{} },
		Apply: func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			if i := w.indexOfProduct(productID); i >= 0 {
				removed, at = w.items[i], i
				w.items = append(w.items[:i], w.items[i+1:]...)
			}
		},
		Call: func(ctx context.Context) error {
			return w.backend.QuickRemove(ctx, productID)
		},
		Rollback: func(struct{}) {
			w.mu.Lock()
			defer w.mu.Unlock()
			if at < 0 || at > len(w.items) {
				at = len(w.items)
			}
			w.items = append(w.items[:at], append([]dto.WishlistItem{removed}, w.items[at:]...)...)
		},
	}
	if err := cmd.Run(ctx); err != nil {
		w.notify.Error("Failed to update wishlist")
		return err
	}
	return nil
}

// RemoveItem is the wishlist page's delete-by-item-id, also optimistic.
func (w *Wishlist) RemoveItem(ctx context.Context, itemID string) error {
	w.mu.Lock()
	idx := -1
	for i := range w.items {
		if w.items[i].WishlistItemId == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		w.mu.Unlock()
		return nil
	}
	removed := w.items[idx]
	w.items = append(w.items[:idx], w.items[idx+1:]...)
	w.mu.Unlock()

	if err := w.backend.Remove(ctx, itemID); err != nil {
		w.mu.Lock()
		if idx > len(w.items) {
			idx = len(w.items)
		}
		w.items = append(w.items[:idx], append([]dto.WishlistItem{removed}, w.items[idx:]...)...)
		w.mu.Unlock()
		w.notify.Error("Failed to remove from wishlist")
		return err
	}
	return nil
}

// Clear empties the whole wishlist, restoring it if the backend refuses.
func (w *Wishlist) Clear(ctx context.Context) error {
	cmd := optimistic.Command[[]dto.WishlistItem]{
		Capture: func() []dto.WishlistItem {
			w.mu.Lock()
			defer w.mu.Unlock()
			prev := make([]dto.WishlistItem, len(w.items))
			copy(prev, w.items)
			return prev
		},
		Apply: func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			w.items = nil
		},
		Call: func(ctx context.Context) error {
			return w.backend.Clear(ctx)
		},
		Rollback: func(prev []dto.WishlistItem) {
			w.mu.Lock()
			defer w.mu.Unlock()
			w.items = prev
		},
	}
	if err := cmd.Run(ctx); err != nil {
		w.notify.Error("Failed to clear wishlist")
		return err
	}
	return nil
}

// indexOfProduct runs under w.mu.
func (w *Wishlist) indexOfProduct(productID string) int {
	for i := range w.items {
		if w.items[i].ProductId == productID {
			return i
		}
	}
	return -1
}
