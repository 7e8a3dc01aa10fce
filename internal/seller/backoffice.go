// Package seller is the back-office side of the client: the store's
// products, received orders, dashboard aggregates, and the snooze switch.
// Screens are fetch-on-mount with local list reconciliation after writes;
// cross-screen consistency is a manual refetch.
package seller

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/EvanMworia/client/internal/api"
	"github.com/EvanMworia/client/internal/dto"
	"github.com/EvanMworia/client/internal/notify"
	"github.com/EvanMworia/client/internal/session"
)

var ErrNotSeller = errors.New("seller: current user has no seller role")

// Backend is the slice of the seller API the back-office needs;
// *api.SellerAPI satisfies it.
type Backend interface {
	Seller(ctx context.Context, userID string) (*dto.Seller, error)
	MyProducts(ctx context.Context) ([]dto.Product, error)
	UploadProduct(ctx context.Context, userID string, p dto.NewProduct, images []api.ProductImage) (*dto.Product, error)
	UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest) (*dto.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
	Snooze(ctx context.Context, userID string) error
}

type OrdersBackend interface {
	Received(ctx context.Context, userID string) ([]dto.Order, error)
}

// Stats is the dashboard aggregate, computed client-side from the store's
// products and received orders.
type Stats struct {
	TotalProducts  int
	TotalSales     int
	TotalRevenue   decimal.Decimal
	IsVerified     bool
	RecentProducts []dto.Product
}

type BackOffice struct {
	backend Backend
	orders  OrdersBackend
	sess    *session.Session
	notify  notify.Notifier

	// Products at or below this stock level need restocking.
	restockThreshold int

	mu       sync.Mutex
	products []dto.Product
}

func NewBackOffice(backend Backend, orders OrdersBackend, sess *session.Session, restockThreshold int, n notify.Notifier) *BackOffice {
	if n == nil {
		n = notify.LogNotifier{}
	}
	return &BackOffice{
		backend:          backend,
		orders:           orders,
		sess:             sess,
		notify:           n,
		restockThreshold: restockThreshold,
	}
}

// identity guards every operation: a live token with the seller role.
func (b *BackOffice) identity() (*session.Identity, error) {
	id, err := b.sess.Guard()
	if err != nil {
		return nil, err
	}
	if id.Role != session.RoleSeller && id.Role != session.RoleAdmin {
		return nil, ErrNotSeller
	}
	return id, nil
}

// LoadProducts fetches the store's product list.
func (b *BackOffice) LoadProducts(ctx context.Context) error {
	if _, err := b.identity(); err != nil {
		return err
	}
	products, err := b.backend.MyProducts(ctx)
	if err != nil {
		b.notify.Error("Failed to load products")
		return err
	}
	b.mu.Lock()
	b.products = products
	b.mu.Unlock()
	return nil
}

func (b *BackOffice) Products() []dto.Product {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]dto.Product, len(b.products))
	copy(out, b.products)
	return out
}

// CreateProduct uploads a new listing. The local list takes the created
// product when the backend echoes it, otherwise the caller refetches.
func (b *BackOffice) CreateProduct(ctx context.Context, p dto.NewProduct, images []api.ProductImage) (*dto.Product, error) {
	id, err := b.identity()
	if err != nil {
		return nil, err
	}
	created, err := b.backend.UploadProduct(ctx, id.ID, p, images)
	if err != nil {
		b.notify.Error("Failed to upload product")
		return nil, err
	}
	if created != nil && created.ProductId != "" {
		b.mu.Lock()
		b.products = append(b.products, *created)
		b.mu.Unlock()
	}
	b.notify.Success("Product uploaded")
	return created, nil
}

// UpdateProduct submits the edit and replaces the local entry with the
// backend's version of the product. An empty echo leaves the entry alone;
// the caller refetches.
func (b *BackOffice) UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest) (*dto.Product, error) {
	if _, err := b.identity(); err != nil {
		return nil, err
	}
	updated, err := b.backend.UpdateProduct(ctx, productID, req)
	if err != nil {
		b.notify.Error("Failed to update product. Try again later.")
		return nil, err
	}
	if updated != nil && updated.ProductId != "" {
		b.mu.Lock()
		for i := range b.products {
			if b.products[i].ProductId == productID {
				b.products[i] = *updated
				break
			}
		}
		b.mu.Unlock()
	}
	return updated, nil
}

// DeleteProduct removes the listing, dropping it from the local list only
// after the backend confirms.
func (b *BackOffice) DeleteProduct(ctx context.Context, productID string) error {
	if _, err := b.identity(); err != nil {
		return err
	}
	if err := b.backend.DeleteProduct(ctx, productID); err != nil {
		b.notify.Error("Could not delete product. Try again later.")
		return err
	}
	b.mu.Lock()
	kept := b.products[:0]
	for _, p := range b.products {
		if p.ProductId != productID {
			kept = append(kept, p)
		}
	}
	b.products = kept
	b.mu.Unlock()
	return nil
}

// Store returns the seller record for the current user.
func (b *BackOffice) Store(ctx context.Context) (*dto.Seller, error) {
	id, err := b.identity()
	if err != nil {
		return nil, err
	}
	return b.backend.Seller(ctx, id.ID)
}

// ToggleSnooze flips the store-active flag and reports the resulting state
// by re-reading the seller record.
func (b *BackOffice) ToggleSnooze(ctx context.Context) (active bool, err error) {
	id, err := b.identity()
	if err != nil {
		return false, err
	}
	if err := b.backend.Snooze(ctx, id.ID); err != nil {
		b.notify.Error("Could not update store status.")
		return false, err
	}
	b.notify.Success("Store status updated successfully!")
	seller, err := b.backend.Seller(ctx, id.ID)
	if err != nil {
		return false, err
	}
	return seller.IsVerified == 1, nil
}

// ReceivedOrders lists the store's incoming orders.
func (b *BackOffice) ReceivedOrders(ctx context.Context) ([]dto.Order, error) {
	id, err := b.identity()
	if err != nil {
		return nil, err
	}
	return b.orders.Received(ctx, id.ID)
}

// Dashboard loads products, the seller record and received orders in
// parallel and aggregates them client-side.
func (b *BackOffice) Dashboard(ctx context.Context) (*Stats, error) {
	id, err := b.identity()
	if err != nil {
		return nil, err
	}

	var (
		products []dto.Product
		seller   *dto.Seller
		orders   []dto.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = b.backend.MyProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		seller, err = b.backend.Seller(gctx, id.ID)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = b.orders.Received(gctx, id.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		b.notify.Error("Failed to fetch dashboard data")
		return nil, err
	}

	stats := &Stats{
		TotalProducts: len(products),
		TotalSales:    len(orders),
		TotalRevenue:  decimal.Zero,
		IsVerified:    seller.IsVerified == 1,
	}
	for _, o := range orders {
		stats.TotalRevenue = stats.TotalRevenue.Add(o.TotalAmount)
	}
	recent := products
	if len(recent) > 3 {
		recent = recent[:3]
	}
	stats.RecentProducts = recent

	// Dashboard load doubles as a product refetch for the list screens.
	b.mu.Lock()
	b.products = products
	b.mu.Unlock()

	return stats, nil
}

// NeedsRestock filters the loaded products down to those at or below the
// restock threshold.
func (b *BackOffice) NeedsRestock() []dto.Product {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []dto.Product
	for _, p := range b.products {
		if p.Stock <= b.restockThreshold {
			out = append(out, p)
		}
	}
	return out
}
