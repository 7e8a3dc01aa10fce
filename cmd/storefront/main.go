package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/EvanMworia/client/internal/api"
	"github.com/EvanMworia/client/internal/cart"
	"github.com/EvanMworia/client/internal/checkout"
	"github.com/EvanMworia/client/internal/config"
	"github.com/EvanMworia/client/internal/dto"
	"github.com/EvanMworia/client/internal/notify"
	"github.com/EvanMworia/client/internal/session"
	"github.com/EvanMworia/client/internal/wishlist"
)

const usage = `storefront <command> [args]

commands:
  login <email> <password>      sign in and store the session token
  logout                        drop the stored token
  whoami                        print the identity derived from the token
  products                      list the catalog
  cart                          show the cart
  cart-add <productId> [qty]    add a product to the cart
  cart-clear                    empty the cart
  wishlist <productId>          toggle wishlist membership
  checkout                      run the checkout flow up to the payment URL
  orders                        list placed orders
  store                         seller: print the store record
`

func main() {
	log.SetFlags(0)

	cfg := config.Load()
	tokens := session.NewFileStore(cfg.TokenPath)
	sess := session.New(tokens)

	base := api.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.RequestTimeout}, tokens)
	base.OnUnauthorized(func() {
		log.Println("session rejected by backend, please log in again")
	})

	n := notify.LogNotifier{}
	carts := cart.NewManager(api.NewCartAPI(base), n)
	wl := wishlist.New(api.NewWishlistAPI(base), n)
	flow := checkout.NewFlow(api.NewShippingAPI(base), api.NewCartAPI(base), api.NewCheckoutAPI(base), sess, n)

	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(2)
	}

	ctx := context.Background()
	if err := run(ctx, os.Args[1], os.Args[2:], deps{
		cfg: cfg, sess: sess, base: base, carts: carts, wl: wl, flow: flow,
	}); err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

type deps struct {
	cfg   config.Config
	sess  *session.Session
	base  *api.Client
	carts *cart.Manager
	wl    *wishlist.Wishlist
	flow  *checkout.Flow
}

func run(ctx context.Context, command string, args []string, d deps) error {
	switch command {
	case "login":
		if len(args) < 2 {
			return fmt.Errorf("usage: login <email> <password>")
		}
		if _, err := api.NewAuthAPI(d.base).Login(ctx, args[0], args[1]); err != nil {
			return err
		}
		id, err := d.sess.Identity()
		if err != nil {
			return err
		}
		log.Printf("logged in as %s (%s)", id.Name, id.Role)
		return nil

	case "logout":
		return d.sess.Logout()

	case "whoami":
		id, err := d.sess.Identity()
		if err != nil {
			return err
		}
		log.Printf("%s <%s> role=%s id=%s", id.Name, id.Email, id.Role, id.ID)
		return nil

	case "products":
		products, err := api.NewCatalogAPI(d.base).ListProducts(ctx)
		if err != nil {
			return err
		}
		for _, p := range products {
			log.Printf("%s  %-30s %8s  stock=%d", p.ProductId, p.ProductName, p.Price.StringFixed(2), p.Stock)
		}
		return nil

	case "cart":
		if err := d.carts.Fetch(ctx); err != nil {
			return err
		}
		for _, l := range d.carts.Lines() {
			log.Printf("%s  %-30s x%d @ %s", l.CartItemId, l.ProductName, l.Quantity, l.Price.StringFixed(2))
		}
		log.Printf("items: %d, subtotal: %s", d.carts.TotalCount(), d.carts.Subtotal().StringFixed(2))
		return nil

	case "cart-add":
		if len(args) < 1 {
			return fmt.Errorf("usage: cart-add <productId> [qty]")
		}
		qty := 1
		if len(args) > 1 {
			q, err := strconv.Atoi(args[1])
			if err != nil || q < 1 {
				return fmt.Errorf("usage: cart-add <productId> [qty], qty must be a positive number")
			}
			qty = q
		}
		if err := d.carts.Fetch(ctx); err != nil {
			return err
		}
		product, err := api.NewCatalogAPI(d.base).ProductDetails(ctx, args[0])
		if err != nil {
			return err
		}
		return d.carts.Add(ctx, args[0], qty, cart.DisplayMeta{
			Price:                product.Price,
			ProductName:          product.ProductName,
			ProductImageUrl:      product.ImageUrl,
			SellerId:             product.SellerId,
			SellerName:           product.SellerName,
			SellerCountry:        product.SellerCountry,
			ShippingPrice:        product.ShippingPrice,
			ExpressShippingPrice: product.ExpressShippingPrice,
		})

	case "cart-clear":
		if err := d.carts.Fetch(ctx); err != nil {
			return err
		}
		return d.carts.Clear(ctx)

	case "wishlist":
		if len(args) < 1 {
			return fmt.Errorf("usage: wishlist <productId>")
		}
		member, err := d.wl.Toggle(ctx, args[0], dto.WishlistItem{})
		if err != nil {
			return err
		}
		log.Printf("wishlisted: %v", member)
		return nil

	case "checkout":
		if err := d.flow.Load(ctx); err != nil {
			return err
		}
		log.Printf("total (standard shipping): %s", d.flow.Total().StringFixed(2))
		url, err := d.flow.Submit(ctx)
		if err != nil {
			return err
		}
		log.Printf("open to pay: %s", url)
		return nil

	case "orders":
		id, err := d.sess.Identity()
		if err != nil {
			return err
		}
		orders, err := api.NewOrdersAPI(d.base).Placed(ctx, id.ID)
		if err != nil {
			return err
		}
		for _, o := range orders {
			log.Printf("%s  %s  %s", o.OrderId, o.Status, o.TotalAmount.StringFixed(2))
		}
		return nil

	case "store":
		id, err := d.sess.Guard()
		if err != nil {
			return err
		}
		seller, err := api.NewSellerAPI(d.base).Seller(ctx, id.ID)
		if err != nil {
			return err
		}
		log.Printf("%s (verified=%d)", seller.StoreName, seller.IsVerified)
		return nil

	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", command)
	}
}
