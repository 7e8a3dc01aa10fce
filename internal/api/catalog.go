package api

import (
	"context"
	"net/http"

	"github.com/EvanMworia/client/internal/dto"
)

type CatalogAPI struct{ c *Client }

func NewCatalogAPI(c *Client) *CatalogAPI { return &CatalogAPI{c: c} }

func (ca *CatalogAPI) ListProducts(ctx context.Context) ([]dto.Product, error) {
	var products []dto.Product
	if err := ca.c.Do(ctx, http.MethodGet, "/products/all", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (ca *CatalogAPI) ProductsByCategory(ctx context.Context, categoryID string) ([]dto.Product, error) {
	var products []dto.Product
	if err := ca.c.Do(ctx, http.MethodGet, "/products/category/"+categoryID, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (ca *CatalogAPI) ProductDetails(ctx context.Context, productID string) (*dto.Product, error) {
	var product dto.Product
	if err := ca.c.Do(ctx, http.MethodGet, "/products/product/details/"+productID, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (ca *CatalogAPI) Categories(ctx context.Context) ([]dto.Category, error) {
	var cats []dto.Category
	if err := ca.c.Do(ctx, http.MethodGet, "/categories/all-categories", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (ca *CatalogAPI) CategoryDetails(ctx context.Context, categoryID string) (*dto.Category, error) {
	var cat dto.Category
	if err := ca.c.Do(ctx, http.MethodGet, "/categories/category-details/"+categoryID, nil, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (ca *CatalogAPI) SubCategories(ctx context.Context, categoryID string) ([]dto.SubCategory, error) {
	var subs []dto.SubCategory
	if err := ca.c.Do(ctx, http.MethodGet, "/categories/all-sub-categories/"+categoryID, nil, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}
