package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/EvanMworia/client/internal/dto"
)

type SellerAPI struct{ c *Client }

func NewSellerAPI(c *Client) *SellerAPI { return &SellerAPI{c: c} }

func (sa *SellerAPI) Seller(ctx context.Context, userID string) (*dto.Seller, error) {
	var seller dto.Seller
	if err := sa.c.Do(ctx, http.MethodGet, "/seller/"+userID, nil, &seller); err != nil {
		return nil, err
	}
	return &seller, nil
}

func (sa *SellerAPI) MyProducts(ctx context.Context) ([]dto.Product, error) {
	var products []dto.Product
	if err := sa.c.Do(ctx, http.MethodGet, "/products/myproducts", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ProductImage is one file part of the product upload.
type ProductImage struct {
	Filename string
	Content  io.Reader
}

// UploadProduct sends the new-product form as multipart, with every image
// under the repeated "images" field.
func (sa *SellerAPI) UploadProduct(ctx context.Context, userID string, p dto.NewProduct, images []ProductImage) (*dto.Product, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		fields := map[string]string{
			"ProductName":          p.ProductName,
			"Description":          p.Description,
			"Price":                p.Price.String(),
			"InStock":              fmt.Sprintf("%d", p.InStock),
			"CategoryId":           p.CategoryId,
			"SubCategoryId":        p.SubCategoryId,
			"ShippingPrice":        p.ShippingPrice.String(),
			"ExpressShippingPrice": p.ExpressShippingPrice.String(),
			"UserId":               userID,
		}
		for k, v := range fields {
			if err := mw.WriteField(k, v); err != nil {
				pw.CloseWithError(err)
				return
			}
		}
		for _, img := range images {
			part, err := mw.CreateFormFile("images", img.Filename)
			if err != nil {
				pw.CloseWithError(err)
				return
			}
			if _, err := io.Copy(part, img.Content); err != nil {
				pw.CloseWithError(err)
				return
			}
		}
		pw.CloseWithError(mw.Close())
	}()

	var created dto.Product
	err := sa.c.DoMultipart(ctx, http.MethodPost, "/uploads/upload/product", mw.FormDataContentType(), pr, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (sa *SellerAPI) UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest) (*dto.Product, error) {
	var updated dto.Product
	if err := sa.c.Do(ctx, http.MethodPatch, "/uploads/update/product/"+productID, req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (sa *SellerAPI) DeleteProduct(ctx context.Context, productID string) error {
	return sa.c.Do(ctx, http.MethodDelete, "/uploads/delete/product/"+productID, nil, nil)
}

// Snooze flips the store-active flag; the backend owns the resulting state.
func (sa *SellerAPI) Snooze(ctx context.Context, userID string) error {
	return sa.c.Do(ctx, http.MethodPatch, "/uploads/snooze/"+userID, nil, nil)
}
