package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Product represents a catalog entry
type Product struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Price       float64 `json:"price" yaml:"price"`
	Quantity    int     `json:"quantity" yaml:"quantity"`
	Reference   string  `json:"reference" yaml:"reference"`
	Slug        string  `json:"slug" yaml:"slug"`
	CreatedAt   string  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   string  `json:"updatedAt" yaml:"updatedAt"`
}

// PageMeta describes one page of a paginated listing
type PageMeta struct {
	Total      int `json:"total" yaml:"total"`
	Page       int `json:"page" yaml:"page"`
	Limit      int `json:"limit" yaml:"limit"`
	TotalPages int `json:"totalPages" yaml:"totalPages"`
}

// ProductPage is one page of the catalog
type ProductPage struct {
	Data []Product `json:"data" yaml:"data"`
	Meta PageMeta  `json:"meta" yaml:"meta"`
}

// ProductInput is the body for creating a product
type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Reference   string  `json:"reference"`
}

// ProductPatch updates only the fields that are set
type ProductPatch struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Quantity    *int     `json:"quantity,omitempty"`
	Reference   *string  `json:"reference,omitempty"`
}

// Empty reports whether the patch changes nothing
func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && p.Quantity == nil && p.Reference == nil
}

// ListProducts returns one page of the catalog
func (c *Client) ListProducts(ctx context.Context, page, limit int) (*ProductPage, error) {
	var resp ProductPage
	if err := c.Get(ctx, "/products?"+pageQuery(page, limit), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProduct returns a product by ID
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := c.Get(ctx, "/products/"+url.PathEscape(id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductBySlug returns a product by its URL slug
func (c *Client) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	var product Product
	if err := c.Get(ctx, "/products/slug/"+url.PathEscape(slug), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct adds a product to the catalog
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	var product Product
	if err := c.Post(ctx, "/products", in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct applies a partial update
func (c *Client) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*Product, error) {
	var product Product
	if err := c.Put(ctx, "/products/"+url.PathEscape(id), patch, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product by ID
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.Delete(ctx, "/products/"+url.PathEscape(id))
}

func pageQuery(page, limit int) string {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return q.Encode()
}

// String renders a product for prompts and logs
func (p Product) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Reference)
}
