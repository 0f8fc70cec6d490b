package client

import (
	"context"
)

// Party is the customer an order belongs to
type Party struct {
	ID        string `json:"id" yaml:"id"`
	FirstName string `json:"firstName" yaml:"firstName"`
	LastName  string `json:"lastName" yaml:"lastName"`
	Email     string `json:"email" yaml:"email"`
}

// OrderProduct is one line of a placed order
type OrderProduct struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Price    float64 `json:"price" yaml:"price"`
	Quantity int     `json:"quantity" yaml:"quantity"`
	Subtotal float64 `json:"subtotal" yaml:"subtotal"`
}

// Order represents a placed order
type Order struct {
	ID               string         `json:"id" yaml:"id"`
	CreatedAt        string         `json:"createdAt" yaml:"createdAt"`
	Total            float64        `json:"total" yaml:"total"`
	QuantityProducts int            `json:"quantity_products" yaml:"quantity_products"`
	Products         []OrderProduct `json:"products" yaml:"products"`
	Customer         *Party         `json:"customer,omitempty" yaml:"customer,omitempty"`
	User             *Party         `json:"user,omitempty" yaml:"user,omitempty"`
}

// Buyer returns whichever of customer/user the backend filled in
func (o Order) Buyer() *Party {
	if o.Customer != nil {
		return o.Customer
	}
	return o.User
}

// OrderMeta describes one page of orders
type OrderMeta struct {
	TotalPages  int `json:"totalPages" yaml:"totalPages"`
	CurrentPage int `json:"currentPage" yaml:"currentPage"`
}

// OrderPage is one page of orders
type OrderPage struct {
	Data []Order   `json:"data" yaml:"data"`
	Meta OrderMeta `json:"meta" yaml:"meta"`
}

// OrderLine is one requested product in a new order
type OrderLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type createOrderRequest struct {
	Products []OrderLine `json:"products"`
}

// ListOrders returns one page of orders. Admins list every order;
// everyone else lists their own.
func (c *Client) ListOrders(ctx context.Context, page, limit int, admin bool) (*OrderPage, error) {
	endpoint := "/orders/my-orders"
	if admin {
		endpoint = "/orders"
	}

	var resp OrderPage
	if err := c.Get(ctx, endpoint+"?"+pageQuery(page, limit), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateOrder places an order for the given lines
func (c *Client) CreateOrder(ctx context.Context, lines []OrderLine) (*Order, error) {
	var order Order
	if err := c.Post(ctx, "/orders", createOrderRequest{Products: lines}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
