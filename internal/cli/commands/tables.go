package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nutrabionics/storefront/internal/cli/client"
)

func money(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}

type productList client.ProductPage

func (p productList) Header() []string {
	return []string{"ID", "NAME", "REFERENCE", "PRICE", "STOCK", "SLUG"}
}

func (p productList) Rows() [][]string {
	rows := make([][]string, 0, len(p.Data)+1)
	for _, product := range p.Data {
		rows = append(rows, []string{
			product.ID,
			product.Name,
			product.Reference,
			money(product.Price),
			strconv.Itoa(product.Quantity),
			product.Slug,
		})
	}
	if p.Meta.TotalPages > 1 {
		rows = append(rows, []string{"", fmt.Sprintf("page %d of %d (%d products)", p.Meta.Page, p.Meta.TotalPages, p.Meta.Total)})
	}
	return rows
}

type productDetail client.Product

func (p productDetail) Header() []string { return []string{"FIELD", "VALUE"} }

func (p productDetail) Rows() [][]string {
	return [][]string{
		{"ID", p.ID},
		{"Name", p.Name},
		{"Reference", p.Reference},
		{"Price", money(p.Price)},
		{"Stock", strconv.Itoa(p.Quantity)},
		{"Slug", p.Slug},
		{"Description", p.Description},
	}
}

// orderList shows the customer column to admins only
type orderList struct {
	page  client.OrderPage
	admin bool
}

func (o orderList) MarshalJSON() ([]byte, error) { return json.Marshal(o.page) }

func (o orderList) MarshalYAML() (any, error) { return o.page, nil }

func (o orderList) Header() []string {
	if o.admin {
		return []string{"ID", "DATE", "CUSTOMER", "ITEMS", "TOTAL"}
	}
	return []string{"ID", "DATE", "ITEMS", "TOTAL"}
}

func (o orderList) Rows() [][]string {
	rows := make([][]string, 0, len(o.page.Data)+1)
	for _, order := range o.page.Data {
		row := []string{order.ID, order.CreatedAt}
		if o.admin {
			row = append(row, buyerName(order))
		}
		row = append(row, strconv.Itoa(order.QuantityProducts), money(order.Total))
		rows = append(rows, row)
	}
	if m := o.page.Meta; m.TotalPages > 1 {
		rows = append(rows, []string{"", fmt.Sprintf("page %d of %d", m.CurrentPage, m.TotalPages)})
	}
	return rows
}

func buyerName(order client.Order) string {
	buyer := order.Buyer()
	if buyer == nil {
		return "-"
	}
	if name := strings.TrimSpace(buyer.FirstName + " " + buyer.LastName); name != "" {
		return name
	}
	return buyer.Email
}

type orderDetail client.Order

func (o orderDetail) Header() []string { return []string{"PRODUCT", "PRICE", "QTY", "SUBTOTAL"} }

func (o orderDetail) Rows() [][]string {
	rows := make([][]string, 0, len(o.Products)+1)
	for _, line := range o.Products {
		rows = append(rows, []string{line.Name, money(line.Price), strconv.Itoa(line.Quantity), money(line.Subtotal)})
	}
	rows = append(rows, []string{"TOTAL", "", strconv.Itoa(o.QuantityProducts), money(o.Total)})
	return rows
}
