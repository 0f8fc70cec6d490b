package forms

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nutrabionics/storefront/internal/cli/client"
)

// LoginForm is the input of the login command
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"min=8,max=100"`
}

// Request converts the form into the API body
func (f LoginForm) Request() client.LoginRequest {
	return client.LoginRequest{Email: f.Email, Password: f.Password}
}

// RegisterForm is the input of the register command
type RegisterForm struct {
	FirstName       string `form:"first-name" validate:"min=2,max=50"`
	LastName        string `form:"last-name" validate:"min=2,max=50"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"min=8,max=100,strongpassword"`
	ConfirmPassword string `form:"confirm-password" validate:"eqfield=Password"`
}

// Request converts the form into the API body; the confirmation stays local
func (f RegisterForm) Request() client.RegisterRequest {
	return client.RegisterRequest{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Password:  f.Password,
	}
}

// ProductForm is the input of products create
type ProductForm struct {
	Name        string  `form:"name" validate:"min=3,max=100"`
	Description string  `form:"description" validate:"min=10,max=1000"`
	Price       float64 `form:"price" validate:"gt=0,cents"`
	Quantity    int     `form:"quantity" validate:"gte=0"`
	Reference   string  `form:"reference" validate:"min=3,max=20"`
}

// Input converts the form into the API body
func (f ProductForm) Input() client.ProductInput {
	return client.ProductInput{
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price,
		Quantity:    f.Quantity,
		Reference:   f.Reference,
	}
}

// ProductUpdateForm is ProductForm with every field optional
type ProductUpdateForm struct {
	Name        *string  `form:"name" validate:"omitnil,min=3,max=100"`
	Description *string  `form:"description" validate:"omitnil,min=10,max=1000"`
	Price       *float64 `form:"price" validate:"omitnil,gt=0,cents"`
	Quantity    *int     `form:"quantity" validate:"omitnil,gte=0"`
	Reference   *string  `form:"reference" validate:"omitnil,min=3,max=20"`
}

// Patch converts the form into the API body
func (f ProductUpdateForm) Patch() client.ProductPatch {
	return client.ProductPatch{
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price,
		Quantity:    f.Quantity,
		Reference:   f.Reference,
	}
}

// OrderLineForm is one --item of orders create
type OrderLineForm struct {
	ProductID string `form:"product" validate:"required"`
	Quantity  int    `form:"quantity" validate:"min=1"`
}

// OrderForm is the input of orders create
type OrderForm struct {
	Items []OrderLineForm `form:"items" validate:"min=1,unique=ProductID,dive"`
}

// Lines converts the form into the API body
func (f OrderForm) Lines() []client.OrderLine {
	lines := make([]client.OrderLine, 0, len(f.Items))
	for _, item := range f.Items {
		lines = append(lines, client.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines
}

// ParseOrderItems reads "productId:qty" pairs; a missing qty means 1
func ParseOrderItems(items []string) (OrderForm, error) {
	form := OrderForm{Items: make([]OrderLineForm, 0, len(items))}
	for _, item := range items {
		id, qty, hasQty := strings.Cut(strings.TrimSpace(item), ":")
		line := OrderLineForm{ProductID: id, Quantity: 1}
		if hasQty {
			n, err := strconv.Atoi(qty)
			if err != nil {
				return OrderForm{}, fmt.Errorf("%w: item %q: quantity must be an integer", ErrInvalidInput, item)
			}
			line.Quantity = n
		}
		form.Items = append(form.Items, line)
	}
	return form, nil
}
