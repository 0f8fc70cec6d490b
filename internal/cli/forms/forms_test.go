package forms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireFieldError(t *testing.T, err error, field string) string {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	var ferr *Error
	require.ErrorAs(t, err, &ferr)
	msg := ferr.Message(field)
	require.NotEmpty(t, msg, "expected an error on %s, got: %v", field, err)
	return msg
}

func TestLoginForm(t *testing.T) {
	valid := LoginForm{Email: "ada@example.com", Password: "secret123"}
	require.NoError(t, Validate(valid))
	assert.Equal(t, "ada@example.com", valid.Request().Email)

	tests := []struct {
		name  string
		form  LoginForm
		field string
	}{
		{"missing email", LoginForm{Password: "secret123"}, "email"},
		{"bad email", LoginForm{Email: "ada", Password: "secret123"}, "email"},
		{"short password", LoginForm{Email: "ada@example.com", Password: "short"}, "password"},
		{"long password", LoginForm{Email: "ada@example.com", Password: strings.Repeat("a", 101)}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireFieldError(t, Validate(tt.form), tt.field)
		})
	}
}

func TestRegisterForm(t *testing.T) {
	valid := func() RegisterForm {
		return RegisterForm{
			FirstName:       "Ada",
			LastName:        "Lovelace",
			Email:           "ada@example.com",
			Password:        "Secret1!",
			ConfirmPassword: "Secret1!",
		}
	}
	require.NoError(t, Validate(valid()))

	tests := []struct {
		name   string
		mutate func(*RegisterForm)
		field  string
	}{
		{"short first name", func(f *RegisterForm) { f.FirstName = "A" }, "first-name"},
		{"long last name", func(f *RegisterForm) { f.LastName = strings.Repeat("b", 51) }, "last-name"},
		{"no uppercase", func(f *RegisterForm) { f.Password, f.ConfirmPassword = "secret1!", "secret1!" }, "password"},
		{"no digit", func(f *RegisterForm) { f.Password, f.ConfirmPassword = "Secrets!", "Secrets!" }, "password"},
		{"no special", func(f *RegisterForm) { f.Password, f.ConfirmPassword = "Secret12", "Secret12" }, "password"},
		{"foreign character", func(f *RegisterForm) { f.Password, f.ConfirmPassword = "Secret1!#", "Secret1!#" }, "password"},
		{"mismatch", func(f *RegisterForm) { f.ConfirmPassword = "Secret2!" }, "confirm-password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid()
			tt.mutate(&form)
			requireFieldError(t, Validate(form), tt.field)
		})
	}

	err := Validate(RegisterForm{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Password: "Secret1!", ConfirmPassword: "nope",
	})
	assert.Equal(t, "passwords do not match", requireFieldError(t, err, "confirm-password"))

	req := valid().Request()
	assert.Equal(t, "Lovelace", req.LastName)
	assert.Equal(t, "Secret1!", req.Password)
}

func TestProductForm(t *testing.T) {
	valid := func() ProductForm {
		return ProductForm{
			Name:        "Whey Protein",
			Description: "Vanilla, 2 lb tub",
			Price:       49.99,
			Quantity:    0,
			Reference:   "WP-001",
		}
	}
	require.NoError(t, Validate(valid()))

	tests := []struct {
		name   string
		mutate func(*ProductForm)
		field  string
	}{
		{"short name", func(f *ProductForm) { f.Name = "ab" }, "name"},
		{"short description", func(f *ProductForm) { f.Description = "too short" }, "description"},
		{"zero price", func(f *ProductForm) { f.Price = 0 }, "price"},
		{"negative price", func(f *ProductForm) { f.Price = -1 }, "price"},
		{"three decimals", func(f *ProductForm) { f.Price = 1.999 }, "price"},
		{"negative quantity", func(f *ProductForm) { f.Quantity = -1 }, "quantity"},
		{"long reference", func(f *ProductForm) { f.Reference = strings.Repeat("r", 21) }, "reference"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid()
			tt.mutate(&form)
			requireFieldError(t, Validate(form), tt.field)
		})
	}

	in := valid().Input()
	assert.Equal(t, 49.99, in.Price)
	assert.Equal(t, "WP-001", in.Reference)
}

func TestHasCents(t *testing.T) {
	for _, v := range []float64{1, 0.1, 0.01, 19.99, 100.10, 0.07} {
		assert.True(t, hasCents(v), "%v", v)
	}
	for _, v := range []float64{0.001, 1.005, 19.999} {
		assert.False(t, hasCents(v), "%v", v)
	}
}

func TestProductUpdateForm(t *testing.T) {
	name := "Creatine"
	require.NoError(t, Validate(ProductUpdateForm{}))
	require.NoError(t, Validate(ProductUpdateForm{Name: &name}))

	empty := ""
	requireFieldError(t, Validate(ProductUpdateForm{Name: &empty}), "name")

	price := 0.0
	requireFieldError(t, Validate(ProductUpdateForm{Price: &price}), "price")

	qty := 0
	require.NoError(t, Validate(ProductUpdateForm{Quantity: &qty}))

	neg := -3
	requireFieldError(t, Validate(ProductUpdateForm{Quantity: &neg}), "quantity")

	patch := ProductUpdateForm{Name: &name, Quantity: &qty}.Patch()
	assert.Equal(t, &name, patch.Name)
	assert.Nil(t, patch.Price)
	assert.False(t, patch.Empty())
	assert.True(t, ProductUpdateForm{}.Patch().Empty())
}

func TestOrderForm(t *testing.T) {
	form, err := ParseOrderItems([]string{"p1:2", "p2"})
	require.NoError(t, err)
	require.NoError(t, Validate(form))

	lines := form.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "p1", lines[0].ProductID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 1, lines[1].Quantity)

	requireFieldError(t, Validate(OrderForm{}), "items")

	form, err = ParseOrderItems([]string{"p1:1", "p1:3"})
	require.NoError(t, err)
	requireFieldError(t, Validate(form), "items")

	form, err = ParseOrderItems([]string{"p1:0"})
	require.NoError(t, err)
	requireFieldError(t, Validate(form), "items[0].quantity")

	form, err = ParseOrderItems([]string{":2"})
	require.NoError(t, err)
	requireFieldError(t, Validate(form), "items[0].product")

	_, err = ParseOrderItems([]string{"p1:two"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
