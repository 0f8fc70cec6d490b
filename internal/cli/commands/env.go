package commands

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/nutrabionics/storefront/internal/cli/auth"
	"github.com/nutrabionics/storefront/internal/cli/client"
	"github.com/nutrabionics/storefront/internal/cli/output"
)

// API is the part of the storefront client the commands use
type API interface {
	Login(ctx context.Context, req client.LoginRequest) (*auth.Session, error)
	Register(ctx context.Context, req client.RegisterRequest) (*auth.Session, error)

	ListProducts(ctx context.Context, page, limit int) (*client.ProductPage, error)
	GetProduct(ctx context.Context, id string) (*client.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*client.Product, error)
	CreateProduct(ctx context.Context, in client.ProductInput) (*client.Product, error)
	UpdateProduct(ctx context.Context, id string, patch client.ProductPatch) (*client.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	ListOrders(ctx context.Context, page, limit int, admin bool) (*client.OrderPage, error)
	CreateOrder(ctx context.Context, lines []client.OrderLine) (*client.Order, error)
}

// Env is everything a command needs besides the session. The root
// command builds it once per process.
type Env struct {
	API    API
	Out    io.Writer
	Prompt Prompter
	Format output.Format
	Log    zerolog.Logger
}

var errNoEnv = errors.New("commands: environment not found in context")

type envKey struct{}

// NewContext returns a copy of ctx carrying env
func NewContext(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, envKey{}, env)
}

// EnvFrom returns the Env stored in ctx
func EnvFrom(ctx context.Context) (*Env, error) {
	env, ok := ctx.Value(envKey{}).(*Env)
	if !ok || env == nil {
		return nil, errNoEnv
	}
	return env, nil
}

func (e *Env) render(v any) error {
	return output.Render(e.Out, e.Format, v)
}

// plain reports whether output is for humans rather than machines
func (e *Env) plain() bool {
	return e.Format == output.Table || e.Format == ""
}
