package commands

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/nutrabionics/storefront/internal/cli/auth"
	"github.com/nutrabionics/storefront/internal/cli/client"
	"github.com/nutrabionics/storefront/internal/cli/output"
	"github.com/nutrabionics/storefront/internal/cli/session"
)

var (
	adminUser    = &auth.User{ID: "1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Role: auth.RoleAdmin}
	customerUser = &auth.User{ID: "2", FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", Role: "CUSTOMER"}
)

// fakeAPI simulates the storefront client
type fakeAPI struct {
	mu sync.Mutex

	session  *auth.Session
	err      error
	onLogin  func()
	products []client.Product
	orders   []client.Order

	loginReq    *client.LoginRequest
	registerReq *client.RegisterRequest
	created     *client.ProductInput
	patched     *client.ProductPatch
	deleted     []string
	ordersAdmin *bool
	placed      []client.OrderLine
	calls       int
}

func (f *fakeAPI) call() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeAPI) Login(ctx context.Context, req client.LoginRequest) (*auth.Session, error) {
	f.loginReq = &req
	if f.onLogin != nil {
		f.onLogin()
	}
	if err := f.call(); err != nil {
		return nil, err
	}
	return f.session, nil
}

func (f *fakeAPI) Register(ctx context.Context, req client.RegisterRequest) (*auth.Session, error) {
	f.registerReq = &req
	if err := f.call(); err != nil {
		return nil, err
	}
	return f.session, nil
}

func (f *fakeAPI) ListProducts(ctx context.Context, page, limit int) (*client.ProductPage, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	return &client.ProductPage{
		Data: f.products,
		Meta: client.PageMeta{Total: len(f.products), Page: page, Limit: limit, TotalPages: 1},
	}, nil
}

func (f *fakeAPI) GetProduct(ctx context.Context, id string) (*client.Product, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &client.APIError{DisplayMessage: "Product not found", Status: 404, Kind: client.KindServer}
}

func (f *fakeAPI) GetProductBySlug(ctx context.Context, slug string) (*client.Product, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	for _, p := range f.products {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, &client.APIError{DisplayMessage: "Product not found", Status: 404, Kind: client.KindServer}
}

func (f *fakeAPI) CreateProduct(ctx context.Context, in client.ProductInput) (*client.Product, error) {
	f.created = &in
	if err := f.call(); err != nil {
		return nil, err
	}
	return &client.Product{ID: "p9", Name: in.Name, Description: in.Description, Price: in.Price, Quantity: in.Quantity, Reference: in.Reference}, nil
}

func (f *fakeAPI) UpdateProduct(ctx context.Context, id string, patch client.ProductPatch) (*client.Product, error) {
	f.patched = &patch
	if err := f.call(); err != nil {
		return nil, err
	}
	p := client.Product{ID: id, Name: "Whey", Reference: "WH-1"}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	return &p, nil
}

func (f *fakeAPI) DeleteProduct(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.call()
}

func (f *fakeAPI) ListOrders(ctx context.Context, page, limit int, admin bool) (*client.OrderPage, error) {
	f.ordersAdmin = &admin
	if err := f.call(); err != nil {
		return nil, err
	}
	return &client.OrderPage{Data: f.orders, Meta: client.OrderMeta{CurrentPage: page, TotalPages: 1}}, nil
}

func (f *fakeAPI) CreateOrder(ctx context.Context, lines []client.OrderLine) (*client.Order, error) {
	f.placed = lines
	if err := f.call(); err != nil {
		return nil, err
	}
	return &client.Order{
		ID:               "o1",
		Total:            59.8,
		QuantityProducts: 2,
		Products:         []client.OrderProduct{{ID: "p1", Name: "Whey", Price: 29.9, Quantity: 2, Subtotal: 59.8}},
	}, nil
}

// fakePrompter answers prompts without a terminal
type fakePrompter struct {
	interactive bool
	passwords   []string
	confirm     bool
	confirmErr  error
	asked       []string
}

func (p *fakePrompter) Interactive() bool { return p.interactive }

func (p *fakePrompter) Password(label string) (string, error) {
	p.asked = append(p.asked, label)
	if len(p.passwords) == 0 {
		return "", errors.New("no password scripted")
	}
	pw := p.passwords[0]
	p.passwords = p.passwords[1:]
	return pw, nil
}

func (p *fakePrompter) Confirm(label string) (bool, error) {
	p.asked = append(p.asked, label)
	return p.confirm, p.confirmErr
}

// syncBuffer is safe to read while a command is still writing
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type harness struct {
	api     *fakeAPI
	prompt  *fakePrompter
	store   *auth.Store
	manager *session.Manager
	out     *syncBuffer
	format  output.Format
}

// newHarness returns a harness whose store already holds user (or nothing)
func newHarness(t *testing.T, user *auth.User) *harness {
	t.Helper()

	store := auth.NewStore(auth.NewMemoryKV(), zerolog.Nop())
	if user != nil {
		require.NoError(t, store.Save(auth.Session{Token: "tok-" + user.ID, User: user}))
	}

	return &harness{
		api:     &fakeAPI{},
		prompt:  &fakePrompter{},
		store:   store,
		manager: session.New(store, session.WithCheckInterval(10*time.Millisecond)),
		out:     &syncBuffer{},
		format:  output.Table,
	}
}

func (h *harness) context(ctx context.Context) context.Context {
	ctx = session.NewContext(ctx, h.manager)
	return NewContext(ctx, &Env{
		API:    h.api,
		Out:    h.out,
		Prompt: h.prompt,
		Format: h.format,
		Log:    zerolog.Nop(),
	})
}

// run executes one command under a root that applies the guard
func (h *harness) run(ctx context.Context, cmd *cobra.Command, args ...string) error {
	root := &cobra.Command{
		Use:           "storefront",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Authorize(cmd)
		},
	}
	root.AddCommand(cmd)
	root.SetOut(h.out)
	root.SetErr(h.out)
	root.SetArgs(append([]string{cmd.Name()}, args...))
	return root.ExecuteContext(h.context(ctx))
}
