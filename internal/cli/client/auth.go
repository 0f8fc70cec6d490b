package client

import (
	"context"
	"errors"
	"net/http"

	"github.com/nutrabionics/storefront/internal/cli/auth"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Login authenticates the user and returns the issued session.
// Persisting it is the caller's job.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*auth.Session, error) {
	return c.authenticate(ctx, "/auth/login", req)
}

// Register creates a customer account and returns its session
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*auth.Session, error) {
	return c.authenticate(ctx, "/auth/register", req)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*auth.Session, error) {
	var session auth.Session
	if err := c.Post(ctx, path, body, &session); err != nil {
		return nil, err
	}

	if !session.Present() {
		return nil, &APIError{
			DisplayMessage: MsgInvalidResponse,
			Status:         http.StatusOK,
			Kind:           KindServer,
			Raw:            errors.New("auth response is missing the token or the user"),
		}
	}

	return &session, nil
}
