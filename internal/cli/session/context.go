package session

import "context"

type managerContextKey struct{}

// NewContext adds the session manager to the context
func NewContext(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, managerContextKey{}, m)
}

// FromContext retrieves the session manager from the context
func FromContext(ctx context.Context) (*Manager, bool) {
	m, ok := ctx.Value(managerContextKey{}).(*Manager)
	return m, ok
}

// MustFromContext retrieves the session manager or panics
func MustFromContext(ctx context.Context) *Manager {
	m, ok := FromContext(ctx)
	if !ok {
		panic("session: manager not found in context")
	}
	return m
}
