package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nutrabionics/storefront/internal/cli/auth"
)

// DefaultCheckInterval is how often the manager re-checks the store
const DefaultCheckInterval = 5 * time.Second

// ErrStaleLogin is returned by LoginAt when a logout happened after the
// login started
var ErrStaleLogin = errors.New("session was logged out while the login was in flight")

// CredentialStore is the persistence the manager reconciles against
type CredentialStore interface {
	Save(session auth.Session) error
	Load() (auth.Session, error)
	Clear() error
	IsPersisted() bool
}

// Manager owns the current-user state of the process. Build exactly one,
// at the root, and pass it down.
type Manager struct {
	store    CredentialStore
	log      zerolog.Logger
	interval time.Duration

	initOnce sync.Once

	mu          sync.Mutex
	user        *auth.User
	initialized bool
	epoch       uint64

	subsMu       sync.Mutex
	subs         map[chan State]struct{}
	published    State
	hasPublished bool
}

// Option configures a Manager
type Option func(*Manager)

// WithCheckInterval sets the liveness reconciliation interval
func WithCheckInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithLogger sets the manager's logger
func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// New creates a session manager over store. Nothing is read until Init.
func New(store CredentialStore, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		log:      zerolog.Nop(),
		interval: DefaultCheckInterval,
		subs:     make(map[chan State]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With().Str("component", "session").Logger()
	return m
}

// Init hydrates the in-memory user from the store. It runs once per
// Manager; later calls return immediately. A read failure clears the
// store, and so do stored credentials that do not form a session. Either
// way the manager is initialized afterwards.
func (m *Manager) Init() {
	m.initOnce.Do(func() {
		session, err := m.store.Load()
		switch {
		case err != nil:
			m.log.Error().Err(err).Msg("Failed to restore session, clearing stored credentials")
			m.clearStore()
		case !session.Present() && m.store.IsPersisted():
			// Both keys exist but do not make a session
			m.log.Warn().Msg("Stored session is unusable, clearing stored credentials")
			m.clearStore()
		}

		m.mu.Lock()
		if err == nil && session.Present() {
			m.user = copyUser(session.User)
			m.log.Debug().Str("user_id", session.User.ID).Msg("Session restored from credential store")
		}
		m.initialized = true
		m.mu.Unlock()

		m.publish()
	})
}

// User returns a copy of the cached user record, or nil
func (m *Manager) User() *auth.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyUser(m.user)
}

// IsAuthenticated asks the store on every call
func (m *Manager) IsAuthenticated() bool {
	return m.State().IsAuthenticated
}

// IsAdmin reports whether the cached user holds the admin role
func (m *Manager) IsAdmin() bool {
	return m.State().IsAdmin
}

// IsInitialized reports whether Init has completed
func (m *Manager) IsInitialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// State returns a fresh snapshot
func (m *Manager) State() State {
	m.mu.Lock()
	user := copyUser(m.user)
	initialized := m.initialized
	m.mu.Unlock()

	return State{
		User:          user,
		AuthFlags:     DeriveAuthFlags(m.store.IsPersisted(), user),
		IsInitialized: initialized,
	}
}

// Epoch identifies the current logout generation. Capture it before a
// login round trip and hand it to LoginAt.
func (m *Manager) Epoch() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.epoch
}

// Login persists session and makes its user current
func (m *Manager) Login(session auth.Session) error {
	return m.LoginAt(m.Epoch(), session)
}

// LoginAt is Login guarded against resurrection: if any logout happened
// since epoch was taken, nothing is stored and ErrStaleLogin is returned.
func (m *Manager) LoginAt(epoch uint64, session auth.Session) error {
	m.mu.Lock()
	if epoch != m.epoch {
		m.mu.Unlock()
		m.log.Warn().Msg("Discarding login response that arrived after logout")
		return ErrStaleLogin
	}
	if err := m.store.Save(session); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("failed to persist session: %w", err)
	}
	m.user = copyUser(session.User)
	m.mu.Unlock()

	m.log.Debug().Str("user_id", session.User.ID).Msg("Logged in")
	m.publish()
	return nil
}

// Logout clears the store and the in-memory user. Logging out twice is
// not an error.
func (m *Manager) Logout() error {
	m.mu.Lock()
	err := m.store.Clear()
	m.user = nil
	m.epoch++
	m.mu.Unlock()

	m.publish()
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Reconcile forces a logout when the manager believes a user is logged in
// but the store no longer holds the session (a 401 elsewhere, another
// process logging out). Subscribers hear about any flag change.
func (m *Manager) Reconcile() {
	m.mu.Lock()
	loggedIn := m.initialized && m.user != nil
	m.mu.Unlock()

	if loggedIn && !m.store.IsPersisted() {
		m.log.Info().Msg("Session expired or removed, logging out")
		if err := m.Logout(); err != nil {
			m.log.Warn().Err(err).Msg("Forced logout could not clear credentials")
		}
		return
	}

	m.publish()
}

// Run initializes the manager and reconciles on every tick until ctx is
// done. Staleness is bounded by one interval, best effort.
func (m *Manager) Run(ctx context.Context) {
	m.Init()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Reconcile()
		}
	}
}

// Subscribe returns a channel that receives the current state right away
// and then every change. Slow readers only see the latest state. The
// channel is closed when ctx is done.
func (m *Manager) Subscribe(ctx context.Context) <-chan State {
	ch := make(chan State, 1)

	m.subsMu.Lock()
	ch <- m.State()
	m.subs[ch] = struct{}{}
	m.subsMu.Unlock()

	go func() {
		<-ctx.Done()
		m.subsMu.Lock()
		delete(m.subs, ch)
		close(ch)
		m.subsMu.Unlock()
	}()

	return ch
}

// publish sends the current state to subscribers if it changed
func (m *Manager) publish() {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()

	state := m.State()

	if m.hasPublished && m.published.equal(state) {
		return
	}
	m.published = state
	m.hasPublished = true

	for ch := range m.subs {
		// Replace an unread state with the newer one
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- state:
		default:
		}
	}
}

func (m *Manager) clearStore() {
	if err := m.store.Clear(); err != nil {
		m.log.Warn().Err(err).Msg("Failed to clear credentials")
	}
}

func copyUser(u *auth.User) *auth.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
