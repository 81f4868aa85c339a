package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/techshop/storefront/internal/api"
	"github.com/techshop/storefront/internal/domain"
	"github.com/techshop/storefront/internal/events"
	"github.com/techshop/storefront/internal/store"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// Authenticator is the remote side of login and registration.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*api.Credentials, error)
	Register(ctx context.Context, fullName, username, email, password string) (*api.Credentials, error)
}

// Manager owns the auth token and username. Token and username are set and
// persisted together or not at all; privileged actions gate on
// IsAuthenticated.
type Manager struct {
	auth  Authenticator
	store store.Store
	bus   *events.Bus

	mu      sync.Mutex
	current domain.Session
}

func NewManager(auth Authenticator, st store.Store, bus *events.Bus) *Manager {
	return &Manager{auth: auth, store: st, bus: bus}
}

// Restore loads the persisted session at startup. A half-present pair (token
// without username or vice versa) is treated as absent so the invariant
// holds. Storage errors are logged and leave the session unauthenticated;
// they are never fatal.
func (m *Manager) Restore(ctx context.Context) {
	token, err := m.store.Get(ctx, store.KeyAuthToken)
	if err != nil && !errors.Is(err, store.ErrKeyNotFound) {
		log.Printf("restoring auth token: %v", err)
	}
	username, err := m.store.Get(ctx, store.KeyCurrentUser)
	if err != nil && !errors.Is(err, store.ErrKeyNotFound) {
		log.Printf("restoring current user: %v", err)
	}

	if token == "" || username == "" {
		return
	}

	m.mu.Lock()
	m.current = domain.Session{Token: token, Username: username}
	m.mu.Unlock()
}

// Login authenticates against the remote API. Empty fields are rejected
// locally without a remote call. On failure the session state is untouched
// and the returned *api.AuthError carries the server's message, or a generic
// fallback when the failure was not an auth rejection.
func (m *Manager) Login(ctx context.Context, username, password string) (domain.Session, error) {
	if username == "" {
		return domain.Session{}, &domain.ValidationError{Field: "username"}
	}
	if password == "" {
		return domain.Session{}, &domain.ValidationError{Field: "password"}
	}

	creds, err := m.auth.Login(ctx, username, password)
	if err != nil {
		return domain.Session{}, m.asAuthError("login", err, "Login failed. Please check if the backend server is running.")
	}

	sess, err := m.commit(ctx, creds)
	if err != nil {
		return domain.Session{}, err
	}

	m.bus.Publish(events.TopicToast, "Login successful! Welcome back!")
	return sess, nil
}

// Register creates an account; the server logs the new user in by returning
// a token, so a succeeding registration behaves like a login.
func (m *Manager) Register(ctx context.Context, fullName, username, email, password string) (domain.Session, error) {
	for field, value := range map[string]string{
		"full name": fullName,
		"username":  username,
		"email":     email,
		"password":  password,
	} {
		if value == "" {
			return domain.Session{}, &domain.ValidationError{Field: field}
		}
	}

	creds, err := m.auth.Register(ctx, fullName, username, email, password)
	if err != nil {
		return domain.Session{}, m.asAuthError("register", err, "Registration failed. Please check if the backend server is running.")
	}

	sess, err := m.commit(ctx, creds)
	if err != nil {
		return domain.Session{}, err
	}

	m.bus.Publish(events.TopicToast, "Registration successful! Welcome to TechShop!")
	return sess, nil
}

// commit persists both halves of the session, then updates memory, then
// notifies. A reload right after a mutation must observe consistent state,
// so persistence comes first.
func (m *Manager) commit(ctx context.Context, creds *api.Credentials) (domain.Session, error) {
	if err := m.store.Set(ctx, store.KeyAuthToken, creds.Token); err != nil {
		return domain.Session{}, fmt.Errorf("persisting auth token: %w", err)
	}
	if err := m.store.Set(ctx, store.KeyCurrentUser, creds.Username); err != nil {
		return domain.Session{}, fmt.Errorf("persisting current user: %w", err)
	}

	sess := domain.Session{Token: creds.Token, Username: creds.Username}
	m.mu.Lock()
	m.current = sess
	m.mu.Unlock()

	m.bus.Publish(events.TopicAuthUpdated, sess)
	return sess, nil
}

func (m *Manager) asAuthError(op string, err error, generic string) error {
	var authErr *api.AuthError
	if errors.As(err, &authErr) {
		return authErr
	}
	log.Printf("%s request failed: %v", op, err)
	return &api.AuthError{Message: generic}
}

// Logout clears the session unconditionally. The remote side is never
// called; an already-expired token clears the same way.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.current = domain.Session{}
	m.mu.Unlock()

	if err := m.store.Delete(ctx, store.KeyAuthToken); err != nil {
		log.Printf("clearing auth token: %v", err)
	}
	if err := m.store.Delete(ctx, store.KeyCurrentUser); err != nil {
		log.Printf("clearing current user: %v", err)
	}

	m.bus.Publish(events.TopicAuthUpdated, domain.Session{})
	m.bus.Publish(events.TopicToast, "Logged out successfully!")
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.Authenticated()
}

func (m *Manager) Username() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.Username
}

func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.Token
}

func (m *Manager) Session() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}
