// Package session resolves the current user identity and owns the
// login/logout lifecycle. Every other component is scoped to the identity it
// provides; no operation proceeds without one.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/jonathan/career-coach/internal/store"
	"github.com/jonathan/career-coach/internal/types"
)

// ErrNotAuthenticated gates operations that require a resolved identity.
var ErrNotAuthenticated = errors.New("session: not authenticated")

// Backend is the slice of the API client the session manager needs.
type Backend interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*types.AuthResponse, error)
	Login(ctx context.Context, req *types.LoginRequest) (*types.AuthResponse, error)
	Logout(ctx context.Context) error
	SetAuth(identity, token string)
	ClearAuth()
}

// State is the persisted session record.
type State struct {
	Identity string `json:"identity"`
	Token    string `json:"token"`
}

// Manager owns the active session and notifies dependents when the identity
// changes so they can invalidate and reload their state.
type Manager struct {
	backend Backend
	store   *store.Store
	log     *zap.Logger

	mu        sync.Mutex
	state     State
	listeners []func(identity string)
}

// NewManager creates a session manager. Call Load to restore a persisted
// session.
func NewManager(backend Backend, st *store.Store, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{backend: backend, store: st, log: log}
}

// Load restores the persisted session, discarding it when the token has
// already expired.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var state State
	err := m.store.GetLocal(ctx, store.BucketSession, &state)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if tokenExpired(state.Token) {
		m.log.Info("persisted session token expired, discarding")
		return m.store.DeleteLocal(ctx, store.BucketSession)
	}

	m.state = state
	m.backend.SetAuth(state.Identity, state.Token)
	return nil
}

// Current returns the resolved identity, or ErrNotAuthenticated.
func (m *Manager) Current() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Identity == "" {
		return "", ErrNotAuthenticated
	}
	return m.state.Identity, nil
}

// OnIdentityChange registers a listener invoked with the new identity after
// every login, register and logout (empty identity means logged out).
func (m *Manager) OnIdentityChange(fn func(identity string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Login authenticates and binds the returned identity.
func (m *Manager) Login(ctx context.Context, email, password string) (string, error) {
	resp, err := m.backend.Login(ctx, &types.LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}
	return m.bind(ctx, resp)
}

// Register creates an account, binding the new identity. An onboarding record
// collected before signup rides along with registration, and its transmission
// is recorded so finalization does not sync it a second time.
func (m *Manager) Register(ctx context.Context, name, email, password string, onboarding *types.OnboardingRecord) (string, error) {
	resp, err := m.backend.Register(ctx, &types.RegisterRequest{
		Name:       name,
		Email:      email,
		Password:   password,
		Onboarding: onboarding,
	})
	if err != nil {
		return "", err
	}

	identity, err := m.bind(ctx, resp)
	if err != nil {
		return "", err
	}

	if onboarding != nil {
		if err := m.store.Put(ctx, identity, store.BucketSignupSynced, true); err != nil {
			return "", err
		}
		if err := m.store.Put(ctx, identity, store.BucketOnboardingData, onboarding); err != nil {
			return "", err
		}
	}
	return identity, nil
}

func (m *Manager) bind(ctx context.Context, resp *types.AuthResponse) (string, error) {
	m.mu.Lock()
	state := State{Identity: resp.UserID, Token: resp.Token}
	if err := m.store.PutLocal(ctx, store.BucketSession, &state); err != nil {
		m.mu.Unlock()
		return "", err
	}
	m.state = state
	m.backend.SetAuth(state.Identity, state.Token)
	listeners := append(([]func(string))(nil), m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(state.Identity)
	}
	return state.Identity, nil
}

// Logout ends the session. The server-side logout is best-effort; the local
// session record and every cached record for the identity are always cleared.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	identity := m.state.Identity
	m.mu.Unlock()
	if identity == "" {
		return ErrNotAuthenticated
	}

	if err := m.backend.Logout(ctx); err != nil {
		m.log.Warn("server-side logout failed, clearing local session anyway", zap.Error(err))
	}

	if err := m.store.ClearIdentity(ctx, identity); err != nil {
		return err
	}
	if err := m.store.DeleteLocal(ctx, store.BucketSession); err != nil {
		return err
	}

	m.mu.Lock()
	m.state = State{}
	m.backend.ClearAuth()
	listeners := append(([]func(string))(nil), m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn("")
	}
	return nil
}

// tokenExpired inspects the token's exp claim without verifying the
// signature; verification is the server's job, the client only needs to know
// whether it is worth sending. Opaque non-JWT tokens never expire locally.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
