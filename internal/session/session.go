// Package session holds the single authenticated session of a console process.
//
// The session moves from Uninitialized to either Unauthenticated or
// Authenticated once Init completes, then alternates between those two for
// the lifetime of the process. Only the Manager mutates the persisted token.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hrconsole/internal/api"
	"hrconsole/internal/platform/metrics"
	"hrconsole/internal/tokenstore"
)

//go:generate mockgen -source=session.go -destination=mocks/session_mock.go -package=mocks

// State is the session lifecycle state.
type State int

const (
	Uninitialized State = iota
	Unauthenticated
	Authenticated
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Route is a navigation target triggered by a session transition.
type Route string

const (
	RouteDashboard Route = "/dashboard"
	RouteLogin     Route = "/login"
)

// AuthAPI is the slice of the backend client the session needs.
type AuthAPI interface {
	Login(ctx context.Context, creds api.Credentials) (*api.AuthResponse, error)
	Register(ctx context.Context, reg api.Registration) (*api.AuthResponse, error)
	Me(ctx context.Context) (*api.User, error)
}

// Navigator performs the navigation side effect of login, register and logout.
type Navigator interface {
	Navigate(ctx context.Context, route Route)
}

// Snapshot is an immutable copy of the session.
type Snapshot struct {
	State State
	User  *api.User
	Token string
	// ExpiresAt is the token's exp claim; zero when the token carries none.
	ExpiresAt time.Time
}

// Authenticated reports whether the snapshot holds a usable identity.
func (s Snapshot) Authenticated() bool {
	return s.State == Authenticated && s.User != nil
}

// Manager owns the session state and the persisted token.
type Manager struct {
	auth      AuthAPI
	store     tokenstore.Store
	navigator Navigator
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time

	initOnce sync.Once

	mu        sync.RWMutex
	state     State
	user      *api.User
	token     string
	expiresAt time.Time
}

// Option configures a Manager.
type Option func(*Manager)

func WithNavigator(n Navigator) Option {
	return func(m *Manager) {
		m.navigator = n
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mt
	}
}

// WithClock overrides time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// New creates a manager in the Uninitialized state.
func New(auth AuthAPI, store tokenstore.Store, opts ...Option) *Manager {
	m := &Manager{
		auth:      auth,
		store:     store,
		navigator: discardNavigator{},
		logger:    slog.New(slog.DiscardHandler),
		now:       time.Now,
		state:     Uninitialized,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init resolves the persisted token into a session. Only the first call does
// any work; later calls return the current state.
func (m *Manager) Init(ctx context.Context) State {
	m.initOnce.Do(func() {
		m.initialize(ctx)
	})
	return m.State()
}

func (m *Manager) initialize(ctx context.Context) {
	token, err := m.store.Load(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "token store unreadable", "error", err)
		m.resolveInit(ctx, "", nil, false)
		return
	}
	if token == "" {
		m.resolveInit(ctx, "", nil, false)
		return
	}
	if exp, ok := tokenExpiry(token); ok && !exp.After(m.now()) {
		m.logger.InfoContext(ctx, "persisted token expired", "expired_at", exp)
		m.resolveInit(ctx, "", nil, true)
		return
	}

	user, err := m.auth.Me(ctx)
	if err != nil {
		m.logger.InfoContext(ctx, "persisted token rejected", "error", err)
		m.resolveInit(ctx, "", nil, true)
		return
	}
	m.resolveInit(ctx, token, user, false)
}

// resolveInit applies the startup result unless a login or logout already moved
// the session on.
func (m *Manager) resolveInit(ctx context.Context, token string, user *api.User, clear bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Uninitialized {
		return
	}
	if clear {
		if err := m.store.Clear(ctx); err != nil {
			m.logger.WarnContext(ctx, "failed to clear rejected token", "error", err)
		}
	}
	if user == nil {
		m.setLocked(Unauthenticated, nil, "")
		return
	}
	m.setLocked(Authenticated, user, token)
	m.logger.InfoContext(ctx, "session restored", "user_id", user.ID)
}

// Login authenticates, persists the token and navigates to the dashboard.
// Backend errors are returned unmodified and leave the state unchanged.
func (m *Manager) Login(ctx context.Context, creds api.Credentials) error {
	resp, err := m.auth.Login(ctx, creds)
	if err != nil {
		return err
	}
	return m.authenticate(ctx, resp)
}

// Register creates an account and signs in with it.
func (m *Manager) Register(ctx context.Context, reg api.Registration) error {
	resp, err := m.auth.Register(ctx, reg)
	if err != nil {
		return err
	}
	return m.authenticate(ctx, resp)
}

func (m *Manager) authenticate(ctx context.Context, resp *api.AuthResponse) error {
	m.mu.Lock()
	if err := m.store.Save(ctx, resp.Token); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("persist token: %w", err)
	}
	user := resp.User
	m.setLocked(Authenticated, &user, resp.Token)
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "session authenticated", "user_id", user.ID)
	m.navigator.Navigate(ctx, RouteDashboard)
	return nil
}

// Logout clears the token and identity and navigates to the sign-in page. The
// in-memory session is cleared even when the store fails.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	err := m.store.Clear(ctx)
	m.setLocked(Unauthenticated, nil, "")
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "session cleared")
	m.navigator.Navigate(ctx, RouteLogin)
	if err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

func (m *Manager) setLocked(state State, user *api.User, token string) {
	m.state = state
	m.user = user
	m.token = token
	m.expiresAt = time.Time{}
	if exp, ok := tokenExpiry(token); ok {
		m.expiresAt = exp
	}
	m.metrics.IncSessionTransition(state.String())
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Snapshot returns a copy of the current session.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{State: m.state, Token: m.token, ExpiresAt: m.expiresAt}
	if m.user != nil {
		u := *m.user
		snap.User = &u
	}
	return snap
}

// tokenExpiry reads the exp claim without verifying the signature; the backend
// is the only party that can verify it. Opaque tokens report false.
func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

type discardNavigator struct{}

func (discardNavigator) Navigate(context.Context, Route) {}
