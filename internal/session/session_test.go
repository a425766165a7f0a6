package session_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"hrconsole/internal/api"
	"hrconsole/internal/platform/metrics"
	"hrconsole/internal/session"
	"hrconsole/internal/session/mocks"
	"hrconsole/internal/tokenstore"
	hrtest "hrconsole/pkg/testutil"
)

type ManagerSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	auth      *mocks.MockAuthAPI
	navigator *mocks.MockNavigator
	store     *tokenstore.Memory
	metrics   *metrics.Metrics
	now       time.Time
	manager   *session.Manager
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.auth = mocks.NewMockAuthAPI(s.ctrl)
	s.navigator = mocks.NewMockNavigator(s.ctrl)
	s.store = tokenstore.NewMemory()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.manager = session.New(s.auth, s.store,
		session.WithNavigator(s.navigator),
		session.WithMetrics(s.metrics),
		session.WithClock(func() time.Time { return s.now }),
	)
}

func (s *ManagerSuite) signedToken(exp time.Time) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "ada@example.com",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("backend-secret"))
	s.Require().NoError(err)
	return token
}

func (s *ManagerSuite) storedToken() string {
	token, err := s.store.Load(context.Background())
	s.Require().NoError(err)
	return token
}

func ada() *api.User {
	return &api.User{ID: 1, Name: "Ada", Email: "ada@example.com", Role: "admin"}
}

func (s *ManagerSuite) TestStartsUninitialized() {
	s.Equal(session.Uninitialized, s.manager.State())
	s.Equal("uninitialized", s.manager.State().String())
}

func (s *ManagerSuite) TestInitWithoutTokenMakesNoCall() {
	// No Me expectation: any call fails the test.
	state := s.manager.Init(context.Background())

	s.Equal(session.Unauthenticated, state)
	s.False(s.manager.Snapshot().Authenticated())
}

func (s *ManagerSuite) TestInitRestoresSession() {
	token := s.signedToken(s.now.Add(time.Hour))
	s.Require().NoError(s.store.Save(context.Background(), token))
	s.auth.EXPECT().Me(gomock.Any()).Return(ada(), nil)

	state := s.manager.Init(context.Background())

	s.Equal(session.Authenticated, state)
	snap := s.manager.Snapshot()
	s.True(snap.Authenticated())
	s.Equal("Ada", snap.User.Name)
	s.Equal(token, snap.Token)
	s.Equal(s.now.Add(time.Hour).Unix(), snap.ExpiresAt.Unix())
}

func (s *ManagerSuite) TestInitRejectedTokenIsCleared() {
	s.Require().NoError(s.store.Save(context.Background(), "opaque-token"))
	s.auth.EXPECT().Me(gomock.Any()).Return(nil, &api.Error{Status: http.StatusUnauthorized, Message: "Invalid token"})

	state := s.manager.Init(context.Background())

	s.Equal(session.Unauthenticated, state)
	s.Empty(s.storedToken())
	s.Empty(s.manager.Snapshot().Token)
}

func (s *ManagerSuite) TestInitExpiredTokenSkipsIdentityCheck() {
	s.Require().NoError(s.store.Save(context.Background(), s.signedToken(s.now.Add(-time.Minute))))

	state := s.manager.Init(context.Background())

	s.Equal(session.Unauthenticated, state)
	s.Empty(s.storedToken())
}

func (s *ManagerSuite) TestInitRunsOnce() {
	s.Require().NoError(s.store.Save(context.Background(), "opaque-token"))
	s.auth.EXPECT().Me(gomock.Any()).Return(ada(), nil).Times(1)

	s.Equal(session.Authenticated, s.manager.Init(context.Background()))
	s.Equal(session.Authenticated, s.manager.Init(context.Background()))
}

func (s *ManagerSuite) TestLoginDuringInitWins() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, "stale-token"))
	s.auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(&api.AuthResponse{Token: "fresh-token", User: *ada()}, nil)
	s.navigator.EXPECT().Navigate(gomock.Any(), session.RouteDashboard)
	s.auth.EXPECT().Me(gomock.Any()).DoAndReturn(func(ctx context.Context) (*api.User, error) {
		s.Require().NoError(s.manager.Login(ctx, api.Credentials{Email: "ada@example.com", Password: "pw"}))
		return nil, &api.Error{Status: http.StatusUnauthorized, Message: "expired"}
	})

	state := s.manager.Init(ctx)

	s.Equal(session.Authenticated, state)
	s.Equal("fresh-token", s.storedToken())
}

func (s *ManagerSuite) TestLoginThenLogout() {
	ctx := context.Background()
	token := s.signedToken(s.now.Add(24 * time.Hour))
	creds := api.Credentials{Email: "ada@example.com", Password: "pw"}

	gomock.InOrder(
		s.auth.EXPECT().Login(gomock.Any(), creds).Return(&api.AuthResponse{Token: token, User: *ada()}, nil),
		s.navigator.EXPECT().Navigate(gomock.Any(), session.RouteDashboard),
		s.navigator.EXPECT().Navigate(gomock.Any(), session.RouteLogin),
	)
	s.manager.Init(ctx)

	s.Require().NoError(s.manager.Login(ctx, creds))

	snap := s.manager.Snapshot()
	s.Equal(session.Authenticated, snap.State)
	s.Equal(int64(1), snap.User.ID)
	s.Equal(token, snap.Token)
	s.Equal(token, s.storedToken())

	s.Require().NoError(s.manager.Logout(ctx))

	snap = s.manager.Snapshot()
	s.Equal(session.Unauthenticated, snap.State)
	s.Nil(snap.User)
	s.Empty(snap.Token)
	s.True(snap.ExpiresAt.IsZero())
	s.Empty(s.storedToken())
	s.Equal(1.0, testutil.ToFloat64(s.metrics.SessionTransitions.WithLabelValues("authenticated")))
	s.Equal(2.0, testutil.ToFloat64(s.metrics.SessionTransitions.WithLabelValues("unauthenticated")))
}

func (s *ManagerSuite) TestConcurrentLoginLogoutKeepsStoreInSync() {
	ctx := context.Background()
	s.manager.Init(ctx)
	s.auth.EXPECT().Login(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, creds api.Credentials) (*api.AuthResponse, error) {
			return &api.AuthResponse{Token: "token-" + creds.Email, User: *ada()}, nil
		}).AnyTimes()
	s.navigator.EXPECT().Navigate(gomock.Any(), gomock.Any()).AnyTimes()

	result := hrtest.RunConcurrentCtx(ctx, 20, nil, func(ctx context.Context, idx int) error {
		if idx%3 == 0 {
			return s.manager.Logout(ctx)
		}
		return s.manager.Login(ctx, api.Credentials{Email: fmt.Sprint(idx), Password: "pw"})
	})

	s.Equal(int32(20), result.Successes)
	snap := s.manager.Snapshot()
	s.Equal(snap.Token, s.storedToken())
	s.Equal(snap.Token != "", snap.State == session.Authenticated)
}

func (s *ManagerSuite) TestLoginFailurePropagatesUnmodified() {
	ctx := context.Background()
	s.manager.Init(ctx)
	backendErr := &api.Error{Status: http.StatusUnauthorized, Message: "Invalid credentials"}
	s.auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(nil, backendErr)

	err := s.manager.Login(ctx, api.Credentials{Email: "ada@example.com", Password: "wrong"})

	s.Same(backendErr, err)
	s.Equal(session.Unauthenticated, s.manager.State())
	s.Empty(s.storedToken())
}

func (s *ManagerSuite) TestRegister() {
	ctx := context.Background()
	reg := api.Registration{Name: "Bo", Email: "bo@example.com", Password: "pw"}
	s.auth.EXPECT().Register(gomock.Any(), reg).Return(&api.AuthResponse{Token: "opaque", User: api.User{ID: 2, Name: "Bo", Role: "user"}}, nil)
	s.navigator.EXPECT().Navigate(gomock.Any(), session.RouteDashboard)

	s.Require().NoError(s.manager.Register(ctx, reg))

	snap := s.manager.Snapshot()
	s.Equal("Bo", snap.User.Name)
	s.True(snap.ExpiresAt.IsZero())
}

func (s *ManagerSuite) TestRegisterFailure() {
	backendErr := &api.Error{Status: http.StatusUnprocessableEntity, Message: "email: value is not a valid email address"}
	s.auth.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, backendErr)

	err := s.manager.Register(context.Background(), api.Registration{Email: "nope"})

	s.Same(backendErr, err)
	s.Equal(session.Uninitialized, s.manager.State())
}

func (s *ManagerSuite) TestSnapshotIsACopy() {
	s.auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(&api.AuthResponse{Token: "t", User: *ada()}, nil)
	s.navigator.EXPECT().Navigate(gomock.Any(), gomock.Any())
	s.Require().NoError(s.manager.Login(context.Background(), api.Credentials{}))

	snap := s.manager.Snapshot()
	snap.User.Name = "Mallory"

	s.Equal("Ada", s.manager.Snapshot().User.Name)
}

func TestLogoutStoreFailureStillClearsSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mocks.NewMockAuthAPI(ctrl)
	store := &failingStore{Memory: tokenstore.NewMemory()}
	m := session.New(auth, store)

	auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(&api.AuthResponse{Token: "t", User: *ada()}, nil)
	if err := m.Login(context.Background(), api.Credentials{}); err != nil {
		t.Fatalf("login: %v", err)
	}

	store.clearErr = errors.New("read-only filesystem")
	err := m.Logout(context.Background())

	if err == nil || !errors.Is(err, store.clearErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if got := m.State(); got != session.Unauthenticated {
		t.Fatalf("state = %s, want unauthenticated", got)
	}
}

type failingStore struct {
	*tokenstore.Memory
	clearErr error
}

func (f *failingStore) Clear(ctx context.Context) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	return f.Memory.Clear(ctx)
}
