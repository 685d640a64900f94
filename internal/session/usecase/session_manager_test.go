package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"corpsuite/internal/session/domain/client"
	"corpsuite/internal/session/domain/model"
	"corpsuite/internal/session/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// Mock backend client
type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) Me(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockBackend) Login(ctx context.Context, email, password string) (*client.Credentials, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Credentials), args.Error(1)
}

func (m *mockBackend) Register(ctx context.Context, req client.RegisterRequest) (*client.Credentials, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Credentials), args.Error(1)
}

func (m *mockBackend) UpdateProfile(ctx context.Context, token string, patch model.ProfilePatch) (model.WireFields, error) {
	args := m.Called(ctx, token, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.WireFields), args.Error(1)
}

func (m *mockBackend) OAuthCallback(ctx context.Context, provider, code, state string) (*client.OAuthCredentials, error) {
	args := m.Called(ctx, provider, code, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.OAuthCredentials), args.Error(1)
}

// fakeTokenStore is an in-memory token slot so tests can assert persisted
// contents directly.
type fakeTokenStore struct {
	mu    sync.Mutex
	token string
}

func (s *fakeTokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *fakeTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *fakeTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

func (s *fakeTokenStore) current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// recordingNotifier captures notifications for assertion.
type recordingNotifier struct {
	mu    sync.Mutex
	notes []note
}

type note struct {
	kind    client.NotificationKind
	title   string
	message string
}

func (n *recordingNotifier) Notify(kind client.NotificationKind, title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note{kind, title, message})
}

func (n *recordingNotifier) last() (note, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notes) == 0 {
		return note{}, false
	}
	return n.notes[len(n.notes)-1], true
}

type SessionManagerTestSuite struct {
	suite.Suite
	backend  *mockBackend
	store    *fakeTokenStore
	notifier *recordingNotifier
}

func (s *SessionManagerTestSuite) SetupTest() {
	s.backend = &mockBackend{}
	s.store = &fakeTokenStore{}
	s.notifier = &recordingNotifier{}
}

func (s *SessionManagerTestSuite) newManager() *usecase.Manager {
	mgr, err := usecase.NewManager(s.backend, s.store, s.notifier, nil, nil)
	require.NoError(s.T(), err)
	return mgr
}

func (s *SessionManagerTestSuite) TestInitialState_Loading() {
	mgr := s.newManager()

	state := mgr.State()
	assert.True(s.T(), state.Loading)
	assert.False(s.T(), state.IsAuthenticated())
}

func (s *SessionManagerTestSuite) TestResolveSession_NoToken() {
	mgr := s.newManager()
	mgr.ResolveSession(context.Background())

	state := mgr.State()
	assert.False(s.T(), state.Loading)
	assert.Nil(s.T(), state.User)
	assert.Equal(s.T(), "", state.Token)
	s.backend.AssertNotCalled(s.T(), "Me")
}

func (s *SessionManagerTestSuite) TestResolveSession_Success() {
	s.store.token = "T-valid"
	user := &model.User{ID: "u1", Email: "a@x.com", Role: "basic", IsActive: true}
	s.backend.On("Me", mock.Anything, "T-valid").Return(user, nil)

	mgr := s.newManager()
	mgr.ResolveSession(context.Background())

	state := mgr.State()
	assert.False(s.T(), state.Loading)
	assert.True(s.T(), state.IsAuthenticated())
	assert.Equal(s.T(), "u1", state.User.ID)
	assert.Equal(s.T(), "T-valid", state.Token)
}

// Scenario: app starts with a stale persisted token; who-am-I returns 401.
func (s *SessionManagerTestSuite) TestResolveSession_StaleTokenCleared() {
	s.store.token = "Tstale"
	s.backend.On("Me", mock.Anything, "Tstale").
		Return(nil, &client.APIError{StatusCode: http.StatusUnauthorized, Detail: "Could not validate credentials"})

	mgr := s.newManager()
	mgr.ResolveSession(context.Background())

	state := mgr.State()
	assert.False(s.T(), state.Loading)
	assert.Equal(s.T(), "", state.Token)
	assert.Nil(s.T(), state.User)
	assert.Equal(s.T(), "", s.store.current(), "storage must no longer contain the stale token")
}

func (s *SessionManagerTestSuite) TestResolveSession_NetworkFailureCleared() {
	s.store.token = "T-net"
	s.backend.On("Me", mock.Anything, "T-net").Return(nil, errors.New("dial tcp: connection refused"))

	mgr := s.newManager()
	mgr.ResolveSession(context.Background())

	state := mgr.State()
	assert.False(s.T(), state.Loading)
	assert.False(s.T(), state.IsAuthenticated())
	assert.Equal(s.T(), "", s.store.current())
}

// Token/user coupling: no reachable state may hold a token without a user
// once resolution settles against a failing backend.
func (s *SessionManagerTestSuite) TestTokenUserCoupling() {
	s.store.token = "T-bad"
	s.backend.On("Me", mock.Anything, "T-bad").
		Return(nil, &client.APIError{StatusCode: http.StatusUnauthorized})

	mgr := s.newManager()
	mgr.ResolveSession(context.Background())

	state := mgr.State()
	if state.Token == "" {
		assert.Nil(s.T(), state.User)
	}
	assert.False(s.T(), state.IsAuthenticated())
}

func (s *SessionManagerTestSuite) TestLogin_Success() {
	creds := &client.Credentials{
		AccessToken:         "T1",
		UserID:              "u1",
		Email:               "a@x.com",
		Role:                "basic",
		SubscriptionPlan:    "basic",
		SubscriptionEndDate: "2025-01-01",
	}
	s.backend.On("Login", mock.Anything, "a@x.com", "secret123").Return(creds, nil)
	// The follow-up background resolution may run before assertions.
	s.backend.On("Me", mock.Anything, "T1").
		Return(&model.User{ID: "u1", Email: "a@x.com", Role: "basic", SubscriptionPlan: "basic", IsActive: true}, nil).
		Maybe()

	mgr := s.newManager()
	ok := mgr.Login(context.Background(), "a@x.com", "secret123")

	require.True(s.T(), ok)
	state := mgr.State()
	assert.Equal(s.T(), "T1", state.Token)
	assert.Equal(s.T(), "u1", state.User.ID)
	assert.True(s.T(), state.IsAuthenticated())
	assert.Equal(s.T(), "T1", s.store.current())

	last, found := s.notifier.last()
	require.True(s.T(), found)
	assert.Equal(s.T(), client.NoteSuccess, last.kind)
}

func (s *SessionManagerTestSuite) TestLogin_InvalidCredentials() {
	s.backend.On("Login", mock.Anything, "a@x.com", "wrong").
		Return(nil, &client.APIError{StatusCode: http.StatusUnauthorized, Detail: "Invalid credentials"})

	mgr := s.newManager()
	ok := mgr.Login(context.Background(), "a@x.com", "wrong")

	assert.False(s.T(), ok)
	state := mgr.State()
	assert.Equal(s.T(), "", state.Token)
	assert.Nil(s.T(), state.User)
	assert.Equal(s.T(), "", s.store.current())

	last, found := s.notifier.last()
	require.True(s.T(), found)
	assert.Equal(s.T(), client.NoteError, last.kind)
	assert.Equal(s.T(), "Invalid credentials", last.message)
}

func (s *SessionManagerTestSuite) TestLogin_TransportFailureGenericMessage() {
	s.backend.On("Login", mock.Anything, "a@x.com", "pw").Return(nil, errors.New("timeout"))

	mgr := s.newManager()
	assert.False(s.T(), mgr.Login(context.Background(), "a@x.com", "pw"))

	last, _ := s.notifier.last()
	assert.Equal(s.T(), "Invalid credentials. Please try again", last.message)
}

func (s *SessionManagerTestSuite) TestRegister_Success() {
	creds := &client.Credentials{
		AccessToken:      "T2",
		UserID:           "u2",
		Email:            "b@x.com",
		Role:             "basic",
		SubscriptionPlan: "professional",
	}
	s.backend.On("Register", mock.Anything, mock.MatchedBy(func(req client.RegisterRequest) bool {
		return req.Email == "b@x.com" && req.SubscriptionPlan == "professional" && req.FirstName == "Ana"
	})).Return(creds, nil)
	s.backend.On("Me", mock.Anything, "T2").
		Return(&model.User{ID: "u2", Email: "b@x.com", Role: "basic", IsActive: true}, nil).
		Maybe()

	mgr := s.newManager()
	ok := mgr.Register(context.Background(), "b@x.com", "pw123456", "professional",
		&model.UserDetails{FirstName: "Ana", LastName: "Lima", CompanyName: "Acme"})

	require.True(s.T(), ok)
	state := mgr.State()
	assert.Equal(s.T(), "T2", state.Token)
	assert.Equal(s.T(), "u2", state.User.ID)
	assert.Equal(s.T(), "T2", s.store.current())
}

// Scenario: registration conflict surfaces the email-taken variant, distinct
// from the generic failure message.
func (s *SessionManagerTestSuite) TestRegister_Conflict() {
	s.backend.On("Register", mock.Anything, mock.Anything).
		Return(nil, &client.APIError{StatusCode: http.StatusConflict, Detail: "Email already registered"})

	mgr := s.newManager()
	ok := mgr.Register(context.Background(), "dup@x.com", "pw123456", "basic", nil)

	assert.False(s.T(), ok)
	assert.Equal(s.T(), "", s.store.current())

	last, found := s.notifier.last()
	require.True(s.T(), found)
	assert.Contains(s.T(), last.message, "Email already registered")
	assert.NotEqual(s.T(), "Registration failed. Please try again.", last.message)
}

func (s *SessionManagerTestSuite) TestRegister_GenericFailure() {
	s.backend.On("Register", mock.Anything, mock.Anything).
		Return(nil, &client.APIError{StatusCode: http.StatusBadRequest})

	mgr := s.newManager()
	assert.False(s.T(), mgr.Register(context.Background(), "c@x.com", "pw123456", "basic", nil))

	last, _ := s.notifier.last()
	assert.Equal(s.T(), "Registration failed. Please try again.", last.message)
}

func (s *SessionManagerTestSuite) TestLogout_ClearsEverything() {
	s.store.token = "T-valid"
	user := &model.User{ID: "u1", Email: "a@x.com", Role: "basic", IsActive: true}
	s.backend.On("Me", mock.Anything, "T-valid").Return(user, nil)

	mgr := s.newManager()
	mgr.ResolveSession(context.Background())
	require.True(s.T(), mgr.State().IsAuthenticated())

	mgr.Logout(context.Background())

	state := mgr.State()
	assert.Equal(s.T(), "", state.Token)
	assert.Nil(s.T(), state.User)
	assert.False(s.T(), state.Loading)
	assert.Equal(s.T(), "", s.store.current())
}

func (s *SessionManagerTestSuite) TestLogout_Idempotent() {
	mgr := s.newManager()
	mgr.ResolveSession(context.Background())

	mgr.Logout(context.Background())
	before := mgr.State()
	mgr.Logout(context.Background())
	after := mgr.State()

	assert.Equal(s.T(), before, after)
	assert.Equal(s.T(), "", s.store.current())
}

func (s *SessionManagerTestSuite) TestUpdateProfile_MergesResponse() {
	s.store.token = "T-valid"
	s.backend.On("Me", mock.Anything, "T-valid").
		Return(&model.User{ID: "u1", Email: "a@x.com", Role: "basic", FirstName: "Old", CompanyName: "Acme", IsActive: true}, nil)

	mgr := s.newManager()
	mgr.ResolveSession(context.Background())

	s.backend.On("UpdateProfile", mock.Anything, "T-valid", model.ProfilePatch{FirstName: "New"}).
		Return(model.WireFields{"first_name": "New"}, nil)

	ok := mgr.UpdateProfile(context.Background(), model.ProfilePatch{FirstName: "New"})

	require.True(s.T(), ok)
	user := mgr.State().User
	assert.Equal(s.T(), "New", user.FirstName)
	assert.Equal(s.T(), "Acme", user.CompanyName, "fields absent from the response must be kept")
}

func (s *SessionManagerTestSuite) TestUpdateProfile_FailureKeepsState() {
	s.store.token = "T-valid"
	s.backend.On("Me", mock.Anything, "T-valid").
		Return(&model.User{ID: "u1", Email: "a@x.com", Role: "basic", FirstName: "Old", IsActive: true}, nil)

	mgr := s.newManager()
	mgr.ResolveSession(context.Background())

	s.backend.On("UpdateProfile", mock.Anything, "T-valid", mock.Anything).
		Return(nil, &client.APIError{StatusCode: http.StatusBadRequest, Detail: "invalid field"})

	ok := mgr.UpdateProfile(context.Background(), model.ProfilePatch{FirstName: "New"})

	assert.False(s.T(), ok)
	assert.Equal(s.T(), "Old", mgr.State().User.FirstName)

	last, _ := s.notifier.last()
	assert.Equal(s.T(), "invalid field", last.message)
}

func (s *SessionManagerTestSuite) TestVerifyToken_Valid() {
	s.store.token = "T-valid"
	user := &model.User{ID: "u1", Email: "a@x.com", Role: "basic", IsActive: true}
	s.backend.On("Me", mock.Anything, "T-valid").Return(user, nil)

	mgr := s.newManager()
	mgr.ResolveSession(context.Background())

	assert.True(s.T(), mgr.VerifyToken(context.Background()))
	assert.True(s.T(), mgr.State().IsAuthenticated())
}

func (s *SessionManagerTestSuite) TestVerifyToken_InvalidClearsImmediately() {
	s.store.token = "T-dying"
	user := &model.User{ID: "u1", Email: "a@x.com", Role: "basic", IsActive: true}
	s.backend.On("Me", mock.Anything, "T-dying").Return(user, nil).Once()
	s.backend.On("Me", mock.Anything, "T-dying").
		Return(nil, &client.APIError{StatusCode: http.StatusUnauthorized}).Once()

	mgr := s.newManager()
	mgr.ResolveSession(context.Background())
	require.True(s.T(), mgr.State().IsAuthenticated())

	assert.False(s.T(), mgr.VerifyToken(context.Background()))

	state := mgr.State()
	assert.Equal(s.T(), "", state.Token)
	assert.Nil(s.T(), state.User)
	assert.Equal(s.T(), "", s.store.current())
	// A failed verification leaves the session fully settled.
	assert.False(s.T(), state.Loading)
}

func (s *SessionManagerTestSuite) TestVerifyToken_NoToken() {
	mgr := s.newManager()
	mgr.ResolveSession(context.Background())

	assert.False(s.T(), mgr.VerifyToken(context.Background()))
	s.backend.AssertNotCalled(s.T(), "Me")
}

func (s *SessionManagerTestSuite) TestHandleOAuthCallback_Success() {
	oauthUser := &model.User{ID: "u9", Email: "o@x.com", Role: "basic", IsActive: true}
	s.backend.On("OAuthCallback", mock.Anything, "google", "code-1", "state-1").
		Return(&client.OAuthCredentials{AccessToken: "T9", User: oauthUser}, nil)
	s.backend.On("Me", mock.Anything, "T9").Return(oauthUser, nil).Maybe()

	mgr := s.newManager()
	ok := mgr.HandleOAuthCallback(context.Background(), "google", "code-1", "state-1")

	require.True(s.T(), ok)
	state := mgr.State()
	assert.Equal(s.T(), "T9", state.Token)
	assert.Equal(s.T(), "google", state.User.OAuthProvider)
	assert.Equal(s.T(), "T9", s.store.current())
}

func (s *SessionManagerTestSuite) TestHandleOAuthCallback_Failure() {
	s.backend.On("OAuthCallback", mock.Anything, "github", "bad", "state-1").
		Return(nil, &client.APIError{StatusCode: http.StatusBadRequest, Detail: "invalid state"})

	mgr := s.newManager()
	ok := mgr.HandleOAuthCallback(context.Background(), "github", "bad", "state-1")

	assert.False(s.T(), ok)
	assert.Equal(s.T(), "", mgr.State().Token)
	assert.Equal(s.T(), "", s.store.current())
}

// A resolution still in flight for an old token must not overwrite the state
// a newer token change produced, and Loading must settle regardless.
func (s *SessionManagerTestSuite) TestResolveSession_SupersededResolutionDiscarded() {
	s.store.token = "T-old"

	release := make(chan struct{})
	s.backend.On("Me", mock.Anything, "T-old").
		Run(func(args mock.Arguments) { <-release }).
		Return(nil, &client.APIError{StatusCode: http.StatusUnauthorized})

	newUser := &model.User{ID: "u-new", Email: "n@x.com", Role: "basic", IsActive: true}
	s.backend.On("Login", mock.Anything, "n@x.com", "pw").
		Return(&client.Credentials{AccessToken: "T-new", UserID: "u-new", Email: "n@x.com", Role: "basic"}, nil)
	s.backend.On("Me", mock.Anything, "T-new").Return(newUser, nil).Maybe()

	mgr := s.newManager()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		mgr.ResolveSession(context.Background()) // blocks on Me("T-old")
	}()

	// Give the stale resolution time to reach the backend call.
	time.Sleep(20 * time.Millisecond)

	require.True(s.T(), mgr.Login(context.Background(), "n@x.com", "pw"))

	close(release)
	wg.Wait()

	// The stale failure must not have cleared the newer session.
	assert.Eventually(s.T(), func() bool {
		state := mgr.State()
		return !state.Loading && state.Token == "T-new" && state.User != nil && state.User.ID == "u-new"
	}, time.Second, 5*time.Millisecond)
	assert.Equal(s.T(), "T-new", s.store.current())
}

func (s *SessionManagerTestSuite) TestVerifyToken_FailureDuringResolveSettlesLoading() {
	s.store.token = "T-racing"

	release := make(chan struct{})
	s.backend.On("Me", mock.Anything, "T-racing").
		Run(func(args mock.Arguments) { <-release }).
		Return(nil, &client.APIError{StatusCode: http.StatusUnauthorized}).Once()
	s.backend.On("Me", mock.Anything, "T-racing").
		Return(nil, &client.APIError{StatusCode: http.StatusUnauthorized}).Once()

	mgr := s.newManager()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		mgr.ResolveSession(context.Background()) // blocks on Me("T-racing")
	}()

	// Give the resolution time to reach the backend call.
	time.Sleep(20 * time.Millisecond)

	assert.False(s.T(), mgr.VerifyToken(context.Background()))

	state := mgr.State()
	assert.Equal(s.T(), "", state.Token)
	assert.Nil(s.T(), state.User)
	// The cleared session is final even though a resolution is still in
	// flight; Loading must not stay stuck on the stranded attempt.
	assert.False(s.T(), state.Loading)

	close(release)
	wg.Wait()

	// The stranded resolution is discarded and must not resurrect anything.
	state = mgr.State()
	assert.False(s.T(), state.Loading)
	assert.Equal(s.T(), "", state.Token)
	assert.Nil(s.T(), state.User)
}

func TestSessionManagerTestSuite(t *testing.T) {
	suite.Run(t, new(SessionManagerTestSuite))
}
