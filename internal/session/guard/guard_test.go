package guard_test

import (
	"testing"

	"corpsuite/internal/session/domain/model"
	"corpsuite/internal/session/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSession struct {
	state model.State
}

func (s *staticSession) State() model.State { return s.state }

type trackingStore struct {
	token   string
	cleared int
}

func (s *trackingStore) Load() (string, error)  { return s.token, nil }
func (s *trackingStore) Save(token string) error { s.token = token; return nil }
func (s *trackingStore) Clear() error            { s.token = ""; s.cleared++; return nil }

func TestEvaluate_LoadingRendersNeither(t *testing.T) {
	// While loading, neither the children nor a redirect may appear,
	// regardless of what the rest of the state claims.
	states := []model.State{
		{Loading: true},
		{Loading: true, Token: "T1", User: &model.User{ID: "u1", Role: "admin"}},
	}

	for _, state := range states {
		g := guard.New(&staticSession{state: state}, &trackingStore{}, nil)
		out := g.Evaluate("admin")
		assert.Equal(t, guard.DecisionLoading, out.Decision)
		assert.Empty(t, out.RedirectTo)
	}
}

func TestEvaluate_UnauthenticatedRedirectsToLogin(t *testing.T) {
	for _, requiredRole := range []string{"", "admin", "editor"} {
		store := &trackingStore{token: "stray"}
		g := guard.New(&staticSession{state: model.State{Loading: false}}, store, nil)

		out := g.Evaluate(requiredRole)

		require.Equal(t, guard.DecisionRedirectLogin, out.Decision)
		assert.Equal(t, "/login", out.RedirectTo)
		assert.True(t, out.ReplaceHistory)
		assert.Equal(t, "", store.token, "stray persisted token must be wiped")
	}
}

func TestEvaluate_TokenWithoutUserIsUnauthenticated(t *testing.T) {
	g := guard.New(&staticSession{state: model.State{Token: "T1"}}, &trackingStore{}, nil)
	out := g.Evaluate("")
	assert.Equal(t, guard.DecisionRedirectLogin, out.Decision)
}

func TestEvaluate_RoleMismatchRedirectsHome(t *testing.T) {
	state := model.State{
		Token: "T1",
		User:  &model.User{ID: "u1", Role: "editor", IsActive: true},
	}
	g := guard.New(&staticSession{state: state}, &trackingStore{}, nil)

	out := g.Evaluate("admin")

	require.Equal(t, guard.DecisionRedirectHome, out.Decision)
	assert.Equal(t, "/dashboard", out.RedirectTo)
	assert.True(t, out.ReplaceHistory)
}

func TestEvaluate_AuthorizedRenders(t *testing.T) {
	state := model.State{
		Token: "T1",
		User:  &model.User{ID: "u1", Role: "admin", IsActive: true},
	}
	g := guard.New(&staticSession{state: state}, &trackingStore{}, nil)

	assert.Equal(t, guard.DecisionRender, g.Evaluate("").Decision)
	assert.Equal(t, guard.DecisionRender, g.Evaluate("admin").Decision)
}

// A mid-session invalidation must flip the decision on the very next
// evaluation; the guard keeps no memory of having authorized before.
func TestEvaluate_NoMemoryOfPriorAuthorization(t *testing.T) {
	session := &staticSession{state: model.State{
		Token: "T1",
		User:  &model.User{ID: "u1", Role: "basic", IsActive: true},
	}}
	g := guard.New(session, &trackingStore{}, nil)
	require.Equal(t, guard.DecisionRender, g.Evaluate("").Decision)

	session.state = model.State{}
	assert.Equal(t, guard.DecisionRedirectLogin, g.Evaluate("").Decision)
}

func TestEvaluate_CustomPaths(t *testing.T) {
	g := guard.New(&staticSession{state: model.State{}}, &trackingStore{}, nil,
		guard.WithPaths("/signin", "/home"))

	out := g.Evaluate("")
	assert.Equal(t, "/signin", out.RedirectTo)

	g2 := guard.New(&staticSession{state: model.State{
		Token: "T1",
		User:  &model.User{ID: "u1", Role: "basic"},
	}}, &trackingStore{}, nil, guard.WithPaths("/signin", "/home"))

	assert.Equal(t, "/home", g2.Evaluate("admin").RedirectTo)
}
