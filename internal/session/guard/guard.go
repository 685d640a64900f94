// Package guard gates access to protected surfaces based on session state
// and an optional required role. Decisions are computed fresh on every
// evaluation; there is no memory of a previous authorization, so a
// mid-session token invalidation falls through to a login redirect on the
// next evaluation.
package guard

import (
	"corpsuite/internal/session/domain/client"
	"corpsuite/internal/session/domain/model"
	"corpsuite/internal/shared/logger"
)

// Decision is the outcome class of one guard evaluation.
type Decision int

const (
	// DecisionLoading means the session is still resolving; render a
	// waiting indicator and make no redirect decision yet.
	DecisionLoading Decision = iota
	// DecisionRedirectLogin means the session is not authenticated.
	DecisionRedirectLogin
	// DecisionRedirectHome means the user is authenticated but lacks the
	// required role.
	DecisionRedirectHome
	// DecisionRender means the guarded content may be shown.
	DecisionRender
)

func (d Decision) String() string {
	switch d {
	case DecisionLoading:
		return "loading"
	case DecisionRedirectLogin:
		return "redirect-login"
	case DecisionRedirectHome:
		return "redirect-home"
	case DecisionRender:
		return "render"
	default:
		return "unknown"
	}
}

// Outcome is a guard decision plus the redirect target when one applies.
// Redirects always replace history so the guarded page cannot be reached by
// navigating back.
type Outcome struct {
	Decision       Decision
	RedirectTo     string
	ReplaceHistory bool
}

// SessionSource provides the session state a guard evaluates against.
type SessionSource interface {
	State() model.State
}

// Guard evaluates whether a protected surface may render.
type Guard struct {
	session   SessionSource
	store     client.TokenStore
	log       logger.Logger
	loginPath string
	homePath  string
}

// Option configures a Guard.
type Option func(*Guard)

// WithPaths overrides the login and default landing destinations.
func WithPaths(loginPath, homePath string) Option {
	return func(g *Guard) {
		g.loginPath = loginPath
		g.homePath = homePath
	}
}

// New builds a route guard over the given session source. The token store is
// used only to defensively erase a stray persisted token when an evaluation
// finds the session unauthenticated.
func New(session SessionSource, store client.TokenStore, log logger.Logger, opts ...Option) *Guard {
	if log == nil {
		log = logger.NewLogger()
	}
	g := &Guard{
		session:   session,
		store:     store,
		log:       log.WithComponent("route-guard"),
		loginPath: "/login",
		homePath:  "/dashboard",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Evaluate computes the decision for one navigation attempt. requiredRole is
// optional; "" means any authenticated user is authorized.
func (g *Guard) Evaluate(requiredRole string) Outcome {
	state := g.session.State()

	if state.Loading {
		return Outcome{Decision: DecisionLoading}
	}

	if !state.IsAuthenticated() {
		// A token may linger in storage after a half-cleared session;
		// wipe it so the next start does not resume a dead session.
		if g.store != nil {
			if err := g.store.Clear(); err != nil {
				g.log.Warnf("Failed to clear stray persisted token: %v", err)
			}
		}
		g.log.Debug("Not authenticated, redirecting to login")
		return Outcome{
			Decision:       DecisionRedirectLogin,
			RedirectTo:     g.loginPath,
			ReplaceHistory: true,
		}
	}

	if requiredRole != "" && state.User.Role != requiredRole {
		g.log.Debugf("Role %q does not match required role %q, redirecting", state.User.Role, requiredRole)
		return Outcome{
			Decision:       DecisionRedirectHome,
			RedirectTo:     g.homePath,
			ReplaceHistory: true,
		}
	}

	return Outcome{Decision: DecisionRender}
}
