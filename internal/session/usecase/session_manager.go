package usecase

import (
	"context"
	"fmt"
	"sync"

	"corpsuite/internal/session/domain/client"
	"corpsuite/internal/session/domain/model"
	"corpsuite/internal/shared/eventbus"
	"corpsuite/internal/shared/logger"
)

// Manager is the single source of truth for "who is logged in". It mediates
// all credential exchange with the backend and all persistence of the bearer
// token; no other component writes the token or the user.
//
// Resolution (exchanging the token for a profile) is keyed to the token that
// started it: every token change bumps a sequence counter, and an in-flight
// resolution that observes a newer sequence on completion discards its result
// instead of overwriting state. The newest resolution always settles Loading.
type Manager struct {
	backend  client.BackendClient
	store    client.TokenStore
	notifier client.Notifier
	bus      *eventbus.EventBus
	log      logger.Logger

	mu         sync.Mutex
	state      model.State
	resolveSeq uint64
}

// NewManager builds a session manager. The persisted token slot is read once
// here; callers must invoke ResolveSession afterwards to exchange any resumed
// token for a user profile. Until that first resolution settles, the state
// reports Loading.
func NewManager(
	backend client.BackendClient,
	store client.TokenStore,
	notifier client.Notifier,
	bus *eventbus.EventBus,
	log logger.Logger,
) (*Manager, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend client is required")
	}
	if store == nil {
		return nil, fmt.Errorf("token store is required")
	}
	if notifier == nil {
		notifier = client.NopNotifier{}
	}
	if log == nil {
		log = logger.NewLogger()
	}
	if bus == nil {
		bus = eventbus.NewEventBus(log)
	}

	token, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to read persisted token: %w", err)
	}

	return &Manager{
		backend:  backend,
		store:    store,
		notifier: notifier,
		bus:      bus,
		log:      log.WithComponent("session-manager"),
		state:    model.State{Token: token, Loading: true},
	}, nil
}

// State returns a snapshot of the current session.
func (m *Manager) State() model.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Events exposes the bus carrying session lifecycle events.
func (m *Manager) Events() *eventbus.EventBus {
	return m.bus
}

// ResolveSession exchanges the current token for a user profile. With no
// token present it settles immediately without a network call. On any
// resolution failure the token is erased from storage and memory together,
// before any observer can see the settled state.
func (m *Manager) ResolveSession(ctx context.Context) {
	m.mu.Lock()
	m.resolveSeq++
	seq := m.resolveSeq
	token := m.state.Token
	m.state.Loading = true
	m.mu.Unlock()

	m.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(eventbus.EventTypeSessionResolving, token, "session-manager"))

	if token == "" {
		m.settleResolution(ctx, seq, nil, nil)
		return
	}

	user, err := m.backend.Me(ctx, token)
	m.settleResolution(ctx, seq, user, err)
}

// settleResolution applies the outcome of one resolution attempt, unless a
// newer attempt has superseded it. A superseded attempt must not touch
// Loading either; the newer attempt owns it.
func (m *Manager) settleResolution(ctx context.Context, seq uint64, user *model.User, err error) {
	m.mu.Lock()
	if seq != m.resolveSeq {
		m.mu.Unlock()
		m.log.Debug("Discarding superseded session resolution")
		return
	}

	cleared := false
	switch {
	case err != nil:
		if clearErr := m.store.Clear(); clearErr != nil {
			m.log.Warnf("Failed to clear persisted token: %v", clearErr)
		}
		m.state.Token = ""
		m.state.User = nil
		cleared = true
	default:
		m.state.User = user
	}
	m.state.Loading = false
	state := m.state
	m.mu.Unlock()

	if err != nil {
		m.log.Infof("Session resolution failed, session cleared: %v", err)
	}

	eventType := eventbus.EventTypeSessionResolved
	if cleared {
		eventType = eventbus.EventTypeSessionCleared
	}
	m.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(eventType, state, "session-manager"))
}

// Login exchanges credentials for a token and sets the session synchronously
// from the login response, with no extra round trip. A background resolution
// follows the token change to pick up the full profile.
func (m *Manager) Login(ctx context.Context, email, password string) bool {
	creds, err := m.backend.Login(ctx, email, password)
	if err != nil {
		msg := client.Detail(err, "Invalid credentials. Please try again")
		m.log.Warnf("Login failed for %s: %v", email, err)
		m.notifier.Notify(client.NoteError, "Login Failed", msg)
		return false
	}

	user := userFromCredentials(creds)

	if err := m.store.Save(creds.AccessToken); err != nil {
		m.log.Warnf("Failed to persist token: %v", err)
	}

	m.mu.Lock()
	m.resolveSeq++ // invalidate any in-flight resolution of the old token
	m.state.Token = creds.AccessToken
	m.state.User = user
	m.mu.Unlock()

	m.notifier.Notify(client.NoteSuccess, "Success", "Logged in successfully!")
	m.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(eventbus.EventTypeUserLoggedIn, user, "session-manager"))

	m.refreshAsync()
	return true
}

// Register creates an account and, like Login, sets the session synchronously
// from the response, folding the optional form details into the user.
func (m *Manager) Register(ctx context.Context, email, password, subscriptionPlan string, details *model.UserDetails) bool {
	req := client.RegisterRequest{
		Email:            email,
		Password:         password,
		SubscriptionPlan: subscriptionPlan,
	}
	if details != nil {
		req.FirstName = details.FirstName
		req.LastName = details.LastName
		req.CompanyName = details.CompanyName
	}

	creds, err := m.backend.Register(ctx, req)
	if err != nil {
		m.log.Warnf("Registration failed for %s: %v", email, err)
		if client.IsStatus(err, 409) {
			m.notifier.Notify(client.NoteError, "Registration Failed",
				"Email already registered. Please use a different email or try logging in.")
		} else {
			m.notifier.Notify(client.NoteError, "Registration Failed",
				client.Detail(err, "Registration failed. Please try again."))
		}
		return false
	}

	user := userFromCredentials(creds)
	if details != nil {
		user.FirstName = details.FirstName
		user.LastName = details.LastName
		user.CompanyName = details.CompanyName
	}

	if err := m.store.Save(creds.AccessToken); err != nil {
		m.log.Warnf("Failed to persist token: %v", err)
	}

	m.mu.Lock()
	m.resolveSeq++
	m.state.Token = creds.AccessToken
	m.state.User = user
	m.mu.Unlock()

	m.notifier.Notify(client.NoteSuccess, "Success", "Account created successfully!")
	m.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(eventbus.EventTypeUserLoggedIn, user, "session-manager"))

	m.refreshAsync()
	return true
}

// Logout synchronously clears the persisted token and the in-memory session.
// It always succeeds, never contacts the backend, and is idempotent.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.store.Clear(); err != nil {
		m.log.Warnf("Failed to clear persisted token: %v", err)
	}

	m.mu.Lock()
	m.resolveSeq++ // a token change; in-flight resolutions are now stale
	m.state.Token = ""
	m.state.User = nil
	m.state.Loading = false
	m.mu.Unlock()

	m.notifier.Notify(client.NoteInfo, "Logged out", "You have been logged out successfully.")
	m.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(eventbus.EventTypeUserLoggedOut, nil, "session-manager"))
}

// UpdateProfile sends partial fields to the backend and shallow-merges the
// response into the current user; response fields win over existing ones.
func (m *Manager) UpdateProfile(ctx context.Context, patch model.ProfilePatch) bool {
	m.mu.Lock()
	token := m.state.Token
	m.mu.Unlock()

	fields, err := m.backend.UpdateProfile(ctx, token, patch)
	if err != nil {
		m.log.Warnf("Profile update failed: %v", err)
		m.notifier.Notify(client.NoteError, "Update Failed", client.Detail(err, "Failed to update profile"))
		return false
	}

	m.mu.Lock()
	if m.state.User != nil {
		merged := model.MergeWire(*m.state.User, fields)
		m.state.User = &merged
	}
	user := m.state.User
	m.mu.Unlock()

	m.notifier.Notify(client.NoteSuccess, "Profile Updated", "Your profile has been updated successfully.")
	m.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(eventbus.EventTypeProfileUpdated, user, "session-manager"))
	return true
}

// VerifyToken opportunistically re-checks the current token against the
// backend without toggling Loading. On failure the session is cleared
// immediately, same as a failed resolution.
func (m *Manager) VerifyToken(ctx context.Context) bool {
	m.mu.Lock()
	token := m.state.Token
	m.mu.Unlock()

	if token == "" {
		return false
	}

	if _, err := m.backend.Me(ctx, token); err != nil {
		m.log.Infof("Token verification failed, clearing session: %v", err)
		if clearErr := m.store.Clear(); clearErr != nil {
			m.log.Warnf("Failed to clear persisted token: %v", clearErr)
		}
		m.mu.Lock()
		m.resolveSeq++
		m.state.Token = ""
		m.state.User = nil
		// The bump above strands any in-flight resolution, and a discarded
		// resolution never touches Loading; the cleared session is final, so
		// settle it here.
		m.state.Loading = false
		m.mu.Unlock()
		m.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(eventbus.EventTypeSessionCleared, nil, "session-manager"))
		return false
	}
	return true
}

// HandleOAuthCallback exchanges an authorization code for a token and user
// profile, tagging the user with the provider that authenticated them.
func (m *Manager) HandleOAuthCallback(ctx context.Context, provider, code, state string) bool {
	creds, err := m.backend.OAuthCallback(ctx, provider, code, state)
	if err != nil {
		m.log.Warnf("OAuth callback failed for %s: %v", provider, err)
		m.notifier.Notify(client.NoteError, "Authentication Failed",
			client.Detail(err, fmt.Sprintf("Failed to authenticate with %s", provider)))
		return false
	}
	if creds.AccessToken == "" || creds.User == nil {
		m.log.Warnf("OAuth callback for %s returned incomplete credentials", provider)
		return false
	}

	user := *creds.User
	user.OAuthProvider = provider

	if err := m.store.Save(creds.AccessToken); err != nil {
		m.log.Warnf("Failed to persist token: %v", err)
	}

	m.mu.Lock()
	m.resolveSeq++
	m.state.Token = creds.AccessToken
	m.state.User = &user
	m.mu.Unlock()

	m.notifier.Notify(client.NoteSuccess, "Success", fmt.Sprintf("Logged in with %s successfully!", provider))
	m.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(eventbus.EventTypeUserLoggedIn, &user, "session-manager"))

	m.refreshAsync()
	return true
}

// refreshAsync re-resolves the session after a token change, mirroring the
// token-keyed initialization of ResolveSession. It runs detached because the
// synchronous state set above is already authoritative for the caller.
func (m *Manager) refreshAsync() {
	go m.ResolveSession(context.Background())
}

func userFromCredentials(creds *client.Credentials) *model.User {
	return &model.User{
		ID:                  creds.UserID,
		Email:               creds.Email,
		Role:                creds.Role,
		SubscriptionPlan:    creds.SubscriptionPlan,
		SubscriptionEndDate: creds.SubscriptionEndDate,
		IsActive:            true,
	}
}
