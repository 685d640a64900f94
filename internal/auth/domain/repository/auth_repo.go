package repository

import (
	"context"

	"corpsuite/internal/auth/domain/model"
)

// AuthRepository defines the interface for account persistence.
type AuthRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByOAuth(ctx context.Context, provider, subjectID string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
}

// OAuthStateStore holds short-lived CSRF state tokens issued before
// redirecting to a provider. Consume is single-use: it returns the
// provider the state was issued for and deletes it.
type OAuthStateStore interface {
	Save(ctx context.Context, state, provider string) error
	Consume(ctx context.Context, state string) (string, error)
}

// ProviderExchanger swaps an authorization code for the provider's view
// of the user.
type ProviderExchanger interface {
	Exchange(ctx context.Context, provider, code string) (*model.OAuthProfile, error)
}
