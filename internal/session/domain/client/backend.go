package client

import (
	"context"
	"errors"
	"fmt"

	"corpsuite/internal/session/domain/model"
)

// Credentials is the payload of a successful login or registration exchange.
type Credentials struct {
	AccessToken         string
	UserID              string
	Email               string
	Role                string
	SubscriptionPlan    string
	SubscriptionEndDate string
}

// OAuthCredentials is the payload of a successful OAuth code exchange.
type OAuthCredentials struct {
	AccessToken string
	User        *model.User
}

// RegisterRequest carries the registration form fields. ConfirmPassword is
// always a duplicate of Password; equality validation is the form layer's
// job, not the backend client's.
type RegisterRequest struct {
	Email            string
	Password         string
	SubscriptionPlan string
	FirstName        string
	LastName         string
	CompanyName      string
}

// BackendClient is the port to the authentication backend. Implementations
// must return an *APIError for non-2xx responses so callers can distinguish
// status classes, and a plain error for transport failures.
type BackendClient interface {
	// Me resolves the current user for a bearer token ("who am I").
	Me(ctx context.Context, token string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*Credentials, error)
	Register(ctx context.Context, req RegisterRequest) (*Credentials, error)
	// UpdateProfile returns the raw response object so the caller can
	// shallow-merge partial fields into the current user.
	UpdateProfile(ctx context.Context, token string, patch model.ProfilePatch) (model.WireFields, error)
	OAuthCallback(ctx context.Context, provider, code, state string) (*OAuthCredentials, error)
}

// APIError is a non-2xx backend response. Detail carries the server-provided
// message when one was present in the body.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// Detail extracts the server-provided message from err, falling back to
// fallback when err is a transport failure or carried no detail.
func Detail(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
