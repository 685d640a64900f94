package repository

import (
	"context"

	"corpsuite/internal/auth/domain/model"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService defines the interface for token operations
type TokenService interface {
	GenerateToken(ctx context.Context, user *model.User) (string, error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents JWT claims
type Claims struct {
	UserID           string `json:"user_id"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	SubscriptionPlan string `json:"plan,omitempty"`
	jwt.RegisteredClaims
}

// HasRole reports whether the claims carry the given role. Admins pass
// every role check.
func (c *Claims) HasRole(role string) bool {
	return c.Role == role || c.Role == "admin"
}
