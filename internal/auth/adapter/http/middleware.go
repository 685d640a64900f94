package http

import (
	"context"
	"strings"
	"time"

	"corpsuite/internal/access"
	"corpsuite/internal/auth/usecase"
	"corpsuite/internal/shared/contextkeys"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// AuthMiddleware provides authentication middleware for Fiber
type AuthMiddleware struct {
	usecase usecase.AuthUsecaseInterface
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(uc usecase.AuthUsecaseInterface) *AuthMiddleware {
	return &AuthMiddleware{usecase: uc}
}

// CORS middleware for browser clients
func (m *AuthMiddleware) CORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000,http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400,
	})
}

// RateLimiter creates rate limiting middleware for auth endpoints
func (m *AuthMiddleware) RateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.Get("X-Forwarded-For", c.IP())
		},
		LimitReached: func(c *fiber.Ctx) error {
			return detail(c, fiber.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
		},
	})
}

// RequestID middleware
func (m *AuthMiddleware) RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     "X-Request-ID",
		ContextKey: string(contextkeys.RequestIDKey),
	})
}

// Protect returns middleware that requires a valid bearer token and
// injects the caller's identity into the request context.
func (m *AuthMiddleware) Protect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := extractToken(c)
		if err != nil {
			return detail(c, fiber.StatusUnauthorized, "Could not validate credentials")
		}

		claims, err := m.usecase.ValidateToken(c.Context(), token)
		if err != nil {
			return detail(c, fiber.StatusUnauthorized, "Could not validate credentials")
		}

		ctx := c.UserContext()
		ctx = context.WithValue(ctx, contextkeys.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, contextkeys.UserEmailKey, claims.Email)
		ctx = context.WithValue(ctx, contextkeys.RoleKey, claims.Role)
		if claims.SubscriptionPlan != "" {
			ctx = context.WithValue(ctx, contextkeys.SubscriptionPlanKey, claims.SubscriptionPlan)
		}
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// RequireRole returns middleware that requires a specific role. Admins
// pass every role check. Must run after Protect.
func (m *AuthMiddleware) RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		callerRole, _ := c.UserContext().Value(contextkeys.RoleKey).(string)
		if callerRole != role && callerRole != "admin" {
			return detail(c, fiber.StatusForbidden, "Insufficient permissions")
		}
		return c.Next()
	}
}

// RequirePlan returns middleware that gates a tool behind the caller's
// subscription plan. Must run after Protect.
func (m *AuthMiddleware) RequirePlan(tool string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		role, _ := ctx.Value(contextkeys.RoleKey).(string)
		plan, _ := ctx.Value(contextkeys.SubscriptionPlanKey).(string)

		if !access.HasToolAccess(role, plan, tool) {
			return detail(c, fiber.StatusForbidden, "This tool requires a higher subscription plan")
		}
		return c.Next()
	}
}

// extractToken extracts the bearer token from the Authorization header,
// falling back to the token query parameter for websocket upgrades.
func extractToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer "), nil
	}

	if token := c.Query("token"); token != "" {
		return token, nil
	}

	return "", fiber.NewError(fiber.StatusUnauthorized, "No authentication token found")
}
