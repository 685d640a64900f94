package http

import (
	"errors"

	"corpsuite/internal/auth/domain/model"
	"corpsuite/internal/auth/usecase"
	"corpsuite/internal/shared/contextkeys"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// AuthHTTPHandler handles HTTP requests for authentication. Error bodies
// use {"detail": ...}, which is what the clients parse.
type AuthHTTPHandler struct {
	usecase usecase.AuthUsecaseInterface
}

// NewAuthHTTPHandler creates a new authentication HTTP handler
func NewAuthHTTPHandler(uc usecase.AuthUsecaseInterface) *AuthHTTPHandler {
	return &AuthHTTPHandler{usecase: uc}
}

// tokenResponse is the credentials payload returned by register, login
// and the token side of the oauth callback.
type tokenResponse struct {
	AccessToken         string `json:"access_token"`
	TokenType           string `json:"token_type"`
	UserID              string `json:"user_id"`
	Email               string `json:"email"`
	Role                string `json:"role"`
	SubscriptionPlan    string `json:"subscription_plan,omitempty"`
	SubscriptionEndDate string `json:"subscription_end_date,omitempty"`
}

func newTokenResponse(user *model.User, token string) tokenResponse {
	return tokenResponse{
		AccessToken:         token,
		TokenType:           "bearer",
		UserID:              user.ID,
		Email:               user.Email,
		Role:                user.Role,
		SubscriptionPlan:    user.SubscriptionPlan,
		SubscriptionEndDate: user.SubscriptionEndDate,
	}
}

func detail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"detail": message})
}

// SetupAuthRoutesWithMiddleware sets up authentication routes with middleware
func (h *AuthHTTPHandler) SetupAuthRoutesWithMiddleware(router fiber.Router, middleware *AuthMiddleware) {
	router.Post("/register", h.Register)
	router.Post("/login", h.Login)
	router.Get("/oauth/:provider/start", h.StartOAuth)
	router.Post("/oauth/callback", h.OAuthCallback)

	protected := router.Group("/", middleware.Protect())
	protected.Get("/me", h.GetCurrentUser)
	protected.Put("/profile", h.UpdateProfile)
}

// Register handles user registration
func (h *AuthHTTPHandler) Register(c *fiber.Ctx) error {
	var req usecase.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	user, token, err := h.usecase.Register(c.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmailTaken):
			return detail(c, fiber.StatusConflict, "Email already registered")
		case errors.Is(err, usecase.ErrInvalidEmailFormat),
			errors.Is(err, usecase.ErrPasswordMismatch):
			return detail(c, fiber.StatusBadRequest, err.Error())
		default:
			return detail(c, fiber.StatusBadRequest, err.Error())
		}
	}

	return c.Status(fiber.StatusCreated).JSON(newTokenResponse(user, token))
}

// Login handles user login
func (h *AuthHTTPHandler) Login(c *fiber.Ctx) error {
	var req usecase.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	user, token, err := h.usecase.Login(c.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials):
			return detail(c, fiber.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, usecase.ErrAccountInactive):
			return detail(c, fiber.StatusUnauthorized, "Account is inactive")
		case errors.Is(err, usecase.ErrInvalidEmailFormat):
			return detail(c, fiber.StatusBadRequest, err.Error())
		default:
			return detail(c, fiber.StatusInternalServerError, "An unexpected error occurred")
		}
	}

	return c.JSON(newTokenResponse(user, token))
}

// GetCurrentUser returns the authenticated user's profile.
func (h *AuthHTTPHandler) GetCurrentUser(c *fiber.Ctx) error {
	token, _ := extractToken(c)
	user, err := h.usecase.GetUserFromToken(c.Context(), token)
	if err != nil {
		return detail(c, fiber.StatusUnauthorized, "Could not validate credentials")
	}
	return c.JSON(user)
}

// UpdateProfile applies a partial profile update for the authenticated user.
func (h *AuthHTTPHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := c.UserContext().Value(contextkeys.UserIDKey).(string)
	if !ok || userID == "" {
		return detail(c, fiber.StatusUnauthorized, "Could not validate credentials")
	}

	var patch model.ProfileUpdate
	if err := c.BodyParser(&patch); err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := h.usecase.UpdateProfile(c.Context(), userID, patch)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			return detail(c, fiber.StatusNotFound, "User not found")
		}
		return detail(c, fiber.StatusInternalServerError, "Failed to update profile")
	}

	return c.JSON(user)
}

// StartOAuth issues a CSRF state token for the provider flow.
func (h *AuthHTTPHandler) StartOAuth(c *fiber.Ctx) error {
	// Params strings alias fiber's reusable request buffer; the state store
	// retains the provider past this handler, so it must be copied.
	provider := utils.CopyString(c.Params("provider"))
	if provider != "google" && provider != "github" {
		return detail(c, fiber.StatusBadRequest, "Unsupported OAuth provider")
	}

	state, err := h.usecase.IssueOAuthState(c.Context(), provider)
	if err != nil {
		return detail(c, fiber.StatusInternalServerError, "Failed to start OAuth flow")
	}

	return c.JSON(fiber.Map{"provider": provider, "state": state})
}

// OAuthCallback completes the provider flow and returns credentials
// together with the resolved user.
func (h *AuthHTTPHandler) OAuthCallback(c *fiber.Ctx) error {
	var req struct {
		Provider string `json:"provider"`
		Code     string `json:"code"`
		State    string `json:"state"`
	}
	if err := c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Provider == "" || req.Code == "" || req.State == "" {
		return detail(c, fiber.StatusBadRequest, "provider, code and state are required")
	}

	user, token, err := h.usecase.OAuthCallback(c.Context(), req.Provider, req.Code, req.State)
	if err != nil {
		if errors.Is(err, usecase.ErrOAuthStateInvalid) {
			return detail(c, fiber.StatusBadRequest, "OAuth state is invalid or expired")
		}
		return detail(c, fiber.StatusBadGateway, "Failed to authenticate with provider")
	}

	return c.JSON(fiber.Map{
		"access_token": token,
		"user_data":    user,
	})
}
