// Package auth wires the authentication module: Mongo-backed accounts,
// JWT credentials, and the OAuth provider flow with Redis-held state.
package auth

import (
	"fmt"

	authhttp "corpsuite/internal/auth/adapter/http"
	"corpsuite/internal/auth/adapter/oauth"
	"corpsuite/internal/auth/adapter/persistence/mongodb"
	"corpsuite/internal/auth/adapter/persistence/redisstate"
	"corpsuite/internal/auth/adapter/security"
	"corpsuite/internal/auth/config"
	"corpsuite/internal/auth/domain/repository"
	"corpsuite/internal/auth/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Module represents the complete authentication module
type Module struct {
	repository repository.AuthRepository
	tokenSvc   repository.TokenService
	usecase    usecase.AuthUsecaseInterface
	handler    *authhttp.AuthHTTPHandler
	middleware *authhttp.AuthMiddleware
	config     *config.Config
}

// NewModule creates a new authentication module instance
func NewModule(db *mongo.Database, redisClient *redis.Client, cfg *config.Config) (*Module, error) {
	authRepo, err := mongodb.NewMongoAuthRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth repository: %w", err)
	}

	tokenSvc, err := security.NewJWTokenService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	stateStore := redisstate.NewStateStore(redisClient, cfg.OAuthStateTTL)
	exchanger := oauth.NewExchanger(cfg)

	authUsecase := usecase.NewAuthUsecase(authRepo, tokenSvc, stateStore, exchanger, cfg)
	handler := authhttp.NewAuthHTTPHandler(authUsecase)
	middleware := authhttp.NewAuthMiddleware(authUsecase)

	return &Module{
		repository: authRepo,
		tokenSvc:   tokenSvc,
		usecase:    authUsecase,
		handler:    handler,
		middleware: middleware,
		config:     cfg,
	}, nil
}

// RegisterRoutes registers authentication routes under the given router.
func (m *Module) RegisterRoutes(router fiber.Router) {
	m.handler.SetupAuthRoutesWithMiddleware(router, m.middleware)
}

// Usecase returns the auth usecase for other modules.
func (m *Module) Usecase() usecase.AuthUsecaseInterface {
	return m.usecase
}

// Middleware returns the auth middleware for other modules' routes.
func (m *Module) Middleware() *authhttp.AuthMiddleware {
	return m.middleware
}
