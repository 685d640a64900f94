package di

import (
	"context"
	"fmt"
	"sync"

	"corpsuite/internal/auth"
	"corpsuite/internal/auth/config"
	"corpsuite/internal/shared/logger"
	"corpsuite/internal/tools"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Container wires the application modules with proper lifecycle management.
type Container struct {
	mu sync.RWMutex

	// Module instances
	AuthModule  *auth.Module
	ToolsModule *tools.Module

	// Backing connections
	MongoDB *mongo.Database
	Redis   *redis.Client

	// Configuration
	AuthConfig *config.Config

	// Loggers
	Logger    logger.Logger
	StreamLog *zap.Logger
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{}
}

// InitializeAuth initializes the authentication module.
func (c *Container) InitializeAuth(mongoDB *mongo.Database, redisClient *redis.Client, authConfig *config.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.MongoDB = mongoDB
	c.Redis = redisClient
	c.AuthConfig = authConfig

	authModule, err := auth.NewModule(mongoDB, redisClient, authConfig)
	if err != nil {
		return fmt.Errorf("failed to create auth module: %w", err)
	}

	c.AuthModule = authModule
	return nil
}

// InitializeTools initializes the business tools module. The auth
// module must be initialized first since the tool routes sit behind
// its middleware.
func (c *Container) InitializeTools() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.AuthModule == nil {
		return fmt.Errorf("auth module must be initialized before tools module")
	}
	if c.MongoDB == nil {
		return fmt.Errorf("MongoDB must be initialized before tools module")
	}

	if c.Logger == nil {
		c.Logger = logger.NewLogger()
	}
	if c.StreamLog == nil {
		streamLog, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("failed to create stream logger: %w", err)
		}
		c.StreamLog = streamLog
	}

	toolsModule, err := tools.NewModule(c.MongoDB, c.Logger, c.StreamLog)
	if err != nil {
		return fmt.Errorf("failed to create tools module: %w", err)
	}

	c.ToolsModule = toolsModule
	return nil
}

// GetAuthModule returns the auth module instance.
func (c *Container) GetAuthModule() *auth.Module {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AuthModule
}

// GetToolsModule returns the tools module instance.
func (c *Container) GetToolsModule() *tools.Module {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ToolsModule
}

// HealthCheck verifies the backing connections are reachable.
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.MongoDB != nil {
		if err := c.MongoDB.Client().Ping(ctx, nil); err != nil {
			return fmt.Errorf("MongoDB health check failed: %w", err)
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("Redis health check failed: %w", err)
		}
	}

	return nil
}

// Close releases the container's resources.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	c.ToolsModule = nil
	c.AuthModule = nil

	if c.StreamLog != nil {
		_ = c.StreamLog.Sync()
		c.StreamLog = nil
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis client: %w", err))
		}
		c.Redis = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}
	return nil
}
