// Package cli implements the corpctl command line client: session
// management against the backend plus access to the business tools.
package cli

import (
	"fmt"
	"io"
	"os"

	"corpsuite/internal/session/adapter/chat"
	"corpsuite/internal/session/adapter/rest"
	"corpsuite/internal/session/adapter/storage"
	"corpsuite/internal/session/adapter/toolsapi"
	"corpsuite/internal/session/config"
	"corpsuite/internal/session/guard"
	"corpsuite/internal/session/usecase"
	"corpsuite/internal/shared/logger"
)

// App bundles the client-side components the commands operate on.
type App struct {
	cfg     *config.Config
	store   *storage.BoltTokenStore
	manager *usecase.Manager
	guard   *guard.Guard
	tools   *toolsapi.Client
	chat    *chat.Streamer
	log     logger.Logger

	out io.Writer
}

// NewApp wires the client stack from environment configuration. The
// caller owns Close.
func NewApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.NewLoggerWithConfig(cfg.LogLevel, cfg.LogFormat)

	store, err := storage.OpenBolt(cfg.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}

	backend := rest.New(cfg.APIURL, rest.WithTimeout(cfg.RequestTimeout), rest.WithLogger(log))
	notifier := NewTerminalNotifier(os.Stderr)

	manager, err := usecase.NewManager(backend, store, notifier, nil, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	app := &App{
		cfg:     cfg,
		store:   store,
		manager: manager,
		guard:   guard.New(manager, store, log),
		log:     log,
		out:     os.Stdout,
	}

	app.tools = toolsapi.New(cfg.APIURL, app.token, toolsapi.WithTimeout(cfg.RequestTimeout))
	app.chat = chat.NewStreamer(cfg.APIURL)
	return app, nil
}

// Close releases the app's resources.
func (a *App) Close() error {
	return a.store.Close()
}

// token exposes the current session token to the tools client.
func (a *App) token() string {
	return a.manager.State().Token
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}
