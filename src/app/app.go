// Package app wires configuration, logging, the chat service client, and the
// session together for the CLI commands.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/tradewind/stockchat/src/chatapi"
	"github.com/tradewind/stockchat/src/chatsession"
	"github.com/tradewind/stockchat/src/config"
)

// App holds the initialized services for one CLI invocation.
type App struct {
	Client  *chatapi.Client
	Session *chatsession.Session
	Config  *config.Config
	Logger  *slog.Logger
}

// Options override config-file values from CLI flags.
type Options struct {
	ConfigPath string
	BaseURL    string
	Token      string
	Logger     *slog.Logger
}

// New loads configuration, applies flag overrides, and builds the client and
// session.
func New(opts Options) (*App, error) {
	cfg, err := config.NewLoader().Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.BaseURL != "" {
		cfg.API.BaseURL = opts.BaseURL
	}
	if opts.Token != "" {
		cfg.API.Token = opts.Token
	}
	if cfg.API.Token == "" {
		return nil, fmt.Errorf("no API token configured: set %sTOKEN or api.token in %s", config.EnvPrefix, config.UserConfigPath())
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := chatapi.NewClient(chatapi.Config{
		BaseURL:    cfg.API.BaseURL,
		Token:      cfg.API.Token,
		RetryCount: cfg.API.RetryCount,
		RetryDelay: time.Duration(cfg.API.RetryDelaySeconds) * time.Second,
		Logger:     logger,
	})

	return &App{
		Client:  client,
		Session: chatsession.NewSession(client, logger),
		Config:  cfg,
		Logger:  logger,
	}, nil
}

// StreamTimeout returns the configured per-exchange timeout, or 0 when
// disabled.
func (a *App) StreamTimeout() time.Duration {
	return time.Duration(a.Config.API.StreamTimeoutSeconds) * time.Second
}
