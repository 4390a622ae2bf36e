// Package cli wires configuration into a live SDK instance and owns the
// terminal-facing helpers the commands share.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tripwell/tripkit/internal/config"
	"github.com/tripwell/tripkit/internal/metrics"
	"github.com/tripwell/tripkit/pkg/adapters/file"
	"github.com/tripwell/tripkit/pkg/adapters/memory"
	"github.com/tripwell/tripkit/pkg/adapters/redis"
	"github.com/tripwell/tripkit/pkg/api"
	"github.com/tripwell/tripkit/pkg/ports"
	"github.com/tripwell/tripkit/pkg/session"
)

// App bundles the collaborators every command needs.
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Client  *api.Client
	Session session.Session
}

// NewApp builds the store, the API client and the session manager from a
// resolved configuration. Commands call Hydrate themselves so that the
// startup cost lands only on commands that need a session.
func NewApp(cfg config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := buildStore(cfg)
	if err != nil {
		return nil, err
	}

	client := api.New(cfg.BaseURL,
		api.WithTimeout(cfg.Timeout),
		api.WithLogger(logger),
		api.WithMetrics(metrics.NewRecorder(prometheus.DefaultRegisterer)),
	)

	mgr, err := session.NewManager(store, client, session.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		Client:  client,
		Session: mgr,
	}, nil
}

func buildStore(cfg config.Config) (ports.CredentialStore, error) {
	switch cfg.Store {
	case "memory":
		return memory.NewStore(), nil
	case "redis":
		store := redis.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		return store, nil
	case "file":
		dir := cfg.Dir
		if dir == "" {
			base, err := os.UserConfigDir()
			if err != nil {
				return nil, fmt.Errorf("resolving user config dir: %w", err)
			}
			dir = filepath.Join(base, "tripkit")
		}
		opts := []file.Option{}
		if cfg.EncryptionKeyFile != "" {
			opts = append(opts, file.WithEncryptionKeyFile(cfg.EncryptionKeyFile))
		}
		store, err := file.New(dir, opts...)
		if err != nil {
			return nil, fmt.Errorf("initializing file store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
