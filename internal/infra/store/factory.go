package store

import (
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/tunedeck/tunedeck/internal/infra/config"
)

// NewFromConfig creates the storage backend selected by configuration.
func NewFromConfig(cfg *config.Config) (Storage, error) {
	switch cfg.Store.Backend {
	case "http":
		s, err := NewHTTPStore(HTTPConfig{
			BaseURL:    cfg.Store.HTTP.BaseURL,
			APIKey:     cfg.Store.HTTP.APIKey,
			Timeout:    time.Duration(cfg.Store.HTTP.TimeoutSec) * time.Second,
			MaxRetries: cfg.Store.HTTP.MaxRetries,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create http store")
		}
		zlog.Info().Msgf("using http store backend: base_url=%s", cfg.Store.HTTP.BaseURL)
		return s, nil

	case "sqlite":
		s, err := NewSQLiteStore(cfg.Store.SQLite.Path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create sqlite store")
		}
		zlog.Info().Msgf("using sqlite store backend: path=%s", cfg.Store.SQLite.Path)
		return s, nil

	default:
		return nil, errors.Newf("unsupported store backend: %s", cfg.Store.Backend)
	}
}
