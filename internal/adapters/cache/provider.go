package cache

import (
	"log/slog"

	"github.com/trebuchet-org/dao-cli/internal/domain/config"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// ProvideReadCache returns a Redis cache when server.redis_url is set, otherwise an in-memory one
func ProvideReadCache(cfg *config.RuntimeConfig, log *slog.Logger) (usecase.ReadCache, error) {
	if cfg.DAOFile == nil || cfg.DAOFile.Server.RedisURL == "" {
		return NewMemoryCache(), nil
	}

	rc, err := NewRedisCache(cfg.DAOFile.Server.RedisURL)
	if err != nil {
		return nil, err
	}
	log.Debug("using redis read cache")
	return rc, nil
}
