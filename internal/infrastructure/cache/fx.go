package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/royak47/autofor/config"
)

// Module provides the Redis client for fx DI
var Module = fx.Module("cache",
	fx.Provide(NewRedisClientFx),
)

// NewRedisClientFx creates the Redis client and closes it on stop
func NewRedisClientFx(
	lc fx.Lifecycle,
	cfg *config.RedisConfig,
	logger zerolog.Logger,
) (*redis.Client, error) {
	client, err := NewRedisClient(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("addr", cfg.Addr).Msg("Redis connection established")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Closing Redis connection")
			return client.Close()
		},
	})

	return client, nil
}
