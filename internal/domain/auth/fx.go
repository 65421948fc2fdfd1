package auth

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/royak47/autofor/config"
	"github.com/royak47/autofor/internal/domain"
	accountdeps "github.com/royak47/autofor/internal/domain/account/deps"
	authhttp "github.com/royak47/autofor/internal/domain/auth/delivery/http"
	"github.com/royak47/autofor/internal/domain/auth/deps"
	redisrepo "github.com/royak47/autofor/internal/domain/auth/repository/redis"
	"github.com/royak47/autofor/internal/domain/auth/usecase/business"
	"github.com/royak47/autofor/internal/infrastructure/http/server"
	"github.com/royak47/autofor/internal/infrastructure/metrics"
	pkgerrors "github.com/royak47/autofor/pkg/errors"
)

// Module provides auth domain components for fx DI
var Module = fx.Module("auth",
	fx.Provide(NewCounterStoreFx),
	fx.Provide(NewLimiterFx),
	fx.Provide(NewSessionManagerFx),
	fx.Provide(NewAuthServiceFx),
	fx.Provide(NewAuthHandlerFx),
	fx.Provide(authhttp.NewRouter),
	fx.Invoke(RegisterRoutes),
)

// NewCounterStoreFx creates the Redis-backed challenge counter for fx DI
func NewCounterStoreFx(client *redis.Client) deps.CounterStore {
	return redisrepo.NewCounterStore(client)
}

// NewLimiterFx creates the challenge limiter for fx DI
func NewLimiterFx(
	store deps.CounterStore,
	cfg *config.AuthConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *business.Limiter {
	return business.NewLimiter(store, cfg.OTPLimit, cfg.OTPWindow, m, logger)
}

// SessionManagerParams holds dependencies for the session manager
type SessionManagerParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Gateway   domain.Gateway
	Accounts  accountdeps.AccountRepository
	Limiter   *business.Limiter
	Config    *config.AuthConfig
	Metrics   *metrics.Metrics
	Logger    zerolog.Logger
}

// NewSessionManagerFx creates the session manager and ties its sweeper to the app lifecycle
func NewSessionManagerFx(p SessionManagerParams) *business.SessionManager {
	manager := business.NewSessionManager(p.Gateway, p.Accounts, p.Limiter, business.SessionManagerConfig{
		PendingTTL:      p.Config.PendingTTL,
		CleanupInterval: p.Config.CleanupInterval,
	}, p.Metrics, p.Logger)

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			manager.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Logger.Info().Msg("Stopping login session manager")
			return manager.Stop(ctx)
		},
	})

	return manager
}

// NewAuthServiceFx exposes the session manager as the auth service
func NewAuthServiceFx(manager *business.SessionManager) deps.AuthService {
	return manager
}

// NewAuthHandlerFx creates an auth handler for fx DI
func NewAuthHandlerFx(service deps.AuthService, mapper *pkgerrors.Mapper, logger zerolog.Logger) *authhttp.AuthHandler {
	return authhttp.NewAuthHandler(service, mapper, logger)
}

// RegisterRoutes registers auth routes on the server
func RegisterRoutes(server *server.Server, router *authhttp.Router) {
	router.RegisterRoutes(server.API)
}
