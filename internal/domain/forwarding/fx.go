package forwarding

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/royak47/autofor/config"
	"github.com/royak47/autofor/internal/domain"
	accountdeps "github.com/royak47/autofor/internal/domain/account/deps"
	fwdhttp "github.com/royak47/autofor/internal/domain/forwarding/delivery/http"
	"github.com/royak47/autofor/internal/domain/forwarding/deps"
	"github.com/royak47/autofor/internal/domain/forwarding/usecase/business"
	ruledeps "github.com/royak47/autofor/internal/domain/rule/deps"
	"github.com/royak47/autofor/internal/infrastructure/http/server"
	"github.com/royak47/autofor/internal/infrastructure/metrics"
	pkgerrors "github.com/royak47/autofor/pkg/errors"
)

// Module provides forwarding domain components for fx DI
var Module = fx.Module("forwarding",
	fx.Provide(NewRegistryFx),
	fx.Provide(NewConnectionRegistryFx),
	fx.Provide(NewConnectionCounterFx),
	fx.Provide(NewForwardingUseCaseFx),
	fx.Provide(NewForwardingHandlerFx),
	fx.Provide(fwdhttp.NewRouter),
	fx.Invoke(RegisterRoutes),
)

// RegistryParams holds dependencies for the connection registry
type RegistryParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Gateway   domain.Gateway
	Accounts  accountdeps.AccountRepository
	Rules     ruledeps.RuleRepository
	Publisher domain.ForwardEventPublisher
	Config    *config.ForwardingConfig
	Metrics   *metrics.Metrics
	Logger    zerolog.Logger
}

// NewRegistryFx creates the connection registry and disconnects every account on stop.
// The hook is appended after the database and Kafka hooks, so fx runs it before them.
func NewRegistryFx(p RegistryParams) *business.Registry {
	registry := business.NewRegistry(p.Gateway, p.Accounts, p.Rules, p.Publisher, business.RegistryConfig{
		BufferSize:        p.Config.BufferSize,
		DisconnectTimeout: p.Config.DisconnectTimeout,
		SendTimeout:       p.Config.SendTimeout,
	}, p.Metrics, p.Logger)

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			closed := registry.ShutdownAll(ctx)
			p.Logger.Info().Int("closed", closed).Msg("Forwarding connections shut down")
			return nil
		},
	})

	return registry
}

// NewConnectionRegistryFx exposes the registry to the use case
func NewConnectionRegistryFx(r *business.Registry) deps.ConnectionRegistry {
	return r
}

// NewConnectionCounterFx exposes the registry to the health check
func NewConnectionCounterFx(r *business.Registry) accountdeps.ConnectionCounter {
	return r
}

// NewForwardingUseCaseFx creates the forwarding use case for fx DI
func NewForwardingUseCaseFx(
	accounts accountdeps.AccountRepository,
	rules ruledeps.RuleRepository,
	registry deps.ConnectionRegistry,
	logger zerolog.Logger,
) deps.ForwardingService {
	return business.NewUseCase(accounts, rules, registry, logger)
}

// NewForwardingHandlerFx creates a forwarding handler for fx DI
func NewForwardingHandlerFx(service deps.ForwardingService, mapper *pkgerrors.Mapper, logger zerolog.Logger) *fwdhttp.ForwardingHandler {
	return fwdhttp.NewForwardingHandler(service, mapper, logger)
}

// RegisterRoutes registers forwarding routes on the server
func RegisterRoutes(server *server.Server, router *fwdhttp.Router) {
	router.RegisterRoutes(server.API)
}
