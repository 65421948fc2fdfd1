package http

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/royak47/autofor/config"
	"github.com/royak47/autofor/internal/infrastructure/http/server"
	pkgerrors "github.com/royak47/autofor/pkg/errors"
)

// Module provides HTTP server and the shared error mapper for fx DI
var Module = fx.Module("http",
	fx.Provide(
		NewServerFx,
		NewMapperFx,
	),
)

// NewServerFx creates HTTP server with lifecycle hooks for fx DI
func NewServerFx(
	lc fx.Lifecycle,
	serviceCfg *config.ServiceConfig,
	logger zerolog.Logger,
) *server.Server {
	srv := server.NewServer(serviceCfg.Name, serviceCfg.Port, logger)

	srv.RegisterMetrics()

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return srv.Start()
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return srv
}

// NewMapperFx creates the error mapper used by every HTTP handler
func NewMapperFx(logger zerolog.Logger) *pkgerrors.Mapper {
	return pkgerrors.NewMapper(logger.With().Str("component", "error_mapper").Logger())
}
