package app

import (
	"context"

	"go.uber.org/fx"

	"github.com/royak47/autofor/config"
	"github.com/royak47/autofor/internal/domain/account"
	"github.com/royak47/autofor/internal/domain/auth"
	"github.com/royak47/autofor/internal/domain/forwarding"
	"github.com/royak47/autofor/internal/domain/rule"
	"github.com/royak47/autofor/internal/infrastructure"
)

// CreateApp creates the fx application options
func CreateApp() fx.Option {
	return fx.Options(
		fx.Provide(
			config.Out,
			context.Background,
		),
		infrastructure.Module,
		// Domain modules
		account.Module,
		rule.Module,
		auth.Module,
		forwarding.Module, // Provides the ConnectionCounter used by the account health check
	)
}
