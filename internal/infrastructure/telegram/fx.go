package telegram

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/royak47/autofor/config"
	"github.com/royak47/autofor/internal/domain"
	"github.com/royak47/autofor/internal/infrastructure/metrics"
)

// Module provides the Telegram gateway for fx DI
var Module = fx.Module("telegram",
	fx.Provide(NewGatewayFx),
)

// NewGatewayFx creates the gateway shared by login and forwarding connections
func NewGatewayFx(
	cfg *config.TelegramConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) domain.Gateway {
	return NewGateway(cfg, m, logger)
}
