package telegram

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/royak47/autofor/config"
	"github.com/royak47/autofor/internal/domain"
	"github.com/royak47/autofor/internal/infrastructure/metrics"
)

// Gateway implements domain.Gateway using the gotd MTProto client
type Gateway struct {
	cfg     *config.TelegramConfig
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewGateway creates a new Telegram gateway
func NewGateway(cfg *config.TelegramConfig, m *metrics.Metrics, logger zerolog.Logger) *Gateway {
	return &Gateway{
		cfg:     cfg,
		metrics: m,
		logger:  logger.With().Str("component", "telegram_gateway").Logger(),
	}
}

// Open dials Telegram and returns a usable connection.
// The dial is bounded by the configured timeout; the connection itself is not.
func (g *Gateway) Open(ctx context.Context, storage domain.SessionStorage, opts domain.OpenOptions) (domain.Connection, error) {
	if storage == nil {
		return nil, fmt.Errorf("session storage is required")
	}

	if g.cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.DialTimeout)
		defer cancel()
	}

	conn := newConnection(g, storage, opts)
	if err := conn.start(ctx); err != nil {
		g.logger.Warn().Err(err).Str("connection", opts.Label).Msg("failed to open connection")
		return nil, err
	}

	return conn, nil
}

var _ domain.Gateway = (*Gateway)(nil)
