package kafka

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/royak47/autofor/config"
	"github.com/royak47/autofor/internal/domain"
	"github.com/royak47/autofor/internal/infrastructure/metrics"
)

// Module provides the forward event publisher for fx DI
var Module = fx.Module("kafka",
	fx.Provide(NewForwardEventPublisherFx),
)

// NewForwardEventPublisherFx creates the Kafka publisher, or a no-op one when Kafka is disabled
func NewForwardEventPublisherFx(
	lc fx.Lifecycle,
	kafkaCfg *config.KafkaConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) (domain.ForwardEventPublisher, error) {
	if !kafkaCfg.Enabled {
		logger.Info().Msg("Kafka is disabled, forward events will not be published")
		return NoopPublisher{}, nil
	}

	producer, err := NewForwardEventProducer(ProducerConfig{
		Brokers: kafkaCfg.Brokers,
		Topic:   kafkaCfg.TopicForwardEvents,
		Metrics: m,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})

	return producer, nil
}
