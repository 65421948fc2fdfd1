package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/royak47/autofor/internal/domain"
	"github.com/royak47/autofor/internal/infrastructure/metrics"
)

const (
	// unhealthyErrorThreshold is the number of consecutive send errors after which the producer reports unhealthy
	unhealthyErrorThreshold = 100

	defaultCloseTimeout = 10 * time.Second
)

// ForwardEventProducer publishes forward events to Kafka with an async producer
type ForwardEventProducer struct {
	producer sarama.AsyncProducer
	topic    string
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error

	mu                sync.Mutex
	closed            bool
	consecutiveErrors int
}

// ProducerConfig holds configuration for the Kafka producer
type ProducerConfig struct {
	Brokers    []string
	Topic      string
	MaxRetries int
	Metrics    *metrics.Metrics
	Logger     zerolog.Logger
}

// NewForwardEventProducer creates an async producer keyed by account id,
// so events of one account stay ordered within a partition.
func NewForwardEventProducer(cfg ProducerConfig) (*ForwardEventProducer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers specified")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}

	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Retry.Max = cfg.MaxRetries
	config.Producer.Partitioner = sarama.NewHashPartitioner
	config.ClientID = "autofor-producer"
	config.Version = sarama.V2_6_0_0

	producer, err := sarama.NewAsyncProducer(cfg.Brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	p := newForwardEventProducer(producer, cfg.Topic, cfg.Metrics, cfg.Logger)

	cfg.Logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Msg("Kafka producer initialized successfully")

	return p, nil
}

func newForwardEventProducer(
	producer sarama.AsyncProducer,
	topic string,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *ForwardEventProducer {
	p := &ForwardEventProducer{
		producer: producer,
		topic:    topic,
		metrics:  m,
		logger:   logger.With().Str("component", "kafka_producer").Logger(),
	}

	p.wg.Add(2)
	go p.handleSuccesses()
	go p.handleErrors()

	return p
}

// PublishForwardEvent queues event for delivery
func (p *ForwardEventProducer) PublishForwardEvent(ctx context.Context, event domain.ForwardEvent) error {
	if event.AccountID == "" {
		return fmt.Errorf("account_id is required")
	}

	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return fmt.Errorf("kafka producer is closed")
	}

	value, err := json.Marshal(newForwardEventMessage(event))
	if err != nil {
		return fmt.Errorf("failed to marshal forward event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.AccountID),
		Value:     sarama.ByteEncoder(value),
		Timestamp: event.At,
	}

	select {
	case p.producer.Input() <- msg:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context cancelled while sending message: %w", ctx.Err())
	}
}

func (p *ForwardEventProducer) handleSuccesses() {
	defer p.wg.Done()

	for msg := range p.producer.Successes() {
		p.mu.Lock()
		p.consecutiveErrors = 0
		p.mu.Unlock()

		p.recordSuccess()
		p.logger.Debug().
			Str("topic", msg.Topic).
			Int32("partition", msg.Partition).
			Int64("offset", msg.Offset).
			Msg("Forward event sent to Kafka")
	}
}

func (p *ForwardEventProducer) handleErrors() {
	defer p.wg.Done()

	for producerErr := range p.producer.Errors() {
		p.mu.Lock()
		p.consecutiveErrors++
		p.mu.Unlock()

		p.recordError("send_failed")
		p.logger.Error().
			Err(producerErr.Err).
			Str("topic", producerErr.Msg.Topic).
			Msg("Failed to send forward event to Kafka")
	}
}

func (p *ForwardEventProducer) recordSuccess() {
	if p.metrics != nil {
		p.metrics.RecordKafkaMessage()
	}
}

func (p *ForwardEventProducer) recordError(errorType string) {
	if p.metrics != nil {
		p.metrics.RecordKafkaError(errorType)
	}
}

// IsHealthy reports whether the producer is open and delivering
func (p *ForwardEventProducer) IsHealthy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.closed && p.consecutiveErrors < unhealthyErrorThreshold
}

// Close flushes pending messages and stops the producer
func (p *ForwardEventProducer) Close() error {
	return p.CloseWithTimeout(defaultCloseTimeout)
}

// CloseWithTimeout is Close with a custom bound on the wait for pending messages
func (p *ForwardEventProducer) CloseWithTimeout(timeout time.Duration) error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()

		p.logger.Info().Dur("timeout", timeout).Msg("Closing Kafka producer")

		// AsyncClose drains Successes and Errors, so the handlers can finish
		p.producer.AsyncClose()

		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			p.logger.Info().Msg("Kafka producer closed successfully")
		case <-time.After(timeout):
			p.closeErr = fmt.Errorf("close timeout after %s: pending messages were not flushed", timeout)
			p.logger.Error().Err(p.closeErr).Msg("Kafka producer closed with errors")
		}
	})

	return p.closeErr
}

// NoopPublisher discards forward events. It is used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishForwardEvent(context.Context, domain.ForwardEvent) error { return nil }
func (NoopPublisher) IsHealthy() bool { return true }
func (NoopPublisher) Close() error { return nil }

var (
	_ domain.ForwardEventPublisher = (*ForwardEventProducer)(nil)
	_ domain.ForwardEventPublisher = NoopPublisher{}
)
