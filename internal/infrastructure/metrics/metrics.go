package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the forwarding service
type Metrics struct {
	// Login metrics
	OTPRequests        *prometheus.CounterVec
	OTPRateLimited     prometheus.Counter
	LimiterStoreErrors prometheus.Counter
	Logins             *prometheus.CounterVec
	PendingLogins      prometheus.Gauge

	// Connection metrics
	ActiveConnections prometheus.Gauge
	ConnectionDrops   prometheus.Counter
	FloodWaits        prometheus.Counter

	// Forwarding metrics
	MessagesReceived prometheus.Counter
	Forwards         *prometheus.CounterVec
	ForwardDuration  prometheus.Histogram

	// Kafka metrics
	KafkaMessagesProduced prometheus.Counter
	KafkaProduceErrors    *prometheus.CounterVec
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics()
	})
	return DefaultMetrics
}

func init() {
	GetDefaultMetrics()
}

// NewMetrics creates a new Metrics instance registered with the default registry
func NewMetrics() *Metrics {
	return &Metrics{
		OTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autofor_otp_requests_total",
				Help: "Total number of login code requests by result",
			},
			[]string{"result"},
		),
		OTPRateLimited: promauto.NewCounter(prometheus.CounterOpts{
			Name: "autofor_otp_rate_limited_total",
			Help: "Total number of login code requests rejected by the rate limit",
		}),
		LimiterStoreErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "autofor_limiter_store_errors_total",
			Help: "Total number of rate limit checks that failed open because the store was unavailable",
		}),
		Logins: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autofor_logins_total",
				Help: "Total number of login completions by result",
			},
			[]string{"result"},
		),
		PendingLogins: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "autofor_pending_logins",
			Help: "Current number of logins waiting for a code or password",
		}),

		ActiveConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "autofor_active_connections",
			Help: "Current number of accounts with live forwarding",
		}),
		ConnectionDrops: promauto.NewCounter(prometheus.CounterOpts{
			Name: "autofor_connection_drops_total",
			Help: "Total number of Telegram connections that ended unexpectedly",
		}),
		FloodWaits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "autofor_flood_waits_total",
			Help: "Total number of FLOOD_WAIT answers from Telegram",
		}),

		MessagesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "autofor_messages_received_total",
			Help: "Total number of inbound messages seen by live connections",
		}),
		Forwards: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autofor_forwards_total",
				Help: "Total number of forward attempts by status",
			},
			[]string{"status"},
		),
		ForwardDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "autofor_forward_duration_seconds",
			Help:    "Duration of forward deliveries in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		KafkaMessagesProduced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "autofor_kafka_messages_produced_total",
			Help: "Total number of forward events produced to Kafka",
		}),
		KafkaProduceErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autofor_kafka_produce_errors_total",
				Help: "Total number of Kafka produce errors",
			},
			[]string{"error_type"},
		),
	}
}

// RecordOTPRequest records the result of a login code request
func (m *Metrics) RecordOTPRequest(result string) {
	m.OTPRequests.WithLabelValues(labelOrUnknown(result)).Inc()
}

// RecordOTPRateLimited records a request rejected by the rate limit
func (m *Metrics) RecordOTPRateLimited() {
	m.OTPRateLimited.Inc()
}

// RecordLimiterStoreError records a rate limit check that failed open
func (m *Metrics) RecordLimiterStoreError() {
	m.LimiterStoreErrors.Inc()
}

// RecordLogin records the result of a login completion
func (m *Metrics) RecordLogin(result string) {
	m.Logins.WithLabelValues(labelOrUnknown(result)).Inc()
}

// UpdatePendingLogins sets the pending logins gauge
func (m *Metrics) UpdatePendingLogins(count int) {
	m.PendingLogins.Set(float64(count))
}

// UpdateActiveConnections sets the active connections gauge
func (m *Metrics) UpdateActiveConnections(count int) {
	m.ActiveConnections.Set(float64(count))
}

// RecordConnectionDrop records a connection that ended without being closed
func (m *Metrics) RecordConnectionDrop() {
	m.ConnectionDrops.Inc()
}

// RecordFloodWait records a FLOOD_WAIT answer
func (m *Metrics) RecordFloodWait() {
	m.FloodWaits.Inc()
}

// RecordMessageReceived records an inbound message
func (m *Metrics) RecordMessageReceived() {
	m.MessagesReceived.Inc()
}

// RecordForward records a forward attempt with its duration
func (m *Metrics) RecordForward(status string, duration float64) {
	m.Forwards.WithLabelValues(labelOrUnknown(status)).Inc()
	if duration >= 0 {
		m.ForwardDuration.Observe(duration)
	}
}

// RecordKafkaMessage records a produced Kafka message
func (m *Metrics) RecordKafkaMessage() {
	m.KafkaMessagesProduced.Inc()
}

// RecordKafkaError records a Kafka production error with error type
func (m *Metrics) RecordKafkaError(errorType string) {
	m.KafkaProduceErrors.WithLabelValues(labelOrUnknown(errorType)).Inc()
}

func labelOrUnknown(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
