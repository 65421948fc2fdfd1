package http

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/royak47/autofor/internal/domain"
	"github.com/royak47/autofor/internal/domain/account/deps"
	"github.com/royak47/autofor/pkg/httputil"
)

// checkTimeout bounds each dependency probe
const checkTimeout = 2 * time.Second

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth represents health status of a single component
type ComponentHealth struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the JSON response for health check
type HealthResponse struct {
	Status            HealthStatus      `json:"status"`
	Timestamp         time.Time         `json:"timestamp"`
	ActiveConnections int               `json:"activeConnections"`
	Components        []ComponentHealth `json:"components"`
}

// componentCheck probes one dependency; a nil error means healthy
type componentCheck struct {
	name     string
	critical bool
	check    func(ctx context.Context) error
}

// HealthHandler handles HTTP health check requests
type HealthHandler struct {
	checks      []componentCheck
	connections deps.ConnectionCounter
	logger      zerolog.Logger
}

// HealthHandlerParams defines parameters for HealthHandler
type HealthHandlerParams struct {
	fx.In

	DB          *gorm.DB
	Redis       *redis.Client
	Publisher   domain.ForwardEventPublisher
	Connections deps.ConnectionCounter
	Logger      zerolog.Logger
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(params HealthHandlerParams) *HealthHandler {
	checks := []componentCheck{
		{name: "database", critical: true, check: func(ctx context.Context) error {
			sqlDB, err := params.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}},
		{name: "redis", check: func(ctx context.Context) error {
			return params.Redis.Ping(ctx).Err()
		}},
		{name: "kafka_producer", check: func(ctx context.Context) error {
			if !params.Publisher.IsHealthy() {
				return errUnhealthyPublisher
			}
			return nil
		}},
	}

	return newHealthHandler(checks, params.Connections, params.Logger)
}

func newHealthHandler(checks []componentCheck, connections deps.ConnectionCounter, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		checks:      checks,
		connections: connections,
		logger:      logger.With().Str("handler", "health").Logger(),
	}
}

// Handle handles the health check request for fasthttp
func (h *HealthHandler) Handle(ctx *fasthttp.RequestCtx) {
	components, criticalDown := h.checkComponents(ctx)
	status := determineOverallStatus(components, criticalDown)

	response := HealthResponse{
		Status:            status,
		Timestamp:         time.Now().UTC(),
		ActiveConnections: h.connections.ActiveCount(),
		Components:        components,
	}

	logEvent := h.logger.Debug()
	if status == HealthStatusUnhealthy {
		logEvent = h.logger.Warn()
	} else if status == HealthStatusDegraded {
		logEvent = h.logger.Info()
	}
	logEvent.
		Str("status", string(status)).
		Interface("components", components).
		Msg("Health check completed")

	httputil.WriteHealthResponse(ctx, response, status != HealthStatusUnhealthy)
}

func (h *HealthHandler) checkComponents(parent context.Context) ([]ComponentHealth, bool) {
	components := make([]ComponentHealth, 0, len(h.checks))
	criticalDown := false

	for _, c := range h.checks {
		ctx, cancel := context.WithTimeout(parent, checkTimeout)
		err := c.check(ctx)
		cancel()

		component := ComponentHealth{Name: c.name, Healthy: err == nil}
		if err != nil {
			component.Message = err.Error()
			if c.critical {
				criticalDown = true
			}
		}
		components = append(components, component)
	}

	return components, criticalDown
}

// determineOverallStatus is unhealthy when a critical component is down, degraded when any other is
func determineOverallStatus(components []ComponentHealth, criticalDown bool) HealthStatus {
	if criticalDown {
		return HealthStatusUnhealthy
	}
	for _, component := range components {
		if !component.Healthy {
			return HealthStatusDegraded
		}
	}
	return HealthStatusHealthy
}
