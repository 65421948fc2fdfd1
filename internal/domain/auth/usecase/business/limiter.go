package business

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/royak47/autofor/internal/domain/auth/deps"
	autherrors "github.com/royak47/autofor/internal/domain/auth/errors"
	"github.com/royak47/autofor/internal/infrastructure/constants"
	"github.com/royak47/autofor/internal/infrastructure/metrics"
	"github.com/royak47/autofor/internal/utils"
)

// Limiter caps login challenges per phone in a fixed window.
// When the counter store is unavailable requests are let through.
type Limiter struct {
	store   deps.CounterStore
	limit   int64
	window  time.Duration
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewLimiter creates a new challenge limiter
func NewLimiter(store deps.CounterStore, limit int, window time.Duration, m *metrics.Metrics, logger zerolog.Logger) *Limiter {
	return &Limiter{
		store:   store,
		limit:   int64(limit),
		window:  window,
		metrics: m,
		logger:  logger.With().Str("component", "otp_limiter").Logger(),
	}
}

// Allow counts one challenge for phone and returns ErrRateLimited past the limit
func (l *Limiter) Allow(ctx context.Context, phone string) error {
	count, err := l.store.Increment(ctx, constants.OTPKeyPrefix+phone, l.window)
	if err != nil {
		l.logger.Warn().
			Err(err).
			Str("phone", utils.MaskPhoneNumber(phone)).
			Msg("rate limit store unavailable, allowing request")
		l.metrics.RecordLimiterStoreError()
		return nil
	}

	if count > l.limit {
		l.logger.Info().
			Str("phone", utils.MaskPhoneNumber(phone)).
			Int64("count", count).
			Msg("login challenge rate limited")
		l.metrics.RecordOTPRateLimited()
		return autherrors.ErrRateLimited
	}

	return nil
}
