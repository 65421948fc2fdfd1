package deps

import (
	"context"
	"time"

	accountentities "github.com/royak47/autofor/internal/domain/account/entities"
	"github.com/royak47/autofor/internal/domain/auth/dto"
	"github.com/royak47/autofor/internal/domain/auth/entities"
)

// CounterStore keeps fixed-window counters
type CounterStore interface {
	// Increment adds one to key and returns the new value.
	// The window starts with the first increment.
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}

// AuthService is the login use case consumed by the HTTP layer
type AuthService interface {
	RequestChallenge(ctx context.Context, phone, country string) (*entities.ChallengeResult, error)
	CompleteChallenge(ctx context.Context, req dto.VerifyOTPRequest) (*accountentities.Account, error)
}
