package deps

import (
	"context"

	"github.com/royak47/autofor/internal/domain/forwarding/dto"
)

// ConnectionRegistry owns the live forwarding connections, at most one per account
type ConnectionRegistry interface {
	// Enable connects the account and starts forwarding its enabled rules. Idempotent.
	Enable(ctx context.Context, telegramID int64) error

	// Disable stops forwarding and disconnects. Reports whether a connection was active.
	Disable(ctx context.Context, telegramID int64) (bool, error)

	// ShutdownAll disconnects every account and returns how many closed cleanly
	ShutdownAll(ctx context.Context) int

	ActiveCount() int
	IsActive(telegramID int64) bool
}

// ForwardingService is the toggle use case consumed by the HTTP layer
type ForwardingService interface {
	Toggle(ctx context.Context, req dto.ToggleForwardingRequest) (*dto.ToggleForwardingResponse, error)
}
