package entities

import (
	"time"

	"github.com/royak47/autofor/internal/domain"
)

// ChallengeResult is returned when a login challenge is issued
type ChallengeResult struct {
	// CodeSent is false when a stored credential was still authorized
	// and no code had to be delivered.
	CodeSent bool
}

// PendingLogin is an in-flight login, keyed by phone number
type PendingLogin struct {
	Phone            string
	Country          string
	Conn             domain.Connection
	Storage          *domain.MemorySession
	CodeHash         string
	Authorized       bool
	AwaitingPassword bool
	CreatedAt        time.Time
	ExpiresAt        time.Time
}

// IsExpired reports whether the login outlived its TTL
func (p *PendingLogin) IsExpired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && now.After(p.ExpiresAt)
}
