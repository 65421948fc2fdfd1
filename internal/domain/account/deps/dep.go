package deps

import (
	"context"

	"github.com/royak47/autofor/internal/domain"
	"github.com/royak47/autofor/internal/domain/account/entities"
)

// AccountRepository persists accounts and their login credentials
type AccountRepository interface {
	// SaveLogin upserts the account profile and its credential in one transaction
	SaveLogin(ctx context.Context, account *entities.Account, session []byte) error

	// GetByTelegramID returns ErrAccountNotFound when the account does not exist
	GetByTelegramID(ctx context.Context, telegramID int64) (*entities.Account, error)

	// FindSessionByPhone returns the most recent credential of an account with this phone.
	// Returns domain.ErrSessionNotFound when there is none.
	FindSessionByPhone(ctx context.Context, phone string) ([]byte, error)

	// SessionStorage returns a storage bound to the credential of one account
	SessionStorage(telegramID int64) domain.SessionStorage
}

// ConnectionCounter reports live forwarding connections
type ConnectionCounter interface {
	ActiveCount() int
}
