package memory

import (
	"context"
	"sync"
	"time"

	"github.com/royak47/autofor/internal/domain"
	"github.com/royak47/autofor/internal/domain/account/deps"
	"github.com/royak47/autofor/internal/domain/account/entities"
	accounterrors "github.com/royak47/autofor/internal/domain/account/errors"
)

// Repository implements deps.AccountRepository using in-memory storage
type Repository struct {
	mu          sync.RWMutex
	accounts    map[int64]*entities.Account
	credentials map[int64][]byte
	updatedAt   map[int64]time.Time
}

// NewRepository creates a new in-memory account repository
func NewRepository() *Repository {
	return &Repository{
		accounts:    make(map[int64]*entities.Account),
		credentials: make(map[int64][]byte),
		updatedAt:   make(map[int64]time.Time),
	}
}

// SaveLogin upserts the account and its credential
func (r *Repository) SaveLogin(ctx context.Context, account *entities.Account, session []byte) error {
	id, ok := entities.ParseTelegramID(account.TelegramID)
	if !ok {
		return accounterrors.ErrInvalidTelegramID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	stored := *account
	stored.Username = entities.OrNotAvailable(stored.Username)
	stored.FirstName = entities.OrNotAvailable(stored.FirstName)
	stored.Country = entities.OrNotAvailable(stored.Country)
	stored.UpdatedAt = now
	if existing, ok := r.accounts[id]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}

	r.accounts[id] = &stored
	r.storeSession(id, session)
	return nil
}

// GetByTelegramID retrieves an account by identity
func (r *Repository) GetByTelegramID(ctx context.Context, telegramID int64) (*entities.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[telegramID]
	if !ok {
		return nil, accounterrors.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

// FindSessionByPhone returns the most recently updated credential for phone
func (r *Repository) FindSessionByPhone(ctx context.Context, phone string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		found  []byte
		latest time.Time
	)
	for id, account := range r.accounts {
		if account.PhoneNumber != phone {
			continue
		}
		data, ok := r.credentials[id]
		if !ok || !r.updatedAt[id].After(latest) {
			continue
		}
		found, latest = data, r.updatedAt[id]
	}

	if found == nil {
		return nil, domain.ErrSessionNotFound
	}
	return append([]byte(nil), found...), nil
}

// SessionStorage returns a storage bound to one account's credential
func (r *Repository) SessionStorage(telegramID int64) domain.SessionStorage {
	return &sessionStorage{repo: r, telegramID: telegramID}
}

// Session returns a copy of the stored credential of an account
func (r *Repository) Session(telegramID int64) ([]byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, ok := r.credentials[telegramID]
	return append([]byte(nil), data...), ok
}

func (r *Repository) storeSession(id int64, data []byte) {
	r.credentials[id] = append([]byte(nil), data...)
	r.updatedAt[id] = time.Now()
}

type sessionStorage struct {
	repo       *Repository
	telegramID int64
}

func (s *sessionStorage) LoadSession(ctx context.Context) ([]byte, error) {
	data, ok := s.repo.Session(s.telegramID)
	if !ok || len(data) == 0 {
		return nil, domain.ErrSessionNotFound
	}
	return data, nil
}

func (s *sessionStorage) StoreSession(ctx context.Context, data []byte) error {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()

	s.repo.storeSession(s.telegramID, data)
	return nil
}

var _ deps.AccountRepository = (*Repository)(nil)
