package telegram

import (
	"context"
	"errors"

	"github.com/gotd/td/session"

	"github.com/royak47/autofor/internal/domain"
)

// sessionStorage adapts a domain.SessionStorage to the gotd session.Storage contract
type sessionStorage struct {
	storage domain.SessionStorage
}

// LoadSession loads session data, reporting an empty storage as session.ErrNotFound
func (s sessionStorage) LoadSession(ctx context.Context) ([]byte, error) {
	data, err := s.storage.LoadSession(ctx)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, session.ErrNotFound
	}
	return data, nil
}

// StoreSession stores session data
func (s sessionStorage) StoreSession(ctx context.Context, data []byte) error {
	return s.storage.StoreSession(ctx, data)
}

var _ session.Storage = sessionStorage{}
