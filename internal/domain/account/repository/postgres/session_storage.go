package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/royak47/autofor/internal/domain"
	"github.com/royak47/autofor/internal/domain/account/entities"
)

// SessionStorage stores the MTProto session of one account in the credentials table.
// Sessions reissued by the platform while forwarding are written back here.
type SessionStorage struct {
	db         *gorm.DB
	telegramID int64
}

// LoadSession loads session data from database
func (s *SessionStorage) LoadSession(ctx context.Context) ([]byte, error) {
	var model entities.CredentialModel
	err := s.db.WithContext(ctx).
		Where("telegram_id = ?", s.telegramID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if len(model.SessionData) == 0 {
		return nil, domain.ErrSessionNotFound
	}
	return model.SessionData, nil
}

// StoreSession upserts session data
func (s *SessionStorage) StoreSession(ctx context.Context, data []byte) error {
	return upsertCredential(s.db.WithContext(ctx), s.telegramID, data)
}

var _ domain.SessionStorage = (*SessionStorage)(nil)
