package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/royak47/autofor/internal/domain"
	"github.com/royak47/autofor/internal/domain/account/deps"
	"github.com/royak47/autofor/internal/domain/account/entities"
	accounterrors "github.com/royak47/autofor/internal/domain/account/errors"
)

// Repository implements deps.AccountRepository using PostgreSQL
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new PostgreSQL account repository
func NewRepository(db *gorm.DB) deps.AccountRepository {
	return &Repository{db: db}
}

// SaveLogin upserts the profile and the credential keyed by telegram id
func (r *Repository) SaveLogin(ctx context.Context, account *entities.Account, session []byte) error {
	id, ok := entities.ParseTelegramID(account.TelegramID)
	if !ok {
		return accounterrors.ErrInvalidTelegramID
	}

	model := &entities.AccountModel{
		TelegramID:  id,
		PhoneNumber: account.PhoneNumber,
		Username:    entities.OrNotAvailable(account.Username),
		FirstName:   entities.OrNotAvailable(account.FirstName),
		Country:     entities.OrNotAvailable(account.Country),
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "telegram_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"phone_number", "username", "first_name", "country", "updated_at"}),
		}).Create(model).Error
		if err != nil {
			return fmt.Errorf("failed to upsert account: %w", err)
		}

		if err := upsertCredential(tx, id, session); err != nil {
			return err
		}
		return nil
	})
}

// GetByTelegramID retrieves an account by its identity
func (r *Repository) GetByTelegramID(ctx context.Context, telegramID int64) (*entities.Account, error) {
	var model entities.AccountModel
	if err := r.db.WithContext(ctx).
		Where("telegram_id = ?", telegramID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, accounterrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return model.ToEntity(), nil
}

// FindSessionByPhone returns the credential of the most recently updated account with phone
func (r *Repository) FindSessionByPhone(ctx context.Context, phone string) ([]byte, error) {
	var model entities.CredentialModel
	err := r.db.WithContext(ctx).
		Joins("JOIN accounts ON accounts.telegram_id = credentials.telegram_id").
		Where("accounts.phone_number = ?", phone).
		Order("credentials.updated_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find session by phone: %w", err)
	}

	return model.SessionData, nil
}

// SessionStorage returns a credential-backed storage for one account
func (r *Repository) SessionStorage(telegramID int64) domain.SessionStorage {
	return &SessionStorage{db: r.db, telegramID: telegramID}
}

func upsertCredential(db *gorm.DB, telegramID int64, session []byte) error {
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "telegram_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"session_data", "updated_at"}),
	}).Create(&entities.CredentialModel{
		TelegramID:  telegramID,
		SessionData: session,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to upsert credential: %w", err)
	}
	return nil
}
