package entities

import "time"

// AccountModel is a GORM model for accounts table
type AccountModel struct {
	TelegramID  int64     `gorm:"primaryKey;autoIncrement:false"`
	PhoneNumber string    `gorm:"not null;size:32;index"`
	Username    string    `gorm:"not null;size:255"`
	FirstName   string    `gorm:"not null;size:255"`
	Country     string    `gorm:"not null;size:64"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (AccountModel) TableName() string {
	return "accounts"
}

// ToEntity converts DB model to domain entity
func (m *AccountModel) ToEntity() *Account {
	return &Account{
		TelegramID:  FormatTelegramID(m.TelegramID),
		PhoneNumber: m.PhoneNumber,
		Username:    m.Username,
		FirstName:   m.FirstName,
		Country:     m.Country,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// CredentialModel is a GORM model for credentials table
type CredentialModel struct {
	TelegramID  int64     `gorm:"primaryKey;autoIncrement:false"`
	SessionData []byte    `gorm:"type:bytea;not null"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (CredentialModel) TableName() string {
	return "credentials"
}
