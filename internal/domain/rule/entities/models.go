package entities

import (
	"strconv"
	"time"
)

// RuleModel is a GORM model for rules table
type RuleModel struct {
	ID           uint      `gorm:"primaryKey"`
	TelegramID   int64     `gorm:"not null;index"`
	SourceChat   string    `gorm:"not null;size:255"`
	TargetChat   string    `gorm:"not null;size:255"`
	FilterType   string    `gorm:"not null;size:16;default:'all'"`
	Keyword      string    `gorm:"not null;default:''"`
	EditText     string    `gorm:"not null;default:''"`
	ReplaceText  string    `gorm:"not null;default:''"`
	IsForwarding bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (RuleModel) TableName() string {
	return "rules"
}

// ToEntity converts DB model to domain entity
func (m *RuleModel) ToEntity() *Rule {
	return &Rule{
		ID:           m.ID,
		TelegramID:   strconv.FormatInt(m.TelegramID, 10),
		SourceChat:   m.SourceChat,
		TargetChat:   m.TargetChat,
		FilterType:   FilterType(m.FilterType),
		Keyword:      m.Keyword,
		EditText:     m.EditText,
		ReplaceText:  m.ReplaceText,
		IsForwarding: m.IsForwarding,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
