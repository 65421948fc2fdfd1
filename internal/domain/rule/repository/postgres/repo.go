package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	accountentities "github.com/royak47/autofor/internal/domain/account/entities"
	"github.com/royak47/autofor/internal/domain/rule/deps"
	"github.com/royak47/autofor/internal/domain/rule/entities"
)

// Repository implements deps.RuleRepository using PostgreSQL
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new PostgreSQL rule repository
func NewRepository(db *gorm.DB) deps.RuleRepository {
	return &Repository{db: db}
}

// Create stores a rule and fills its generated fields
func (r *Repository) Create(ctx context.Context, rule *entities.Rule) error {
	telegramID, ok := accountentities.ParseTelegramID(rule.TelegramID)
	if !ok {
		return fmt.Errorf("invalid telegram id %q", rule.TelegramID)
	}

	model := &entities.RuleModel{
		TelegramID:   telegramID,
		SourceChat:   rule.SourceChat,
		TargetChat:   rule.TargetChat,
		FilterType:   string(rule.FilterType),
		Keyword:      rule.Keyword,
		EditText:     rule.EditText,
		ReplaceText:  rule.ReplaceText,
		IsForwarding: rule.IsForwarding,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}

	*rule = *model.ToEntity()
	return nil
}

// ListByAccount returns all rules of an account in creation order
func (r *Repository) ListByAccount(ctx context.Context, telegramID int64) ([]entities.Rule, error) {
	return r.list(r.db.WithContext(ctx).Where("telegram_id = ?", telegramID))
}

// ListEnabledByAccount returns the rules of an account with forwarding on, in creation order
func (r *Repository) ListEnabledByAccount(ctx context.Context, telegramID int64) ([]entities.Rule, error) {
	return r.list(r.db.WithContext(ctx).Where("telegram_id = ? AND is_forwarding = ?", telegramID, true))
}

// SetForwarding toggles the forwarding flag on all rules of an account
func (r *Repository) SetForwarding(ctx context.Context, telegramID int64, enabled bool) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.RuleModel{}).
		Where("telegram_id = ?", telegramID).
		Update("is_forwarding", enabled)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update forwarding flag: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *Repository) list(query *gorm.DB) ([]entities.Rule, error) {
	var models []entities.RuleModel
	if err := query.Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}

	rules := make([]entities.Rule, len(models))
	for i := range models {
		rules[i] = *models[i].ToEntity()
	}

	return rules, nil
}
