package deps

import (
	"context"

	"github.com/royak47/autofor/internal/domain/rule/dto"
	"github.com/royak47/autofor/internal/domain/rule/entities"
)

// RuleRepository persists forwarding rules keyed by account identity
type RuleRepository interface {
	Create(ctx context.Context, rule *entities.Rule) error
	ListByAccount(ctx context.Context, telegramID int64) ([]entities.Rule, error)
	ListEnabledByAccount(ctx context.Context, telegramID int64) ([]entities.Rule, error)
	// SetForwarding sets the forwarding flag on every rule of the account and returns the rows changed
	SetForwarding(ctx context.Context, telegramID int64, enabled bool) (int64, error)
}

// RuleService is the rule use case consumed by the HTTP layer
type RuleService interface {
	CreateRule(ctx context.Context, req dto.CreateRuleRequest) (*entities.Rule, error)
	ListRules(ctx context.Context, telegramID string) ([]entities.Rule, error)
}
