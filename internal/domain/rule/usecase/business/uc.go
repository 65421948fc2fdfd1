package business

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	accountdeps "github.com/royak47/autofor/internal/domain/account/deps"
	accountentities "github.com/royak47/autofor/internal/domain/account/entities"
	accounterrors "github.com/royak47/autofor/internal/domain/account/errors"
	"github.com/royak47/autofor/internal/domain/rule/deps"
	"github.com/royak47/autofor/internal/domain/rule/dto"
	"github.com/royak47/autofor/internal/domain/rule/entities"
	ruleerrors "github.com/royak47/autofor/internal/domain/rule/errors"
)

// UseCase implements rule management business logic
type UseCase struct {
	rules    deps.RuleRepository
	accounts accountdeps.AccountRepository
	logger   zerolog.Logger
}

// NewUseCase creates a new rule use case
func NewUseCase(rules deps.RuleRepository, accounts accountdeps.AccountRepository, logger zerolog.Logger) *UseCase {
	return &UseCase{
		rules:    rules,
		accounts: accounts,
		logger:   logger.With().Str("usecase", "rule").Logger(),
	}
}

// CreateRule validates and stores a new rule with forwarding off
func (uc *UseCase) CreateRule(ctx context.Context, req dto.CreateRuleRequest) (*entities.Rule, error) {
	telegramID, err := parseTelegramID(req.TelegramID)
	if err != nil {
		return nil, err
	}

	source := strings.TrimSpace(req.SourceChat)
	if source == "" {
		return nil, ruleerrors.ErrSourceChatRequired
	}
	target := strings.TrimSpace(req.TargetChat)
	if target == "" {
		return nil, ruleerrors.ErrTargetChatRequired
	}

	filter, ok := entities.ParseFilterType(strings.TrimSpace(req.FilterType))
	if !ok {
		return nil, ruleerrors.ErrInvalidFilterType
	}

	if _, err := uc.accounts.GetByTelegramID(ctx, telegramID); err != nil {
		if errors.Is(err, accounterrors.ErrAccountNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ruleerrors.ErrRuleStore, err)
	}

	rule := &entities.Rule{
		TelegramID:   accountentities.FormatTelegramID(telegramID),
		SourceChat:   source,
		TargetChat:   target,
		FilterType:   filter,
		Keyword:      req.Keyword,
		EditText:     req.EditText,
		ReplaceText:  req.ReplaceText,
		IsForwarding: false,
	}

	if err := uc.rules.Create(ctx, rule); err != nil {
		uc.logger.Error().Err(err).Str("telegram_id", rule.TelegramID).Msg("failed to create rule")
		return nil, fmt.Errorf("%w: %w", ruleerrors.ErrRuleStore, err)
	}

	uc.logger.Info().
		Uint("rule_id", rule.ID).
		Str("telegram_id", rule.TelegramID).
		Str("source_chat", rule.SourceChat).
		Str("target_chat", rule.TargetChat).
		Str("filter_type", string(rule.FilterType)).
		Msg("rule created")

	return rule, nil
}

// ListRules returns every rule of an account; unknown accounts have none
func (uc *UseCase) ListRules(ctx context.Context, telegramID string) ([]entities.Rule, error) {
	id, err := parseTelegramID(telegramID)
	if err != nil {
		return nil, err
	}

	rules, err := uc.rules.ListByAccount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ruleerrors.ErrRuleStore, err)
	}
	if rules == nil {
		rules = []entities.Rule{}
	}

	return rules, nil
}

func parseTelegramID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ruleerrors.ErrTelegramIDRequired
	}
	id, ok := accountentities.ParseTelegramID(raw)
	if !ok {
		return 0, accounterrors.ErrInvalidTelegramID
	}
	return id, nil
}

var _ deps.RuleService = (*UseCase)(nil)
