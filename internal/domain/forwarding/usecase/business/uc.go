package business

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	accountdeps "github.com/royak47/autofor/internal/domain/account/deps"
	accountentities "github.com/royak47/autofor/internal/domain/account/entities"
	accounterrors "github.com/royak47/autofor/internal/domain/account/errors"
	"github.com/royak47/autofor/internal/domain/forwarding/deps"
	"github.com/royak47/autofor/internal/domain/forwarding/dto"
	fwderrors "github.com/royak47/autofor/internal/domain/forwarding/errors"
	ruledeps "github.com/royak47/autofor/internal/domain/rule/deps"
	ruleerrors "github.com/royak47/autofor/internal/domain/rule/errors"
)

const (
	messageStarted = "Forwarding started"
	messageStopped = "Forwarding stopped"
)

// UseCase toggles live forwarding for an account
type UseCase struct {
	accounts accountdeps.AccountRepository
	rules    ruledeps.RuleRepository
	registry deps.ConnectionRegistry
	logger   zerolog.Logger
}

// NewUseCase creates a new forwarding use case
func NewUseCase(
	accounts accountdeps.AccountRepository,
	rules ruledeps.RuleRepository,
	registry deps.ConnectionRegistry,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		accounts: accounts,
		rules:    rules,
		registry: registry,
		logger:   logger.With().Str("usecase", "forwarding").Logger(),
	}
}

// Toggle flips the forwarding flag on all of the account's rules, then
// connects or disconnects the account to match. Disabling an unknown
// account is a no-op.
func (uc *UseCase) Toggle(ctx context.Context, req dto.ToggleForwardingRequest) (*dto.ToggleForwardingResponse, error) {
	raw := strings.TrimSpace(req.TelegramID)
	if raw == "" {
		return nil, ruleerrors.ErrTelegramIDRequired
	}
	telegramID, ok := accountentities.ParseTelegramID(raw)
	if !ok {
		return nil, accounterrors.ErrInvalidTelegramID
	}

	if req.Enable {
		if _, err := uc.accounts.GetByTelegramID(ctx, telegramID); err != nil {
			return nil, err
		}
	}

	updated, err := uc.rules.SetForwarding(ctx, telegramID, req.Enable)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fwderrors.ErrStore, err)
	}

	logger := uc.logger.With().Str("account_id", raw).Int64("rules", updated).Logger()

	if !req.Enable {
		if _, err := uc.registry.Disable(ctx, telegramID); err != nil {
			logger.Warn().Err(err).Msg("forwarding disabled with an unclean disconnect")
		}
		logger.Info().Msg("forwarding stopped")
		return &dto.ToggleForwardingResponse{Message: messageStopped}, nil
	}

	if err := uc.registry.Enable(ctx, telegramID); err != nil {
		logger.Warn().Err(err).Msg("failed to start forwarding")
		return nil, err
	}

	logger.Info().Msg("forwarding started")
	return &dto.ToggleForwardingResponse{Message: messageStarted}, nil
}

var _ deps.ForwardingService = (*UseCase)(nil)
