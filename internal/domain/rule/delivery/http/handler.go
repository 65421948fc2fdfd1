package http

import (
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/royak47/autofor/internal/domain/rule/deps"
	"github.com/royak47/autofor/internal/domain/rule/dto"
	"github.com/royak47/autofor/internal/infrastructure/constants"
	pkgerrors "github.com/royak47/autofor/pkg/errors"
	"github.com/royak47/autofor/pkg/httputil"
)

// RuleHandler handles rule HTTP requests
type RuleHandler struct {
	useCase deps.RuleService
	mapper  *pkgerrors.Mapper
	logger  zerolog.Logger
}

// NewRuleHandler creates a new rule handler
func NewRuleHandler(useCase deps.RuleService, mapper *pkgerrors.Mapper, logger zerolog.Logger) *RuleHandler {
	return &RuleHandler{
		useCase: useCase,
		mapper:  mapper,
		logger:  logger.With().Str("handler", "rule").Logger(),
	}
}

// CreateRule handles POST /api/rules
func (h *RuleHandler) CreateRule(ctx *fasthttp.RequestCtx) {
	var req dto.CreateRuleRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	rule, err := h.useCase.CreateRule(ctx, req)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	httputil.WriteJSON(ctx, fasthttp.StatusOK, dto.CreateRuleResponse{
		Message: "Rule created",
		Rule:    rule,
	})
}

// ListRules handles GET /api/rules/{telegramId}
func (h *RuleHandler) ListRules(ctx *fasthttp.RequestCtx) {
	telegramID, _ := ctx.UserValue(constants.TelegramIDParam).(string)

	rules, err := h.useCase.ListRules(ctx, telegramID)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	httputil.WriteJSON(ctx, fasthttp.StatusOK, rules)
}
