package http

import (
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/royak47/autofor/internal/domain/forwarding/deps"
	"github.com/royak47/autofor/internal/domain/forwarding/dto"
	pkgerrors "github.com/royak47/autofor/pkg/errors"
	"github.com/royak47/autofor/pkg/httputil"
)

// ForwardingHandler handles the forwarding toggle endpoint
type ForwardingHandler struct {
	service deps.ForwardingService
	mapper  *pkgerrors.Mapper
	logger  zerolog.Logger
}

// NewForwardingHandler creates a new forwarding handler
func NewForwardingHandler(service deps.ForwardingService, mapper *pkgerrors.Mapper, logger zerolog.Logger) *ForwardingHandler {
	return &ForwardingHandler{
		service: service,
		mapper:  mapper,
		logger:  logger.With().Str("handler", "forwarding").Logger(),
	}
}

// ToggleForwarding handles POST /api/toggle-forwarding
func (h *ForwardingHandler) ToggleForwarding(ctx *fasthttp.RequestCtx) {
	var req dto.ToggleForwardingRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	resp, err := h.service.Toggle(ctx, req)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	httputil.WriteJSON(ctx, fasthttp.StatusOK, resp)
}
