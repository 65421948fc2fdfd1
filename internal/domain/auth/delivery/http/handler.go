package http

import (
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/royak47/autofor/internal/domain/auth/deps"
	"github.com/royak47/autofor/internal/domain/auth/dto"
	pkgerrors "github.com/royak47/autofor/pkg/errors"
	"github.com/royak47/autofor/pkg/httputil"
)

// AuthHandler handles the OTP login endpoints
type AuthHandler struct {
	service deps.AuthService
	mapper  *pkgerrors.Mapper
	logger  zerolog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service deps.AuthService, mapper *pkgerrors.Mapper, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		mapper:  mapper,
		logger:  logger.With().Str("handler", "auth").Logger(),
	}
}

// SendOTP handles POST /api/send-otp
func (h *AuthHandler) SendOTP(ctx *fasthttp.RequestCtx) {
	var req dto.SendOTPRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	result, err := h.service.RequestChallenge(ctx, req.Phone, req.Country)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	message := "OTP sent to your Telegram"
	if !result.CodeSent {
		message = "Session already authorized, verify to continue"
	}
	httputil.WriteMessage(ctx, fasthttp.StatusOK, message)
}

// VerifyOTP handles POST /api/verify-otp
func (h *AuthHandler) VerifyOTP(ctx *fasthttp.RequestCtx) {
	var req dto.VerifyOTPRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	account, err := h.service.CompleteChallenge(ctx, req)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	httputil.WriteJSON(ctx, fasthttp.StatusOK, dto.VerifyOTPResponse{
		Message:    "Login successful",
		TelegramID: account.TelegramID,
	})
}
