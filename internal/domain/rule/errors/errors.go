package errors

import (
	pkgerrors "github.com/royak47/autofor/pkg/errors"
)

var (
	ErrTelegramIDRequired = pkgerrors.NewValidationError("telegramId is required")
	ErrSourceChatRequired = pkgerrors.NewValidationError("sourceChat is required")
	ErrTargetChatRequired = pkgerrors.NewValidationError("targetChat is required")
	ErrInvalidFilterType  = pkgerrors.NewValidationError("filterType must be one of all, text, media, links")
	ErrRuleStore          = pkgerrors.NewInternalError("Failed to access rules")
)
