package errors

import (
	pkgerrors "github.com/royak47/autofor/pkg/errors"
)

var (
	ErrAccountNotFound   = pkgerrors.NewNotFoundError("User not found")
	ErrInvalidTelegramID = pkgerrors.NewValidationError("telegramId must be a positive number")
	ErrStore             = pkgerrors.NewInternalError("failed to access account store")
)
