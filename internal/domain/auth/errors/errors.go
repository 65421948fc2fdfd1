package errors

import (
	pkgerrors "github.com/royak47/autofor/pkg/errors"
)

var (
	ErrPhoneRequired        = pkgerrors.NewValidationError("phone is required")
	ErrCountryRequired      = pkgerrors.NewValidationError("country is required")
	ErrCodeRequired         = pkgerrors.NewValidationError("code is required")
	ErrSecondFactorRequired = pkgerrors.NewValidationError("2FA password required")
	ErrNoPendingSession     = pkgerrors.NewValidationError("No session found. Request OTP first.")
	ErrInvalidChallenge     = pkgerrors.NewUnauthorizedError("Invalid OTP or password")
	ErrRateLimited          = pkgerrors.NewTooManyRequestsError("Too many OTP requests, try again later")
	ErrSendCodeFailed       = pkgerrors.NewGatewayError("Failed to send OTP")
	ErrCompleteLoginFailed  = pkgerrors.NewGatewayError("Failed to complete login")
	ErrStore                = pkgerrors.NewInternalError("Failed to save login")
)
