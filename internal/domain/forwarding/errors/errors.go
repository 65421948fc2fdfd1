package errors

import (
	pkgerrors "github.com/royak47/autofor/pkg/errors"
)

var (
	ErrReauthenticationRequired = pkgerrors.NewUnauthorizedError("Telegram session expired, please log in again")
	ErrConnectFailed            = pkgerrors.NewGatewayError("Failed to connect to Telegram")
	ErrShuttingDown             = pkgerrors.NewServiceUnavailableError("Service is shutting down")
	ErrStore                    = pkgerrors.NewInternalError("Failed to update forwarding")
)
