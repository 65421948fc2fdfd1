package domain

import "errors"

var (
	// ErrPasswordNeeded is returned by SignIn when the account has two-step verification enabled
	ErrPasswordNeeded = errors.New("two-step verification password needed")

	// ErrInvalidCode is returned when the login code is wrong, expired or empty
	ErrInvalidCode = errors.New("invalid login code")

	// ErrInvalidPassword is returned when the two-step verification password is wrong
	ErrInvalidPassword = errors.New("invalid two-step verification password")

	// ErrSessionRevoked is returned when a stored credential is no longer accepted
	ErrSessionRevoked = errors.New("session has been revoked")

	// ErrSessionNotFound is returned by a SessionStorage that holds no data
	ErrSessionNotFound = errors.New("session not found")

	// ErrNotConnected is returned when operation requires a running connection
	ErrNotConnected = errors.New("not connected to Telegram")

	// ErrPeerNotFound is returned when a chat identifier cannot be resolved
	ErrPeerNotFound = errors.New("peer not found")

	// ErrFloodWait is returned when the platform asks the client to slow down
	ErrFloodWait = errors.New("flood wait required")
)
