package telegram

import (
	"errors"
	"fmt"

	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"

	"github.com/royak47/autofor/internal/domain"
)

// revokedErrors are returned for credentials the platform no longer accepts
var revokedErrors = []string{
	"AUTH_KEY_UNREGISTERED",
	"AUTH_KEY_INVALID",
	"AUTH_KEY_DUPLICATED",
	"SESSION_REVOKED",
	"SESSION_EXPIRED",
	"USER_DEACTIVATED",
	"USER_DEACTIVATED_BAN",
}

// codeHash extracts the phone code hash from a send code answer
func codeHash(sent any) (string, error) {
	switch s := sent.(type) {
	case *tg.AuthSentCode:
		return s.PhoneCodeHash, nil
	case nil:
		return "", fmt.Errorf("empty send code answer")
	default:
		return "", fmt.Errorf("unexpected send code answer %T", sent)
	}
}

// mapSignInError translates sign in failures into domain errors
func mapSignInError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, auth.ErrPasswordAuthNeeded), tgerr.Is(err, "SESSION_PASSWORD_NEEDED"):
		return domain.ErrPasswordNeeded
	case tgerr.Is(err, "PHONE_CODE_INVALID", "PHONE_CODE_EXPIRED", "PHONE_CODE_EMPTY", "PHONE_CODE_HASH_EMPTY"):
		return fmt.Errorf("%w: %w", domain.ErrInvalidCode, err)
	default:
		return mapCallError(err)
	}
}

// mapPasswordError translates two-step verification failures into domain errors
func mapPasswordError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, auth.ErrPasswordInvalid), tgerr.Is(err, "PASSWORD_HASH_INVALID"):
		return fmt.Errorf("%w: %w", domain.ErrInvalidPassword, err)
	default:
		return mapCallError(err)
	}
}

// mapCallError marks revocation and flood wait failures; other errors pass through
func mapCallError(err error) error {
	if err == nil {
		return nil
	}
	if isRevoked(err) {
		return fmt.Errorf("%w: %w", domain.ErrSessionRevoked, err)
	}
	if wait, ok := tgerr.AsFloodWait(err); ok {
		return fmt.Errorf("%w: retry after %s: %w", domain.ErrFloodWait, wait, err)
	}
	return err
}

func isRevoked(err error) bool {
	return tgerr.Is(err, revokedErrors...)
}

func isFloodWait(err error) bool {
	_, ok := tgerr.AsFloodWait(err)
	return ok
}
