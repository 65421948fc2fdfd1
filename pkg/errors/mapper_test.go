package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

func TestMapper_MapErrorToHTTP(t *testing.T) {
	mapper := NewMapper(zerolog.Nop())
	upstream := NewGatewayError("telegram request failed")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"nil", nil, fasthttp.StatusOK, ""},
		{"validation", NewValidationError("phone is required"), fasthttp.StatusBadRequest, "phone is required"},
		{"wrapped validation", fmt.Errorf("op: %w", NewValidationError("bad")), fasthttp.StatusBadRequest, "bad"},
		{"unauthorized", NewUnauthorizedError("invalid code"), fasthttp.StatusUnauthorized, "invalid code"},
		{"permission", NewPermissionError("nope"), fasthttp.StatusForbidden, "nope"},
		{"not found", NewNotFoundErrorf("user %s not found", "42"), fasthttp.StatusNotFound, "user 42 not found"},
		{"conflict", NewConflictError("exists"), fasthttp.StatusConflict, "exists"},
		{"too many", NewTooManyRequestsError("slow down"), fasthttp.StatusTooManyRequests, "slow down"},
		{
			"gateway keeps cause",
			fmt.Errorf("%w: %w", upstream, errors.New("PHONE_NUMBER_INVALID")),
			fasthttp.StatusBadGateway,
			"telegram request failed: PHONE_NUMBER_INVALID",
		},
		{"unavailable", NewServiceUnavailableError("down"), fasthttp.StatusServiceUnavailable, "down"},
		{
			"internal hides cause",
			fmt.Errorf("%w: %w", NewInternalError("storage failure"), errors.New("pq: connection refused")),
			fasthttp.StatusInternalServerError,
			"storage failure",
		},
		{"unknown", errors.New("boom"), fasthttp.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := mapper.MapErrorToHTTP(tt.err)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if msg != tt.wantMsg {
				t.Errorf("message = %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestSentinelIdentity(t *testing.T) {
	sentinel := NewTooManyRequestsError("too many OTP requests")
	wrapped := fmt.Errorf("request challenge: %w", sentinel)

	if !errors.Is(wrapped, sentinel) {
		t.Error("expected wrapped error to match sentinel")
	}
	if errors.Is(wrapped, NewTooManyRequestsError("too many OTP requests")) {
		t.Error("distinct instances must not match")
	}
}
