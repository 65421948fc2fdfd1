package http

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	accounterrors "github.com/royak47/autofor/internal/domain/account/errors"
	"github.com/royak47/autofor/internal/domain/forwarding/dto"
	fwderrors "github.com/royak47/autofor/internal/domain/forwarding/errors"
	pkgerrors "github.com/royak47/autofor/pkg/errors"
)

type mockForwardingService struct {
	req dto.ToggleForwardingRequest
	err error
}

func (m *mockForwardingService) Toggle(ctx context.Context, req dto.ToggleForwardingRequest) (*dto.ToggleForwardingResponse, error) {
	m.req = req
	if m.err != nil {
		return nil, m.err
	}
	if req.Enable {
		return &dto.ToggleForwardingResponse{Message: "Forwarding started"}, nil
	}
	return &dto.ToggleForwardingResponse{Message: "Forwarding stopped"}, nil
}

func TestForwardingHandler_Toggle(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"enable", `{"telegramId":"1001","enable":true}`, nil, fasthttp.StatusOK, "Forwarding started"},
		{"disable", `{"telegramId":"1001","enable":false}`, nil, fasthttp.StatusOK, "Forwarding stopped"},
		{"empty body", ``, nil, fasthttp.StatusBadRequest, "request body is required"},
		{"unknown user", `{"telegramId":"42","enable":true}`, accounterrors.ErrAccountNotFound, fasthttp.StatusNotFound, "User not found"},
		{
			"expired session", `{"telegramId":"1001","enable":true}`, fwderrors.ErrReauthenticationRequired,
			fasthttp.StatusUnauthorized, "Telegram session expired, please log in again",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockForwardingService{err: tt.err}
			h := NewForwardingHandler(svc, pkgerrors.NewMapper(zerolog.Nop()), zerolog.Nop())

			ctx := &fasthttp.RequestCtx{}
			ctx.Request.SetBody([]byte(tt.body))

			h.ToggleForwarding(ctx)

			if ctx.Response.StatusCode() != tt.wantCode {
				t.Errorf("status = %d, want %d", ctx.Response.StatusCode(), tt.wantCode)
			}

			var body map[string]string
			if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body["message"] != tt.wantMsg {
				t.Errorf("message = %q, want %q", body["message"], tt.wantMsg)
			}
		})
	}
}
