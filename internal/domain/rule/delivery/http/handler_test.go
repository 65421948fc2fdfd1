package http

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	accounterrors "github.com/royak47/autofor/internal/domain/account/errors"
	"github.com/royak47/autofor/internal/domain/rule/dto"
	"github.com/royak47/autofor/internal/domain/rule/entities"
	ruleerrors "github.com/royak47/autofor/internal/domain/rule/errors"
	pkgerrors "github.com/royak47/autofor/pkg/errors"
)

type mockRuleService struct {
	created  dto.CreateRuleRequest
	rules    []entities.Rule
	err      error
	listedID string
}

func (m *mockRuleService) CreateRule(ctx context.Context, req dto.CreateRuleRequest) (*entities.Rule, error) {
	m.created = req
	if m.err != nil {
		return nil, m.err
	}
	return &entities.Rule{ID: 1, TelegramID: req.TelegramID, SourceChat: req.SourceChat, TargetChat: req.TargetChat, FilterType: entities.FilterAll}, nil
}

func (m *mockRuleService) ListRules(ctx context.Context, telegramID string) ([]entities.Rule, error) {
	m.listedID = telegramID
	return m.rules, m.err
}

func newHandler(svc *mockRuleService) *RuleHandler {
	return NewRuleHandler(svc, pkgerrors.NewMapper(zerolog.Nop()), zerolog.Nop())
}

func TestRuleHandler_CreateRule(t *testing.T) {
	svc := &mockRuleService{}
	h := newHandler(svc)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetBody([]byte(`{"telegramId":"1001","sourceChat":"-100123","targetChat":"@mirror","filterType":""}`))

	h.CreateRule(ctx)

	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("status = %d, want 200: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}

	var resp dto.CreateRuleResponse
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "Rule created" || resp.Rule == nil || resp.Rule.TargetChat != "@mirror" {
		t.Errorf("unexpected response %+v", resp)
	}
	if svc.created.SourceChat != "-100123" {
		t.Errorf("request not passed through: %+v", svc.created)
	}
}

func TestRuleHandler_CreateRule_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{"empty body", "", nil, fasthttp.StatusBadRequest},
		{"malformed body", "{", nil, fasthttp.StatusBadRequest},
		{"invalid filter", `{"telegramId":"1"}`, ruleerrors.ErrInvalidFilterType, fasthttp.StatusBadRequest},
		{"unknown account", `{"telegramId":"1"}`, accounterrors.ErrAccountNotFound, fasthttp.StatusNotFound},
		{"store failure", `{"telegramId":"1"}`, ruleerrors.ErrRuleStore, fasthttp.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(&mockRuleService{err: tt.err})
			ctx := &fasthttp.RequestCtx{}
			ctx.Request.SetBody([]byte(tt.body))

			h.CreateRule(ctx)

			if ctx.Response.StatusCode() != tt.wantCode {
				t.Errorf("status = %d, want %d", ctx.Response.StatusCode(), tt.wantCode)
			}

			var body map[string]string
			if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil || body["message"] == "" {
				t.Errorf("expected {message} body, got %s", ctx.Response.Body())
			}
		})
	}
}

func TestRuleHandler_ListRules(t *testing.T) {
	svc := &mockRuleService{rules: []entities.Rule{{ID: 1}, {ID: 2}}}
	h := newHandler(svc)

	ctx := &fasthttp.RequestCtx{}
	ctx.SetUserValue("telegramId", "1001")

	h.ListRules(ctx)

	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("status = %d, want 200", ctx.Response.StatusCode())
	}
	if svc.listedID != "1001" {
		t.Errorf("telegramId = %q, want 1001", svc.listedID)
	}

	var rules []entities.Rule
	if err := json.Unmarshal(ctx.Response.Body(), &rules); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(rules) != 2 {
		t.Errorf("rules = %d, want 2", len(rules))
	}
}
