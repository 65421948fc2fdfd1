package business

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royak47/autofor/internal/domain"
	accounterrors "github.com/royak47/autofor/internal/domain/account/errors"
	"github.com/royak47/autofor/internal/domain/forwarding/dto"
	fwderrors "github.com/royak47/autofor/internal/domain/forwarding/errors"
	ruleerrors "github.com/royak47/autofor/internal/domain/rule/errors"
)

func newToggleUseCase(t *testing.T) (*UseCase, *registryFixture) {
	t.Helper()

	f := newRegistryFixture(t, RegistryConfig{BufferSize: 4, DisconnectTimeout: time.Second})
	return NewUseCase(f.accounts, f.rules, f.registry, zerolog.Nop()), f
}

func TestUseCase_ToggleFlow(t *testing.T) {
	uc, f := newToggleUseCase(t)
	f.addRule(t, 1001, false)
	ctx := context.Background()

	resp, err := uc.Toggle(ctx, dto.ToggleForwardingRequest{TelegramID: "1001", Enable: true})
	require.NoError(t, err)
	assert.Equal(t, "Forwarding started", resp.Message)
	assert.True(t, f.registry.IsActive(1001))

	rules, err := f.rules.ListEnabledByAccount(ctx, 1001)
	require.NoError(t, err)
	assert.Len(t, rules, 1, "rules are flagged before connecting")

	conn := f.gateway.Last()
	conn.Emit(ctx, domain.Message{ChatID: "-100111", Text: "cat cat dog"})
	require.Eventually(t, func() bool { return len(conn.SentMessages()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "@mirror", conn.SentMessages()[0].ChatID)

	resp, err = uc.Toggle(ctx, dto.ToggleForwardingRequest{TelegramID: "1001", Enable: false})
	require.NoError(t, err)
	assert.Equal(t, "Forwarding stopped", resp.Message)
	assert.False(t, f.registry.IsActive(1001))
	assert.True(t, conn.Closed())

	rules, err = f.rules.ListEnabledByAccount(ctx, 1001)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestUseCase_ToggleOffWhenInactive(t *testing.T) {
	uc, _ := newToggleUseCase(t)

	resp, err := uc.Toggle(context.Background(), dto.ToggleForwardingRequest{TelegramID: "1001"})
	require.NoError(t, err)
	assert.Equal(t, "Forwarding stopped", resp.Message)
}

func TestUseCase_ToggleOffUnknownAccount(t *testing.T) {
	uc, f := newToggleUseCase(t)

	resp, err := uc.Toggle(context.Background(), dto.ToggleForwardingRequest{TelegramID: "42"})
	require.NoError(t, err)
	assert.Equal(t, "Forwarding stopped", resp.Message)
	assert.Zero(t, f.gateway.Opens())
}

func TestUseCase_ToggleErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.ToggleForwardingRequest
		setup   func(f *registryFixture)
		wantErr error
	}{
		{"missing id", dto.ToggleForwardingRequest{Enable: true}, nil, ruleerrors.ErrTelegramIDRequired},
		{"invalid id", dto.ToggleForwardingRequest{TelegramID: "abc", Enable: true}, nil, accounterrors.ErrInvalidTelegramID},
		{"unknown user", dto.ToggleForwardingRequest{TelegramID: "42", Enable: true}, nil, accounterrors.ErrAccountNotFound},
		{
			"revoked session", dto.ToggleForwardingRequest{TelegramID: "1001", Enable: true},
			func(f *registryFixture) {
				f.gateway.OpenErr = domain.ErrSessionRevoked
			},
			fwderrors.ErrReauthenticationRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, f := newToggleUseCase(t)
			if tt.setup != nil {
				tt.setup(f)
			}

			_, err := uc.Toggle(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
