package business

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royak47/autofor/internal/domain"
	accountmemory "github.com/royak47/autofor/internal/domain/account/repository/memory"
	authdto "github.com/royak47/autofor/internal/domain/auth/dto"
	authbusiness "github.com/royak47/autofor/internal/domain/auth/usecase/business"
	ruleentities "github.com/royak47/autofor/internal/domain/rule/entities"
	rulememory "github.com/royak47/autofor/internal/domain/rule/repository/memory"
	"github.com/royak47/autofor/internal/infrastructure/metrics"
	"github.com/royak47/autofor/internal/infrastructure/telegram/telegramtest"
)

type unlimitedCounter struct{}

func (unlimitedCounter) Increment(context.Context, string, time.Duration) (int64, error) {
	return 1, nil
}

func TestLoginThenEnableResumesStoredSession(t *testing.T) {
	ctx := context.Background()
	m := metrics.GetDefaultMetrics()
	gateway := &telegramtest.Gateway{}
	accounts := accountmemory.NewRepository()
	rules := rulememory.NewRepository()

	limiter := authbusiness.NewLimiter(unlimitedCounter{}, 5, 10*time.Minute, m, zerolog.Nop())
	manager := authbusiness.NewSessionManager(gateway, accounts, limiter, authbusiness.SessionManagerConfig{
		PendingTTL:      5 * time.Minute,
		CleanupInterval: time.Minute,
	}, m, zerolog.Nop())
	registry := NewRegistry(gateway, accounts, rules, nil, RegistryConfig{BufferSize: 4, DisconnectTimeout: time.Second}, m, zerolog.Nop())
	t.Cleanup(func() { registry.ShutdownAll(context.Background()) })

	_, err := manager.RequestChallenge(ctx, "+15550002222", "US")
	require.NoError(t, err)
	loginConn := gateway.Last()
	assert.Equal(t, 1, loginConn.CodesSent())

	account, err := manager.CompleteChallenge(ctx, authdto.VerifyOTPRequest{Phone: "+15550002222", Code: "12345"})
	require.NoError(t, err)
	assert.Equal(t, "1001", account.TelegramID)

	stored, ok := accounts.Session(1001)
	require.True(t, ok)
	assert.Equal(t, []byte("session-1001"), stored)

	require.NoError(t, rules.Create(ctx, &ruleentities.Rule{
		TelegramID:   account.TelegramID,
		SourceChat:   "-100111",
		TargetChat:   "@mirror",
		FilterType:   ruleentities.FilterAll,
		IsForwarding: true,
	}))

	opensBefore := gateway.Opens()
	require.NoError(t, registry.Enable(ctx, 1001))

	assert.Equal(t, opensBefore+1, gateway.Opens())
	assert.Equal(t, 1, registry.ActiveCount())

	conn := gateway.Last()
	require.NotSame(t, loginConn, conn)
	assert.True(t, conn.Opts.ReceiveUpdates)
	assert.Zero(t, conn.CodesSent(), "a stored session needs no login code")

	authorized, err := conn.Authorized(ctx)
	require.NoError(t, err)
	assert.True(t, authorized)

	seed, err := conn.Storage.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored, seed)

	require.True(t, conn.Emit(ctx, domain.Message{ChatID: "-100111", Text: "hello"}))
	require.Eventually(t, func() bool { return len(conn.SentMessages()) == 1 }, time.Second, 5*time.Millisecond)
}
