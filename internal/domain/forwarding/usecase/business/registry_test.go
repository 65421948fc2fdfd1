package business

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royak47/autofor/internal/domain"
	accountentities "github.com/royak47/autofor/internal/domain/account/entities"
	accounterrors "github.com/royak47/autofor/internal/domain/account/errors"
	accountmemory "github.com/royak47/autofor/internal/domain/account/repository/memory"
	fwderrors "github.com/royak47/autofor/internal/domain/forwarding/errors"
	ruleentities "github.com/royak47/autofor/internal/domain/rule/entities"
	rulememory "github.com/royak47/autofor/internal/domain/rule/repository/memory"
	"github.com/royak47/autofor/internal/infrastructure/metrics"
	"github.com/royak47/autofor/internal/infrastructure/telegram/telegramtest"
)

type registryFixture struct {
	registry *Registry
	gateway  *telegramtest.Gateway
	accounts *accountmemory.Repository
	rules    *rulememory.Repository
}

func newRegistryFixture(t *testing.T, cfg RegistryConfig) *registryFixture {
	t.Helper()

	f := &registryFixture{
		gateway:  &telegramtest.Gateway{},
		accounts: accountmemory.NewRepository(),
		rules:    rulememory.NewRepository(),
	}
	f.addAccount(t, 1001, true)

	f.registry = NewRegistry(f.gateway, f.accounts, f.rules, nil, cfg, metrics.GetDefaultMetrics(), zerolog.Nop())
	return f
}

func (f *registryFixture) addAccount(t *testing.T, id int64, withSession bool) {
	t.Helper()

	var session []byte
	if withSession {
		session = []byte(fmt.Sprintf("session-%d", id))
	}
	require.NoError(t, f.accounts.SaveLogin(context.Background(), &accountentities.Account{
		TelegramID:  accountentities.FormatTelegramID(id),
		PhoneNumber: fmt.Sprintf("+1555%07d", id),
	}, session))
}

func (f *registryFixture) addRule(t *testing.T, id int64, enabled bool) {
	t.Helper()

	require.NoError(t, f.rules.Create(context.Background(), &ruleentities.Rule{
		TelegramID:   accountentities.FormatTelegramID(id),
		SourceChat:   "-100111",
		TargetChat:   "@mirror",
		FilterType:   ruleentities.FilterAll,
		IsForwarding: enabled,
	}))
}

func TestRegistry_EnableForwardsMessages(t *testing.T) {
	f := newRegistryFixture(t, RegistryConfig{BufferSize: 4})
	f.addRule(t, 1001, true)
	ctx := context.Background()

	require.NoError(t, f.registry.Enable(ctx, 1001))
	assert.True(t, f.registry.IsActive(1001))
	assert.Equal(t, 1, f.registry.ActiveCount())

	conn := f.gateway.Last()
	require.NotNil(t, conn)
	assert.True(t, conn.Opts.ReceiveUpdates)

	require.True(t, conn.Emit(ctx, domain.Message{ChatID: "-100111", Text: "first"}))
	require.True(t, conn.Emit(ctx, domain.Message{ChatID: "-100111", Text: "second"}))

	require.Eventually(t, func() bool { return len(conn.SentMessages()) == 2 }, time.Second, 5*time.Millisecond)
	sent := conn.SentMessages()
	assert.Equal(t, "first", sent[0].Message.Text, "messages of one account keep arrival order")
	assert.Equal(t, "second", sent[1].Message.Text)
}

func TestRegistry_EnableIsIdempotent(t *testing.T) {
	f := newRegistryFixture(t, RegistryConfig{BufferSize: 4})
	ctx := context.Background()

	require.NoError(t, f.registry.Enable(ctx, 1001))
	require.NoError(t, f.registry.Enable(ctx, 1001))

	assert.Equal(t, 1, f.gateway.Opens())
}

func TestRegistry_ConcurrentEnableOpensOnce(t *testing.T) {
	f := newRegistryFixture(t, RegistryConfig{BufferSize: 4})
	f.gateway.OpenDelay = 20 * time.Millisecond

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- f.registry.Enable(context.Background(), 1001)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, f.gateway.Opens())
	assert.Equal(t, 1, f.registry.ActiveCount())
}

func TestRegistry_EnableErrors(t *testing.T) {
	t.Run("unknown account", func(t *testing.T) {
		f := newRegistryFixture(t, RegistryConfig{})
		err := f.registry.Enable(context.Background(), 42)
		assert.ErrorIs(t, err, accounterrors.ErrAccountNotFound)
		assert.Zero(t, f.gateway.Opens())
	})

	t.Run("account without credential", func(t *testing.T) {
		f := newRegistryFixture(t, RegistryConfig{})
		f.addAccount(t, 2002, false)
		err := f.registry.Enable(context.Background(), 2002)
		assert.ErrorIs(t, err, accounterrors.ErrAccountNotFound)
	})

	t.Run("session no longer authorized", func(t *testing.T) {
		f := newRegistryFixture(t, RegistryConfig{})
		f.gateway.Configure = func(c *telegramtest.Conn) { c.LoggedIn = false }

		err := f.registry.Enable(context.Background(), 1001)
		assert.ErrorIs(t, err, fwderrors.ErrReauthenticationRequired)
		assert.True(t, f.gateway.Last().Closed())
		assert.False(t, f.registry.IsActive(1001))
	})

	t.Run("session revoked on connect", func(t *testing.T) {
		f := newRegistryFixture(t, RegistryConfig{})
		f.gateway.OpenErr = fmt.Errorf("failed to connect: %w", domain.ErrSessionRevoked)

		err := f.registry.Enable(context.Background(), 1001)
		assert.ErrorIs(t, err, fwderrors.ErrReauthenticationRequired)
	})

	t.Run("network failure", func(t *testing.T) {
		f := newRegistryFixture(t, RegistryConfig{})
		f.gateway.OpenErr = fmt.Errorf("dial tcp: i/o timeout")

		err := f.registry.Enable(context.Background(), 1001)
		assert.ErrorIs(t, err, fwderrors.ErrConnectFailed)
	})
}

func TestRegistry_RuleSnapshot(t *testing.T) {
	f := newRegistryFixture(t, RegistryConfig{BufferSize: 4})
	ctx := context.Background()

	require.NoError(t, f.registry.Enable(ctx, 1001))
	f.addRule(t, 1001, true)

	conn := f.gateway.Last()
	conn.Emit(ctx, domain.Message{ChatID: "-100111", Text: "hello"})

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, conn.SentMessages(), "rules added after enable apply only after a re-enable")
}

func TestRegistry_DisableIsIdempotent(t *testing.T) {
	f := newRegistryFixture(t, RegistryConfig{DisconnectTimeout: time.Second})
	ctx := context.Background()

	require.NoError(t, f.registry.Enable(ctx, 1001))

	stopped, err := f.registry.Disable(ctx, 1001)
	require.NoError(t, err)
	assert.True(t, stopped)
	assert.True(t, f.gateway.Last().Closed())
	assert.False(t, f.registry.IsActive(1001))

	stopped, err = f.registry.Disable(ctx, 1001)
	require.NoError(t, err)
	assert.False(t, stopped)
}

func TestRegistry_ShutdownAll(t *testing.T) {
	f := newRegistryFixture(t, RegistryConfig{DisconnectTimeout: time.Second})
	f.addAccount(t, 2002, true)
	ctx := context.Background()

	require.NoError(t, f.registry.Enable(ctx, 1001))
	require.NoError(t, f.registry.Enable(ctx, 2002))

	assert.Equal(t, 2, f.registry.ShutdownAll(ctx))
	assert.Zero(t, f.registry.ActiveCount())
	for _, conn := range f.gateway.Connections() {
		assert.True(t, conn.Closed())
	}

	assert.ErrorIs(t, f.registry.Enable(ctx, 1001), fwderrors.ErrShuttingDown)
}

func TestRegistry_ShutdownAllIsBounded(t *testing.T) {
	f := newRegistryFixture(t, RegistryConfig{DisconnectTimeout: 50 * time.Millisecond})
	block := make(chan struct{})
	defer close(block)
	f.gateway.Configure = func(c *telegramtest.Conn) { c.CloseBlock = block }

	require.NoError(t, f.registry.Enable(context.Background(), 1001))

	start := time.Now()
	closed := f.registry.ShutdownAll(context.Background())

	assert.Zero(t, closed, "a disconnect that times out is not counted as clean")
	assert.Less(t, time.Since(start), time.Second)
}
