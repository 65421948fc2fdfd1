package business

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/royak47/autofor/internal/domain"
	accountdeps "github.com/royak47/autofor/internal/domain/account/deps"
	accountentities "github.com/royak47/autofor/internal/domain/account/entities"
	accounterrors "github.com/royak47/autofor/internal/domain/account/errors"
	"github.com/royak47/autofor/internal/domain/forwarding/deps"
	fwderrors "github.com/royak47/autofor/internal/domain/forwarding/errors"
	ruledeps "github.com/royak47/autofor/internal/domain/rule/deps"
	"github.com/royak47/autofor/internal/infrastructure/metrics"
	"github.com/royak47/autofor/pkg/keymutex"
)

// RegistryConfig holds live forwarding settings
type RegistryConfig struct {
	BufferSize        int
	DisconnectTimeout time.Duration
	SendTimeout       time.Duration
}

// activeConnection is one account's live connection and its worker
type activeConnection struct {
	telegramID int64
	conn       domain.Connection
	engine     *Engine
	events     chan domain.Message
	cancel     context.CancelFunc
	done       chan struct{}
	startedAt  time.Time
}

// enqueue hands msg to the worker, blocking while the buffer is full
func (a *activeConnection) enqueue(ctx context.Context, msg domain.Message) {
	select {
	case a.events <- msg:
	case <-a.done:
	case <-ctx.Done():
	}
}

// Registry keeps at most one live connection per account
type Registry struct {
	gateway   domain.Gateway
	accounts  accountdeps.AccountRepository
	rules     ruledeps.RuleRepository
	publisher domain.ForwardEventPublisher
	cfg       RegistryConfig
	metrics   *metrics.Metrics
	logger    zerolog.Logger

	locks    *keymutex.KeyMutex
	mu       sync.RWMutex
	active   map[int64]*activeConnection
	shutdown bool
}

// NewRegistry creates an empty connection registry
func NewRegistry(
	gateway domain.Gateway,
	accounts accountdeps.AccountRepository,
	rules ruledeps.RuleRepository,
	publisher domain.ForwardEventPublisher,
	cfg RegistryConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Registry {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 256
	}

	return &Registry{
		gateway:   gateway,
		accounts:  accounts,
		rules:     rules,
		publisher: publisher,
		cfg:       cfg,
		metrics:   m,
		logger:    logger.With().Str("component", "connection_registry").Logger(),
		locks:     keymutex.New(),
		active:    make(map[int64]*activeConnection),
	}
}

// Enable connects the account with its stored credential and starts forwarding
// its enabled rules. Calling it for an active account is a no-op.
func (r *Registry) Enable(ctx context.Context, telegramID int64) error {
	key := accountentities.FormatTelegramID(telegramID)
	unlock := r.locks.Lock(key)
	defer unlock()

	r.mu.RLock()
	_, exists := r.active[telegramID]
	shutdown := r.shutdown
	r.mu.RUnlock()

	if shutdown {
		return fwderrors.ErrShuttingDown
	}
	if exists {
		return nil
	}

	if _, err := r.accounts.GetByTelegramID(ctx, telegramID); err != nil {
		return err
	}

	storage := r.accounts.SessionStorage(telegramID)
	if _, err := storage.LoadSession(ctx); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return accounterrors.ErrAccountNotFound
		}
		return fmt.Errorf("%w: %w", fwderrors.ErrStore, err)
	}

	conn, err := r.gateway.Open(ctx, storage, domain.OpenOptions{ReceiveUpdates: true, Label: key})
	if err != nil {
		return r.connectError(err)
	}

	authorized, err := conn.Authorized(ctx)
	if err != nil || !authorized {
		r.disconnect(conn, key)
		if err != nil {
			return r.connectError(err)
		}
		r.logger.Info().Str("account_id", key).Msg("stored session is no longer authorized")
		return fwderrors.ErrReauthenticationRequired
	}

	rules, err := r.rules.ListEnabledByAccount(ctx, telegramID)
	if err != nil {
		r.disconnect(conn, key)
		return fmt.Errorf("%w: %w", fwderrors.ErrStore, err)
	}

	workerCtx, cancel := context.WithCancel(context.Background())
	ac := &activeConnection{
		telegramID: telegramID,
		conn:       conn,
		engine:     NewEngine(key, rules, conn, r.publisher, r.cfg.SendTimeout, r.metrics, r.logger),
		events:     make(chan domain.Message, r.cfg.BufferSize),
		cancel:     cancel,
		done:       make(chan struct{}),
		startedAt:  time.Now(),
	}

	go r.runWorker(workerCtx, ac)

	if err := conn.Subscribe(ac.enqueue); err != nil {
		cancel()
		<-ac.done
		r.disconnect(conn, key)
		return fmt.Errorf("%w: %w", fwderrors.ErrConnectFailed, err)
	}

	r.mu.Lock()
	if r.shutdown {
		r.mu.Unlock()
		cancel()
		<-ac.done
		r.disconnect(conn, key)
		return fwderrors.ErrShuttingDown
	}
	r.active[telegramID] = ac
	count := len(r.active)
	r.mu.Unlock()

	r.metrics.UpdateActiveConnections(count)
	r.logger.Info().
		Str("account_id", key).
		Int("rules", ac.engine.RuleCount()).
		Msg("forwarding enabled")

	return nil
}

// Disable stops the account's worker and disconnects it. Absent accounts are a no-op.
func (r *Registry) Disable(ctx context.Context, telegramID int64) (bool, error) {
	key := accountentities.FormatTelegramID(telegramID)
	unlock := r.locks.Lock(key)
	defer unlock()

	r.mu.Lock()
	ac, ok := r.active[telegramID]
	delete(r.active, telegramID)
	count := len(r.active)
	r.mu.Unlock()

	if !ok {
		return false, nil
	}

	r.metrics.UpdateActiveConnections(count)
	err := r.stop(ctx, ac)

	r.logger.Info().
		Str("account_id", key).
		Dur("uptime", time.Since(ac.startedAt)).
		Msg("forwarding disabled")

	return true, err
}

// ShutdownAll disconnects every account concurrently. Each disconnect is bounded
// by the per-connection timeout and the whole drain by ctx. New enables are refused.
func (r *Registry) ShutdownAll(ctx context.Context) int {
	r.mu.Lock()
	r.shutdown = true
	connections := make([]*activeConnection, 0, len(r.active))
	for id, ac := range r.active {
		connections = append(connections, ac)
		delete(r.active, id)
	}
	r.mu.Unlock()

	r.metrics.UpdateActiveConnections(0)

	if len(connections) == 0 {
		return 0
	}

	r.logger.Info().Int("connections", len(connections)).Msg("disconnecting all accounts")

	var (
		closed atomic.Int32
		wg     sync.WaitGroup
	)
	for _, ac := range connections {
		wg.Add(1)
		go func(ac *activeConnection) {
			defer wg.Done()
			if err := r.stop(ctx, ac); err == nil {
				closed.Add(1)
			}
		}(ac)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info().Int32("closed", closed.Load()).Msg("all accounts disconnected")
	case <-ctx.Done():
		r.logger.Warn().
			Int32("closed", closed.Load()).
			Int("total", len(connections)).
			Msg("shutdown deadline reached before all accounts disconnected")
	}

	return int(closed.Load())
}

// ActiveCount returns the number of live connections
func (r *Registry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.active)
}

// IsActive reports whether the account has a live connection
func (r *Registry) IsActive(telegramID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.active[telegramID]
	return ok
}

func (r *Registry) runWorker(ctx context.Context, ac *activeConnection) {
	defer close(ac.done)

	for {
		select {
		case msg := <-ac.events:
			ac.engine.Handle(ctx, msg)
		case <-ctx.Done():
			return
		}
	}
}

// stop cancels the worker, waits for it, then disconnects
func (r *Registry) stop(ctx context.Context, ac *activeConnection) error {
	ac.cancel()

	select {
	case <-ac.done:
	case <-ctx.Done():
	}

	closeCtx, cancel := r.disconnectContext(ctx)
	defer cancel()

	if err := ac.conn.Close(closeCtx); err != nil {
		r.logger.Warn().
			Err(err).
			Str("account_id", accountentities.FormatTelegramID(ac.telegramID)).
			Msg("failed to disconnect cleanly")
		return err
	}
	return nil
}

func (r *Registry) disconnect(conn domain.Connection, key string) {
	ctx, cancel := r.disconnectContext(context.Background())
	defer cancel()

	if err := conn.Close(ctx); err != nil {
		r.logger.Warn().Err(err).Str("account_id", key).Msg("failed to close connection")
	}
}

func (r *Registry) disconnectContext(parent context.Context) (context.Context, context.CancelFunc) {
	if r.cfg.DisconnectTimeout > 0 {
		return context.WithTimeout(parent, r.cfg.DisconnectTimeout)
	}
	return context.WithCancel(parent)
}

func (r *Registry) connectError(err error) error {
	if errors.Is(err, domain.ErrSessionRevoked) {
		return fmt.Errorf("%w: %w", fwderrors.ErrReauthenticationRequired, err)
	}
	return fmt.Errorf("%w: %w", fwderrors.ErrConnectFailed, err)
}

var (
	_ deps.ConnectionRegistry       = (*Registry)(nil)
	_ accountdeps.ConnectionCounter = (*Registry)(nil)
)
