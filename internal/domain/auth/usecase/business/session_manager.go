package business

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/royak47/autofor/internal/domain"
	accountdeps "github.com/royak47/autofor/internal/domain/account/deps"
	accountentities "github.com/royak47/autofor/internal/domain/account/entities"
	"github.com/royak47/autofor/internal/domain/auth/deps"
	"github.com/royak47/autofor/internal/domain/auth/dto"
	"github.com/royak47/autofor/internal/domain/auth/entities"
	autherrors "github.com/royak47/autofor/internal/domain/auth/errors"
	"github.com/royak47/autofor/internal/infrastructure/metrics"
	"github.com/royak47/autofor/internal/utils"
	"github.com/royak47/autofor/pkg/keymutex"
)

// closeTimeout bounds the disconnect of a login connection
const closeTimeout = 10 * time.Second

// SessionManagerConfig holds the login flow settings
type SessionManagerConfig struct {
	PendingTTL      time.Duration
	CleanupInterval time.Duration
}

// SessionManager runs the two-phase login: a challenge that sends a code,
// then a completion with the code and, when enabled, the 2FA password.
type SessionManager struct {
	gateway  domain.Gateway
	accounts accountdeps.AccountRepository
	limiter  *Limiter
	pending  *PendingStore
	locks    *keymutex.KeyMutex
	cfg      SessionManagerConfig
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	now      func() time.Time
	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewSessionManager creates a new session manager
func NewSessionManager(
	gateway domain.Gateway,
	accounts accountdeps.AccountRepository,
	limiter *Limiter,
	cfg SessionManagerConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *SessionManager {
	return &SessionManager{
		gateway:  gateway,
		accounts: accounts,
		limiter:  limiter,
		pending:  NewPendingStore(),
		locks:    keymutex.New(),
		cfg:      cfg,
		metrics:  m,
		logger:   logger.With().Str("usecase", "session_manager").Logger(),
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// RequestChallenge opens a login connection for phone and sends the login code.
// A stored credential that is still authorized is reused without a code.
func (m *SessionManager) RequestChallenge(ctx context.Context, phone, country string) (*entities.ChallengeResult, error) {
	phone = utils.NormalizePhone(phone)
	country = strings.TrimSpace(country)
	if strings.TrimPrefix(phone, "+") == "" {
		return nil, autherrors.ErrPhoneRequired
	}
	if country == "" {
		return nil, autherrors.ErrCountryRequired
	}

	masked := utils.MaskPhoneNumber(phone)

	if err := m.limiter.Allow(ctx, phone); err != nil {
		return nil, err
	}

	unlock := m.locks.Lock(phone)
	defer unlock()

	seed, err := m.accounts.FindSessionByPhone(ctx, phone)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		m.logger.Warn().Err(err).Str("phone", masked).Msg("failed to look up stored credential, starting fresh")
	}

	storage := domain.NewMemorySession(seed)
	conn, err := m.gateway.Open(ctx, storage, domain.OpenOptions{Label: masked})
	if err != nil {
		m.metrics.RecordOTPRequest("failed")
		return nil, fmt.Errorf("%w: %w", autherrors.ErrSendCodeFailed, err)
	}

	authorized, err := conn.Authorized(ctx)
	if err != nil {
		m.closeConnection(conn, masked)
		m.metrics.RecordOTPRequest("failed")
		return nil, fmt.Errorf("%w: %w", autherrors.ErrSendCodeFailed, err)
	}

	login := &entities.PendingLogin{
		Phone:      phone,
		Country:    country,
		Conn:       conn,
		Storage:    storage,
		Authorized: authorized,
		CreatedAt:  m.now(),
	}
	if m.cfg.PendingTTL > 0 {
		login.ExpiresAt = login.CreatedAt.Add(m.cfg.PendingTTL)
	}

	if !authorized {
		hash, err := conn.SendCode(ctx, phone)
		if err != nil {
			m.closeConnection(conn, masked)
			m.metrics.RecordOTPRequest("failed")
			return nil, fmt.Errorf("%w: %w", autherrors.ErrSendCodeFailed, err)
		}
		login.CodeHash = hash
	}

	if previous := m.pending.Put(login); previous != nil {
		m.logger.Debug().Str("phone", masked).Msg("replacing previous pending login")
		go m.closeConnection(previous.Conn, masked)
	}
	m.metrics.UpdatePendingLogins(m.pending.Count())

	result := "sent"
	if authorized {
		result = "resumed"
	}
	m.metrics.RecordOTPRequest(result)
	m.logger.Info().Str("phone", masked).Bool("code_sent", !authorized).Msg("login challenge issued")

	return &entities.ChallengeResult{CodeSent: !authorized}, nil
}

// CompleteChallenge finishes the pending login of a phone and persists the account.
// A missing 2FA password keeps the login pending; any other failure ends it.
func (m *SessionManager) CompleteChallenge(ctx context.Context, req dto.VerifyOTPRequest) (*accountentities.Account, error) {
	phone := utils.NormalizePhone(req.Phone)
	if strings.TrimPrefix(phone, "+") == "" {
		return nil, autherrors.ErrPhoneRequired
	}
	code := strings.TrimSpace(req.Code)
	masked := utils.MaskPhoneNumber(phone)

	unlock := m.locks.Lock(phone)
	defer unlock()

	login, ok := m.pending.Get(phone)
	if !ok {
		return nil, autherrors.ErrNoPendingSession
	}

	if !login.Authorized {
		if err := m.authorize(ctx, login, code, req.Password); err != nil {
			if errors.Is(err, autherrors.ErrSecondFactorRequired) || errors.Is(err, autherrors.ErrCodeRequired) {
				m.metrics.RecordLogin("incomplete")
				return nil, err
			}
			m.finish(login, masked)
			m.metrics.RecordLogin("invalid")
			m.logger.Info().Err(err).Str("phone", masked).Msg("login challenge rejected")
			return nil, fmt.Errorf("%w: %w", autherrors.ErrInvalidChallenge, err)
		}
	}

	profile, err := login.Conn.Self(ctx)
	if err != nil {
		m.finish(login, masked)
		m.metrics.RecordLogin("failed")
		return nil, fmt.Errorf("%w: %w", autherrors.ErrCompleteLoginFailed, err)
	}

	country := strings.TrimSpace(req.Country)
	if country == "" {
		country = login.Country
	}

	account := &accountentities.Account{
		TelegramID:  accountentities.FormatTelegramID(profile.ID),
		PhoneNumber: phone,
		Username:    profile.Username,
		FirstName:   profile.FirstName,
		Country:     country,
	}

	if err := m.accounts.SaveLogin(ctx, account, login.Storage.Bytes()); err != nil {
		m.finish(login, masked)
		m.metrics.RecordLogin("failed")
		m.logger.Error().Err(err).Str("phone", masked).Msg("failed to persist login")
		return nil, fmt.Errorf("%w: %w", autherrors.ErrStore, err)
	}

	m.finish(login, masked)
	m.metrics.RecordLogin("success")
	m.logger.Info().
		Str("phone", masked).
		Str("telegram_id", account.TelegramID).
		Msg("login completed")

	return account, nil
}

// authorize signs the pending connection in with the code or the 2FA password
func (m *SessionManager) authorize(ctx context.Context, login *entities.PendingLogin, code, password string) error {
	if login.AwaitingPassword {
		if password == "" {
			return autherrors.ErrSecondFactorRequired
		}
		return login.Conn.CheckPassword(ctx, password)
	}

	if code == "" {
		return autherrors.ErrCodeRequired
	}

	err := login.Conn.SignIn(ctx, login.Phone, code, login.CodeHash)
	if errors.Is(err, domain.ErrPasswordNeeded) {
		login.AwaitingPassword = true
		if password == "" {
			return autherrors.ErrSecondFactorRequired
		}
		return login.Conn.CheckPassword(ctx, password)
	}
	return err
}

// finish discards the pending login and disconnects it
func (m *SessionManager) finish(login *entities.PendingLogin, masked string) {
	if m.pending.Delete(login) {
		m.metrics.UpdatePendingLogins(m.pending.Count())
	}
	m.closeConnection(login.Conn, masked)
}

func (m *SessionManager) closeConnection(conn domain.Connection, masked string) {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	if err := conn.Close(ctx); err != nil {
		m.logger.Warn().Err(err).Str("phone", masked).Msg("failed to close login connection")
	}
}

// PendingCount returns the number of logins waiting for completion
func (m *SessionManager) PendingCount() int {
	return m.pending.Count()
}

// Sweep closes pending logins that outlived their TTL and returns how many were removed
func (m *SessionManager) Sweep() int {
	removed := 0
	for _, phone := range m.pending.Expired(m.now()) {
		unlock := m.locks.Lock(phone)
		if login, ok := m.pending.Get(phone); ok && login.IsExpired(m.now()) {
			m.finish(login, utils.MaskPhoneNumber(phone))
			removed++
		}
		unlock()
	}

	if removed > 0 {
		m.logger.Info().Int("removed", removed).Msg("cleaned up expired pending logins")
	}
	return removed
}

// Start runs the expiry sweeper until Stop is called
func (m *SessionManager) Start() {
	if !m.started.CompareAndSwap(false, true) {
		return
	}

	interval := m.cfg.CleanupInterval
	if interval <= 0 {
		interval = time.Minute
	}

	go func() {
		defer close(m.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.Sweep()
			case <-m.stop:
				return
			}
		}
	}()
}

// Stop halts the sweeper and disconnects every pending login
func (m *SessionManager) Stop(ctx context.Context) error {
	m.stopOnce.Do(func() { close(m.stop) })

	if m.started.Load() {
		select {
		case <-m.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	logins := m.pending.Drain()
	m.metrics.UpdatePendingLogins(0)

	var wg sync.WaitGroup
	for _, login := range logins {
		wg.Add(1)
		go func(l *entities.PendingLogin) {
			defer wg.Done()
			m.closeConnection(l.Conn, utils.MaskPhoneNumber(l.Phone))
		}(login)
	}
	wg.Wait()

	if len(logins) > 0 {
		m.logger.Info().Int("closed", len(logins)).Msg("pending logins closed on shutdown")
	}
	return nil
}

var _ deps.AuthService = (*SessionManager)(nil)
