package telegram

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/telegram/updates"
	"github.com/gotd/td/tg"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/royak47/autofor/internal/domain"
	"github.com/royak47/autofor/internal/infrastructure/metrics"
)

// dialogsLimit bounds the dialog page fetched when a target peer is unknown
const dialogsLimit = 100

// connection implements domain.Connection on top of a gotd client
type connection struct {
	client  *telegram.Client
	updates *updates.Manager
	opts    domain.OpenOptions

	mu         sync.RWMutex
	api        *tg.Client
	cancelFunc context.CancelFunc
	runDone    chan struct{}
	closed     bool

	handler      atomic.Pointer[domain.MessageHandler]
	startUpdates chan struct{}
	subscribe    sync.Once

	peers         *peerCache
	dialogsMu     sync.Mutex
	dialogsLoaded bool

	rateLimiter *rate.Limiter
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

func newConnection(g *Gateway, storage domain.SessionStorage, opts domain.OpenOptions) *connection {
	c := &connection{
		opts:         opts,
		startUpdates: make(chan struct{}),
		peers:        newPeerCache(),
		rateLimiter:  rate.NewLimiter(rate.Limit(g.cfg.SendRate), g.cfg.SendBurst),
		metrics:      g.metrics,
		logger:       g.logger.With().Str("connection", opts.Label).Logger(),
	}

	options := telegram.Options{
		SessionStorage: sessionStorage{storage: storage},
		NoUpdates:      !opts.ReceiveUpdates,
	}

	if opts.ReceiveUpdates {
		dispatcher := tg.NewUpdateDispatcher()
		dispatcher.OnNewMessage(c.onNewMessage)
		dispatcher.OnNewChannelMessage(c.onNewChannelMessage)

		c.updates = updates.New(updates.Config{Handler: dispatcher})
		options.UpdateHandler = c.updates
	}

	c.client = telegram.NewClient(g.cfg.APIID, g.cfg.APIHash, options)
	return c
}

// start runs the client in the background and returns once the API is usable
func (c *connection) start(ctx context.Context) error {
	// The client outlives the dial context, so it gets its own cancellation.
	clientCtx, cancel := context.WithCancel(context.Background())

	ready := make(chan struct{})
	errChan := make(chan error, 1)
	runDone := make(chan struct{})

	c.mu.Lock()
	c.cancelFunc = cancel
	c.runDone = runDone
	c.mu.Unlock()

	go func() {
		defer close(runDone)

		err := c.client.Run(clientCtx, func(ctx context.Context) error {
			c.mu.Lock()
			c.api = c.client.API()
			c.mu.Unlock()

			close(ready)

			if !c.opts.ReceiveUpdates {
				<-ctx.Done()
				return ctx.Err()
			}

			select {
			case <-c.startUpdates:
			case <-ctx.Done():
				return ctx.Err()
			}

			self, err := c.client.Self(ctx)
			if err != nil {
				return fmt.Errorf("failed to get self: %w", mapCallError(err))
			}

			return c.updates.Run(ctx, c.client.API(), self.ID, updates.AuthOptions{
				OnStart: func(ctx context.Context) {
					c.logger.Info().Int64("user_id", self.ID).Msg("live updates started")
				},
			})
		})

		c.mu.Lock()
		closed := c.closed
		c.api = nil
		c.mu.Unlock()

		if err != nil && !closed && clientCtx.Err() == nil {
			c.logger.Error().Err(err).Msg("connection dropped")
			c.metrics.RecordConnectionDrop()
		}

		select {
		case errChan <- err:
		default:
		}
	}()

	select {
	case <-ready:
		c.logger.Debug().Msg("connected to Telegram")
		return nil
	case err := <-errChan:
		cancel()
		if err == nil {
			err = domain.ErrNotConnected
		}
		return fmt.Errorf("failed to connect: %w", mapCallError(err))
	case <-ctx.Done():
		cancel()
		<-runDone
		return fmt.Errorf("failed to connect: %w", ctx.Err())
	}
}

func (c *connection) apiClient() (*tg.Client, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed || c.api == nil {
		return nil, domain.ErrNotConnected
	}
	return c.api, nil
}

// Authorized reports whether the session is logged in. A revoked key reads as logged out.
func (c *connection) Authorized(ctx context.Context) (bool, error) {
	if _, err := c.apiClient(); err != nil {
		return false, err
	}

	status, err := c.client.Auth().Status(ctx)
	if err != nil {
		if isRevoked(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check auth status: %w", mapCallError(err))
	}
	return status.Authorized, nil
}

// SendCode asks Telegram to deliver a login code to the account's devices
func (c *connection) SendCode(ctx context.Context, phone string) (string, error) {
	if _, err := c.apiClient(); err != nil {
		return "", err
	}

	sent, err := c.client.Auth().SendCode(ctx, phone, auth.SendCodeOptions{})
	if err != nil {
		c.recordFlood(err)
		return "", mapCallError(err)
	}

	hash, err := codeHash(sent)
	if err != nil {
		return "", err
	}

	c.logger.Info().Msg("login code has been sent")
	return hash, nil
}

// SignIn completes login with the delivered code
func (c *connection) SignIn(ctx context.Context, phone, code, hash string) error {
	if _, err := c.apiClient(); err != nil {
		return err
	}

	_, err := c.client.Auth().SignIn(ctx, phone, code, hash)
	return mapSignInError(err)
}

// CheckPassword completes login with the two-step verification password
func (c *connection) CheckPassword(ctx context.Context, password string) error {
	if _, err := c.apiClient(); err != nil {
		return err
	}

	_, err := c.client.Auth().Password(ctx, password)
	return mapPasswordError(err)
}

// Self returns the profile of the logged-in account
func (c *connection) Self(ctx context.Context) (*domain.Profile, error) {
	if _, err := c.apiClient(); err != nil {
		return nil, err
	}

	user, err := c.client.Self(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get self: %w", mapCallError(err))
	}

	return &domain.Profile{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		Phone:     user.Phone,
	}, nil
}

// Subscribe routes inbound messages to handler and starts the update stream
func (c *connection) Subscribe(handler domain.MessageHandler) error {
	if !c.opts.ReceiveUpdates {
		return fmt.Errorf("connection was opened without updates")
	}
	if handler == nil {
		return fmt.Errorf("handler is required")
	}

	c.handler.Store(&handler)
	c.subscribe.Do(func() { close(c.startUpdates) })
	return nil
}

// Send delivers msg to chatID, re-sending the original media when present
func (c *connection) Send(ctx context.Context, chatID string, msg domain.OutgoingMessage) error {
	api, err := c.apiClient()
	if err != nil {
		return err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	peer, err := c.resolvePeer(ctx, api, chatID)
	if err != nil {
		return err
	}

	if msg.Media != nil {
		if media, ok := msg.Media.Ref.(tg.InputMediaClass); ok {
			_, err = api.MessagesSendMedia(ctx, &tg.MessagesSendMediaRequest{
				Peer:     peer,
				Media:    media,
				Message:  msg.Text,
				RandomID: rand.Int64(),
			})
			if err != nil {
				c.recordFlood(err)
				return fmt.Errorf("failed to send media: %w", mapCallError(err))
			}
			return nil
		}
	}

	_, err = api.MessagesSendMessage(ctx, &tg.MessagesSendMessageRequest{
		Peer:     peer,
		Message:  msg.Text,
		RandomID: rand.Int64(),
	})
	if err != nil {
		c.recordFlood(err)
		return fmt.Errorf("failed to send message: %w", mapCallError(err))
	}
	return nil
}

// Close stops the client; ctx bounds the wait for Run to return
func (c *connection) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	cancel := c.cancelFunc
	runDone := c.runDone
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	if runDone != nil {
		select {
		case <-runDone:
		case <-ctx.Done():
			c.logger.Warn().Msg("disconnect timeout reached while waiting for client shutdown")
			return fmt.Errorf("disconnect timed out: %w", ctx.Err())
		}
	}

	c.logger.Debug().Msg("disconnected from Telegram")
	return nil
}

// resolvePeer finds the input peer for a marked id or a username
func (c *connection) resolvePeer(ctx context.Context, api *tg.Client, chatID string) (tg.InputPeerClass, error) {
	if peer, ok := c.peers.lookup(chatID); ok {
		return peer, nil
	}

	if isUsername(chatID) {
		resolved, err := api.ContactsResolveUsername(ctx, &tg.ContactsResolveUsernameRequest{
			Username: normalizeUsername(chatID),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrPeerNotFound, chatID, mapCallError(err))
		}
		c.peers.rememberClasses(resolved.Users, resolved.Chats)
	} else {
		c.ensureDialogs(ctx, api)
	}

	if peer, ok := c.peers.lookup(chatID); ok {
		return peer, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrPeerNotFound, chatID)
}

// ensureDialogs loads dialogs until one fetch succeeds
func (c *connection) ensureDialogs(ctx context.Context, api *tg.Client) {
	c.dialogsMu.Lock()
	defer c.dialogsMu.Unlock()

	if c.dialogsLoaded {
		return
	}
	if err := c.loadDialogs(ctx, api); err != nil {
		c.logger.Warn().Err(err).Msg("failed to load dialogs")
		return
	}
	c.dialogsLoaded = true
}

// loadDialogs seeds the peer cache from the most recent dialogs
func (c *connection) loadDialogs(ctx context.Context, api *tg.Client) error {
	res, err := api.MessagesGetDialogs(ctx, &tg.MessagesGetDialogsRequest{
		OffsetPeer: &tg.InputPeerEmpty{},
		Limit:      dialogsLimit,
	})
	if err != nil {
		return mapCallError(err)
	}

	switch d := res.(type) {
	case *tg.MessagesDialogs:
		c.peers.rememberClasses(d.Users, d.Chats)
	case *tg.MessagesDialogsSlice:
		c.peers.rememberClasses(d.Users, d.Chats)
	}

	c.logger.Debug().Int("peers", c.peers.size()).Msg("dialogs loaded")
	return nil
}

func (c *connection) onNewMessage(ctx context.Context, e tg.Entities, u *tg.UpdateNewMessage) error {
	c.peers.rememberEntities(e)
	c.deliver(ctx, u.Message)
	return nil
}

func (c *connection) onNewChannelMessage(ctx context.Context, e tg.Entities, u *tg.UpdateNewChannelMessage) error {
	c.peers.rememberEntities(e)
	c.deliver(ctx, u.Message)
	return nil
}

func (c *connection) deliver(ctx context.Context, raw tg.MessageClass) {
	msg, ok := convertMessage(raw)
	if !ok {
		return
	}

	handler := c.handler.Load()
	if handler == nil {
		c.logger.Debug().Str("chat_id", msg.ChatID).Msg("message received before subscription, dropping")
		return
	}

	(*handler)(ctx, msg)
}

func (c *connection) recordFlood(err error) {
	if isFloodWait(err) {
		c.metrics.RecordFloodWait()
	}
}

var _ domain.Connection = (*connection)(nil)
