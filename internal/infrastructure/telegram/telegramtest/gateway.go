// Package telegramtest provides an in-memory domain.Gateway for tests.
package telegramtest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/royak47/autofor/internal/domain"
)

// Gateway is a scriptable domain.Gateway. Configure runs on every new
// connection before it is returned, so tests can set per-connection behavior.
type Gateway struct {
	OpenErr   error
	OpenDelay time.Duration
	Configure func(c *Conn)

	opens atomic.Int32
	mu    sync.Mutex
	conns []*Conn
}

// Open creates a new fake connection and records the session handshake in storage
func (g *Gateway) Open(ctx context.Context, storage domain.SessionStorage, opts domain.OpenOptions) (domain.Connection, error) {
	g.opens.Add(1)

	if g.OpenDelay > 0 {
		select {
		case <-time.After(g.OpenDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if g.OpenErr != nil {
		return nil, g.OpenErr
	}

	c := &Conn{
		Opts:     opts,
		Storage:  storage,
		CodeHash: "hash",
		Code:     "12345",
		Profile:  domain.Profile{ID: 1001, Username: "tester", FirstName: "Test"},
	}
	if seed, err := storage.LoadSession(ctx); err == nil && len(seed) > 0 {
		c.LoggedIn = true
	}
	if g.Configure != nil {
		g.Configure(c)
	}

	g.mu.Lock()
	g.conns = append(g.conns, c)
	g.mu.Unlock()

	return c, nil
}

// Opens returns how many times Open was called
func (g *Gateway) Opens() int {
	return int(g.opens.Load())
}

// Connections returns every connection opened so far
func (g *Gateway) Connections() []*Conn {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*Conn(nil), g.conns...)
}

// Last returns the most recently opened connection
func (g *Gateway) Last() *Conn {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.conns) == 0 {
		return nil
	}
	return g.conns[len(g.conns)-1]
}

// Sent is a message recorded by Conn.Send
type Sent struct {
	ChatID  string
	Message domain.OutgoingMessage
}

// Conn is a scriptable domain.Connection
type Conn struct {
	Opts    domain.OpenOptions
	Storage domain.SessionStorage

	LoggedIn      bool
	AuthorizedErr error
	CodeHash      string
	SendCodeErr   error
	Code          string
	Password      string // non-empty enables two-step verification
	Profile       domain.Profile
	SelfErr       error
	SendErr       func(chatID string) error

	// CloseBlock, when set, holds Close until it is closed or ctx expires
	CloseBlock chan struct{}

	mu        sync.Mutex
	handler   domain.MessageHandler
	sent      []Sent
	closed    int
	codesSent int
	signedIn  bool
}

func (c *Conn) Authorized(context.Context) (bool, error) {
	if c.AuthorizedErr != nil {
		return false, c.AuthorizedErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.LoggedIn, nil
}

func (c *Conn) SendCode(_ context.Context, _ string) (string, error) {
	if c.SendCodeErr != nil {
		return "", c.SendCodeErr
	}
	c.mu.Lock()
	c.codesSent++
	c.mu.Unlock()
	return c.CodeHash, nil
}

func (c *Conn) SignIn(ctx context.Context, _, code, hash string) error {
	if hash != c.CodeHash || code != c.Code {
		return domain.ErrInvalidCode
	}

	c.mu.Lock()
	c.signedIn = true
	c.mu.Unlock()

	if c.Password != "" {
		return domain.ErrPasswordNeeded
	}
	return c.authorize(ctx)
}

func (c *Conn) CheckPassword(ctx context.Context, password string) error {
	c.mu.Lock()
	signedIn := c.signedIn
	c.mu.Unlock()

	if !signedIn || password != c.Password {
		return domain.ErrInvalidPassword
	}
	return c.authorize(ctx)
}

func (c *Conn) authorize(ctx context.Context) error {
	c.mu.Lock()
	c.LoggedIn = true
	c.mu.Unlock()
	return c.Storage.StoreSession(ctx, []byte(fmt.Sprintf("session-%d", c.Profile.ID)))
}

func (c *Conn) Self(context.Context) (*domain.Profile, error) {
	if c.SelfErr != nil {
		return nil, c.SelfErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.LoggedIn {
		return nil, errors.New("not authorized")
	}
	profile := c.Profile
	return &profile, nil
}

func (c *Conn) Subscribe(handler domain.MessageHandler) error {
	if !c.Opts.ReceiveUpdates {
		return errors.New("connection was opened without updates")
	}
	c.mu.Lock()
	c.handler = handler
	c.mu.Unlock()
	return nil
}

func (c *Conn) Send(_ context.Context, chatID string, msg domain.OutgoingMessage) error {
	if c.SendErr != nil {
		if err := c.SendErr(chatID); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, Sent{ChatID: chatID, Message: msg})
	return nil
}

func (c *Conn) Close(ctx context.Context) error {
	if c.CloseBlock != nil {
		select {
		case <-c.CloseBlock:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
	return nil
}

// Emit delivers msg to the subscribed handler, as the update loop would.
// It reports false when nothing is subscribed.
func (c *Conn) Emit(ctx context.Context, msg domain.Message) bool {
	c.mu.Lock()
	handler := c.handler
	c.mu.Unlock()

	if handler == nil {
		return false
	}
	handler(ctx, msg)
	return true
}

// SentMessages returns the messages sent so far
func (c *Conn) SentMessages() []Sent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Sent(nil), c.sent...)
}

// CodesSent returns how many login codes were requested on this connection
func (c *Conn) CodesSent() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codesSent
}

// Closed reports whether Close completed at least once
func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed > 0
}

var (
	_ domain.Gateway    = (*Gateway)(nil)
	_ domain.Connection = (*Conn)(nil)
)
