package domain

import "context"

// SessionStorage persists the serialized session of one platform connection.
// LoadSession returns ErrSessionNotFound when nothing is stored yet.
type SessionStorage interface {
	LoadSession(ctx context.Context) ([]byte, error)
	StoreSession(ctx context.Context, data []byte) error
}

// OpenOptions controls how a connection is opened
type OpenOptions struct {
	// ReceiveUpdates subscribes the connection to the live update stream.
	// Connections used only for login leave it off.
	ReceiveUpdates bool

	// Label identifies the connection in logs (masked phone or account id)
	Label string
}

// MessageHandler receives inbound messages of one connection, in arrival order
type MessageHandler func(ctx context.Context, msg Message)

// Gateway opens connections to the messaging platform
type Gateway interface {
	// Open dials the platform using storage to resume or record the session.
	// It returns once the connection is usable.
	Open(ctx context.Context, storage SessionStorage, opts OpenOptions) (Connection, error)
}

// Connection is a live, per-account handle to the messaging platform
type Connection interface {
	// Authorized reports whether the session is logged in
	Authorized(ctx context.Context) (bool, error)

	// SendCode asks the platform to deliver a login code and returns the code hash
	SendCode(ctx context.Context, phone string) (string, error)

	// SignIn completes login with the delivered code.
	// Returns ErrPasswordNeeded when two-step verification is enabled.
	SignIn(ctx context.Context, phone, code, codeHash string) error

	// CheckPassword completes login with the two-step verification password
	CheckPassword(ctx context.Context, password string) error

	// Self returns the profile of the logged-in account
	Self(ctx context.Context) (*Profile, error)

	// Subscribe routes inbound messages to handler. Only meaningful for
	// connections opened with ReceiveUpdates.
	Subscribe(handler MessageHandler) error

	// Send delivers msg to the chat identified by chatID
	Send(ctx context.Context, chatID string, msg OutgoingMessage) error

	// Close disconnects; ctx bounds the wait for the connection to stop
	Close(ctx context.Context) error
}

// ForwardEventPublisher streams dispatch outcomes. Publishing is best-effort:
// implementations must not block forwarding on a slow or absent broker.
type ForwardEventPublisher interface {
	PublishForwardEvent(ctx context.Context, event ForwardEvent) error
	IsHealthy() bool
	Close() error
}
