package domain

import "time"

// MediaKind tags the attachment variant of a message
type MediaKind string

const (
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
)

// Attachment is a photo or video carried by a message. Ref is the
// platform reference used to send the same media again without downloading it.
type Attachment struct {
	Kind MediaKind
	Ref  any
}

// Message is an inbound message seen by a connection
type Message struct {
	// ChatID is the marked chat identifier: users keep their id, basic
	// groups are negated and channels carry the -100 prefix.
	ChatID    string
	MessageID int
	Text      string
	Media     *Attachment
	Date      time.Time
}

// HasText reports whether the message carries non-empty text
func (m Message) HasText() bool {
	return m.Text != ""
}

// HasMedia reports whether the message carries a photo or a video
func (m Message) HasMedia() bool {
	return m.Media != nil && (m.Media.Kind == MediaPhoto || m.Media.Kind == MediaVideo)
}

// OutgoingMessage is what a connection sends to a target chat
type OutgoingMessage struct {
	Text  string
	Media *Attachment
}

// Profile is the identity of a logged-in account
type Profile struct {
	ID        int64
	Username  string
	FirstName string
	Phone     string
}

// ForwardStatus is the outcome of one dispatch attempt
type ForwardStatus string

const (
	ForwardStatusForwarded ForwardStatus = "forwarded"
	ForwardStatusFailed    ForwardStatus = "failed"
)

// ForwardEvent records one dispatch attempt of a rule
type ForwardEvent struct {
	AccountID  string
	RuleID     uint
	SourceChat string
	TargetChat string
	MessageID  int
	Status     ForwardStatus
	Error      string
	At         time.Time
}
