package kafka

import "github.com/royak47/autofor/internal/domain"

// ForwardEventMessage is the JSON payload written to the forward events topic
type ForwardEventMessage struct {
	AccountID  string `json:"account_id"`
	RuleID     uint   `json:"rule_id"`
	SourceChat string `json:"source_chat"`
	TargetChat string `json:"target_chat"`
	MessageID  int    `json:"message_id"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}

func newForwardEventMessage(event domain.ForwardEvent) ForwardEventMessage {
	return ForwardEventMessage{
		AccountID:  event.AccountID,
		RuleID:     event.RuleID,
		SourceChat: event.SourceChat,
		TargetChat: event.TargetChat,
		MessageID:  event.MessageID,
		Status:     string(event.Status),
		Error:      event.Error,
		Timestamp:  event.At.Unix(),
	}
}
