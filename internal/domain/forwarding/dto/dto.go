package dto

// ToggleForwardingRequest is the body of POST /api/toggle-forwarding
type ToggleForwardingRequest struct {
	TelegramID string `json:"telegramId"`
	Enable     bool   `json:"enable"`
}

// ToggleForwardingResponse reports the new forwarding state
type ToggleForwardingResponse struct {
	Message string `json:"message"`
}
