package dto

// SendOTPRequest is the body of POST /api/send-otp
type SendOTPRequest struct {
	Phone   string `json:"phone"`
	Country string `json:"country"`
}

// VerifyOTPRequest is the body of POST /api/verify-otp
type VerifyOTPRequest struct {
	Phone    string `json:"phone"`
	Code     string `json:"code"`
	Password string `json:"password,omitempty"`
	Country  string `json:"country"`
}

// VerifyOTPResponse is returned after a successful login
type VerifyOTPResponse struct {
	Message    string `json:"message"`
	TelegramID string `json:"telegramId"`
}
