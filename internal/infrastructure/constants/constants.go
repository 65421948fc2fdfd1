package constants

// HTTP path parameters
const (
	TelegramIDParam = "telegramId"
)

// Redis key prefixes
const (
	OTPKeyPrefix = "otp:"
)
