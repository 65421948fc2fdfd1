package entities

import (
	"strconv"
	"time"
)

// NotAvailable is stored for profile fields the platform does not report
const NotAvailable = "N/A"

// Account is a platform account that completed login
type Account struct {
	TelegramID  string    `json:"telegramId"`
	PhoneNumber string    `json:"phoneNumber"`
	Username    string    `json:"username"`
	FirstName   string    `json:"firstName"`
	Country     string    `json:"country"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ParseTelegramID parses the string form of an account identity
func ParseTelegramID(telegramID string) (int64, bool) {
	id, err := strconv.ParseInt(telegramID, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// FormatTelegramID returns the string form of an account identity
func FormatTelegramID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// OrNotAvailable returns value, or NotAvailable when it is empty
func OrNotAvailable(value string) string {
	if value == "" {
		return NotAvailable
	}
	return value
}
