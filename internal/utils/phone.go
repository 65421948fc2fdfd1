package utils

import "strings"

// NormalizePhone strips the formatting characters users tend to type
// (spaces, dashes, dots, parentheses) and keeps a single leading '+'.
//
// Examples:
//   - "+1 (234) 567-890" -> "+1234567890"
//   - " 44.20.7946 " -> "44207946"
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))

	for i, r := range strings.TrimSpace(phone) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}

	return b.String()
}

// MaskPhoneNumber masks a phone number for secure logging.
// Keeps first 3 and last 4 characters visible, masks the rest.
func MaskPhoneNumber(phone string) string {
	if len(phone) <= 6 {
		return "****"
	}

	return phone[:3] + "****" + phone[len(phone)-4:]
}
