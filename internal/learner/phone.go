package learner

import (
	"fmt"
	"strings"
)

// NormalizePhone converts a phone number as typed by an admin or found in an import file
// into the "+<country code><number>" form used to key enrollments.
// A bare 10-digit national number gets defaultCountryCode.
func NormalizePhone(raw, defaultCountryCode string) (string, error) {
	var b strings.Builder
	for i, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ', r == '-', r == '(', r == ')', r == '.':
		default:
			return "", fmt.Errorf("%q: unexpected character %q: %w", raw, r, ErrInvalidPhone)
		}
	}
	phone := b.String()

	switch {
	case strings.HasPrefix(phone, "+"):
	case strings.HasPrefix(phone, "00"):
		phone = "+" + phone[2:]
	case len(phone) == 11 && strings.HasPrefix(phone, "0"):
		phone = defaultCountryCode + phone[1:]
	case len(phone) == 10:
		phone = defaultCountryCode + phone
	default:
		phone = "+" + phone
	}

	digits := len(phone) - 1
	if digits < 8 || digits > 15 {
		return "", fmt.Errorf("%q: %d digits: %w", raw, digits, ErrInvalidPhone)
	}
	return phone, nil
}
