package utils

import (
	"errors"
	"regexp"
	"strings"
)

var (
	nonDigits    = regexp.MustCompile(`\D`)
	indianMobile = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// ErrInvalidMobile is returned when a value cannot be read as an Indian
// mobile number.
var ErrInvalidMobile = errors.New("invalid Indian mobile number")

// ParseIndianMobile normalizes a mobile number to "+91 XXXXXXXXXX". It
// strips formatting, a leading 91 country code or a leading zero, then
// requires exactly ten digits starting 6-9. An empty value is allowed and
// stays empty; the number is optional on a tenant.
func ParseIndianMobile(value string) (string, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return "", nil
	}
	digits := nonDigits.ReplaceAllString(raw, "")
	if len(digits) == 12 && strings.HasPrefix(digits, "91") {
		digits = digits[2:]
	} else if len(digits) == 11 && strings.HasPrefix(digits, "0") {
		digits = digits[1:]
	}
	if !indianMobile.MatchString(digits) {
		return "", ErrInvalidMobile
	}
	return "+91 " + digits, nil
}

// DisplayMobile renders a stored "+91 XXXXXXXXXX" value as
// "+91 XXXXX XXXXX"; anything else passes through unchanged.
func DisplayMobile(stored string) string {
	digits := nonDigits.ReplaceAllString(stored, "")
	if len(digits) == 12 && strings.HasPrefix(digits, "91") {
		digits = digits[2:]
	}
	if !indianMobile.MatchString(digits) {
		return stored
	}
	return "+91 " + digits[:5] + " " + digits[5:]
}
