package utils

import (
	"regexp"
	"strings"
)

var phoneKeep = regexp.MustCompile(`[^0-9+]`)
var phoneE164 = regexp.MustCompile(`^\+\d{8,15}$`)

// NormalizePhone normalizes Armenian phone numbers to E.164
// (+374XXXXXXXX). Accepts 0XXXXXXXX local forms, 374/00374 prefixes and
// already-normalized input. Returns "" when the number cannot be
// normalized.
func NormalizePhone(raw string) string {
	s := phoneKeep.ReplaceAllString(strings.TrimSpace(raw), "")
	if s == "" {
		return ""
	}

	if strings.HasPrefix(s, "00374") {
		s = "+374" + s[5:]
	}
	if strings.HasPrefix(s, "374") {
		s = "+" + s
	}

	if s[0] == '0' {
		digits := s[1:]
		if len(digits) >= 8 && len(digits) <= 9 {
			s = "+374" + digits
		}
	}

	// bare local digits without the leading zero
	if s[0] != '+' && (len(s) == 8 || len(s) == 9) {
		s = "+374" + s
	}

	if !phoneE164.MatchString(s) {
		return ""
	}
	return s
}
