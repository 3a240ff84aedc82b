package auth

import "strings"

// DefaultCountryCode is prefixed to bare 10-digit local numbers so all mobiles
// are stored in international form.
const DefaultCountryCode = "91"

// NormalizeMobile reduces a user-supplied phone number to its stored
// international digit form. It accepts an optional leading '+' and common
// separators; anything that does not end up as 10 bare or 11-12 prefixed
// digits is rejected.
func NormalizeMobile(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "+")
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, s)

	if s == "" {
		return "", false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", false
		}
	}

	switch len(s) {
	case 10:
		return DefaultCountryCode + s, true
	case 11, 12:
		return s, true
	}
	return "", false
}
