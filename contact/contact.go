// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package contact canonicalizes email addresses and phone numbers so invites
// can be deduplicated and matched against join requests.
package contact

import (
	"regexp"
	"strings"

	"github.com/danielhkuo/chowsr/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email returns the lowercase, trimmed address and whether it looks valid.
func Email(raw string) (string, bool) {
	e := strings.ToLower(strings.TrimSpace(raw))
	if !emailPattern.MatchString(e) {
		return "", false
	}
	return e, true
}

// Phone reduces a number to E.164-style digits. Ten-digit numbers are
// treated as North American and get a +1 prefix; 11-15 digits are taken
// as already carrying a country code.
func Phone(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 10:
		return "+1" + digits, true
	case len(digits) >= 11 && len(digits) <= 15:
		return "+" + digits, true
	default:
		return "", false
	}
}

// Normalize dispatches on the contact type. Unknown types are invalid.
func Normalize(contactType, raw string) (string, bool) {
	switch Type(contactType) {
	case models.ContactEmail:
		return Email(raw)
	case models.ContactPhone:
		return Phone(raw)
	default:
		return "", false
	}
}

// Type canonicalizes a contact type string ("Email " → "email").
func Type(contactType string) string {
	return strings.ToLower(strings.TrimSpace(contactType))
}
