// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ids

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CodeLength is the number of characters in a group code
const CodeLength = 6

// No 0/O or 1/I/L, so codes survive being read aloud or typed from a text
const codeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// NewID returns a UUIDv7 string for database rows. IDs from this process
// sort in creation order, which breaks ties between rows stamped in the
// same millisecond.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// GenerateGroupCode creates a short, uppercase, human-shareable code
func GenerateGroupCode() (string, error) {
	b := make([]byte, CodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate group code: %w", err)
	}
	return encodeCode(b), nil
}

// encodeCode maps each random byte onto the code alphabet.
// The slight modulo bias is irrelevant for share codes.
func encodeCode(data []byte) string {
	result := make([]byte, len(data))
	for i, v := range data {
		result[i] = codeAlphabet[int(v)%len(codeAlphabet)]
	}
	return string(result)
}

// NormalizeCode canonicalizes a user-supplied group code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
