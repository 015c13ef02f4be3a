// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidUserKey = errors.New("invalid user key")
	ErrUnknownRole    = errors.New("unknown role")
)

// GenerateUserKey creates an HMAC-based API key for a user.
// This is deterministic and verifiable, so keys are never stored.
func GenerateUserKey(userID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte("user:" + userID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateUserKey checks if the provided key is valid for the user
func ValidateUserKey(userID, key, salt string) error {
	if userID == "" || key == "" {
		return ErrInvalidUserKey
	}
	expected := GenerateUserKey(userID, salt)
	if !hmac.Equal([]byte(key), []byte(expected)) {
		return ErrInvalidUserKey
	}
	return nil
}

// NewRequestID returns a random identifier for correlating log lines.
func NewRequestID() string {
	return uuid.NewString()
}
