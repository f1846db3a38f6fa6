// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package database

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	shortCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// ShortCodeLength is the length of generated short codes.
	ShortCodeLength = 7

	// shortCodeAttempts bounds retries on a unique collision.
	shortCodeAttempts = 3
)

// NewShortCode returns a random base62 code of ShortCodeLength characters.
func NewShortCode() (string, error) {
	max := big.NewInt(int64(len(shortCodeAlphabet)))
	buf := make([]byte, ShortCodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate short code: %w", err)
		}
		buf[i] = shortCodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// ValidShortCode reports whether code could have come from NewShortCode.
func ValidShortCode(code string) bool {
	if len(code) != ShortCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z') {
			return false
		}
	}
	return true
}
