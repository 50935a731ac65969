// Copyright (c) 2026 Prika. All rights reserved.
// Author: dev@prika.app

package sec

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a hex-encoded random string built from
// byteLength bytes of the operating system's CSPRNG.
//
// # Entropy
//
// The caller chooses byteLength; refresh tokens use 64 bytes, which is far
// beyond the 128-bit floor required for unguessable credentials. The output
// string is twice the byte length (hex encoding).
//
// # Failure Mode
//
// If the kernel entropy source fails, the error is returned as-is. Callers
// MUST treat it as fatal for the operation — there is no fallback to a
// weaker pseudo-random generator anywhere in this codebase.
func GenerateSecureToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)

	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: entropy source unavailable: %w", err)
	}

	return hex.EncodeToString(buffer), nil
}
