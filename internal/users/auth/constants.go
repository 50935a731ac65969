// Copyright (c) 2026 Prika. All rights reserved.
// Author: dev@prika.app

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// We keep it short (15m) to minimize the impact of a leaked token.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenByteLength is the byte length of the random refresh token.
	// 64 bytes of CSPRNG output — hex-encoded to a 128-character string —
	// puts the effective entropy far above the 128-bit unguessability floor.
	RefreshTokenByteLength = 64

	// RefreshTokenValidityYears is the calendar-year validity window of a
	// refresh token, measured from the issuance instant.
	RefreshTokenValidityYears = 1

	// OAuthStateTTL is how long a login redirect stays redeemable. A user
	// parked on the Microsoft consent screen longer than this starts over.
	OAuthStateTTL = 10 * time.Minute

	// OAuthStateByteLength is the byte length of the random state token.
	OAuthStateByteLength = 32

	// TokenSweepInterval is how often expired refresh tokens are physically
	// removed. Expiry itself is declarative; the sweep is just hygiene.
	TokenSweepInterval = 24 * time.Hour
)
