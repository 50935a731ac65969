// Copyright (c) 2026 Prika. All rights reserved.
// Author: dev@prika.app

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// The three identifier lookups back the deterministic resolution order in
// [Service.ResolveIdentity]: microsoft ID first, then email, then student ID.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByMicrosoftID returns the account with the given provider identifier.

		Parameters:
		  - context: context.Context
		  - microsoftID: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByMicrosoftID(context context.Context, microsoftID string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByStudentID returns the account with the given student identifier.

		Parameters:
		  - context: context.Context
		  - studentID: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByStudentID(context context.Context, studentID string) (*User, error)

	/*
		Create persists a brand-new user account as a single durable commit.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.Persistence on commit failure
	*/
	Create(context context.Context, user *User) error

	/*
		Update persists the re-synced profile fields as a single durable commit.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.Persistence on commit failure
	*/
	Update(context context.Context, user *User) error
}

// # Refresh Token Data Access

// RefreshTokenRepository defines the data access contract for refresh tokens.
type RefreshTokenRepository interface {

	/*
		Create persists a freshly issued refresh token.

		Parameters:
		  - context: context.Context
		  - token: *RefreshToken

		Returns:
		  - error: apperr.Persistence on commit failure
	*/
	Create(context context.Context, token *RefreshToken) error

	/*
		FindByToken returns the refresh token with the given value, whether or
		not it is still within its validity window. Expiry is the caller's check.

		Parameters:
		  - context: context.Context
		  - tokenValue: string

		Returns:
		  - *RefreshToken: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByToken(context context.Context, tokenValue string) (*RefreshToken, error)

	/*
		Delete removes a single refresh token (logout). Deleting a token that
		does not exist is not an error.

		Parameters:
		  - context: context.Context
		  - tokenValue: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, tokenValue string) error

	/*
		DeleteForUser removes every refresh token owned by the given user.
		Used by the optional revoke-on-login policy.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	DeleteForUser(context context.Context, userID string) error

	/*
		DeleteExpired physically removes tokens whose ValidUntil is in the past.

		Parameters:
		  - context: context.Context

		Returns:
		  - error: Persistence failures
	*/
	DeleteExpired(context context.Context) error
}

// # Volatile Data Access

// StateRepository defines the contract for single-use OAuth state tokens.
type StateRepository interface {

	/*
		Set stores a state token for a limited duration.

		Parameters:
		  - context: context.Context
		  - state: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, state string, ttl time.Duration) error

	/*
		Consume atomically retrieves and deletes a state token, so each state
		can redeem exactly one callback.

		Parameters:
		  - context: context.Context
		  - state: string

		Returns:
		  - error: apperr.Unauthorized if the state is absent or expired
	*/
	Consume(context context.Context, state string) error
}
