// Copyright (c) 2026 Prika. All rights reserved.
// Author: dev@prika.app

/*
Package auth implements the Azure AD login flow and session issuance.

It defines the core domain entities (User, RefreshToken) and the logic for
resolving a Microsoft profile onto a local account, minting access tokens,
and issuing long-lived refresh tokens.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no
transport dependencies and encapsulate all business rules related to user
identity.
*/
package auth

import (
	"time"

	"github.com/prikalab/prika/internal/platform/sec"
)

// # Domain Entities

// User represents an account provisioned through the university's Azure AD.
//
// An account is uniquely identifiable by any one of MicrosoftID, Email, or
// StudentID; every login re-syncs all four profile fields with the latest
// provider data.
type User struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	StudentID   string         `json:"student_id,omitempty"`
	Email       string         `json:"email"`
	MicrosoftID string         `json:"-"` // Provider identifier. Omitted from JSON, clients never need it.
	Roles       []sec.UserRole `json:"roles"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// AddRole grants a role to the user. Adding an already-present role is a no-op.
func (user *User) AddRole(role sec.UserRole) {
	if user.HasRole(role) {
		return
	}
	user.Roles = append(user.Roles, role)
}

// HasRole reports whether the user holds the given role.
func (user *User) HasRole(role sec.UserRole) bool {
	for _, existing := range user.Roles {
		if existing == role {
			return true
		}
	}
	return false
}

// RoleStrings returns the role set as plain strings for JWT claims and storage.
func (user *User) RoleStrings() []string {
	roles := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		roles = append(roles, string(role))
	}
	return roles
}

// RefreshToken is a long-lived credential exclusively owned by one User.
//
// The token value itself is the lookup key: 64 bytes of CSPRNG output,
// hex-encoded, unique with overwhelming probability. Expiry is declarative —
// the row stays in place past ValidUntil and consumers must check the
// deadline themselves.
type RefreshToken struct {
	Token      string    `json:"-"` // Never serialized; it only ever travels inside the cookie.
	UserID     string    `json:"user_id"`
	ValidUntil time.Time `json:"valid_until"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsValid reports whether the token is still within its validity window at
// the given instant.
func (token *RefreshToken) IsValid(at time.Time) bool {
	return at.Before(token.ValidUntil)
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldCode         = "code"
	FieldState        = "state"
	FieldRefreshToken = "refresh_token"
	FieldEmail        = "email"
	FieldMicrosoftID  = "microsoft_id"
	FieldAccessToken  = "access_token"
	FieldTokenType    = "token_type"
	FieldExpiresIn    = "expires_in"
	FieldUser         = "user"
	FieldMessage      = "message"
)
