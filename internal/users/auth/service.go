// Copyright (c) 2026 Prika. All rights reserved.
// Author: dev@prika.app

/*
Package auth implements the core identity and session issuance system.

It handles the full Azure AD login pipeline: authorization redirect, code
exchange, Microsoft Graph profile fetch, find-or-create identity resolution,
JWT access-token minting, and refresh-token issuance.

Architecture:

  - Service: Orchestrates business logic (BeginLogin, CompleteLogin, Refresh).
  - Repository: Abstracted interfaces for Postgres (Users, RefreshTokens)
    and Redis (single-use OAuth state).
  - Security: Leverages CSPRNG token generation and RSA-signed JWTs.

The package ensures that identity data remains consistent and secure
throughout the platform's lifecycle.
*/
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/prikalab/prika/internal/platform/apperr"
	"github.com/prikalab/prika/internal/platform/azuread"
	"github.com/prikalab/prika/internal/platform/sec"
	"github.com/prikalab/prika/internal/platform/validate"
	"github.com/prikalab/prika/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for minting signed access tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - email: The email of the account.
	//   - roles: The role set of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, email string, roles []string, timeToLive time.Duration) (string, error)
}

// ProviderClient defines the contract for the external identity provider.
//
// Implemented by [azuread.Client]; faked in tests.
type ProviderClient interface {
	// AuthCodeURL builds the provider consent redirect URL for a state token.
	AuthCodeURL(state string) string

	// Exchange turns a callback authorization code into a provider access token.
	Exchange(context context.Context, code string) (string, error)

	// FetchProfile retrieves the signed-in user's profile document.
	FetchProfile(context context.Context, accessToken string) (*azuread.Profile, error)
}

// Options holds the policy switches for the login flow.
type Options struct {
	// SetRefreshCookie controls whether CompleteLogin issues a refresh token
	// at all. Cookie-less deployments (shared or kiosk machines that must not
	// stay signed in) rely on the short-lived access token alone.
	SetRefreshCookie bool

	// RevokeOnLogin deletes the user's previous refresh tokens before issuing
	// a new one. Off by default: an account may hold several live tokens at
	// once so multiple devices can stay signed in.
	RevokeOnLogin bool
}

// Service implements the login flow use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to identity resolution,
// token generation, or issuance logic must be reviewed by the security team.
type Service struct {
	userRepository         UserRepository
	refreshTokenRepository RefreshTokenRepository
	stateRepository        StateRepository
	tokenProvider          TokenProvider
	provider               ProviderClient
	options                Options

	// now is swapped out in tests to pin the issuance instant.
	now func() time.Time
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	tokenRepo RefreshTokenRepository,
	stateRepo StateRepository,
	tokenProv TokenProvider,
	provider ProviderClient,
	options Options,
) *Service {
	return &Service{
		userRepository:         userRepo,
		refreshTokenRepository: tokenRepo,
		stateRepository:        stateRepo,
		tokenProvider:          tokenProv,
		provider:               provider,
		options:                options,
		now:                    time.Now,
	}
}

// # Login Flow

/*
BeginLogin starts a login attempt and returns the provider redirect URL.

Description: Generates a single-use CSPRNG state token, stores it with a
short TTL, and binds it into the Azure AD consent URL so the callback can
prove it belongs to a redirect we produced.

Parameters:
  - context: context.Context

Returns:
  - string: Absolute provider authorization URL
  - err: Entropy or storage failures
*/
func (service *Service) BeginLogin(context context.Context) (string, error) {

	// Single-use CSRF guard for the callback leg.
	state, err := sec.GenerateSecureToken(OAuthStateByteLength)
	if err != nil {
		return "", apperr.EntropySource(fmt.Errorf("auth_service_state_generation_failed: %w", err))
	}

	if err := service.stateRepository.Set(context, state, OAuthStateTTL); err != nil {
		return "", fmt.Errorf("auth_service_state_store_failed: %w", err)
	}

	return service.provider.AuthCodeURL(state), nil
}

// CompleteLoginInput carries the provider callback parameters.
type CompleteLoginInput struct {
	Code  string
	State string
}

// LoginSession represents a successfully established user session.
//
// RefreshToken is nil when the refresh-cookie policy is disabled.
type LoginSession struct {
	AccessToken  string
	RefreshToken *RefreshToken
	User         *User
}

/*
CompleteLogin finishes the login attempt started by [Service.BeginLogin].

Description: Consumes the state token, exchanges the authorization code,
fetches the Microsoft Graph profile, resolves it onto a local account, then
mints the access token and (policy permitting) issues a refresh token.
Identity resolution always commits before token issuance begins.

Parameters:
  - context: context.Context
  - input: CompleteLoginInput

Returns:
  - *LoginSession: Transport-ready session credentials
  - err: IdentityProvider, Validation, Persistence, or Entropy failures
*/
func (service *Service) CompleteLogin(context context.Context, input CompleteLoginInput) (*LoginSession, error) {

	if err := (&validate.Validator{}).Required(FieldCode, input.Code).Err(); err != nil {
		return nil, err
	}

	// Each state redeems exactly one callback.
	if err := service.stateRepository.Consume(context, input.State); err != nil {
		return nil, err
	}

	// Provider leg: both calls surface as apperr.IdentityProvider on failure.
	providerToken, err := service.provider.Exchange(context, input.Code)
	if err != nil {
		return nil, err
	}

	profile, err := service.provider.FetchProfile(context, providerToken)
	if err != nil {
		return nil, err
	}

	// Identity resolution commits the account before any token is minted.
	user, err := service.ResolveIdentity(context, profile)
	if err != nil {
		return nil, err
	}

	// Access token first, then the refresh token — both only need the
	// resolved user.
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Email, user.RoleStrings(), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	session := &LoginSession{
		AccessToken: accessToken,
		User:        user,
	}

	if service.options.SetRefreshCookie {
		refreshToken, err := service.IssueRefreshToken(context, user)
		if err != nil {
			return nil, err
		}
		session.RefreshToken = refreshToken
	}

	return session, nil
}

// # Identity Resolution

/*
ResolveIdentity finds or creates the local account for a fetched profile.

Description: Looks up an existing user by microsoft ID, then email, then
student ID — first match wins, so repeat logins with changed secondary
fields can never fork a duplicate account. The resolved (or new) account's
profile fields are always overwritten with the fresh provider data and the
student role is ensured, then the change is committed durably.

Parameters:
  - context: context.Context
  - profile: *azuread.Profile

Returns:
  - *User: Resolved entity with a stable identity
  - err: Validation (unusable profile) or Persistence failures
*/
func (service *Service) ResolveIdentity(context context.Context, profile *azuread.Profile) (*User, error) {

	// Without at least one strong identifier the profile can neither be
	// matched nor safely created.
	check := &validate.Validator{}
	check.Custom(FieldMicrosoftID, profile.ID == "" && profile.Mail == "",
		"Provider returned neither an account ID nor an email")
	if err := check.Err(); err != nil {
		return nil, err
	}

	user, err := service.findExisting(context, profile)
	if err != nil {
		return nil, err
	}

	isNew := user == nil
	if isNew {
		user = &User{
			ID:        uuid.New(),
			CreatedAt: service.now(),
		}
	}

	// Always re-sync with the latest provider data, create or update alike.
	user.Name = profile.DisplayName
	user.StudentID = profile.Surname
	user.Email = profile.Mail
	user.MicrosoftID = profile.ID
	user.AddRole(sec.RoleStudent)
	user.UpdatedAt = service.now()

	if isNew {
		if err := service.userRepository.Create(context, user); err != nil {
			return nil, fmt.Errorf("auth_service_user_create_failed: %w", err)
		}
		return user, nil
	}

	if err := service.userRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_user_update_failed: %w", err)
	}

	return user, nil
}

// findExisting runs the ordered identifier lookups, skipping empty keys so a
// blank surname can never match another account's blank student ID.
//
// Only a not-found result moves on to the next lookup. Any other failure
// aborts resolution: falling through to Create on a transient storage error
// would fork a duplicate account for an already-known profile.
func (service *Service) findExisting(context context.Context, profile *azuread.Profile) (*User, error) {
	if profile.ID != "" {
		user, err := service.userRepository.FindByMicrosoftID(context, profile.ID)
		if err == nil {
			return user, nil
		}
		if !apperr.IsNotFound(err) {
			return nil, fmt.Errorf("auth_service_microsoft_id_lookup_failed: %w", err)
		}
	}

	if profile.Mail != "" {
		user, err := service.userRepository.FindByEmail(context, profile.Mail)
		if err == nil {
			return user, nil
		}
		if !apperr.IsNotFound(err) {
			return nil, fmt.Errorf("auth_service_email_lookup_failed: %w", err)
		}
	}

	if profile.Surname != "" {
		user, err := service.userRepository.FindByStudentID(context, profile.Surname)
		if err == nil {
			return user, nil
		}
		if !apperr.IsNotFound(err) {
			return nil, fmt.Errorf("auth_service_student_id_lookup_failed: %w", err)
		}
	}

	return nil, nil
}

// # Refresh Token Issuance

/*
IssueRefreshToken creates and persists a brand-new refresh token for a user.

Description: Draws 64 bytes from the CSPRNG, computes the validity deadline
as exactly one calendar year from now, and commits the token durably before
returning. A failed entropy source aborts the login — there is no fallback
generator.

Parameters:
  - context: context.Context
  - user: *User (must already be persisted)

Returns:
  - *RefreshToken: The newly issued credential
  - err: Entropy or Persistence failures
*/
func (service *Service) IssueRefreshToken(context context.Context, user *User) (*RefreshToken, error) {

	value, err := sec.GenerateSecureToken(RefreshTokenByteLength)
	if err != nil {
		return nil, apperr.EntropySource(fmt.Errorf("auth_service_refresh_token_failed: %w", err))
	}

	issuedAt := service.now()
	token := &RefreshToken{
		Token:      value,
		UserID:     user.ID,
		ValidUntil: validityDeadline(issuedAt),
		CreatedAt:  issuedAt,
	}

	// Optional single-session policy. The default keeps old tokens alive.
	if service.options.RevokeOnLogin {
		if err := service.refreshTokenRepository.DeleteForUser(context, user.ID); err != nil {
			return nil, fmt.Errorf("auth_service_revoke_previous_failed: %w", err)
		}
	}

	if err := service.refreshTokenRepository.Create(context, token); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_store_failed: %w", err)
	}

	return token, nil
}

// validityDeadline computes the refresh-token deadline by calendar addition:
// same month and day next year, never a fixed count of seconds. Go's AddDate
// normalizes Feb 29 issuance to Mar 1 in a non-leap target year.
func validityDeadline(issuedAt time.Time) time.Time {
	return issuedAt.AddDate(RefreshTokenValidityYears, 0, 0)
}

// # Session Management

// RefreshedSession carries a re-minted access token.
type RefreshedSession struct {
	AccessToken string
	User        *User
}

/*
Refresh mints a fresh access token from a presented refresh token.

Description: Resolves the token value, checks its declarative deadline, and
re-mints an access token for the owning user. The refresh token itself is
left untouched (no rotation).

Parameters:
  - context: context.Context
  - tokenValue: string

Returns:
  - *RefreshedSession: New access credentials
  - err: Unauthorized or internal failures
*/
func (service *Service) Refresh(context context.Context, tokenValue string) (*RefreshedSession, error) {

	// Issued tokens are always lowercase hex. Anything else skips the lookup.
	shape := &validate.Validator{}
	shape.Required(FieldRefreshToken, tokenValue).Hex(FieldRefreshToken, tokenValue)
	if shape.HasErrors() {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	token, err := service.refreshTokenRepository.FindByToken(context, tokenValue)

	// An absent row means the token never existed or was revoked; that is a
	// rejected credential. A failed lookup is a server fault and must not be
	// disguised as one.
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid refresh token")
		}
		return nil, fmt.Errorf("auth_service_refresh_lookup_failed: %w", err)
	}

	// Expiry is declarative: the row may still exist past its deadline.
	if !token.IsValid(service.now()) {
		return nil, apperr.Unauthorized("Refresh token has expired")
	}

	user, err := service.userRepository.FindByID(context, token.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("User not found or suspended")
		}
		return nil, fmt.Errorf("auth_service_refresh_user_lookup_failed: %w", err)
	}

	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Email, user.RoleStrings(), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_access_token_failed: %w", err)
	}

	return &RefreshedSession{
		AccessToken: accessToken,
		User:        user,
	}, nil
}

/*
Logout permanently deletes the presented refresh token.

Description: Ensures that a surrendered refresh token can never be used
again. Logging out with an unknown token is considered successful
(idempotent operation).

Parameters:
  - context: context.Context
  - tokenValue: string

Returns:
  - err: Deletion failures
*/
func (service *Service) Logout(context context.Context, tokenValue string) error {
	if err := service.refreshTokenRepository.Delete(context, tokenValue); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

/*
LogoutAll deletes every refresh token owned by the given user.

Description: Signs the account out on every device at once. Requires a
verified identity rather than a presented token, so a stolen cookie alone
cannot trigger it.

Parameters:
  - context: context.Context
  - userID: string (from the verified access-token claims)

Returns:
  - err: Deletion failures
*/
func (service *Service) LogoutAll(context context.Context, userID string) error {
	if err := service.refreshTokenRepository.DeleteForUser(context, userID); err != nil {
		return fmt.Errorf("auth_service_logout_all_failed: %w", err)
	}
	return nil
}

/*
CurrentUser returns the account behind an authenticated request.

Parameters:
  - context: context.Context
  - userID: string (from the verified access-token claims)

Returns:
  - *User: Hydrated entity
  - err: apperr.NotFound or retrieval failures
*/
func (service *Service) CurrentUser(context context.Context, userID string) (*User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
SweepExpiredTokens removes refresh tokens past their validity deadline.

Description: Housekeeping for the declarative-expiry model. Expired rows are
already unusable; this just keeps the table small. Run periodically from the
composition root.

Parameters:
  - context: context.Context

Returns:
  - err: Persistence failures
*/
func (service *Service) SweepExpiredTokens(context context.Context) error {
	if err := service.refreshTokenRepository.DeleteExpired(context); err != nil {
		return fmt.Errorf("auth_service_token_sweep_failed: %w", err)
	}
	return nil
}
