// Copyright (c) 2026 Prika. All rights reserved.
// Author: dev@prika.app

package auth

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prikalab/prika/internal/platform/apperr"
	"github.com/prikalab/prika/internal/platform/azuread"
	"github.com/prikalab/prika/internal/platform/sec"
)

// # Test Doubles

type fakeUserRepository struct {
	users        map[string]*User // keyed by ID
	createdCount int
	updatedCount int
	failWrites   bool
	failFinds    bool
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*User)}
}

func (repository *fakeUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	if repository.failFinds {
		return nil, apperr.Persistence(errors.New("connection reset"))
	}
	if user, found := repository.users[id]; found {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeUserRepository) FindByMicrosoftID(_ context.Context, microsoftID string) (*User, error) {
	return repository.findWhere(func(user *User) bool { return user.MicrosoftID == microsoftID })
}

func (repository *fakeUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	return repository.findWhere(func(user *User) bool { return user.Email == email })
}

func (repository *fakeUserRepository) FindByStudentID(_ context.Context, studentID string) (*User, error) {
	return repository.findWhere(func(user *User) bool { return user.StudentID == studentID })
}

func (repository *fakeUserRepository) findWhere(match func(*User) bool) (*User, error) {
	if repository.failFinds {
		return nil, apperr.Persistence(errors.New("connection reset"))
	}
	for _, user := range repository.users {
		if match(user) {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeUserRepository) Create(_ context.Context, user *User) error {
	if repository.failWrites {
		return apperr.Persistence(errors.New("boom"))
	}
	repository.createdCount++
	repository.users[user.ID] = user
	return nil
}

func (repository *fakeUserRepository) Update(_ context.Context, user *User) error {
	if repository.failWrites {
		return apperr.Persistence(errors.New("boom"))
	}
	repository.updatedCount++
	repository.users[user.ID] = user
	return nil
}

type fakeRefreshTokenRepository struct {
	tokens          map[string]*RefreshToken
	deletedForUsers []string
	failFinds       bool
}

func newFakeRefreshTokenRepository() *fakeRefreshTokenRepository {
	return &fakeRefreshTokenRepository{tokens: make(map[string]*RefreshToken)}
}

func (repository *fakeRefreshTokenRepository) Create(_ context.Context, token *RefreshToken) error {
	repository.tokens[token.Token] = token
	return nil
}

func (repository *fakeRefreshTokenRepository) FindByToken(_ context.Context, tokenValue string) (*RefreshToken, error) {
	if repository.failFinds {
		return nil, apperr.Persistence(errors.New("connection reset"))
	}
	if token, found := repository.tokens[tokenValue]; found {
		return token, nil
	}
	return nil, apperr.NotFound("Refresh token")
}

func (repository *fakeRefreshTokenRepository) Delete(_ context.Context, tokenValue string) error {
	delete(repository.tokens, tokenValue)
	return nil
}

func (repository *fakeRefreshTokenRepository) DeleteForUser(_ context.Context, userID string) error {
	repository.deletedForUsers = append(repository.deletedForUsers, userID)
	for value, token := range repository.tokens {
		if token.UserID == userID {
			delete(repository.tokens, value)
		}
	}
	return nil
}

func (repository *fakeRefreshTokenRepository) DeleteExpired(_ context.Context) error {
	return nil
}

type fakeStateRepository struct {
	states map[string]bool
}

func newFakeStateRepository() *fakeStateRepository {
	return &fakeStateRepository{states: make(map[string]bool)}
}

func (repository *fakeStateRepository) Set(_ context.Context, state string, _ time.Duration) error {
	repository.states[state] = true
	return nil
}

func (repository *fakeStateRepository) Consume(_ context.Context, state string) error {
	if !repository.states[state] {
		return apperr.Unauthorized("Login attempt expired or was not started by this server")
	}
	delete(repository.states, state)
	return nil
}

type fakeTokenProvider struct {
	fail bool
}

func (provider *fakeTokenProvider) GenerateAccessToken(userID, _ string, _ []string, _ time.Duration) (string, error) {
	if provider.fail {
		return "", errors.New("signing failed")
	}
	return "jwt-for-" + userID, nil
}

type fakeProviderClient struct {
	profile      *azuread.Profile
	exchangeErr  error
	profileErr   error
	exchangedFor string
}

func (client *fakeProviderClient) AuthCodeURL(state string) string {
	return "https://login.example.com/authorize?state=" + state
}

func (client *fakeProviderClient) Exchange(_ context.Context, code string) (string, error) {
	if client.exchangeErr != nil {
		return "", client.exchangeErr
	}
	client.exchangedFor = code
	return "provider-access-token", nil
}

func (client *fakeProviderClient) FetchProfile(_ context.Context, _ string) (*azuread.Profile, error) {
	if client.profileErr != nil {
		return nil, client.profileErr
	}
	return client.profile, nil
}

// # Harness

type serviceFixture struct {
	service  *Service
	users    *fakeUserRepository
	tokens   *fakeRefreshTokenRepository
	states   *fakeStateRepository
	provider *fakeProviderClient
}

func newServiceFixture(options Options) *serviceFixture {
	fixture := &serviceFixture{
		users:  newFakeUserRepository(),
		tokens: newFakeRefreshTokenRepository(),
		states: newFakeStateRepository(),
		provider: &fakeProviderClient{
			profile: &azuread.Profile{
				ID:          "ms-oid-1",
				Mail:        "jan.novak@student.example.edu",
				Surname:     "S123456",
				DisplayName: "Jan Novak",
			},
		},
	}

	fixture.service = NewService(
		fixture.users,
		fixture.tokens,
		fixture.states,
		&fakeTokenProvider{},
		fixture.provider,
		options,
	)

	return fixture
}

// freeze pins the service clock to a fixed instant.
func (fixture *serviceFixture) freeze(at time.Time) {
	fixture.service.now = func() time.Time { return at }
}

// # Identity Resolution

/*
TestResolveIdentity_CreatesNewStudent verifies that an unknown profile is
provisioned as a fresh account with the student role.
*/
func TestResolveIdentity_CreatesNewStudent(t *testing.T) {
	fixture := newServiceFixture(Options{SetRefreshCookie: true})

	user, err := fixture.service.ResolveIdentity(context.Background(), fixture.provider.profile)
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Jan Novak", user.Name)
	assert.Equal(t, "S123456", user.StudentID)
	assert.Equal(t, "jan.novak@student.example.edu", user.Email)
	assert.Equal(t, "ms-oid-1", user.MicrosoftID)
	assert.True(t, user.HasRole(sec.RoleStudent))

	assert.Equal(t, 1, fixture.users.createdCount)
	assert.Equal(t, 0, fixture.users.updatedCount)
}

/*
TestResolveIdentity_MatchPrecedence verifies the ordered lookups: a profile
matching different accounts on different identifiers resolves to the
strongest match, never forking a duplicate.
*/
func TestResolveIdentity_MatchPrecedence(t *testing.T) {
	tests := []struct {
		name         string
		existing     []*User
		expectedID   string
		expectCreate bool
	}{
		{
			name: "microsoft_id_wins_over_email",
			existing: []*User{
				{ID: "id-ms", MicrosoftID: "ms-oid-1"},
				{ID: "id-mail", Email: "jan.novak@student.example.edu"},
			},
			expectedID: "id-ms",
		},
		{
			name: "email_wins_over_student_id",
			existing: []*User{
				{ID: "id-mail", Email: "jan.novak@student.example.edu"},
				{ID: "id-student", StudentID: "S123456"},
			},
			expectedID: "id-mail",
		},
		{
			name: "student_id_is_last_resort",
			existing: []*User{
				{ID: "id-student", StudentID: "S123456"},
			},
			expectedID: "id-student",
		},
		{
			name:         "no_match_creates",
			existing:     nil,
			expectCreate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newServiceFixture(Options{})
			for _, user := range tt.existing {
				fixture.users.users[user.ID] = user
			}

			resolved, err := fixture.service.ResolveIdentity(context.Background(), fixture.provider.profile)
			require.NoError(t, err)

			if tt.expectCreate {
				assert.Equal(t, 1, fixture.users.createdCount)
				return
			}
			assert.Equal(t, tt.expectedID, resolved.ID)
			assert.Equal(t, 0, fixture.users.createdCount)
			assert.Equal(t, 1, fixture.users.updatedCount)
		})
	}
}

/*
TestResolveIdentity_OverwritesProfileFields verifies that a repeat login
re-syncs every profile field with the latest provider data and never
duplicates the student role.
*/
func TestResolveIdentity_OverwritesProfileFields(t *testing.T) {
	fixture := newServiceFixture(Options{})
	fixture.users.users["id-1"] = &User{
		ID:          "id-1",
		Name:        "Old Name",
		StudentID:   "OLD999",
		Email:       "old@student.example.edu",
		MicrosoftID: "ms-oid-1",
		Roles:       []sec.UserRole{sec.RoleStudent, sec.RoleStaff},
	}

	user, err := fixture.service.ResolveIdentity(context.Background(), fixture.provider.profile)
	require.NoError(t, err)

	assert.Equal(t, "id-1", user.ID)
	assert.Equal(t, "Jan Novak", user.Name)
	assert.Equal(t, "S123456", user.StudentID)
	assert.Equal(t, "jan.novak@student.example.edu", user.Email)

	// Existing roles survive; student is not appended twice.
	assert.ElementsMatch(t, []sec.UserRole{sec.RoleStudent, sec.RoleStaff}, user.Roles)
}

/*
TestResolveIdentity_NoUsableIdentifier verifies that a profile carrying
neither an account ID nor an email is rejected before any write.
*/
func TestResolveIdentity_NoUsableIdentifier(t *testing.T) {
	fixture := newServiceFixture(Options{})

	_, err := fixture.service.ResolveIdentity(context.Background(), &azuread.Profile{
		Surname:     "S123456",
		DisplayName: "Jan Novak",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Equal(t, 0, fixture.users.createdCount)
}

/*
TestResolveIdentity_EmptyFieldsNeverMatch verifies that a profile with an
empty surname cannot accidentally match an account whose student ID is also
empty.
*/
func TestResolveIdentity_EmptyFieldsNeverMatch(t *testing.T) {
	fixture := newServiceFixture(Options{})
	fixture.users.users["id-blank"] = &User{ID: "id-blank", Email: "other@example.edu"}

	_, err := fixture.service.ResolveIdentity(context.Background(), &azuread.Profile{
		ID:          "ms-new",
		Mail:        "new@student.example.edu",
		DisplayName: "New Person",
	})
	require.NoError(t, err)

	// The blank-studentid account must be untouched; a new one is created.
	assert.Equal(t, 1, fixture.users.createdCount)
	assert.Equal(t, "other@example.edu", fixture.users.users["id-blank"].Email)
}

/*
TestResolveIdentity_LookupFailureAborts verifies that a storage failure
during the ordered lookups aborts resolution instead of falling through to
Create. A transient outage must never fork a duplicate account for someone
who already has one.
*/
func TestResolveIdentity_LookupFailureAborts(t *testing.T) {
	fixture := newServiceFixture(Options{})
	fixture.users.users["id-student"] = &User{ID: "id-student", StudentID: "S123456"}
	fixture.users.failFinds = true

	_, err := fixture.service.ResolveIdentity(context.Background(), fixture.provider.profile)

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "PERSISTENCE_ERROR", ae.Code)

	assert.Equal(t, 0, fixture.users.createdCount)
	assert.Equal(t, 0, fixture.users.updatedCount)
	assert.Len(t, fixture.users.users, 1)
}

// # Refresh Token Issuance

/*
TestIssueRefreshToken verifies the shape and validity window of a freshly
issued refresh token.
*/
func TestIssueRefreshToken(t *testing.T) {
	fixture := newServiceFixture(Options{})
	issuedAt := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	fixture.freeze(issuedAt)

	user := &User{ID: "id-1"}

	token, err := fixture.service.IssueRefreshToken(context.Background(), user)
	require.NoError(t, err)

	// 64 random bytes, hex-encoded.
	assert.Len(t, token.Token, 128)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{128}$`), token.Token)

	assert.Equal(t, "id-1", token.UserID)
	assert.Equal(t, time.Date(2027, time.March, 15, 12, 0, 0, 0, time.UTC), token.ValidUntil)
	assert.Equal(t, issuedAt, token.CreatedAt)

	// Persisted under its own value.
	stored, err := fixture.tokens.FindByToken(context.Background(), token.Token)
	require.NoError(t, err)
	assert.Equal(t, token.ValidUntil, stored.ValidUntil)
}

/*
TestIssueRefreshToken_Distinct verifies that consecutive issuances never
produce the same token value.
*/
func TestIssueRefreshToken_Distinct(t *testing.T) {
	fixture := newServiceFixture(Options{})
	user := &User{ID: "id-1"}

	first, err := fixture.service.IssueRefreshToken(context.Background(), user)
	require.NoError(t, err)
	second, err := fixture.service.IssueRefreshToken(context.Background(), user)
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)
	assert.Len(t, fixture.tokens.tokens, 2)
}

/*
TestValidityDeadline_CalendarYear verifies calendar-year addition, including
the leap-day normalization Feb 29 -> Mar 1.
*/
func TestValidityDeadline_CalendarYear(t *testing.T) {
	tests := []struct {
		name     string
		issuedAt time.Time
		expected time.Time
	}{
		{
			"plain_day",
			time.Date(2026, time.August, 29, 10, 30, 0, 0, time.UTC),
			time.Date(2027, time.August, 29, 10, 30, 0, 0, time.UTC),
		},
		{
			"leap_day_normalizes_forward",
			time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC),
			time.Date(2025, time.March, 1, 23, 59, 59, 0, time.UTC),
		},
		{
			"year_boundary",
			time.Date(2026, time.December, 31, 23, 0, 0, 0, time.UTC),
			time.Date(2027, time.December, 31, 23, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, validityDeadline(tt.issuedAt))
		})
	}
}

/*
TestIssueRefreshToken_RevokeOnLogin verifies the optional single-session
policy: previous tokens are dropped before the new one is stored.
*/
func TestIssueRefreshToken_RevokeOnLogin(t *testing.T) {
	fixture := newServiceFixture(Options{RevokeOnLogin: true})
	user := &User{ID: "id-1"}

	fixture.tokens.tokens["stale"] = &RefreshToken{Token: "stale", UserID: "id-1"}

	token, err := fixture.service.IssueRefreshToken(context.Background(), user)
	require.NoError(t, err)

	assert.Equal(t, []string{"id-1"}, fixture.tokens.deletedForUsers)
	assert.Len(t, fixture.tokens.tokens, 1)
	assert.Contains(t, fixture.tokens.tokens, token.Token)
}

// # Login Flow

/*
TestBeginLogin verifies that a login attempt stores a state token and embeds
it in the provider redirect URL.
*/
func TestBeginLogin(t *testing.T) {
	fixture := newServiceFixture(Options{})

	redirectURL, err := fixture.service.BeginLogin(context.Background())
	require.NoError(t, err)

	require.Len(t, fixture.states.states, 1)
	for state := range fixture.states.states {
		assert.Contains(t, redirectURL, "state="+state)
		assert.Len(t, state, 64) // 32 bytes hex-encoded
	}
}

/*
TestCompleteLogin_Success walks the full happy path: state consumed, code
exchanged, profile resolved, access and refresh tokens issued.
*/
func TestCompleteLogin_Success(t *testing.T) {
	fixture := newServiceFixture(Options{SetRefreshCookie: true})
	fixture.states.states["state-1"] = true

	session, err := fixture.service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "code-1",
		State: "state-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "code-1", fixture.provider.exchangedFor)
	assert.Equal(t, "jwt-for-"+session.User.ID, session.AccessToken)
	require.NotNil(t, session.RefreshToken)
	assert.Equal(t, session.User.ID, session.RefreshToken.UserID)

	// State is single-use.
	assert.Empty(t, fixture.states.states)
}

/*
TestCompleteLogin_NoRefreshCookie verifies the cookie-less deployment mode:
the session carries only the short-lived access token.
*/
func TestCompleteLogin_NoRefreshCookie(t *testing.T) {
	fixture := newServiceFixture(Options{SetRefreshCookie: false})
	fixture.states.states["state-1"] = true

	session, err := fixture.service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "code-1",
		State: "state-1",
	})
	require.NoError(t, err)

	assert.Nil(t, session.RefreshToken)
	assert.Empty(t, fixture.tokens.tokens)
}

/*
TestCompleteLogin_MissingCode verifies that a callback without a code is a
validation failure, not an upstream call.
*/
func TestCompleteLogin_MissingCode(t *testing.T) {
	fixture := newServiceFixture(Options{})

	_, err := fixture.service.CompleteLogin(context.Background(), CompleteLoginInput{State: "state-1"})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Empty(t, fixture.provider.exchangedFor)
}

/*
TestCompleteLogin_UnknownState verifies that a replayed or forged state is
rejected before the code exchange.
*/
func TestCompleteLogin_UnknownState(t *testing.T) {
	fixture := newServiceFixture(Options{})

	_, err := fixture.service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "code-1",
		State: "never-issued",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
	assert.Empty(t, fixture.provider.exchangedFor)
}

/*
TestCompleteLogin_ProviderFailure verifies that an upstream failure aborts
the flow cleanly: no account is created, no token issued, and the error maps
to a safe 502 response.
*/
func TestCompleteLogin_ProviderFailure(t *testing.T) {
	tests := []struct {
		name string
		set  func(client *fakeProviderClient)
	}{
		{"exchange_fails", func(client *fakeProviderClient) {
			client.exchangeErr = apperr.IdentityProvider(errors.New("invalid_grant"))
		}},
		{"profile_fetch_fails", func(client *fakeProviderClient) {
			client.profileErr = apperr.IdentityProvider(errors.New("graph returned 401"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newServiceFixture(Options{SetRefreshCookie: true})
			fixture.states.states["state-1"] = true
			tt.set(fixture.provider)

			_, err := fixture.service.CompleteLogin(context.Background(), CompleteLoginInput{
				Code:  "code-1",
				State: "state-1",
			})

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "IDENTITY_PROVIDER_ERROR", ae.Code)
			assert.Equal(t, http.StatusBadGateway, ae.HTTPStatus)

			// Nothing was written.
			assert.Equal(t, 0, fixture.users.createdCount)
			assert.Empty(t, fixture.tokens.tokens)
		})
	}
}

// # Session Management

/*
TestRefresh_Success verifies that a live refresh token mints a new access
token for its owner without rotating the token itself.
*/
func TestRefresh_Success(t *testing.T) {
	fixture := newServiceFixture(Options{})
	now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
	fixture.freeze(now)

	fixture.users.users["id-1"] = &User{ID: "id-1", Email: "jan@example.edu", Roles: []sec.UserRole{sec.RoleStudent}}
	fixture.tokens.tokens["ab12cd34"] = &RefreshToken{
		Token:      "ab12cd34",
		UserID:     "id-1",
		ValidUntil: now.AddDate(1, 0, 0),
	}

	session, err := fixture.service.Refresh(context.Background(), "ab12cd34")
	require.NoError(t, err)

	assert.Equal(t, "jwt-for-id-1", session.AccessToken)
	assert.Equal(t, "id-1", session.User.ID)
	assert.Contains(t, fixture.tokens.tokens, "ab12cd34")
}

/*
TestRefresh_Rejections verifies that unknown and expired tokens both come
back as a generic 401.
*/
func TestRefresh_Rejections(t *testing.T) {
	now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		setup func(fixture *serviceFixture)
		token string
	}{
		{"unknown_token", func(fixture *serviceFixture) {}, "beef0000"},
		{"expired_token", func(fixture *serviceFixture) {
			fixture.tokens.tokens["0dd0dd"] = &RefreshToken{
				Token:      "0dd0dd",
				UserID:     "id-1",
				ValidUntil: now.Add(-time.Second),
			}
		}, "0dd0dd"},
		{"deadline_is_exclusive", func(fixture *serviceFixture) {
			fixture.tokens.tokens["ed9e00"] = &RefreshToken{
				Token:      "ed9e00",
				UserID:     "id-1",
				ValidUntil: now,
			}
		}, "ed9e00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newServiceFixture(Options{})
			fixture.freeze(now)
			tt.setup(fixture)

			_, err := fixture.service.Refresh(context.Background(), tt.token)

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
		})
	}
}

/*
TestRefresh_StorageOutage verifies that a failed lookup surfaces as a server
error, not as a 401: a database outage is not an invalid token.
*/
func TestRefresh_StorageOutage(t *testing.T) {
	now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		setup func(fixture *serviceFixture)
	}{
		{"token_lookup_fails", func(fixture *serviceFixture) {
			fixture.tokens.failFinds = true
		}},
		{"user_lookup_fails", func(fixture *serviceFixture) {
			fixture.tokens.tokens["ab12cd34"] = &RefreshToken{
				Token:      "ab12cd34",
				UserID:     "id-1",
				ValidUntil: now.AddDate(1, 0, 0),
			}
			fixture.users.failFinds = true
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newServiceFixture(Options{})
			fixture.freeze(now)
			tt.setup(fixture)

			_, err := fixture.service.Refresh(context.Background(), "ab12cd34")

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.GreaterOrEqual(t, ae.HTTPStatus, http.StatusInternalServerError)
		})
	}
}

/*
TestLogout verifies that logout deletes the token and is idempotent.
*/
func TestLogout(t *testing.T) {
	fixture := newServiceFixture(Options{})
	fixture.tokens.tokens["live"] = &RefreshToken{Token: "live", UserID: "id-1"}

	require.NoError(t, fixture.service.Logout(context.Background(), "live"))
	assert.NotContains(t, fixture.tokens.tokens, "live")

	// Logging out again is still fine.
	require.NoError(t, fixture.service.Logout(context.Background(), "live"))
}

/*
TestLogoutAll verifies that every token owned by the user is dropped while
other users' sessions survive.
*/
func TestLogoutAll(t *testing.T) {
	fixture := newServiceFixture(Options{})
	fixture.tokens.tokens["aa01"] = &RefreshToken{Token: "aa01", UserID: "id-1"}
	fixture.tokens.tokens["aa02"] = &RefreshToken{Token: "aa02", UserID: "id-1"}
	fixture.tokens.tokens["bb01"] = &RefreshToken{Token: "bb01", UserID: "id-2"}

	require.NoError(t, fixture.service.LogoutAll(context.Background(), "id-1"))

	assert.Equal(t, []string{"id-1"}, fixture.tokens.deletedForUsers)
	assert.Len(t, fixture.tokens.tokens, 1)
	assert.Contains(t, fixture.tokens.tokens, "bb01")
}
