// Copyright (c) 2026 Prika. All rights reserved.
// Author: dev@prika.app

/*
Package azuread implements the outbound client for the Microsoft identity
platform (Azure AD).

It covers the two provider-side legs of the login flow:

  - Authorization: building the consent redirect URL and exchanging the
    callback code for an access token (golang.org/x/oauth2).
  - Profile: fetching the signed-in user's Microsoft Graph /me document.

Every upstream failure is wrapped as [apperr.IdentityProvider] so the service
layer never has to inspect transport errors, and the raw provider response is
only ever visible in server-side logs.
*/
package azuread

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"github.com/prikalab/prika/internal/platform/apperr"
)

// # Provider Contract

// DefaultScopes are the scopes requested on every authorization redirect.
// User.Read grants access to the Graph /me profile document.
var DefaultScopes = []string{"openid", "profile", "email", "User.Read"}

// graphProfileURL is the Microsoft Graph endpoint for the signed-in user.
const graphProfileURL = "https://graph.microsoft.com/v1.0/me"

// upstreamTimeout bounds every single call to Microsoft so a slow provider
// can never hold a login request hostage.
const upstreamTimeout = 10 * time.Second

// Profile is the subset of the Graph user document the login flow consumes.
//
// Surname doubles as the student identifier: the university provisions
// accounts with the student number in that field.
type Profile struct {
	ID          string `json:"id"`
	Mail        string `json:"mail"`
	Surname     string `json:"surname"`
	DisplayName string `json:"displayName"`
}

// Client talks to Azure AD and Microsoft Graph on behalf of the login flow.
type Client struct {
	oauth      *oauth2.Config
	httpClient *http.Client
}

// Options holds the Azure application registration values.
type Options struct {
	ClientID     string
	ClientSecret string
	Tenant       string
	RedirectURL  string
}

// NewClient constructs a Client for the given application registration.
func NewClient(options Options) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     options.ClientID,
			ClientSecret: options.ClientSecret,
			Endpoint:     microsoft.AzureADEndpoint(options.Tenant),
			RedirectURL:  options.RedirectURL,
			Scopes:       DefaultScopes,
		},
		httpClient: &http.Client{Timeout: upstreamTimeout},
	}
}

// # Authorization Leg

// AuthCodeURL builds the Azure AD consent redirect URL for the given
// single-use state token.
func (client *Client) AuthCodeURL(state string) string {
	return client.oauth.AuthCodeURL(state)
}

/*
Exchange turns a callback authorization code into a provider access token.

Parameters:
  - context: context.Context
  - code: string (the ?code= value from the callback)

Returns:
  - string: Opaque provider access token
  - error: apperr.IdentityProvider on any upstream failure
*/
func (client *Client) Exchange(ctx context.Context, code string) (string, error) {

	// Route the exchange through our bounded HTTP client.
	exchangeCtx := context.WithValue(ctx, oauth2.HTTPClient, client.httpClient)

	token, err := client.oauth.Exchange(exchangeCtx, code)
	if err != nil {
		return "", apperr.IdentityProvider(fmt.Errorf("azuread: code exchange failed: %w", err))
	}

	if token.AccessToken == "" {
		return "", apperr.IdentityProvider(fmt.Errorf("azuread: provider returned an empty access token"))
	}

	return token.AccessToken, nil
}

// # Profile Leg

/*
FetchProfile retrieves the Graph /me document for the given access token.

Parameters:
  - context: context.Context
  - accessToken: string (from [Client.Exchange])

Returns:
  - *Profile: id, mail, surname, displayName of the signed-in user
  - error: apperr.IdentityProvider on any upstream failure
*/
func (client *Client) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, graphProfileURL, nil)
	if err != nil {
		return nil, apperr.IdentityProvider(fmt.Errorf("azuread: building profile request failed: %w", err))
	}
	request.Header.Set("Authorization", "Bearer "+accessToken)
	request.Header.Set("Accept", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, apperr.IdentityProvider(fmt.Errorf("azuread: profile fetch failed: %w", err))
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode != http.StatusOK {
		// Read a bounded amount of the body for server-side diagnostics.
		body, _ := io.ReadAll(io.LimitReader(response.Body, 4096))
		return nil, apperr.IdentityProvider(
			fmt.Errorf("azuread: profile fetch returned %d: %s", response.StatusCode, string(body)),
		)
	}

	profile := &Profile{}
	if err := json.NewDecoder(response.Body).Decode(profile); err != nil {
		return nil, apperr.IdentityProvider(fmt.Errorf("azuread: decoding profile failed: %w", err))
	}

	return profile, nil
}
