// Copyright (c) 2026 Prika. All rights reserved.
// Author: dev@prika.app

package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/prikalab/prika/internal/platform/apperr"
	"github.com/prikalab/prika/internal/platform/constants"
	"github.com/prikalab/prika/internal/platform/middleware"
	requestutil "github.com/prikalab/prika/internal/platform/request"
	"github.com/prikalab/prika/internal/platform/respond"
	"github.com/prikalab/prika/internal/platform/sec"
)

// # Transport Layer

// CookieOptions configures the refresh token cookie the handler writes.
type CookieOptions struct {
	// Domain scopes the cookie. Empty means host-only.
	Domain string

	// Secure must be true everywhere except local development over plain HTTP.
	Secure bool
}

// Handler exposes the login flow over HTTP.
type Handler struct {
	service *Service
	cookies CookieOptions
}

// NewHandler constructs a new auth [Handler].
func NewHandler(service *Service, cookies CookieOptions) *Handler {
	return &Handler{
		service: service,
		cookies: cookies,
	}
}

/*
Routes returns the router for the authentication endpoints.

Endpoints:
  - GET  /        : Start a login attempt (302 to the Microsoft consent page)
  - GET  /check   : Provider callback (finishes the login, returns the session)
  - POST /refresh : Mint a new access token from the refresh cookie
  - POST /logout  : Revoke the refresh token (or all of a user's tokens) and clear the cookie
  - GET  /me      : Return the authenticated user's account
  - DELETE /tokens/expired : Sweep expired refresh tokens (admin only)
*/
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.Begin)
	router.Get("/check", handler.Callback)
	router.Post("/refresh", handler.Refresh)
	router.Post("/logout", handler.Logout)

	router.With(middleware.RequireAuth).Get("/me", handler.Me)
	router.With(middleware.RequireRole(sec.RoleAdmin)).Delete("/tokens/expired", handler.SweepExpired)

	return router
}

// # Endpoints

// Begin starts a login attempt and redirects the browser to Azure AD.
func (handler *Handler) Begin(writer http.ResponseWriter, request *http.Request) {
	redirectURL, err := handler.service.BeginLogin(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Redirect(writer, request, redirectURL)
}

// sessionResponse is the JSON body returned by Callback and Refresh.
type sessionResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        *User  `json:"user"`
}

/*
Callback handles the Azure AD redirect back to us.

Description: Validates the callback parameters, drives the service through
code exchange / profile fetch / identity resolution, then returns the JWT
session body. When the refresh-cookie policy is on, the refresh token is
set as an HttpOnly cookie and never appears in the body.

The provider signals its own refusals (user cancelled consent, bad client
config) via an ?error query parameter instead of a code.
*/
func (handler *Handler) Callback(writer http.ResponseWriter, request *http.Request) {

	if providerError := requestutil.Query(request, "error"); providerError != "" {
		description := requestutil.Query(request, "error_description")
		respond.Error(writer, request, apperr.IdentityProvider(
			fmt.Errorf("provider declined the login: %s: %s", providerError, description),
		))
		return
	}

	session, err := handler.service.CompleteLogin(request.Context(), CompleteLoginInput{
		Code:  requestutil.Query(request, FieldCode),
		State: requestutil.Query(request, FieldState),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if session.RefreshToken != nil {
		http.SetCookie(writer, handler.refreshCookie(session.RefreshToken))
	}

	respond.OK(writer, sessionResponse{
		AccessToken: session.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(AccessTokenTTL.Seconds()),
		User:        session.User,
	})
}

// Refresh mints a new access token from the refresh token cookie.
func (handler *Handler) Refresh(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil {
		respond.Error(writer, request, apperr.Unauthorized("Refresh token cookie is missing"))
		return
	}

	session, err := handler.service.Refresh(request.Context(), cookie.Value)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, sessionResponse{
		AccessToken: session.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(AccessTokenTTL.Seconds()),
		User:        session.User,
	})
}

// logoutRequest is the optional JSON body for [Handler.Logout].
type logoutRequest struct {
	AllDevices bool `json:"all_devices"`
}

// Logout revokes the presented refresh token and clears the cookie.
//
// With {"all_devices": true} in the body, every token owned by the
// authenticated user is revoked instead; that path requires a verified
// access token, not just the cookie. A missing cookie still clears and
// returns 204: logout is idempotent.
func (handler *Handler) Logout(writer http.ResponseWriter, request *http.Request) {
	input := logoutRequest{}
	if request.ContentLength > 0 {
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	if input.AllDevices {
		userID, err := requestutil.RequiredUserID(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		if err := handler.service.LogoutAll(request.Context(), userID); err != nil {
			respond.Error(writer, request, err)
			return
		}
	} else if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil {
		if err := handler.service.Logout(request.Context(), cookie.Value); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	http.SetCookie(writer, handler.clearedRefreshCookie())
	respond.NoContent(writer)
}

// Me returns the account behind the presented access token.
func (handler *Handler) Me(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.CurrentUser(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// SweepExpired removes refresh tokens past their deadline. Admin only.
func (handler *Handler) SweepExpired(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.SweepExpiredTokens(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Cookie Construction

// refreshCookie builds the HttpOnly refresh token cookie. The cookie expires
// together with the token itself.
func (handler *Handler) refreshCookie(token *RefreshToken) *http.Cookie {
	return &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    token.Token,
		Path:     constants.RefreshTokenCookiePath,
		Domain:   handler.cookies.Domain,
		Expires:  token.ValidUntil,
		HttpOnly: true,
		Secure:   handler.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// clearedRefreshCookie builds an expired cookie that removes the refresh
// token from the browser.
func (handler *Handler) clearedRefreshCookie() *http.Cookie {
	return &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		Domain:   handler.cookies.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   handler.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
