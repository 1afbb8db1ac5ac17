// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/scolaria/internal/platform/apperr"
	"github.com/taibuivan/scolaria/internal/platform/constants"
	"github.com/taibuivan/scolaria/internal/platform/ctxutil"
	"github.com/taibuivan/scolaria/internal/platform/middleware"
	requestutil "github.com/taibuivan/scolaria/internal/platform/request"
	"github.com/taibuivan/scolaria/internal/platform/respond"
	"github.com/taibuivan/scolaria/internal/platform/sec"
	"github.com/taibuivan/scolaria/internal/platform/validate"
)

// # Definitions & Constructors

// HandlerConfig carries the page locations the auth routes redirect to.
type HandlerConfig struct {
	SignInPath string
	ErrorPath  string
	BaseURL    string
	RootDomain string
}

// Handler implements the /api/auth HTTP endpoints.
//
// # Scope
//
// Sign-in, sign-out, the CSRF token and the current session. Every cookie it
// writes goes through the [CookieScoper].
type Handler struct {
	authService *Service
	codec       *Codec
	cookies     *CookieScoper
	csrf        *sec.CSRFSigner
	config      HandlerConfig
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, codec *Codec, cookies *CookieScoper, csrf *sec.CSRFSigner, config HandlerConfig) *Handler {
	return &Handler{
		authService: service,
		codec:       codec,
		cookies:     cookies,
		csrf:        csrf,
		config:      config,
	}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - GET  /csrf    : Issues the double-submit CSRF token.
//   - POST /signin  : Verifies credentials and sets the session cookie.
//   - POST /signout : Clears the session cookie.
//   - GET  /session : Returns the current session or null.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/csrf", handler.csrfToken)
	router.Post("/signin", handler.signIn)
	router.Post("/signout", handler.signOut)
	router.Get("/session", handler.session)

	return router
}

// # Request Payloads

type signInRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CSRFToken   string `json:"csrfToken"`
	CallbackURL string `json:"callbackUrl"`
}

type signOutRequest struct {
	CSRFToken string `json:"csrfToken"`
}

// # Responses

type csrfResponse struct {
	CSRFToken string `json:"csrfToken"`
}

type signInResponse struct {
	URL  string       `json:"url"`
	User sec.Identity `json:"user"`
}

type redirectResponse struct {
	URL string `json:"url"`
}

/*
csrfToken returns the CSRF token of the client, issuing one when needed.

GET /api/auth/csrf

Response:
  - 200: csrfResponse
*/
func (handler *Handler) csrfToken(writer http.ResponseWriter, request *http.Request) {
	token, ok := handler.csrf.Recover(handler.cookies.Read(request, constants.CSRFCookieName))
	if !ok {
		var cookieValue string
		var err error

		token, cookieValue, err = handler.csrf.Issue(constants.CSRFTokenLength)
		if err != nil {
			respond.Error(writer, request, apperr.Internal(err))
			return
		}

		handler.cookies.Set(writer, constants.CSRFCookieName, cookieValue, handler.cookies.RequestURL(request), time.Time{})
	}

	respond.OK(writer, csrfResponse{CSRFToken: token})
}

/*
signIn authenticates a credential pair and starts a session.

POST /api/auth/signin

Request:
  - Body: signInRequest (email, password, csrfToken, callbackUrl)

Response:
  - 200: signInResponse
  - 400: ErrInvalidJSON
  - 401: ErrInvalidCredentials, with url pointing at the error page
  - 403: ErrCSRFMismatch
  - 429: ErrLoginThrottled
*/
func (handler *Handler) signIn(writer http.ResponseWriter, request *http.Request) {
	var input signInRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if !handler.csrf.Verify(handler.cookies.Read(request, constants.CSRFCookieName), input.CSRFToken) {
		respond.Error(writer, request, ErrCSRFMismatch)
		return
	}

	identity, err := handler.authService.Authenticate(request.Context(), Credentials{
		Email:    input.Email,
		Password: input.Password,
		ClientIP: middleware.RealIP(request),
	})
	if err != nil {
		if errors.Is(err, ErrLoginThrottled) {
			respond.Error(writer, request, err)
			return
		}

		reason := "invalid_credentials"
		if errors.Is(err, ErrValidation) {
			reason = "validation"
		}
		ctxutil.GetLogger(request.Context()).InfoContext(request.Context(), "auth_signin_failed",
			slog.String("reason", reason),
		)

		respond.ErrorWithURL(writer, request, ErrInvalidCredentials,
			handler.config.ErrorPath+"?error="+constants.SignInErrorCode,
		)
		return
	}

	token, claims, err := handler.codec.Issue(nil, identity)
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	requestURL := handler.cookies.RequestURL(request)
	callbackURL := safeCallbackURL(input.CallbackURL, handler.config.BaseURL, handler.config.RootDomain)

	handler.cookies.Set(writer, constants.SessionCookieName, token, requestURL, claims.ExpiresAt.Time)
	handler.cookies.Set(writer, constants.CallbackURLCookieName, callbackURL, requestURL, time.Time{})

	ctxutil.GetLogger(request.Context()).InfoContext(request.Context(), "auth_signin_succeeded",
		slog.String("user_id", identity.ID),
	)

	respond.OK(writer, signInResponse{URL: callbackURL, User: *identity})
}

/*
signOut ends the session of the client.

POST /api/auth/signout

Request:
  - Body: signOutRequest (csrfToken)

Response:
  - 200: redirectResponse pointing at the sign-in page
  - 403: ErrCSRFMismatch
*/
func (handler *Handler) signOut(writer http.ResponseWriter, request *http.Request) {
	var input signOutRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if !handler.csrf.Verify(handler.cookies.Read(request, constants.CSRFCookieName), input.CSRFToken) {
		respond.Error(writer, request, ErrCSRFMismatch)
		return
	}

	handler.cookies.Clear(writer, constants.SessionCookieName, handler.cookies.RequestURL(request))
	respond.OK(writer, redirectResponse{URL: handler.config.SignInPath})
}

/*
session returns the session decoded by the authentication middleware.

GET /api/auth/session

Response:
  - 200: sec.Session or null
*/
func (handler *Handler) session(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, requestutil.Session(request))
}
