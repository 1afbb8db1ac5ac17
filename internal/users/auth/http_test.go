// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/scolaria/internal/platform/constants"
	"github.com/taibuivan/scolaria/internal/platform/middleware"
	"github.com/taibuivan/scolaria/internal/platform/sec"
)

type authFixture struct {
	router http.Handler
	csrf   *sec.CSRFSigner
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	cookies := NewCookieScoper("", "http://localhost:3000", false, discardLogger())
	codec := NewCodec(newTokens(t), cookies, 30*24*time.Hour, 24*time.Hour)
	csrf := sec.NewCSRFSigner("test-secret")
	service := NewService(newFakeUsers(adminUser(t)), nil)

	handler := NewHandler(service, codec, cookies, csrf, HandlerConfig{
		SignInPath: "/login",
		ErrorPath:  "/login",
		BaseURL:    "http://localhost:3000",
	})

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(codec))
	router.Mount("/api/auth", handler.Routes())

	return &authFixture{router: router, csrf: csrf}
}

func (fixture *authFixture) do(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, "http://localhost:3000"+path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	fixture.router.ServeHTTP(recorder, request)
	return recorder
}

func cookieNamed(recorder *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
	Code  string          `json:"code"`
	URL   string          `json:"url"`
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

// fetchCSRF returns the token and its cookie.
func (fixture *authFixture) fetchCSRF(t *testing.T) (string, *http.Cookie) {
	t.Helper()
	recorder := fixture.do(http.MethodGet, "/api/auth/csrf", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var payload csrfResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, recorder).Data, &payload))

	cookie := cookieNamed(recorder, constants.CSRFCookieName)
	require.NotNil(t, cookie)
	return payload.CSRFToken, cookie
}

/*
TestHTTP_SignInFlow walks through csrf, sign-in, session and sign-out.
*/
func TestHTTP_SignInFlow(t *testing.T) {
	fixture := newAuthFixture(t)
	token, csrfCookie := fixture.fetchCSRF(t)

	// ── Sign in ───────────────────────────────────────────────────────────
	body := `{"email":"a@x.com","password":"secret","csrfToken":"` + token + `","callbackUrl":"/dashboard"}`
	recorder := fixture.do(http.MethodPost, "/api/auth/signin", body, csrfCookie)
	require.Equal(t, http.StatusOK, recorder.Code)

	var signIn signInResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, recorder).Data, &signIn))
	assert.Equal(t, "/dashboard", signIn.URL)
	assert.Equal(t, "u1", signIn.User.ID)
	assert.Equal(t, "E1", signIn.User.EtablissementID)
	assert.NotContains(t, recorder.Body.String(), "$2a$")

	sessionCookie := cookieNamed(recorder, constants.SessionCookieName)
	require.NotNil(t, sessionCookie)
	assert.True(t, sessionCookie.HttpOnly)

	callbackCookie := cookieNamed(recorder, constants.CallbackURLCookieName)
	require.NotNil(t, callbackCookie)
	assert.Equal(t, "/dashboard", callbackCookie.Value)

	// ── Session ───────────────────────────────────────────────────────────
	recorder = fixture.do(http.MethodGet, "/api/auth/session", "", sessionCookie)
	require.Equal(t, http.StatusOK, recorder.Code)

	var session sec.Session
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, recorder).Data, &session))
	assert.Equal(t, "u1", session.User.ID)
	assert.Equal(t, sec.RoleAdmin, session.User.Role)

	// ── Sign out ──────────────────────────────────────────────────────────
	recorder = fixture.do(http.MethodPost, "/api/auth/signout", `{"csrfToken":"`+token+`"}`, csrfCookie, sessionCookie)
	require.Equal(t, http.StatusOK, recorder.Code)

	var signOut redirectResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, recorder).Data, &signOut))
	assert.Equal(t, "/login", signOut.URL)

	cleared := cookieNamed(recorder, constants.SessionCookieName)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

/*
TestHTTP_SignInRejected verifies the generic failure response.
*/
func TestHTTP_SignInRejected(t *testing.T) {
	fixture := newAuthFixture(t)
	token, csrfCookie := fixture.fetchCSRF(t)

	tests := []struct {
		name  string
		email string
	}{
		{"wrong_password", "a@x.com"},
		{"unknown_email", "nobody@x.com"},
		{"malformed_email", "not-an-email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"email":"` + tt.email + `","password":"wrong","csrfToken":"` + token + `"}`
			recorder := fixture.do(http.MethodPost, "/api/auth/signin", body, csrfCookie)

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			response := decodeEnvelope(t, recorder)
			assert.Equal(t, invalidCredentialsMessage, response.Error)
			assert.Equal(t, "/login?error=CredentialsSignin", response.URL)
			assert.Nil(t, cookieNamed(recorder, constants.SessionCookieName))
		})
	}
}

/*
TestHTTP_CSRF covers the double-submit check.
*/
func TestHTTP_CSRF(t *testing.T) {
	fixture := newAuthFixture(t)
	token, csrfCookie := fixture.fetchCSRF(t)

	t.Run("missing_cookie", func(t *testing.T) {
		body := `{"email":"a@x.com","password":"secret","csrfToken":"` + token + `"}`
		recorder := fixture.do(http.MethodPost, "/api/auth/signin", body)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("mismatched_token", func(t *testing.T) {
		body := `{"email":"a@x.com","password":"secret","csrfToken":"other"}`
		recorder := fixture.do(http.MethodPost, "/api/auth/signin", body, csrfCookie)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("signout_requires_token", func(t *testing.T) {
		recorder := fixture.do(http.MethodPost, "/api/auth/signout", `{}`, csrfCookie)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("existing_cookie_reused", func(t *testing.T) {
		recorder := fixture.do(http.MethodGet, "/api/auth/csrf", "", csrfCookie)
		require.Equal(t, http.StatusOK, recorder.Code)

		var payload csrfResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, recorder).Data, &payload))
		assert.Equal(t, token, payload.CSRFToken)
		assert.Nil(t, cookieNamed(recorder, constants.CSRFCookieName))
	})
}

/*
TestHTTP_Edges covers malformed bodies, hostile callbacks and anonymous sessions.
*/
func TestHTTP_Edges(t *testing.T) {
	fixture := newAuthFixture(t)
	token, csrfCookie := fixture.fetchCSRF(t)

	t.Run("invalid_json", func(t *testing.T) {
		recorder := fixture.do(http.MethodPost, "/api/auth/signin", `{"email":`, csrfCookie)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("foreign_callback_replaced", func(t *testing.T) {
		body := `{"email":"a@x.com","password":"secret","csrfToken":"` + token + `","callbackUrl":"https://evil.test/"}`
		recorder := fixture.do(http.MethodPost, "/api/auth/signin", body, csrfCookie)
		require.Equal(t, http.StatusOK, recorder.Code)

		var signIn signInResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, recorder).Data, &signIn))
		assert.Equal(t, "http://localhost:3000", signIn.URL)
	})

	t.Run("anonymous_session_is_null", func(t *testing.T) {
		recorder := fixture.do(http.MethodGet, "/api/auth/session", "")
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "null", string(decodeEnvelope(t, recorder).Data))
	})

	t.Run("forged_session_is_null", func(t *testing.T) {
		recorder := fixture.do(http.MethodGet, "/api/auth/session", "",
			&http.Cookie{Name: constants.SessionCookieName, Value: "forged"},
		)
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "null", string(decodeEnvelope(t, recorder).Data))
	})
}
