// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/scolaria/internal/platform/ctxutil"
	"github.com/taibuivan/scolaria/internal/platform/middleware"
	"github.com/taibuivan/scolaria/internal/platform/sec"
)

type fakeReader struct {
	session *sec.Session
	err     error
}

func (reader fakeReader) ReadSession(http.ResponseWriter, *http.Request) (*sec.Session, error) {
	return reader.session, reader.err
}

type fakeChecker struct {
	allowed map[string]string
	calls   int
}

func (checker *fakeChecker) HasAccessToEtablissement(_ context.Context, userID, etablissementID string) bool {
	checker.calls++
	return checker.allowed[userID] == etablissementID
}

func sessionFor(id string, role sec.UserRole) *sec.Session {
	return &sec.Session{User: sec.Identity{ID: id, Role: role}}
}

var okHandler = http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

/*
TestAuthenticate_InjectsSession verifies that a decoded session reaches the handler.
*/
func TestAuthenticate_InjectsSession(t *testing.T) {
	var seen *sec.Session
	handler := middleware.Authenticate(fakeReader{session: sessionFor("u1", sec.RoleAdmin)})(
		http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			seen = ctxutil.GetSession(request.Context())
		}),
	)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, seen)
	assert.Equal(t, "u1", seen.User.ID)
}

/*
TestAuthenticate_FailsClosed verifies that decode errors leave the request anonymous.
*/
func TestAuthenticate_FailsClosed(t *testing.T) {
	handler := middleware.Authenticate(fakeReader{session: sessionFor("u1", sec.RoleAdmin), err: errors.New("bad signature")})(
		middleware.RequireAuth(okHandler),
	)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestRequireRole checks the role hierarchy gate.
*/
func TestRequireRole(t *testing.T) {
	tests := []struct {
		name    string
		session *sec.Session
		status  int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"teacher_denied", sessionFor("u1", sec.RoleTeacher), http.StatusForbidden},
		{"admin_allowed", sessionFor("u1", sec.RoleAdmin), http.StatusOK},
		{"super_admin_allowed", sessionFor("u1", sec.RoleSuperAdmin), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.Authenticate(fakeReader{session: tt.session})(
				middleware.RequireRole(sec.RoleAdmin)(okHandler),
			)
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}

/*
TestRequireEtablissementAccess checks the tenant gate mounted on a chi route.
*/
func TestRequireEtablissementAccess(t *testing.T) {
	checker := &fakeChecker{allowed: map[string]string{"u1": "E1"}}

	newRouter := func(session *sec.Session) http.Handler {
		router := chi.NewRouter()
		router.Use(middleware.Authenticate(fakeReader{session: session}))
		router.With(middleware.RequireEtablissementAccess(checker, "etablissementID")).
			Get("/etablissements/{etablissementID}", okHandler)
		return router
	}

	tests := []struct {
		name    string
		session *sec.Session
		path    string
		status  int
	}{
		{"own_establishment", sessionFor("u1", sec.RoleAdmin), "/etablissements/E1", http.StatusOK},
		{"other_establishment", sessionFor("u1", sec.RoleAdmin), "/etablissements/E2", http.StatusForbidden},
		{"anonymous", nil, "/etablissements/E1", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			newRouter(tt.session).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}

/*
TestRateLimiter verifies that the bucket empties after the burst.
*/
func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := middleware.NewRateLimiter(ctx, 0.001, 2)
	handler := limiter.Handler(okHandler)

	statuses := make([]int, 0, 3)
	for range 3 {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(recorder, request)
		statuses = append(statuses, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
}

type corsConfig struct {
	dev    bool
	domain string
	extra  []string
}

func (c corsConfig) IsDevelopment() bool      { return c.dev }
func (c corsConfig) PlatformDomain() string   { return c.domain }
func (c corsConfig) AllowedOrigins() []string { return c.extra }

/*
TestCORS checks which origins receive credentialed CORS headers in production.
*/
func TestCORS(t *testing.T) {
	handler := middleware.CORS(corsConfig{domain: "example.org", extra: []string{"https://partner.test"}})(okHandler)

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://lycee-moulin.example.org", true},
		{"https://example.org", true},
		{"https://partner.test", true},
		{"http://lycee-moulin.example.org", false},
		{"https://evilexample.org", false},
		{"https://example.org.evil.test", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.Header.Set("Origin", tt.origin)
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			if tt.allowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

/*
TestRealIP checks proxy header precedence.
*/
func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.1:5555"
	assert.Equal(t, "192.0.2.1", middleware.RealIP(request))

	request.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", middleware.RealIP(request))

	request.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", middleware.RealIP(request))
}
