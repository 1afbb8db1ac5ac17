// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"

	"github.com/taibuivan/scolaria/internal/platform/apperr"
	"github.com/taibuivan/scolaria/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/scolaria/internal/platform/request"
	"github.com/taibuivan/scolaria/internal/platform/respond"
	"github.com/taibuivan/scolaria/internal/platform/sec"
)

// SessionReader decodes the session carried by a request.
//
// The writer is passed along so an implementation may refresh the session
// cookie while reading it.
type SessionReader interface {
	ReadSession(writer http.ResponseWriter, request *http.Request) (*sec.Session, error)
}

// AccessChecker decides whether a user may act on an establishment.
type AccessChecker interface {
	HasAccessToEtablissement(ctx context.Context, userID, etablissementID string) bool
}

// Authenticate decodes the session cookie and stores the session in the context.
//
// # Flow
//  1. Ask the [SessionReader] for the session.
//  2. Any failure (no cookie, bad signature, expiry) leaves the request anonymous.
//  3. On success, inject [*sec.Session] into the request context.
func Authenticate(reader SessionReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			session, err := reader.ReadSession(writer, request)
			if err != nil || session == nil {
				next.ServeHTTP(writer, request)
				return
			}

			reportUser(request.Context(), session.User.ID)
			ctx := ctxutil.WithSession(request.Context(), session)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetSession(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests if the authenticated user doesn't have the required role.
//
// It implies [RequireAuth] so you don't need to mount both.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			session := ctxutil.GetSession(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if session == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !session.User.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequireEtablissementAccess guards tenant-scoped routes.
//
// The establishment id is read from the chi URL parameter named param and
// checked against the stored user record through [AccessChecker]. The session
// claims are not trusted for this decision: a role or membership change in the
// store takes effect before the token expires.
func RequireEtablissementAccess(checker AccessChecker, param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			session := ctxutil.GetSession(request.Context())
			if session == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			etablissementID := requestutil.Param(request, param)
			if !checker.HasAccessToEtablissement(request.Context(), session.User.ID, etablissementID) {
				respond.Error(writer, request, apperr.Forbidden("Access to this establishment is denied"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
