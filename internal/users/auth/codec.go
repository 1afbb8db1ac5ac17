// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/scolaria/internal/platform/constants"
	"github.com/taibuivan/scolaria/internal/platform/ctxutil"
	"github.com/taibuivan/scolaria/internal/platform/sec"
)

// TokenSigner defines the contract for signing and verifying session tokens.
type TokenSigner interface {
	SignSession(identity sec.Identity, issuedAt time.Time, timeToLive time.Duration) (string, *sec.SessionClaims, error)
	VerifyToken(token string) (*sec.SessionClaims, error)
}

// Codec carries identity fields between the sign-in result, the session
// token and the session exposed to handlers.
//
// Both transitions are field-wise merges: a field already known is only ever
// overwritten by a non-empty value, never cleared.
type Codec struct {
	tokens    TokenSigner
	cookies   *CookieScoper
	maxAge    time.Duration
	updateAge time.Duration
	now       func() time.Time
}

// NewCodec creates a codec issuing tokens valid for maxAge and refreshing
// them once they are older than updateAge.
func NewCodec(tokens TokenSigner, cookies *CookieScoper, maxAge, updateAge time.Duration) *Codec {
	return &Codec{
		tokens:    tokens,
		cookies:   cookies,
		maxAge:    maxAge,
		updateAge: updateAge,
		now:       time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (codec *Codec) WithClock(now func() time.Time) *Codec {
	codec.now = now
	return codec
}

// # Transitions

// EncodeTransition computes the identity to sign from the previous claims and
// the user returned by sign-in (nil on a plain refresh).
func (codec *Codec) EncodeTransition(existing *sec.SessionClaims, user *sec.Identity) sec.Identity {
	identity := existing.Identity()
	if user != nil {
		identity = sec.MergeIdentity(identity, *user)
	}
	return identity
}

// DecodeTransition folds verified claims into the session handed to handlers.
func (codec *Codec) DecodeTransition(existing sec.Session, claims *sec.SessionClaims) sec.Session {
	session := sec.Session{
		User:    sec.MergeIdentity(existing.User, claims.Identity()),
		Expires: existing.Expires,
	}
	if claims != nil && claims.ExpiresAt != nil {
		session.Expires = claims.ExpiresAt.Time
	}
	return session
}

// # Token Lifecycle

/*
Issue signs a session token for the merged identity.

Parameters:
  - existing: *sec.SessionClaims (nil on first sign-in)
  - user: *sec.Identity (nil on refresh)

Returns:
  - string: Signed token
  - *sec.SessionClaims: The signed claims
  - error: Signing failures
*/
func (codec *Codec) Issue(existing *sec.SessionClaims, user *sec.Identity) (string, *sec.SessionClaims, error) {
	identity := codec.EncodeTransition(existing, user)
	return codec.tokens.SignSession(identity, codec.now(), codec.maxAge)
}

/*
Decode verifies a token and builds the session it carries.

Returns:
  - *sec.Session: Decoded session
  - *sec.SessionClaims: Verified claims
  - error: ErrTokenInvalid on any verification failure
*/
func (codec *Codec) Decode(token string) (*sec.Session, *sec.SessionClaims, error) {
	if token == "" {
		return nil, nil, ErrTokenInvalid
	}

	claims, err := codec.tokens.VerifyToken(token)
	if err != nil {
		return nil, nil, ErrTokenInvalid
	}

	session := codec.DecodeTransition(sec.Session{}, claims)
	return &session, claims, nil
}

/*
ReadSession reads the session cookie of a request.

Description: No cookie yields (nil, nil). A token older than the update age
is re-issued and the cookie rewritten; a failed refresh is logged and the
current session is still returned.

Returns:
  - *sec.Session: Decoded session or nil
  - error: ErrTokenInvalid when a cookie is present but does not verify
*/
func (codec *Codec) ReadSession(writer http.ResponseWriter, request *http.Request) (*sec.Session, error) {
	token := codec.cookies.Read(request, constants.SessionCookieName)
	if token == "" {
		return nil, nil
	}

	session, claims, err := codec.Decode(token)
	if err != nil {
		return nil, err
	}

	if claims.IssuedAt == nil || codec.now().Sub(claims.IssuedAt.Time) < codec.updateAge {
		return session, nil
	}

	refreshed, refreshedClaims, err := codec.Issue(claims, nil)
	if err != nil {
		ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "session_refresh_failed",
			slog.String("error", err.Error()),
		)
		return session, nil
	}

	codec.cookies.Set(writer, constants.SessionCookieName, refreshed, codec.cookies.RequestURL(request), refreshedClaims.ExpiresAt.Time)

	next := codec.DecodeTransition(*session, refreshedClaims)
	return &next, nil
}
