// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements session authentication for the school platform.

It covers credential sign-in, the stateless session token, the cookies that
carry it across establishment subdomains, and the establishment access guard.

# Architecture

  - Service: validates credentials against the [UserRepository].
  - Codec: moves identity fields between the sign-in result, the token and the session.
  - CookieScoper: decides the Domain attribute shared by every auth cookie.
  - Guard: tenant authorization predicate used by route middleware.
  - Handler: the /api/auth HTTP surface.

User records are owned by the database; this package only reads them.
*/
package auth

import "github.com/taibuivan/scolaria/internal/platform/sec"

// # Domain Entities

// User is an account as stored in users.account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`

	// PasswordHash is empty for accounts that never set a password.
	PasswordHash string `json:"-"`

	Role  sec.UserRole `json:"role"`
	Image string       `json:"image,omitempty"`

	// EtablissementID is empty only for platform-level accounts.
	EtablissementID string `json:"etablissementId,omitempty"`
}

// Identity returns the session identity of the user, without the hash.
func (user *User) Identity() sec.Identity {
	return sec.Identity{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		Image:           user.Image,
		Role:            user.Role,
		EtablissementID: user.EtablissementID,
	}
}

// UserAccess is the slice of a user record the access guard needs.
type UserAccess struct {
	Role            sec.UserRole
	EtablissementID string
}

// Credentials is an untrusted sign-in attempt.
type Credentials struct {
	Email    string
	Password string

	// ClientIP only feeds the login throttle.
	ClientIP string
}
