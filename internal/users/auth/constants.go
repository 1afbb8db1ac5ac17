// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "github.com/taibuivan/scolaria/internal/platform/apperr"

// # Field Identifiers

const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldCSRFToken   = "csrfToken"
	FieldCallbackURL = "callbackUrl"
	FieldURL         = "url"
	FieldUser        = "user"
)

// invalidCredentialsMessage is the only message a failed sign-in ever produces.
const invalidCredentialsMessage = "Invalid login credentials"

// # Errors

var (
	// ErrValidation rejects a credential pair with an invalid shape.
	//
	// It is indistinguishable from [ErrInvalidCredentials] on the wire; only
	// errors.Is inside the process can tell them apart.
	ErrValidation = apperr.Unauthorized(invalidCredentialsMessage)

	// ErrInvalidCredentials covers unknown emails, accounts without a password
	// and password mismatches alike.
	ErrInvalidCredentials = apperr.Unauthorized(invalidCredentialsMessage)

	// ErrTokenInvalid is returned when a session token fails verification.
	ErrTokenInvalid = apperr.Unauthorized("Invalid or expired session")

	// ErrCSRFMismatch is returned when the double-submit CSRF check fails.
	ErrCSRFMismatch = apperr.Forbidden("Invalid CSRF token")

	// ErrLoginThrottled is returned when the optional login throttle trips.
	ErrLoginThrottled = &apperr.AppError{
		Code:       "RATE_LIMITED",
		Message:    "Too many sign-in attempts. Try again later.",
		HTTPStatus: 429,
	}

	// ErrUserNotFound is the repository signal for a missing account.
	ErrUserNotFound = apperr.NotFound("User")
)
