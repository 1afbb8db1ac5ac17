// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/taibuivan/scolaria/internal/platform/ctxutil"
	"github.com/taibuivan/scolaria/internal/platform/sec"
	"github.com/taibuivan/scolaria/internal/platform/validate"
)

// # Limits

const (
	maxEmailLength    = 254
	maxPasswordLength = 72
)

// dummyHash is compared against when no account matches, so unknown emails
// cost the same bcrypt round as a wrong password.
var (
	dummyHash     string
	dummyHashOnce sync.Once
)

func timingHash() string {
	dummyHashOnce.Do(func() {
		hash, err := sec.HashPassword("scolaria-timing-equalizer")
		if err == nil {
			dummyHash = hash
		}
	})
	return dummyHash
}

// Service implements credential sign-in.
//
// # Review Process
//
// This service is critical for security. Every failure path past validation
// must surface [ErrInvalidCredentials] and nothing else.
type Service struct {
	userRepository UserRepository
	throttle       LoginThrottle
}

// NewService constructs a new [Service].
//
// throttle may be nil, in which case failed attempts are not counted.
func NewService(userRepo UserRepository, throttle LoginThrottle) *Service {
	return &Service{userRepository: userRepo, throttle: throttle}
}

/*
Authenticate verifies an email/password pair against the stored account.

Description: The email is matched exactly as stored. Unknown emails, accounts
without a password and wrong passwords all fail with the same error. Only
those failures count against the throttle; a success clears the count.

Parameters:
  - context: context.Context (bounds the lookup and the hash comparison)
  - credentials: Credentials

Returns:
  - *sec.Identity: Session identity (never carries the hash)
  - error: ErrValidation, ErrLoginThrottled or ErrInvalidCredentials
*/
func (service *Service) Authenticate(context context.Context, credentials Credentials) (*sec.Identity, error) {
	logger := ctxutil.GetLogger(context)

	// ── 1. Shape Validation ───────────────────────────────────────────────
	validator := &validate.Validator{}
	validator.Required(FieldEmail, credentials.Email).
		MaxLen(FieldEmail, credentials.Email, maxEmailLength).
		Email(FieldEmail, credentials.Email).
		Required(FieldPassword, credentials.Password).
		MaxLen(FieldPassword, credentials.Password, maxPasswordLength)

	if validator.HasErrors() {
		return nil, ErrValidation
	}

	// ── 2. Throttle (optional) ────────────────────────────────────────────
	budgetKey := sec.HashToken(strings.ToLower(credentials.Email) + "|" + credentials.ClientIP)
	if !service.withinBudget(context, budgetKey) {
		return nil, ErrLoginThrottled
	}

	// ── 3. Lookup ─────────────────────────────────────────────────────────
	user, err := service.userRepository.FindByEmail(context, credentials.Email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			logger.ErrorContext(context, "auth_user_lookup_failed", slog.String("error", err.Error()))
		}
		_, _ = sec.ComparePassword(context, credentials.Password, timingHash())
		service.recordFailure(context, budgetKey)
		return nil, ErrInvalidCredentials
	}

	if user.PasswordHash == "" {
		_, _ = sec.ComparePassword(context, credentials.Password, timingHash())
		service.recordFailure(context, budgetKey)
		return nil, ErrInvalidCredentials
	}

	// ── 4. Password Check ─────────────────────────────────────────────────
	matched, err := sec.ComparePassword(context, credentials.Password, user.PasswordHash)
	if err != nil || !matched {
		service.recordFailure(context, budgetKey)
		return nil, ErrInvalidCredentials
	}

	service.resetFailures(context, budgetKey)

	identity := user.Identity()
	return &identity, nil
}

// withinBudget reports whether key may attempt a sign-in. A throttle backend
// failure lets the attempt through.
func (service *Service) withinBudget(context context.Context, key string) bool {
	if service.throttle == nil {
		return true
	}

	allowed, err := service.throttle.Allowed(context, key)
	if err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "login_throttle_unavailable", slog.String("error", err.Error()))
		return true
	}
	return allowed
}

func (service *Service) recordFailure(context context.Context, key string) {
	if service.throttle == nil {
		return
	}
	if err := service.throttle.RecordFailure(context, key); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "login_throttle_unavailable", slog.String("error", err.Error()))
	}
}

func (service *Service) resetFailures(context context.Context, key string) {
	if service.throttle == nil {
		return
	}
	if err := service.throttle.Reset(context, key); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "login_throttle_unavailable", slog.String("error", err.Error()))
	}
}
