// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/scolaria/internal/platform/sec"
)

var errStoreDown = errors.New("connection refused")

// fakeUsers is an in-memory UserRepository keyed by email.
type fakeUsers struct {
	mu      sync.Mutex
	byEmail map[string]*User
	err     error
	lookups int
}

func newFakeUsers(users ...*User) *fakeUsers {
	repo := &fakeUsers{byEmail: make(map[string]*User)}
	for _, user := range users {
		repo.byEmail[user.Email] = user
	}
	return repo
}

func (repo *fakeUsers) FindByEmail(_ context.Context, email string) (*User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.lookups++

	if repo.err != nil {
		return nil, repo.err
	}
	user, ok := repo.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (repo *fakeUsers) FindAccessByID(_ context.Context, id string) (*UserAccess, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.err != nil {
		return nil, repo.err
	}
	for _, user := range repo.byEmail {
		if user.ID == id {
			return &UserAccess{Role: user.Role, EtablissementID: user.EtablissementID}, nil
		}
	}
	return nil, ErrUserNotFound
}

// fakeThrottle allows a key until limit failures were recorded for it.
type fakeThrottle struct {
	limit    int
	failures map[string]int
	err      error
}

func (throttle *fakeThrottle) Allowed(_ context.Context, key string) (bool, error) {
	if throttle.err != nil {
		return false, throttle.err
	}
	return throttle.failures[key] < throttle.limit, nil
}

func (throttle *fakeThrottle) RecordFailure(_ context.Context, key string) error {
	if throttle.err != nil {
		return throttle.err
	}
	if throttle.failures == nil {
		throttle.failures = make(map[string]int)
	}
	throttle.failures[key]++
	return nil
}

func (throttle *fakeThrottle) Reset(_ context.Context, key string) error {
	if throttle.err != nil {
		return throttle.err
	}
	delete(throttle.failures, key)
	return nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := sec.HashPassword(password)
	require.NoError(t, err)
	return hash
}

func newTokens(t *testing.T) *sec.TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return sec.NewTokenServiceFromKeys(key, &key.PublicKey, "scolaria.test")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixedClock returns a settable time source.
type fixedClock struct {
	now time.Time
}

func (clock *fixedClock) Now() time.Time { return clock.now }

// adminUser is the account of the sign-in scenarios.
func adminUser(t *testing.T) *User {
	t.Helper()
	return &User{
		ID:              "u1",
		Email:           "a@x.com",
		Name:            "Alice Martin",
		PasswordHash:    mustHash(t, "secret"),
		Role:            sec.RoleAdmin,
		EtablissementID: "E1",
	}
}
