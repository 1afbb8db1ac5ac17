// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/scolaria/internal/platform/sec"
)

func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return sec.NewTokenServiceFromKeys(key, &key.PublicKey, "scolaria.test")
}

/*
TestRole_Parse checks that only the declared roles are accepted.
*/
func TestRole_Parse(t *testing.T) {
	tests := []struct {
		raw     string
		want    sec.UserRole
		wantErr bool
	}{
		{"STUDENT", sec.RoleStudent, false},
		{"TEACHER", sec.RoleTeacher, false},
		{"ADMIN", sec.RoleAdmin, false},
		{"SUPER_ADMIN", sec.RoleSuperAdmin, false},
		{"admin", "", true},
		{"", "", true},
		{"ROOT", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			role, err := sec.ParseRole(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, role)
		})
	}
}

/*
TestRole_AtLeast verifies the role hierarchy.
*/
func TestRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleSuperAdmin.AtLeast(sec.RoleAdmin))
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleAdmin))
	assert.True(t, sec.RoleTeacher.AtLeast(sec.RoleStudent))
	assert.False(t, sec.RoleStudent.AtLeast(sec.RoleTeacher))
	assert.False(t, sec.UserRole("GHOST").AtLeast(sec.RoleStudent))

	assert.True(t, sec.RoleSuperAdmin.IsSuperAdmin())
	assert.False(t, sec.RoleAdmin.IsSuperAdmin())
}

/*
TestPassword_HashAndCompare covers the bcrypt round trip.
*/
func TestPassword_HashAndCompare(t *testing.T) {
	hash, err := sec.HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	assert.True(t, sec.CheckPasswordHash("secret", hash))
	assert.False(t, sec.CheckPasswordHash("wrong", hash))
	assert.False(t, sec.CheckPasswordHash("secret", "not-a-bcrypt-hash"))

	matched, err := sec.ComparePassword(context.Background(), "secret", hash)
	require.NoError(t, err)
	assert.True(t, matched)
}

/*
TestPassword_CompareCancelled ensures a cancelled context reports a mismatch.
*/
func TestPassword_CompareCancelled(t *testing.T) {
	hash, err := sec.HashPassword("secret")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The comparison may win the race; when it does not, the result must be a denial.
	matched, err := sec.ComparePassword(ctx, "secret", hash)
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, matched)
	}
}

/*
TestMergeIdentity checks the field-by-field precedence.
*/
func TestMergeIdentity(t *testing.T) {
	old := sec.Identity{ID: "u1", Role: sec.RoleAdmin, EtablissementID: "E1", Name: "Ana"}

	t.Run("incoming_wins_when_set", func(t *testing.T) {
		merged := sec.MergeIdentity(old, sec.Identity{Role: sec.RoleTeacher, EtablissementID: "E2"})
		assert.Equal(t, "u1", merged.ID)
		assert.Equal(t, sec.RoleTeacher, merged.Role)
		assert.Equal(t, "E2", merged.EtablissementID)
		assert.Equal(t, "Ana", merged.Name)
	})

	t.Run("empty_incoming_never_clears", func(t *testing.T) {
		assert.Equal(t, old, sec.MergeIdentity(old, sec.Identity{}))
	})

	t.Run("empty_old_takes_incoming", func(t *testing.T) {
		assert.Equal(t, old, sec.MergeIdentity(sec.Identity{}, old))
	})
}

/*
TestTokenService_RoundTrip verifies that signing then verifying reproduces the identity.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTokenService(t)
	identity := sec.Identity{ID: "u1", Role: sec.RoleAdmin, EtablissementID: "E1", Email: "a@x.com"}

	token, signed, err := service.SignSession(identity, time.Now(), time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, signed.ID)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, identity, claims.Identity())

	again, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, claims, again)
}

/*
TestTokenService_PayloadHasNoSecret inspects the raw payload of a token.
*/
func TestTokenService_PayloadHasNoSecret(t *testing.T) {
	service := newTokenService(t)
	token, _, err := service.SignSession(sec.Identity{ID: "u1", Role: sec.RoleStudent}, time.Now(), time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(payload, &fields))
	for key := range fields {
		assert.NotContains(t, strings.ToLower(key), "password")
		assert.NotContains(t, strings.ToLower(key), "hash")
	}
}

/*
TestTokenService_Rejects covers the fail-closed paths of verification.
*/
func TestTokenService_Rejects(t *testing.T) {
	service := newTokenService(t)
	other := newTokenService(t)

	expired, _, err := service.SignSession(sec.Identity{ID: "u1", Role: sec.RoleStudent}, time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)

	foreign, _, err := other.SignSession(sec.Identity{ID: "u1", Role: sec.RoleStudent}, time.Now(), time.Hour)
	require.NoError(t, err)

	blankRole, _, err := service.SignSession(sec.Identity{ID: "u1"}, time.Now(), time.Hour)
	require.NoError(t, err)

	valid, _, err := service.SignSession(sec.Identity{ID: "u1", Role: sec.RoleStudent}, time.Now(), time.Hour)
	require.NoError(t, err)

	tests := map[string]string{
		"expired":        expired,
		"foreign_key":    foreign,
		"no_role":        blankRole,
		"garbage":        "not.a.token",
		"empty":          "",
		"tampered_claim": valid[:len(valid)-4] + "abcd",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			claims, err := service.VerifyToken(token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

/*
TestCSRFSigner verifies the double-submit check.
*/
func TestCSRFSigner(t *testing.T) {
	signer := sec.NewCSRFSigner("server-secret")
	token, cookie, err := signer.Issue(32)
	require.NoError(t, err)

	assert.True(t, signer.Verify(cookie, token))
	assert.False(t, signer.Verify(cookie, "other"))
	assert.False(t, signer.Verify(cookie, ""))
	assert.False(t, signer.Verify(token+"|forged", token))
	assert.False(t, sec.NewCSRFSigner("another-secret").Verify(cookie, token))
}

/*
TestCSRFSigner_Recover verifies that only genuine cookies yield their token.
*/
func TestCSRFSigner_Recover(t *testing.T) {
	signer := sec.NewCSRFSigner("server-secret")
	token, cookie, err := signer.Issue(32)
	require.NoError(t, err)

	recovered, ok := signer.Recover(cookie)
	assert.True(t, ok)
	assert.Equal(t, token, recovered)

	_, ok = signer.Recover(token + "|forged")
	assert.False(t, ok)

	_, ok = signer.Recover("no-separator")
	assert.False(t, ok)
}
