// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// GenerateSecureToken returns a hex-encoded random token of length bytes.
func GenerateSecureToken(length int) (string, error) {
	buffer := make([]byte, length)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}

// HashToken returns the SHA-256 hex digest of a token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// # CSRF (double submit)

// CSRFSigner binds CSRF tokens to the server secret.
//
// The cookie carries "token|signature" and the client echoes the bare token in
// the request body. Both halves must agree for a state-changing auth request.
type CSRFSigner struct {
	secret []byte
}

// NewCSRFSigner creates a signer keyed by secret.
func NewCSRFSigner(secret string) *CSRFSigner {
	return &CSRFSigner{secret: []byte(secret)}
}

// Issue creates a fresh token and the cookie value carrying its signature.
func (signer *CSRFSigner) Issue(length int) (token, cookieValue string, err error) {
	token, err = GenerateSecureToken(length)
	if err != nil {
		return "", "", err
	}
	return token, token + "|" + signer.sign(token), nil
}

// Verify reports whether cookieValue is a genuine cookie for submitted.
func (signer *CSRFSigner) Verify(cookieValue, submitted string) bool {
	token, signature, found := strings.Cut(cookieValue, "|")
	if !found || token == "" || submitted == "" {
		return false
	}
	if !hmac.Equal([]byte(signature), []byte(signer.sign(token))) {
		return false
	}
	return hmac.Equal([]byte(token), []byte(submitted))
}

// Recover returns the token carried by a genuine cookie value.
func (signer *CSRFSigner) Recover(cookieValue string) (string, bool) {
	token, signature, found := strings.Cut(cookieValue, "|")
	if !found || token == "" {
		return "", false
	}
	if !hmac.Equal([]byte(signature), []byte(signer.sign(token))) {
		return "", false
	}
	return token, true
}

func (signer *CSRFSigner) sign(token string) string {
	mac := hmac.New(sha256.New, signer.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
