// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain-text password using the bcrypt algorithm.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

// ComparePassword runs [CheckPasswordHash] but gives up when ctx is done.
//
// The comparison keeps running in its goroutine after cancellation; only the
// caller is released. A cancelled comparison reports a mismatch together with
// the context error.
func ComparePassword(ctx context.Context, plainTextPassword, existingHash string) (bool, error) {
	result := make(chan bool, 1)
	go func() {
		result <- CheckPasswordHash(plainTextPassword, existingHash)
	}()

	select {
	case matched := <-result:
		return matched, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
