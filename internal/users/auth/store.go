// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # User Data Access

// UserRepository defines the read-only data access contract for accounts.
type UserRepository interface {

	/*
		FindByEmail returns the account whose email equals the argument exactly.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity, including the password hash
		  - error: ErrUserNotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindAccessByID returns the role and establishment of an account.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *UserAccess: Role and establishment
		  - error: ErrUserNotFound or database retrieval failures
	*/
	FindAccessByID(context context.Context, id string) (*UserAccess, error)
}

// # Volatile Data Access

// LoginThrottle counts failed sign-in attempts per key inside a fixed window.
type LoginThrottle interface {

	/*
		Allowed reports whether key still has budget. It never records anything.

		Parameters:
		  - context: context.Context
		  - key: string

		Returns:
		  - bool: false once the window budget is spent
		  - error: Backend failures
	*/
	Allowed(context context.Context, key string) (bool, error)

	/*
		RecordFailure counts one failed attempt for key. The first failure
		opens the window.
	*/
	RecordFailure(context context.Context, key string) error

	// Reset forgets the failures of key after a successful sign-in.
	Reset(context context.Context, key string) error
}
