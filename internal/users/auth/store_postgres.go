// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/scolaria/internal/platform/database/schema"
	"github.com/taibuivan/scolaria/internal/platform/sec"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
//
// Storage errors are mapped to [ErrUserNotFound] where a row is simply
// missing; everything else is wrapped and returned as is.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
FindByEmail retrieves an account by its unique email address.

Description: The match is exact. Nullable columns come back as empty strings.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: ErrUserNotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		strings.Join(schema.UserAccount.IdentityColumns(), ", "),
		schema.UserAccount.Table,
		schema.UserAccount.Email,
	)

	var (
		user            User
		role            string
		passwordHash    *string
		image           *string
		etablissementID *string
	)

	err := repository.pool.QueryRow(context, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&passwordHash,
		&role,
		&image,
		&etablissementID,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	user.Role, err = sec.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	user.PasswordHash = deref(passwordHash)
	user.Image = deref(image)
	user.EtablissementID = deref(etablissementID)

	return &user, nil
}

/*
FindAccessByID retrieves the role and establishment of an account.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *UserAccess: Role and establishment
  - error: ErrUserNotFound or database errors
*/
func (repository *PostgresUserRepository) FindAccessByID(context context.Context, id string) (*UserAccess, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.UserAccount.Role,
		schema.UserAccount.EtablissementID,
		schema.UserAccount.Table,
		schema.UserAccount.ID,
	)

	var (
		role            string
		etablissementID *string
	)

	err := repository.pool.QueryRow(context, query, id).Scan(&role, &etablissementID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("postgres_user_repo_find_access_failed: %w", err)
	}

	parsed, err := sec.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_find_access_failed: %w", err)
	}

	return &UserAccess{Role: parsed, EtablissementID: deref(etablissementID)}, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
