// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"log/slog"

	"github.com/taibuivan/scolaria/internal/platform/ctxutil"
)

// Guard answers tenant authorization questions from the stored user record.
type Guard struct {
	userRepository UserRepository
}

// NewGuard creates a Guard reading accounts through userRepo.
func NewGuard(userRepo UserRepository) *Guard {
	return &Guard{userRepository: userRepo}
}

/*
HasAccessToEtablissement reports whether a user may act on an establishment.

Description: SUPER_ADMIN accounts reach every establishment. Any other role
needs a stored establishment equal to the requested one. A lookup failure
denies access.

Parameters:
  - context: context.Context
  - userID: string
  - etablissementID: string

Returns:
  - bool: true only on a positive decision
*/
func (guard *Guard) HasAccessToEtablissement(context context.Context, userID, etablissementID string) bool {
	if userID == "" {
		return false
	}

	access, err := guard.userRepository.FindAccessByID(context, userID)
	if err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "access_guard_lookup_failed",
			slog.String("user_id", userID),
			slog.String("etablissement_id", etablissementID),
			slog.String("error", err.Error()),
		)
		return false
	}

	if access.Role.IsSuperAdmin() {
		return true
	}

	return etablissementID != "" && access.EtablissementID == etablissementID
}
