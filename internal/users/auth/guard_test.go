// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/scolaria/internal/platform/sec"
)

/*
TestGuard_HasAccessToEtablissement checks the tenant decision table.
*/
func TestGuard_HasAccessToEtablissement(t *testing.T) {
	member := &User{ID: "u1", Email: "u1@x.com", Role: sec.RoleAdmin, EtablissementID: "E2"}
	root := &User{ID: "u2", Email: "u2@x.com", Role: sec.RoleSuperAdmin, EtablissementID: "E2"}
	orphan := &User{ID: "u3", Email: "u3@x.com", Role: sec.RoleTeacher}

	guard := NewGuard(newFakeUsers(member, root, orphan))

	tests := []struct {
		name            string
		userID          string
		etablissementID string
		want            bool
	}{
		{"other_establishment", "u1", "E1", false},
		{"own_establishment", "u1", "E2", true},
		{"super_admin_anywhere", "u2", "E1", true},
		{"orphan_empty_request", "u3", "", false},
		{"member_empty_request", "u1", "", false},
		{"unknown_user", "ghost", "E2", false},
		{"empty_user", "", "E2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, guard.HasAccessToEtablissement(context.Background(), tt.userID, tt.etablissementID))
		})
	}
}

/*
TestGuard_LookupErrorDenies verifies that a failing store never grants access,
not even to a super admin.
*/
func TestGuard_LookupErrorDenies(t *testing.T) {
	users := newFakeUsers(&User{ID: "u2", Email: "u2@x.com", Role: sec.RoleSuperAdmin})
	users.err = errStoreDown

	assert.False(t, NewGuard(users).HasAccessToEtablissement(context.Background(), "u2", "E1"))
}
