// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema holds the table and column names used by the pgx repositories.
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table           string
	ID              string
	Email           string
	Name            string
	Password        string
	Role            string
	Image           string
	EtablissementID string
	CreatedAt       string
	UpdatedAt       string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:           "users.account",
	ID:              "id",
	Email:           "email",
	Name:            "name",
	Password:        "passwordhash",
	Role:            "role",
	Image:           "image",
	EtablissementID: "etablissementid",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}

// IdentityColumns returns the columns a sign-in lookup reads, in scan order.
func (t UserAccountTable) IdentityColumns() []string {
	return []string{t.ID, t.Email, t.Name, t.Password, t.Role, t.Image, t.EtablissementID}
}
