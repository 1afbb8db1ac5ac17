// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "time"

// # Session Identity

// Identity is the set of user attributes carried by a session.
//
// It never holds credential material. EtablissementID is empty for
// platform-level accounts that do not belong to an establishment.
type Identity struct {
	ID              string   `json:"id"`
	Name            string   `json:"name,omitempty"`
	Email           string   `json:"email,omitempty"`
	Image           string   `json:"image,omitempty"`
	Role            UserRole `json:"role"`
	EtablissementID string   `json:"etablissementId,omitempty"`
}

// Session is the request-scoped view of a decoded session token.
type Session struct {
	User    Identity  `json:"user"`
	Expires time.Time `json:"expires"`
}

// MergeIdentity folds incoming into old, field by field.
//
// A field takes the incoming value when it is set and keeps the old value
// otherwise, so a merge never clears something that was already known.
func MergeIdentity(old, incoming Identity) Identity {
	return Identity{
		ID:              pick(old.ID, incoming.ID),
		Name:            pick(old.Name, incoming.Name),
		Email:           pick(old.Email, incoming.Email),
		Image:           pick(old.Image, incoming.Image),
		Role:            UserRole(pick(string(old.Role), string(incoming.Role))),
		EtablissementID: pick(old.EtablissementID, incoming.EtablissementID),
	}
}

func pick(old, incoming string) string {
	if incoming != "" {
		return incoming
	}
	return old
}
