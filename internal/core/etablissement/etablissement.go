// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package etablissement exposes the establishments (tenants) of the platform.
//
// Reads are tenant-scoped: a user only sees its own establishment unless it
// is a SUPER_ADMIN.
package etablissement

import "time"

// Etablissement is a school hosted on the platform, reachable at
// "<subdomain>.<root domain>".
type Etablissement struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Subdomain string    `json:"subdomain"`
	CreatedAt time.Time `json:"createdAt"`
}
