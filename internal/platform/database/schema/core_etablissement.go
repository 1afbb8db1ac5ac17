// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreEtablissementTable represents the 'core.etablissement' table
type CoreEtablissementTable struct {
	Table     string
	ID        string
	Name      string
	Subdomain string
	CreatedAt string
	UpdatedAt string
}

// CoreEtablissement is the schema definition for core.etablissement
var CoreEtablissement = CoreEtablissementTable{
	Table:     "core.etablissement",
	ID:        "id",
	Name:      "name",
	Subdomain: "subdomain",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns the columns read by the repositories, in scan order.
func (t CoreEtablissementTable) Columns() []string {
	return []string{t.ID, t.Name, t.Subdomain, t.CreatedAt}
}
