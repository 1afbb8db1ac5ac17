// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package etablissement

import (
	"context"

	"github.com/taibuivan/scolaria/pkg/pagination"
)

// Repository defines the data access contract.
type Repository interface {
	List(context context.Context, page pagination.Params) ([]*Etablissement, int, error)
	FindByID(context context.Context, id string) (*Etablissement, error)
}
