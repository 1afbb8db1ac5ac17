// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package etablissement

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/scolaria/internal/platform/database/schema"
	"github.com/taibuivan/scolaria/internal/platform/dberr"
	"github.com/taibuivan/scolaria/pkg/pagination"
)

const resourceName = "Etablissement"

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns one page of establishments ordered by name, and the total count.
func (repository *PostgresRepository) List(context context.Context, page pagination.Params) ([]*Etablissement, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER()
		FROM %s
		ORDER BY %s ASC, %s ASC
		LIMIT $1 OFFSET $2;
	`,
		strings.Join(schema.CoreEtablissement.Columns(), ", "),
		schema.CoreEtablissement.Table,
		schema.CoreEtablissement.Name,
		schema.CoreEtablissement.ID,
	)

	rows, err := repository.db.Query(context, query, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_etablissements", resourceName)
	}
	defer rows.Close()

	total := 0
	etablissements := make([]*Etablissement, 0, page.Limit)
	for rows.Next() {
		e := &Etablissement{}
		if err := rows.Scan(&e.ID, &e.Name, &e.Subdomain, &e.CreatedAt, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_etablissement", resourceName)
		}
		etablissements = append(etablissements, e)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_etablissements", resourceName)
	}

	return etablissements, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Etablissement, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1;
	`,
		strings.Join(schema.CoreEtablissement.Columns(), ", "),
		schema.CoreEtablissement.Table,
		schema.CoreEtablissement.ID,
	)

	e := &Etablissement{}
	err := repository.db.QueryRow(context, query, id).Scan(&e.ID, &e.Name, &e.Subdomain, &e.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "get_etablissement", resourceName)
	}
	return e, nil
}
