// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package etablissement

import (
	"context"
	"log/slog"

	"github.com/taibuivan/scolaria/pkg/pagination"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListEtablissements(context context.Context, page pagination.Params) ([]*Etablissement, pagination.Meta, error) {
	etablissements, total, err := service.repo.List(context, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return etablissements, pagination.NewMeta(page, total), nil
}

func (service *Service) GetEtablissement(context context.Context, id string) (*Etablissement, error) {
	etablissement, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	service.logger.DebugContext(context, "etablissement_fetched", slog.String("etablissement_id", id))
	return etablissement, nil
}
