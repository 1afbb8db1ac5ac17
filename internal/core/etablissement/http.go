// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package etablissement

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/scolaria/internal/platform/middleware"
	requestutil "github.com/taibuivan/scolaria/internal/platform/request"
	"github.com/taibuivan/scolaria/internal/platform/respond"
	"github.com/taibuivan/scolaria/internal/platform/sec"
	"github.com/taibuivan/scolaria/internal/platform/validate"
	"github.com/taibuivan/scolaria/pkg/pagination"
)

// ParamEtablissementID is the URL parameter carrying the establishment id.
const ParamEtablissementID = "etablissementID"

type Handler struct {
	service *Service
	access  middleware.AccessChecker
}

func NewHandler(service *Service, access middleware.AccessChecker) *Handler {
	return &Handler{service: service, access: access}
}

// Routes returns the establishment routes.
//
// # Endpoints
//   - GET /                  : SUPER_ADMIN only, paginated (?page=&limit=).
//   - GET /{etablissementID} : Members of the establishment and SUPER_ADMIN.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(middleware.RequireRole(sec.RoleSuperAdmin)).Get("/", handler.listEtablissements)
	router.With(middleware.RequireEtablissementAccess(handler.access, ParamEtablissementID)).
		Get("/{"+ParamEtablissementID+"}", handler.getEtablissement)

	return router
}

func (handler *Handler) listEtablissements(writer http.ResponseWriter, request *http.Request) {
	etablissements, meta, err := handler.service.ListEtablissements(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, etablissements, meta)
}

func (handler *Handler) getEtablissement(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, ParamEtablissementID)

	validator := &validate.Validator{}
	if err := validator.UUID(ParamEtablissementID, id).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	etablissement, err := handler.service.GetEtablissement(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, etablissement)
}
