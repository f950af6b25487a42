package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
)

func (h *Handler) GetAllOrganizations(w http.ResponseWriter, r *http.Request) {
	organizations, err := h.repository.GetAllOrganizations()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取组织列表成功", organizations)
}

func (h *Handler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	organization := &domain.Organization{
		Name: req.Name,
	}

	if err := h.repository.CreateOrganization(organization); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "organizations_name_key":
				h.badRequest(w, r, errors.New("组织名称已存在"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "组织创建成功", organization)
}

func (h *Handler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	organization := r.Context().Value(OrganizationCtx).(*domain.Organization)
	h.successResponse(w, r, "获取组织信息成功", organization)
}
