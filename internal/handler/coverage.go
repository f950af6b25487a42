package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
)

func (h *Handler) GetCoverageDayRules(w http.ResponseWriter, r *http.Request) {
	organization := r.Context().Value(OrganizationCtx).(*domain.Organization)

	rules, err := h.repository.GetCoverageDayRules(organization.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取覆盖规则成功", rules)
}

func (h *Handler) ReplaceCoverageDayRules(w http.ResponseWriter, r *http.Request) {
	organization := r.Context().Value(OrganizationCtx).(*domain.Organization)

	var req struct {
		Rules []struct {
			Weekday       int32  `json:"weekday" validate:"gte=0,lte=6"`
			ShiftCode     string `json:"shiftCode" validate:"required"`
			Station       string `json:"station"` // 工位可以为空，空串是一个独立的覆盖维度
			RequiredCount int32  `json:"requiredCount" validate:"gte=0"`
			IsActive      *bool  `json:"isActive"`
		} `json:"rules" validate:"required,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	rules := make([]*domain.CoverageDayRule, 0, len(req.Rules))
	for _, rule := range req.Rules {
		isActive := true
		if rule.IsActive != nil {
			isActive = *rule.IsActive
		}
		rules = append(rules, &domain.CoverageDayRule{
			Weekday:       rule.Weekday,
			ShiftCode:     rule.ShiftCode,
			Station:       rule.Station,
			RequiredCount: rule.RequiredCount,
			IsActive:      isActive,
		})
	}

	// 全量替换该组织的覆盖规则
	if err := h.repository.ReplaceCoverageDayRules(organization.ID, rules); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新覆盖规则成功", rules)
}

func (h *Handler) GetCoverageDateOverrides(w http.ResponseWriter, r *http.Request) {
	organization := r.Context().Value(OrganizationCtx).(*domain.Organization)

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if _, err := time.Parse(domain.DateLayout, from); err != nil {
		h.badRequest(w, r, errors.New("查询参数 from 不是合法的日期"))
		return
	}
	if _, err := time.Parse(domain.DateLayout, to); err != nil {
		h.badRequest(w, r, errors.New("查询参数 to 不是合法的日期"))
		return
	}

	overrides, err := h.repository.GetCoverageDateOverrides(organization.ID, from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取覆盖例外成功", overrides)
}

func (h *Handler) CreateCoverageDateOverride(w http.ResponseWriter, r *http.Request) {
	organization := r.Context().Value(OrganizationCtx).(*domain.Organization)

	var req struct {
		Date          string `json:"date" validate:"required"`
		ShiftCode     string `json:"shiftCode" validate:"required"`
		Station       string `json:"station"` // 工位可以为空，空串是一个独立的覆盖维度
		RequiredCount int32  `json:"requiredCount" validate:"gte=0"`
		Reason        string `json:"reason"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := time.Parse(domain.DateLayout, req.Date)
	if err != nil {
		h.badRequest(w, r, errors.New("date 不是合法的日期"))
		return
	}

	// 入库的日期统一为补零后的标准格式
	override := &domain.CoverageDateOverride{
		OrganizationID: organization.ID,
		Date:           date.Format(domain.DateLayout),
		ShiftCode:      req.ShiftCode,
		Station:        req.Station,
		RequiredCount:  req.RequiredCount,
		Reason:         req.Reason,
	}

	if err := h.repository.CreateCoverageDateOverride(override); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "coverage_date_overrides_tuple_key":
				h.badRequest(w, r, errors.New("该日期的该班次工位已存在覆盖例外"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建覆盖例外成功", override)
}
