package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
)

// 未配置过约束的员工返回一个宽松的默认约束，而不是报错
func defaultStaffScheduleRule(user *domain.User) *domain.StaffScheduleRule {
	return &domain.StaffScheduleRule{
		StaffID:           user.ID,
		OrganizationID:    user.OrganizationID,
		AllowedShiftCodes: []string{},
		RotationMode:      domain.RotationNone,
		PreferredDaysOff:  []int32{},
	}
}

func (h *Handler) GetStaffScheduleRule(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)

	rule, err := h.repository.GetStaffScheduleRule(user.ID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			rule = defaultStaffScheduleRule(user)
		default:
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "获取员工排班约束成功", rule)
}

func (h *Handler) UpdateStaffScheduleRule(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)

	var req struct {
		AllowedShiftCodes  *[]string `json:"allowedShiftCodes"`
		RotationMode       *string   `json:"rotationMode" validate:"omitempty,oneof=NONE FIXED ROTATING"`
		PreferredDaysOff   *[]int32  `json:"preferredDaysOff" validate:"omitempty,dive,gte=0,lte=6"`
		MaxConsecutiveDays *int32    `json:"maxConsecutiveDays" validate:"omitempty,gte=1"`
		RequireWeekendOff  *bool     `json:"requireWeekendOff"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 部分更新：先取出现有约束（没有则用默认值），再覆盖请求中出现的字段
	rule, err := h.repository.GetStaffScheduleRule(user.ID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			rule = defaultStaffScheduleRule(user)
		default:
			h.internalServerError(w, r, err)
			return
		}
	}

	if req.AllowedShiftCodes != nil {
		rule.AllowedShiftCodes = *req.AllowedShiftCodes
	}
	if req.RotationMode != nil {
		rule.RotationMode = domain.RotationMode(*req.RotationMode)
	}
	if req.PreferredDaysOff != nil {
		rule.PreferredDaysOff = *req.PreferredDaysOff
	}
	if req.MaxConsecutiveDays != nil {
		rule.MaxConsecutiveDays = req.MaxConsecutiveDays
	}
	if req.RequireWeekendOff != nil {
		rule.RequireWeekendOff = *req.RequireWeekendOff
	}

	if err := h.repository.UpsertStaffScheduleRule(rule); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新员工排班约束成功", rule)
}

func (h *Handler) GetOrganizationScheduleRule(w http.ResponseWriter, r *http.Request) {
	organization := r.Context().Value(OrganizationCtx).(*domain.Organization)

	rule, err := h.repository.GetOrganizationScheduleRule(organization.ID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// 未配置时返回默认值：周六日为周末，周末休息为软约束
			rule = &domain.OrganizationScheduleRule{
				OrganizationID:    organization.ID,
				WeekendDefinition: domain.WeekendSatSun,
			}
		default:
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "获取组织排班规则成功", rule)
}

func (h *Handler) UpdateOrganizationScheduleRule(w http.ResponseWriter, r *http.Request) {
	organization := r.Context().Value(OrganizationCtx).(*domain.Organization)

	var req struct {
		WeekendDefinition     *string `json:"weekendDefinition" validate:"omitempty,oneof=SAT_SUN FRI_SAT"`
		EnforceWeekendOffHard *bool   `json:"enforceWeekendOffHard"`
		RotationEnabled       *bool   `json:"rotationEnabled"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	rule, err := h.repository.GetOrganizationScheduleRule(organization.ID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			rule = &domain.OrganizationScheduleRule{
				OrganizationID:    organization.ID,
				WeekendDefinition: domain.WeekendSatSun,
			}
		default:
			h.internalServerError(w, r, err)
			return
		}
	}

	if req.WeekendDefinition != nil {
		rule.WeekendDefinition = domain.WeekendDefinition(*req.WeekendDefinition)
	}
	if req.EnforceWeekendOffHard != nil {
		rule.EnforceWeekendOffHard = *req.EnforceWeekendOffHard
	}
	if req.RotationEnabled != nil {
		rule.RotationEnabled = *req.RotationEnabled
	}

	if err := h.repository.UpsertOrganizationScheduleRule(rule); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新组织排班规则成功", rule)
}
