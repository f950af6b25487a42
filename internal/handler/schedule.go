package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
	"github.com/workshift-dev/roster-compliance/backend/internal/engine"
)

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	organization := r.Context().Value(OrganizationCtx).(*domain.Organization)

	var req struct {
		Date      string  `json:"date" validate:"required"`
		ShiftCode string  `json:"shiftCode" validate:"required"`
		StartTime string  `json:"startTime" validate:"required"`
		EndTime   string  `json:"endTime" validate:"required"`
		Station   string  `json:"station"` // 工位可以为空，空串表示班次不区分工位
		StaffIDs  []int64 `json:"staffIDs"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 结构性检查在入库前完成，坏数据不允许进入排班表
	date, err := time.Parse(domain.DateLayout, req.Date)
	if err != nil {
		h.badRequest(w, r, errors.New("date 不是合法的日期"))
		return
	}
	start, err := time.Parse(domain.ClockLayout, req.StartTime)
	if err != nil {
		h.badRequest(w, r, errors.New("startTime 不是合法的时刻"))
		return
	}
	end, err := time.Parse(domain.ClockLayout, req.EndTime)
	if err != nil {
		h.badRequest(w, r, errors.New("endTime 不是合法的时刻"))
		return
	}
	if !end.After(start) {
		h.badRequest(w, r, errors.New("结束时刻必须晚于开始时刻"))
		return
	}

	// 入库的日期和时刻统一为补零后的标准格式
	shift := &domain.ShiftDefinition{
		OrganizationID: organization.ID,
		Date:           date.Format(domain.DateLayout),
		ShiftCode:      req.ShiftCode,
		StartTime:      start.Format(domain.ClockLayout),
		EndTime:        end.Format(domain.ClockLayout),
		Station:        req.Station,
		Assignments:    make([]domain.ShiftAssignment, 0, len(req.StaffIDs)),
	}
	for _, staffID := range req.StaffIDs {
		shift.Assignments = append(shift.Assignments, domain.ShiftAssignment{StaffID: staffID})
	}

	if err := h.repository.CreateShift(shift); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "shift_assignments_staff_id_fkey":
				h.badRequest(w, r, errors.New("被排班的员工不存在"))
			case pgErr.ConstraintName == "shift_assignments_shift_id_staff_id_key":
				h.badRequest(w, r, errors.New("同一员工不能被重复排入同一个班次"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建班次成功", shift)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	organization := r.Context().Value(OrganizationCtx).(*domain.Organization)

	shiftID, err := strconv.ParseInt(chi.URLParam(r, "shiftID"), 10, 64)
	if err != nil {
		h.badRequest(w, r, errors.New("班次 ID 不合法"))
		return
	}

	shift, err := h.repository.GetShiftByID(shiftID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "班次不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if shift.OrganizationID != organization.ID {
		h.errorResponse(w, r, "班次不存在")
		return
	}

	if err := h.repository.DeleteShift(shiftID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除班次成功", nil)
}

func (h *Handler) AssignStaffToShift(w http.ResponseWriter, r *http.Request) {
	organization := r.Context().Value(OrganizationCtx).(*domain.Organization)

	shiftID, err := strconv.ParseInt(chi.URLParam(r, "shiftID"), 10, 64)
	if err != nil {
		h.badRequest(w, r, errors.New("班次 ID 不合法"))
		return
	}

	var req struct {
		StaffID int64 `json:"staffID" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift, err := h.repository.GetShiftByID(shiftID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "班次不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	if shift.OrganizationID != organization.ID {
		h.errorResponse(w, r, "班次不存在")
		return
	}

	assignment := &domain.ShiftAssignment{ShiftID: shiftID, StaffID: req.StaffID}
	if err := h.repository.CreateShiftAssignment(assignment); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "shift_assignments_staff_id_fkey":
				h.badRequest(w, r, errors.New("被排班的员工不存在"))
			case pgErr.ConstraintName == "shift_assignments_shift_id_staff_id_key":
				h.badRequest(w, r, errors.New("该员工已被排入此班次"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "排班成功", assignment)
}

func (h *Handler) UnassignStaffFromShift(w http.ResponseWriter, r *http.Request) {
	organization := r.Context().Value(OrganizationCtx).(*domain.Organization)

	shiftID, err := strconv.ParseInt(chi.URLParam(r, "shiftID"), 10, 64)
	if err != nil {
		h.badRequest(w, r, errors.New("班次 ID 不合法"))
		return
	}
	staffID, err := strconv.ParseInt(chi.URLParam(r, "staffID"), 10, 64)
	if err != nil {
		h.badRequest(w, r, errors.New("员工 ID 不合法"))
		return
	}

	shift, err := h.repository.GetShiftByID(shiftID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "班次不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	if shift.OrganizationID != organization.ID {
		h.errorResponse(w, r, "班次不存在")
		return
	}

	if err := h.repository.DeleteShiftAssignment(shiftID, staffID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "该员工未被排入此班次")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "移除排班成功", nil)
}

func (h *Handler) GetMonthSchedule(w http.ResponseWriter, r *http.Request) {
	organization := r.Context().Value(OrganizationCtx).(*domain.Organization)

	month := chi.URLParam(r, "month")
	if _, err := time.Parse(domain.MonthLayout, month); err != nil {
		h.badRequest(w, r, errors.New("月份格式应为 YYYY-MM"))
		return
	}

	schedule, err := h.repository.GetMonthSchedule(organization.ID, month)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取月度排班成功", schedule)
}

// loadValidationSnapshot 一次性加载校验所需的全部数据，
// 校验过程不再读库，保证同一快照的校验结果可复现
func (h *Handler) loadValidationSnapshot(organizationID int64, month string) (*engine.Snapshot, error) {
	schedule, err := h.repository.GetMonthSchedule(organizationID, month)
	if err != nil {
		return nil, err
	}

	staffRules, err := h.repository.GetStaffScheduleRulesByOrganization(organizationID)
	if err != nil {
		return nil, err
	}
	staffRuleMap := make(map[int64]*domain.StaffScheduleRule, len(staffRules))
	for _, rule := range staffRules {
		staffRuleMap[rule.StaffID] = rule
	}

	// 组织规则允许缺失，缺失时校验器使用默认值
	orgRule, err := h.repository.GetOrganizationScheduleRule(organizationID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		orgRule = nil
	}

	timeOff, err := h.repository.GetTimeOffRequestsIntersectingMonth(organizationID, month)
	if err != nil {
		return nil, err
	}

	dayRules, err := h.repository.GetCoverageDayRules(organizationID)
	if err != nil {
		return nil, err
	}

	monthFirst, err := time.ParseInLocation(domain.MonthLayout, month, time.UTC)
	if err != nil {
		return nil, err
	}
	monthLast := monthFirst.AddDate(0, 1, -1)

	overrides, err := h.repository.GetCoverageDateOverrides(organizationID, monthFirst.Format(domain.DateLayout), monthLast.Format(domain.DateLayout))
	if err != nil {
		return nil, err
	}

	return &engine.Snapshot{
		Schedule:   schedule,
		StaffRules: staffRuleMap,
		OrgRule:    orgRule,
		TimeOff:    timeOff,
		DayRules:   dayRules,
		Overrides:  overrides,
	}, nil
}

func (h *Handler) validateAndCacheReport(ctx context.Context, organizationID int64, month string) (*domain.ValidationReport, error) {
	snapshot, err := h.loadValidationSnapshot(organizationID, month)
	if err != nil {
		return nil, err
	}

	report, err := engine.Validate(snapshot)
	if err != nil {
		return nil, err
	}

	// 缓存报告，报告读取接口优先走缓存
	reportData, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("validation_report_%d_%s", organizationID, month)
	if err := h.redisClient.Set(ctx, key, reportData, time.Duration(h.config.Report.CacheExpiration)*time.Second).Err(); err != nil {
		return nil, err
	}

	return report, nil
}

func (h *Handler) ValidateMonthSchedule(w http.ResponseWriter, r *http.Request) {
	organization := r.Context().Value(OrganizationCtx).(*domain.Organization)

	month := chi.URLParam(r, "month")
	if _, err := time.Parse(domain.MonthLayout, month); err != nil {
		h.badRequest(w, r, errors.New("月份格式应为 YYYY-MM"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Minute)
	defer cancel()

	report, err := h.validateAndCacheReport(ctx, organization.ID, month)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			h.badRequest(w, r, err)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "排班校验完成", report)
}

func (h *Handler) GetValidationReport(w http.ResponseWriter, r *http.Request) {
	organization := r.Context().Value(OrganizationCtx).(*domain.Organization)

	month := chi.URLParam(r, "month")
	if _, err := time.Parse(domain.MonthLayout, month); err != nil {
		h.badRequest(w, r, errors.New("月份格式应为 YYYY-MM"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Minute)
	defer cancel()

	key := fmt.Sprintf("validation_report_%d_%s", organization.ID, month)
	reportData, err := h.redisClient.Get(ctx, key).Bytes()
	if err == nil {
		report := &domain.ValidationReport{}
		if err := json.Unmarshal(reportData, report); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		h.successResponse(w, r, "获取校验报告成功", report)
		return
	}
	if !errors.Is(err, redis.Nil) {
		h.internalServerError(w, r, err)
		return
	}

	// 缓存未命中时重新校验一次
	report, err := h.validateAndCacheReport(ctx, organization.ID, month)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			h.badRequest(w, r, err)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取校验报告成功", report)
}
