package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
	"github.com/workshift-dev/roster-compliance/backend/internal/engine"
)

func (h *Handler) CreateTimeOffRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		StaffID   *int64 `json:"staffID"`
		Type      string `json:"type" validate:"required,oneof=VACATION SICK_LEAVE OTHER"`
		StartDate string `json:"startDate" validate:"required"`
		EndDate   string `json:"endDate" validate:"required"`
		Notes     string `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 普通员工只能为自己提交请假，经理和管理员可以代他人提交
	staffID := myInfo.ID
	if req.StaffID != nil && *req.StaffID != myInfo.ID {
		if myInfo.Role == domain.RoleStaff {
			h.errorResponse(w, r, "只能为自己提交请假请求")
			return
		}
		staffID = *req.StaffID
	}

	request, err := engine.NewTimeOffRequest(staffID, domain.TimeOffType(req.Type), req.StartDate, req.EndDate, req.Notes, myInfo.ID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			h.badRequest(w, r, err)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.repository.CreateTimeOffRequest(request); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "提交请假请求成功", request)
}

func (h *Handler) GetTimeOffRequests(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	switch status {
	case "", string(domain.TimeOffPending), string(domain.TimeOffApproved), string(domain.TimeOffRejected):
	default:
		h.badRequest(w, r, errors.New("查询参数 status 不合法"))
		return
	}

	requests, err := h.repository.GetTimeOffRequests(domain.TimeOffStatus(status))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取请假请求列表成功", requests)
}

func (h *Handler) GetTimeOffRequest(w http.ResponseWriter, r *http.Request) {
	request := r.Context().Value(TimeOffRequestCtx).(*domain.TimeOffRequest)
	h.successResponse(w, r, "获取请假请求成功", request)
}

func (h *Handler) ApproveTimeOffRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	request := r.Context().Value(TimeOffRequestCtx).(*domain.TimeOffRequest)

	var req struct {
		CountPolicy string `json:"countPolicy" validate:"omitempty,oneof=CALENDAR BUSINESS"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	policy := domain.PolicyCalendar
	if req.CountPolicy != "" {
		policy = domain.CountPolicy(req.CountPolicy)
	}

	if err := engine.ApproveTimeOff(request, myInfo.ID, policy); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidState):
			h.errorResponse(w, r, "该请求已被处理过")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.repository.UpdateTimeOffRequestStatus(request); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// 乐观锁冲突，说明请求刚被并发处理过
			h.errorResponse(w, r, "该请求已被处理过，请刷新后重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.publishTimeOffDecisionMail(request); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "批准请假请求成功", request)
}

func (h *Handler) RejectTimeOffRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	request := r.Context().Value(TimeOffRequestCtx).(*domain.TimeOffRequest)

	if err := engine.RejectTimeOff(request, myInfo.ID); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidState):
			h.errorResponse(w, r, "该请求已被处理过")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.repository.UpdateTimeOffRequestStatus(request); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "该请求已被处理过，请刷新后重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.publishTimeOffDecisionMail(request); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "驳回请假请求成功", request)
}

// 审批结果通过邮件通知请假的员工
func (h *Handler) publishTimeOffDecisionMail(request *domain.TimeOffRequest) error {
	staff, err := h.repository.GetUserByID(request.StaffID)
	if err != nil {
		return err
	}

	var dayCount int32
	if request.DayCount != nil {
		dayCount = *request.DayCount
	}

	mailMessage := domain.MailMessage{
		Type: "timeoff_decision",
		To:   staff.Email,
		Data: domain.TimeOffDecisionMailData{
			FullName:  staff.FullName,
			Status:    string(request.Status),
			StartDate: request.StartDate,
			EndDate:   request.EndDate,
			DayCount:  dayCount,
		},
	}

	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	)
}
