package engine

import (
	"fmt"

	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
)

// NewTimeOffRequest 创建一个 PENDING 状态的请假请求，必填字段缺失或日期顺序颠倒时
// 返回 ErrInvalidInput
func NewTimeOffRequest(staffID int64, timeOffType domain.TimeOffType, startDate, endDate, notes string, createdBy int64) (*domain.TimeOffRequest, error) {
	if staffID == 0 {
		return nil, fmt.Errorf("%w: 缺少员工", domain.ErrInvalidInput)
	}

	switch timeOffType {
	case domain.TimeOffVacation, domain.TimeOffSickLeave, domain.TimeOffOther:
	default:
		return nil, fmt.Errorf("%w: 请假类型 %q 不合法", domain.ErrInvalidInput, timeOffType)
	}

	start, err := parseDate(startDate)
	if err != nil {
		return nil, fmt.Errorf("%w: 开始日期格式错误", domain.ErrInvalidInput)
	}
	end, err := parseDate(endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: 结束日期格式错误", domain.ErrInvalidInput)
	}
	if start.After(end) {
		return nil, fmt.Errorf("%w: 开始日期不能晚于结束日期", domain.ErrInvalidInput)
	}

	// 入库前统一为补零后的标准格式，后续的字典序比较依赖这一点
	return &domain.TimeOffRequest{
		StaffID:   staffID,
		Type:      timeOffType,
		StartDate: start.Format(domain.DateLayout),
		EndDate:   end.Format(domain.DateLayout),
		Status:    domain.TimeOffPending,
		Notes:     notes,
		CreatedBy: createdBy,
	}, nil
}

// ApproveTimeOff 把 PENDING 的请求转为 APPROVED，按策略计算天数并记录审批人。
// 请求已处于终态时返回 ErrInvalidState
func ApproveTimeOff(req *domain.TimeOffRequest, decidedBy int64, policy domain.CountPolicy) error {
	if req.Status != domain.TimeOffPending {
		return fmt.Errorf("%w: 请求已处于 %s 状态", domain.ErrInvalidState, req.Status)
	}

	dayCount := CountDays(req.StartDate, req.EndDate, policy)

	req.Status = domain.TimeOffApproved
	req.DecidedBy = &decidedBy
	req.DayCount = &dayCount

	return nil
}

// RejectTimeOff 把 PENDING 的请求转为 REJECTED，不计算天数
func RejectTimeOff(req *domain.TimeOffRequest, decidedBy int64) error {
	if req.Status != domain.TimeOffPending {
		return fmt.Errorf("%w: 请求已处于 %s 状态", domain.ErrInvalidState, req.Status)
	}

	req.Status = domain.TimeOffRejected
	req.DecidedBy = &decidedBy

	return nil
}
