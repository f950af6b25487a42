package domain

import "time"

type TimeOffType string

const (
	TimeOffVacation  TimeOffType = "VACATION"
	TimeOffSickLeave TimeOffType = "SICK_LEAVE"
	TimeOffOther     TimeOffType = "OTHER"
)

type TimeOffStatus string

const (
	TimeOffPending  TimeOffStatus = "PENDING"
	TimeOffApproved TimeOffStatus = "APPROVED"
	TimeOffRejected TimeOffStatus = "REJECTED"
)

// CountPolicy 决定审批时如何统计天数。
// 注意 BUSINESS 策略固定按周六/周日作为周末，与组织可配置的周末定义无关
type CountPolicy string

const (
	PolicyCalendar CountPolicy = "CALENDAR"
	PolicyBusiness CountPolicy = "BUSINESS"
)

// TimeOffRequest 的状态机：PENDING -> APPROVED | REJECTED，终态不可再变更。
// DayCount 仅在批准时计算并写入
type TimeOffRequest struct {
	ID        int64         `json:"id"`
	StaffID   int64         `json:"staffID"`
	Type      TimeOffType   `json:"type"`
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	Status    TimeOffStatus `json:"status"`
	Notes     string        `json:"notes"`
	CreatedBy int64         `json:"createdBy"`
	DecidedBy *int64        `json:"decidedBy"`
	DayCount  *int32        `json:"dayCount"`
	CreatedAt time.Time     `json:"createdAt"`
	Version   int32         `json:"-"`
}
