package domain

import "time"

// 日期统一使用 "2006-01-02" 格式、时刻统一使用 "15:04:05" 格式的字符串，
// 在引擎内部按需解析
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04:05"
	MonthLayout = "2006-01"
)

type ShiftAssignment struct {
	ID      int64 `json:"id"`
	ShiftID int64 `json:"shiftID"`
	StaffID int64 `json:"staffID"`
}

type ShiftDefinition struct {
	ID             int64             `json:"id"`
	OrganizationID int64             `json:"organizationID"`
	Date           string            `json:"date"`
	ShiftCode      string            `json:"shiftCode"`
	StartTime      string            `json:"startTime"`
	EndTime        string            `json:"endTime"`
	Station        string            `json:"station"`
	Assignments    []ShiftAssignment `json:"assignments"`
	CreatedAt      time.Time         `json:"createdAt"`
	Version        int32             `json:"-"`
}

// MonthSchedule 是一次校验所消费的排班快照，其中所有班次的日期都必须落在 Month 内
type MonthSchedule struct {
	OrganizationID int64              `json:"organizationID"`
	Month          string             `json:"month"`
	Shifts         []*ShiftDefinition `json:"shifts"`
}
