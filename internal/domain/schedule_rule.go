package domain

import "time"

type RotationMode string

const (
	RotationNone     RotationMode = "NONE"
	RotationFixed    RotationMode = "FIXED"
	RotationRotating RotationMode = "ROTATING"
)

type WeekendDefinition string

const (
	WeekendSatSun WeekendDefinition = "SAT_SUN"
	WeekendFriSat WeekendDefinition = "FRI_SAT"
)

// StaffScheduleRule 是单个员工的排班约束。
// RotationMode 目前只做记录，校验器不对其做额外限制
type StaffScheduleRule struct {
	StaffID             int64        `json:"staffID"`
	OrganizationID      int64        `json:"organizationID"`
	AllowedShiftCodes   []string     `json:"allowedShiftCodes"`
	RotationMode        RotationMode `json:"rotationMode"`
	PreferredDaysOff    []int32      `json:"preferredDaysOff"`
	MaxConsecutiveDays  *int32       `json:"maxConsecutiveDays"`
	RequireWeekendOff   bool         `json:"requireWeekendOff"`
	CreatedAt           time.Time    `json:"createdAt"`
	Version             int32        `json:"-"`
}

type OrganizationScheduleRule struct {
	OrganizationID        int64             `json:"organizationID"`
	WeekendDefinition     WeekendDefinition `json:"weekendDefinition"`
	EnforceWeekendOffHard bool              `json:"enforceWeekendOffHard"`
	RotationEnabled       bool              `json:"rotationEnabled"`
	CreatedAt             time.Time         `json:"createdAt"`
	Version               int32             `json:"-"`
}
