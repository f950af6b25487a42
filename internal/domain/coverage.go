package domain

import "time"

// CoverageDayRule 描述 (星期, 班次代码, 工位) 上需要的最少排班人数，
// 同一个三元组上最多只应有一条生效规则
type CoverageDayRule struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organizationID"`
	Weekday        int32     `json:"weekday"` // 0 = 周日, 6 = 周六
	ShiftCode      string    `json:"shiftCode"`
	Station        string    `json:"station"`
	RequiredCount  int32     `json:"requiredCount"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	Version        int32     `json:"-"`
}

// CoverageDateOverride 对某个具体日期完全取代对应的 CoverageDayRule，
// 即使 RequiredCount 为 0 也生效
type CoverageDateOverride struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organizationID"`
	Date           string    `json:"date"`
	ShiftCode      string    `json:"shiftCode"`
	Station        string    `json:"station"`
	RequiredCount  int32     `json:"requiredCount"`
	Reason         string    `json:"reason"`
	CreatedAt      time.Time `json:"createdAt"`
	Version        int32     `json:"-"`
}
