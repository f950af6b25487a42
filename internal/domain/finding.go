package domain

type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// 校验规则标识
const (
	RuleAllowedShiftCode     = "allowed_shift_code"
	RuleTimeOffConflict      = "time_off_conflict"
	RuleShiftOverlap         = "shift_overlap"
	RuleMaxConsecutiveDays   = "max_consecutive_days"
	RuleWeekendOff           = "weekend_off"
	RuleCoverageGap          = "coverage_gap"
	RuleDuplicateCoverage    = "duplicate_coverage_rule"
)

// FindingContext 是单条结论的结构化上下文，空字段在序列化时省略
type FindingContext struct {
	ShiftCode     string `json:"shiftCode,omitempty"`
	Station       string `json:"station,omitempty"`
	ShiftID       int64  `json:"shiftID,omitempty"`
	OtherShiftID  int64  `json:"otherShiftID,omitempty"`
	TimeOffID     int64  `json:"timeOffID,omitempty"`
	RequiredCount int32  `json:"requiredCount,omitempty"`
	ActualCount   int32  `json:"actualCount,omitempty"`
	RunLength     int32  `json:"runLength,omitempty"`
	Limit         int32  `json:"limit,omitempty"`
}

// ValidationFinding 是校验产生的一条结论。
// 违规是数据而不是错误：校验器把它们聚合成报告返回，从不因违规中断
type ValidationFinding struct {
	Severity Severity       `json:"severity"`
	Rule     string         `json:"rule"`
	StaffID  *int64         `json:"staffID,omitempty"` // 覆盖类结论属于组织而不属于个人
	Date     string         `json:"date"`
	Message  string         `json:"message"`
	Context  FindingContext `json:"context"`
}

// ValidationReport 按 (日期, 员工, 规则) 排序，保证对相同快照重复校验输出完全一致
type ValidationReport struct {
	Errors   []ValidationFinding `json:"errors"`
	Warnings []ValidationFinding `json:"warnings"`
}
