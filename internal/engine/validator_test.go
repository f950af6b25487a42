package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
)

func makeStaffRule(staffID int64, allowedShiftCodes ...string) *domain.StaffScheduleRule {
	return &domain.StaffScheduleRule{
		StaffID:           staffID,
		OrganizationID:    1,
		AllowedShiftCodes: allowedShiftCodes,
		RotationMode:      domain.RotationNone,
		PreferredDaysOff:  []int32{},
	}
}

func TestValidate_EmptyScheduleIsClean(t *testing.T) {
	report, err := Validate(&Snapshot{Schedule: makeSchedule("2026-03")})
	require.NoError(t, err)
	require.Empty(t, report.Errors)
	require.Empty(t, report.Warnings)
}

func TestValidate_AllowedShiftCodeViolation(t *testing.T) {
	snapshot := &Snapshot{
		Schedule: makeSchedule("2026-03",
			makeShift(1, "2026-03-03", "NIGHT", "18:00:00", "23:00:00", "前台", 42),
		),
		StaffRules: map[int64]*domain.StaffScheduleRule{
			42: makeStaffRule(42, "MORNING", "AFTERNOON"),
		},
	}

	report, err := Validate(snapshot)
	require.NoError(t, err)
	require.Len(t, report.Errors, 1)
	require.Empty(t, report.Warnings)

	finding := report.Errors[0]
	require.Equal(t, domain.RuleAllowedShiftCode, finding.Rule)
	require.Equal(t, "2026-03-03", finding.Date)
	require.NotNil(t, finding.StaffID)
	require.Equal(t, int64(42), *finding.StaffID)
	require.Equal(t, "NIGHT", finding.Context.ShiftCode)
}

func TestValidate_EmptyAllowListPermitsEverything(t *testing.T) {
	snapshot := &Snapshot{
		Schedule: makeSchedule("2026-03",
			makeShift(1, "2026-03-03", "NIGHT", "18:00:00", "23:00:00", "前台", 42),
		),
		StaffRules: map[int64]*domain.StaffScheduleRule{
			42: makeStaffRule(42),
		},
	}

	report, err := Validate(snapshot)
	require.NoError(t, err)
	require.Empty(t, report.Errors)
}

func TestValidate_TimeOffConflict(t *testing.T) {
	snapshot := &Snapshot{
		Schedule: makeSchedule("2026-03",
			makeShift(1, "2026-03-11", "MORNING", "08:00:00", "12:00:00", "前台", 42),
		),
		TimeOff: []*domain.TimeOffRequest{
			makeTimeOff(7, 42, "2026-03-10", "2026-03-12", domain.TimeOffApproved),
			// 未批准的请假不产生冲突
			makeTimeOff(8, 42, "2026-03-10", "2026-03-12", domain.TimeOffPending),
		},
	}

	report, err := Validate(snapshot)
	require.NoError(t, err)
	require.Len(t, report.Errors, 1)

	finding := report.Errors[0]
	require.Equal(t, domain.RuleTimeOffConflict, finding.Rule)
	require.Equal(t, int64(7), finding.Context.TimeOffID)
}

func TestValidate_OverlapReportedOnce(t *testing.T) {
	// 两个班次互相重叠，两次遍历只应报告一条结论
	snapshot := &Snapshot{
		Schedule: makeSchedule("2026-03",
			makeShift(1, "2026-03-10", "MORNING", "08:00:00", "12:00:00", "前台", 42),
			makeShift(2, "2026-03-10", "AFTERNOON", "10:00:00", "14:00:00", "前台", 42),
		),
	}

	report, err := Validate(snapshot)
	require.NoError(t, err)
	require.Len(t, report.Errors, 1)

	finding := report.Errors[0]
	require.Equal(t, domain.RuleShiftOverlap, finding.Rule)
	require.Equal(t, int64(1), finding.Context.ShiftID)
	require.Equal(t, int64(2), finding.Context.OtherShiftID)
}

func TestValidate_UnpaddedClockStillDetectsOverlap(t *testing.T) {
	// time.Parse 接受 "8:00:00" 这类未补零的写法，
	// 校验必须先统一格式，否则字典序比较会漏掉这对重叠
	snapshot := &Snapshot{
		Schedule: makeSchedule("2026-03",
			makeShift(1, "2026-03-10", "MORNING", "8:00:00", "11:00:00", "前台", 42),
			makeShift(2, "2026-03-10", "MORNING", "09:00:00", "10:00:00", "前台", 42),
		),
	}

	report, err := Validate(snapshot)
	require.NoError(t, err)
	require.Len(t, report.Errors, 1)
	require.Equal(t, domain.RuleShiftOverlap, report.Errors[0].Rule)

	// 快照内的时刻已被重写为标准格式
	require.Equal(t, "08:00:00", snapshot.Schedule.Shifts[0].StartTime)
}

func TestValidate_UnpaddedDatesStillDetectTimeOffConflict(t *testing.T) {
	snapshot := &Snapshot{
		Schedule: makeSchedule("2026-03",
			makeShift(1, "2026-3-7", "MORNING", "08:00:00", "12:00:00", "前台", 42),
		),
		TimeOff: []*domain.TimeOffRequest{
			makeTimeOff(7, 42, "2026-3-6", "2026-3-8", domain.TimeOffApproved),
		},
	}

	report, err := Validate(snapshot)
	require.NoError(t, err)
	require.Len(t, report.Errors, 1)

	finding := report.Errors[0]
	require.Equal(t, domain.RuleTimeOffConflict, finding.Rule)
	require.Equal(t, "2026-03-07", finding.Date)
}

func TestValidate_MaxConsecutiveDays(t *testing.T) {
	limit := int32(3)
	rule := makeStaffRule(42)
	rule.MaxConsecutiveDays = &limit

	snapshot := &Snapshot{
		Schedule: makeSchedule("2026-03",
			makeShift(1, "2026-03-02", "MORNING", "08:00:00", "12:00:00", "前台", 42),
			makeShift(2, "2026-03-03", "MORNING", "08:00:00", "12:00:00", "前台", 42),
			makeShift(3, "2026-03-04", "MORNING", "08:00:00", "12:00:00", "前台", 42),
			makeShift(4, "2026-03-05", "MORNING", "08:00:00", "12:00:00", "前台", 42),
		),
		StaffRules: map[int64]*domain.StaffScheduleRule{42: rule},
	}

	report, err := Validate(snapshot)
	require.NoError(t, err)
	require.Len(t, report.Errors, 1)

	finding := report.Errors[0]
	require.Equal(t, domain.RuleMaxConsecutiveDays, finding.Rule)
	// 结论挂在最长连续段的第一天
	require.Equal(t, "2026-03-02", finding.Date)
	require.Equal(t, int32(4), finding.Context.RunLength)
	require.Equal(t, int32(3), finding.Context.Limit)
}

func TestValidate_MaxConsecutiveDaysAtLimit(t *testing.T) {
	// 恰好等于上限不违规
	limit := int32(3)
	rule := makeStaffRule(42)
	rule.MaxConsecutiveDays = &limit

	snapshot := &Snapshot{
		Schedule: makeSchedule("2026-03",
			makeShift(1, "2026-03-02", "MORNING", "08:00:00", "12:00:00", "前台", 42),
			makeShift(2, "2026-03-03", "MORNING", "08:00:00", "12:00:00", "前台", 42),
			makeShift(3, "2026-03-04", "MORNING", "08:00:00", "12:00:00", "前台", 42),
		),
		StaffRules: map[int64]*domain.StaffScheduleRule{42: rule},
	}

	report, err := Validate(snapshot)
	require.NoError(t, err)
	require.Empty(t, report.Errors)
}

func TestValidate_WeekendOffSeverity(t *testing.T) {
	rule := makeStaffRule(42)
	rule.RequireWeekendOff = true

	weekendDates := []string{
		"2026-03-01",
		"2026-03-07", "2026-03-08",
		"2026-03-14", "2026-03-15",
		"2026-03-21", "2026-03-22",
		"2026-03-28", "2026-03-29",
	}
	shifts := make([]*domain.ShiftDefinition, 0)
	for i, date := range weekendDates {
		shifts = append(shifts, makeShift(int64(i+1), date, "MORNING", "08:00:00", "12:00:00", "前台", 42))
	}

	// 组织规则缺失时按软约束处理，产生 WARNING
	snapshot := &Snapshot{
		Schedule:   makeSchedule("2026-03", shifts...),
		StaffRules: map[int64]*domain.StaffScheduleRule{42: rule},
	}

	report, err := Validate(snapshot)
	require.NoError(t, err)
	require.Empty(t, report.Errors)
	require.Len(t, report.Warnings, 1)
	require.Equal(t, domain.RuleWeekendOff, report.Warnings[0].Rule)
	require.Equal(t, "2026-03-01", report.Warnings[0].Date)

	// 硬约束时变成 ERROR
	snapshot.OrgRule = &domain.OrganizationScheduleRule{
		OrganizationID:        1,
		WeekendDefinition:     domain.WeekendSatSun,
		EnforceWeekendOffHard: true,
	}

	report, err = Validate(snapshot)
	require.NoError(t, err)
	require.Len(t, report.Errors, 1)
	require.Empty(t, report.Warnings)
	require.Equal(t, domain.RuleWeekendOff, report.Errors[0].Rule)
}

func TestValidate_CoverageFindingsIncluded(t *testing.T) {
	snapshot := &Snapshot{
		Schedule: makeSchedule("2026-03"),
		DayRules: []*domain.CoverageDayRule{
			makeDayRule(6, "MORNING", "前台", 1),
			makeDayRule(6, "MORNING", "前台", 2),
		},
	}

	report, err := Validate(snapshot)
	require.NoError(t, err)
	require.Empty(t, report.Errors)

	// 一条重复规则异常 + 四个周六的覆盖缺口
	require.Len(t, report.Warnings, 5)
	require.Equal(t, domain.RuleDuplicateCoverage, report.Warnings[0].Rule)
	for _, finding := range report.Warnings[1:] {
		require.Equal(t, domain.RuleCoverageGap, finding.Rule)
		require.Equal(t, int32(2), finding.Context.RequiredCount)
	}
}

func TestValidate_StructuralErrors(t *testing.T) {
	// 日期不在月份内
	_, err := Validate(&Snapshot{
		Schedule: makeSchedule("2026-03",
			makeShift(1, "2026-04-01", "MORNING", "08:00:00", "12:00:00", "前台", 42),
		),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// 结束时刻不晚于开始时刻
	_, err = Validate(&Snapshot{
		Schedule: makeSchedule("2026-03",
			makeShift(1, "2026-03-10", "MORNING", "12:00:00", "12:00:00", "前台", 42),
		),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// 时刻格式错误
	_, err = Validate(&Snapshot{
		Schedule: makeSchedule("2026-03",
			makeShift(1, "2026-03-10", "MORNING", "8:00", "12:00:00", "前台", 42),
		),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// 缺少快照
	_, err = Validate(nil)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidate_Deterministic(t *testing.T) {
	limit := int32(1)
	rule := makeStaffRule(42, "MORNING")
	rule.MaxConsecutiveDays = &limit

	snapshot := &Snapshot{
		Schedule: makeSchedule("2026-03",
			makeShift(1, "2026-03-10", "NIGHT", "18:00:00", "23:00:00", "前台", 42, 43),
			makeShift(2, "2026-03-10", "NIGHT", "20:00:00", "22:00:00", "机房", 42),
			makeShift(3, "2026-03-11", "MORNING", "08:00:00", "12:00:00", "前台", 42),
		),
		StaffRules: map[int64]*domain.StaffScheduleRule{42: rule},
		TimeOff: []*domain.TimeOffRequest{
			makeTimeOff(7, 43, "2026-03-10", "2026-03-10", domain.TimeOffApproved),
		},
		DayRules: []*domain.CoverageDayRule{
			makeDayRule(3, "MORNING", "前台", 3), // 周三
		},
	}

	first, err := Validate(snapshot)
	require.NoError(t, err)
	second, err := Validate(snapshot)
	require.NoError(t, err)

	// 对相同快照重复校验，输出必须完全一致
	require.Equal(t, first, second)
	require.NotEmpty(t, first.Errors)
	require.NotEmpty(t, first.Warnings)
}
