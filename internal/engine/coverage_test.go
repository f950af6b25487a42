package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
)

func makeDayRule(weekday int32, shiftCode, station string, requiredCount int32) *domain.CoverageDayRule {
	return &domain.CoverageDayRule{
		OrganizationID: 1,
		Weekday:        weekday,
		ShiftCode:      shiftCode,
		Station:        station,
		RequiredCount:  requiredCount,
		IsActive:       true,
	}
}

func makeOverride(date, shiftCode, station string, requiredCount int32) *domain.CoverageDateOverride {
	return &domain.CoverageDateOverride{
		OrganizationID: 1,
		Date:           date,
		ShiftCode:      shiftCode,
		Station:        station,
		RequiredCount:  requiredCount,
	}
}

func TestRequiredStaffing_DayRule(t *testing.T) {
	// 2026-03-07 是周六
	resolver := NewCoverageResolver([]*domain.CoverageDayRule{
		makeDayRule(6, "MORNING", "前台", 2),
	}, nil)

	require.Equal(t, int32(2), resolver.RequiredStaffing("2026-03-07", "MORNING", "前台"))
	// 其他星期、其他工位都没有要求
	require.Equal(t, int32(0), resolver.RequiredStaffing("2026-03-06", "MORNING", "前台"))
	require.Equal(t, int32(0), resolver.RequiredStaffing("2026-03-07", "MORNING", "机房"))
}

func TestRequiredStaffing_EmptyStationIsItsOwnDimension(t *testing.T) {
	// 不区分工位的规则用空串表示，和具名工位互不影响
	resolver := NewCoverageResolver([]*domain.CoverageDayRule{
		makeDayRule(6, "MORNING", "", 2),
		makeDayRule(6, "MORNING", "前台", 1),
	}, nil)

	require.Equal(t, int32(2), resolver.RequiredStaffing("2026-03-07", "MORNING", ""))
	require.Equal(t, int32(1), resolver.RequiredStaffing("2026-03-07", "MORNING", "前台"))
	require.Empty(t, resolver.Anomalies())
}

func TestGaps_EmptyStationRequirement(t *testing.T) {
	resolver := NewCoverageResolver([]*domain.CoverageDayRule{
		makeDayRule(6, "MORNING", "", 1),
	}, nil)

	// 只有具名工位的班次，不区分工位的要求没有被满足
	schedule := makeSchedule("2026-03",
		makeShift(1, "2026-03-07", "MORNING", "08:00:00", "12:00:00", "前台", 10),
		makeShift(2, "2026-03-14", "MORNING", "08:00:00", "12:00:00", "", 10),
		makeShift(3, "2026-03-21", "MORNING", "08:00:00", "12:00:00", "", 10),
		makeShift(4, "2026-03-28", "MORNING", "08:00:00", "12:00:00", "", 10),
	)

	gaps, err := resolver.Gaps(schedule)
	require.NoError(t, err)
	require.Len(t, gaps, 1)
	require.Equal(t, "2026-03-07", gaps[0].Date)
	require.Equal(t, "", gaps[0].Context.Station)
}

func TestRequiredStaffing_OverrideSupersedesDayRule(t *testing.T) {
	resolver := NewCoverageResolver([]*domain.CoverageDayRule{
		makeDayRule(6, "MORNING", "前台", 2),
	}, []*domain.CoverageDateOverride{
		makeOverride("2026-03-07", "MORNING", "前台", 5),
	})

	require.Equal(t, int32(5), resolver.RequiredStaffing("2026-03-07", "MORNING", "前台"))
	// 其他周六不受替换影响
	require.Equal(t, int32(2), resolver.RequiredStaffing("2026-03-14", "MORNING", "前台"))
}

func TestRequiredStaffing_ZeroOverrideSuppressesDayRule(t *testing.T) {
	// 人数为 0 的替换同样完全取代星期规则
	resolver := NewCoverageResolver([]*domain.CoverageDayRule{
		makeDayRule(6, "MORNING", "前台", 2),
	}, []*domain.CoverageDateOverride{
		makeOverride("2026-03-07", "MORNING", "前台", 0),
	})

	require.Equal(t, int32(0), resolver.RequiredStaffing("2026-03-07", "MORNING", "前台"))
}

func TestRequiredStaffing_InactiveRuleIgnored(t *testing.T) {
	rule := makeDayRule(6, "MORNING", "前台", 2)
	rule.IsActive = false

	resolver := NewCoverageResolver([]*domain.CoverageDayRule{rule}, nil)

	require.Equal(t, int32(0), resolver.RequiredStaffing("2026-03-07", "MORNING", "前台"))
	require.Empty(t, resolver.Anomalies())
}

func TestNewCoverageResolver_DuplicateRules(t *testing.T) {
	// 同一个三元组上两条生效规则：取更大的人数，并产生一条配置异常
	resolver := NewCoverageResolver([]*domain.CoverageDayRule{
		makeDayRule(6, "MORNING", "前台", 2),
		makeDayRule(6, "MORNING", "前台", 4),
	}, nil)

	require.Equal(t, int32(4), resolver.RequiredStaffing("2026-03-07", "MORNING", "前台"))

	anomalies := resolver.Anomalies()
	require.Len(t, anomalies, 1)
	require.Equal(t, domain.SeverityWarning, anomalies[0].Severity)
	require.Equal(t, domain.RuleDuplicateCoverage, anomalies[0].Rule)
	require.Nil(t, anomalies[0].StaffID)
}

func TestGaps_MetRequirementProducesNothing(t *testing.T) {
	// 2026-03 的周六：7, 14, 21, 28
	resolver := NewCoverageResolver([]*domain.CoverageDayRule{
		makeDayRule(6, "MORNING", "前台", 1),
	}, nil)

	schedule := makeSchedule("2026-03",
		makeShift(1, "2026-03-07", "MORNING", "08:00:00", "12:00:00", "前台", 10),
		makeShift(2, "2026-03-14", "MORNING", "08:00:00", "12:00:00", "前台", 10),
		makeShift(3, "2026-03-21", "MORNING", "08:00:00", "12:00:00", "前台", 10),
		makeShift(4, "2026-03-28", "MORNING", "08:00:00", "12:00:00", "前台", 10),
	)

	gaps, err := resolver.Gaps(schedule)
	require.NoError(t, err)
	require.Empty(t, gaps)
}

func TestGaps_ShortfallProducesWarning(t *testing.T) {
	resolver := NewCoverageResolver([]*domain.CoverageDayRule{
		makeDayRule(6, "MORNING", "前台", 2),
	}, nil)

	// 只有 3 月 7 日排了人，且只排了 1 个
	schedule := makeSchedule("2026-03",
		makeShift(1, "2026-03-07", "MORNING", "08:00:00", "12:00:00", "前台", 10),
		makeShift(2, "2026-03-14", "MORNING", "08:00:00", "12:00:00", "前台", 10, 11),
		makeShift(3, "2026-03-21", "MORNING", "08:00:00", "12:00:00", "前台", 10, 11),
		makeShift(4, "2026-03-28", "MORNING", "08:00:00", "12:00:00", "前台", 10, 11),
	)

	gaps, err := resolver.Gaps(schedule)
	require.NoError(t, err)
	require.Len(t, gaps, 1)
	require.Equal(t, domain.SeverityWarning, gaps[0].Severity)
	require.Equal(t, domain.RuleCoverageGap, gaps[0].Rule)
	require.Equal(t, "2026-03-07", gaps[0].Date)
	require.Equal(t, int32(2), gaps[0].Context.RequiredCount)
	require.Equal(t, int32(1), gaps[0].Context.ActualCount)
}

func TestGaps_OverstaffingProducesNothing(t *testing.T) {
	resolver := NewCoverageResolver([]*domain.CoverageDayRule{
		makeDayRule(6, "MORNING", "前台", 1),
	}, nil)

	schedule := makeSchedule("2026-03",
		makeShift(1, "2026-03-07", "MORNING", "08:00:00", "12:00:00", "前台", 10, 11, 12),
		makeShift(2, "2026-03-14", "MORNING", "08:00:00", "12:00:00", "前台", 10, 11),
		makeShift(3, "2026-03-21", "MORNING", "08:00:00", "12:00:00", "前台", 10),
		makeShift(4, "2026-03-28", "MORNING", "08:00:00", "12:00:00", "前台", 10),
	)

	gaps, err := resolver.Gaps(schedule)
	require.NoError(t, err)
	require.Empty(t, gaps)
}

func TestGaps_ZeroOverrideRemovesRequirement(t *testing.T) {
	resolver := NewCoverageResolver([]*domain.CoverageDayRule{
		makeDayRule(6, "MORNING", "前台", 1),
	}, []*domain.CoverageDateOverride{
		// 3 月 28 日闭店，不需要任何人
		makeOverride("2026-03-28", "MORNING", "前台", 0),
	})

	schedule := makeSchedule("2026-03",
		makeShift(1, "2026-03-07", "MORNING", "08:00:00", "12:00:00", "前台", 10),
		makeShift(2, "2026-03-14", "MORNING", "08:00:00", "12:00:00", "前台", 10),
		makeShift(3, "2026-03-21", "MORNING", "08:00:00", "12:00:00", "前台", 10),
	)

	gaps, err := resolver.Gaps(schedule)
	require.NoError(t, err)
	require.Empty(t, gaps)
}

func TestGaps_OverrideWithoutDayRule(t *testing.T) {
	// 没有任何星期规则，但某个工作日有临时的人数要求
	resolver := NewCoverageResolver(nil, []*domain.CoverageDateOverride{
		makeOverride("2026-03-10", "NIGHT", "机房", 2),
	})

	gaps, err := resolver.Gaps(makeSchedule("2026-03"))
	require.NoError(t, err)
	require.Len(t, gaps, 1)
	require.Equal(t, "2026-03-10", gaps[0].Date)
	require.Equal(t, int32(2), gaps[0].Context.RequiredCount)
	require.Equal(t, int32(0), gaps[0].Context.ActualCount)
}

func TestGaps_SortedByDateShiftCodeStation(t *testing.T) {
	resolver := NewCoverageResolver(nil, []*domain.CoverageDateOverride{
		makeOverride("2026-03-11", "MORNING", "前台", 1),
		makeOverride("2026-03-10", "NIGHT", "机房", 1),
		makeOverride("2026-03-10", "MORNING", "机房", 1),
	})

	gaps, err := resolver.Gaps(makeSchedule("2026-03"))
	require.NoError(t, err)
	require.Len(t, gaps, 3)
	require.Equal(t, "2026-03-10", gaps[0].Date)
	require.Equal(t, "MORNING", gaps[0].Context.ShiftCode)
	require.Equal(t, "2026-03-10", gaps[1].Date)
	require.Equal(t, "NIGHT", gaps[1].Context.ShiftCode)
	require.Equal(t, "2026-03-11", gaps[2].Date)
}
