package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
)

func makeShift(id int64, date, shiftCode, startTime, endTime, station string, staffIDs ...int64) *domain.ShiftDefinition {
	shift := &domain.ShiftDefinition{
		ID:          id,
		Date:        date,
		ShiftCode:   shiftCode,
		StartTime:   startTime,
		EndTime:     endTime,
		Station:     station,
		Assignments: make([]domain.ShiftAssignment, 0, len(staffIDs)),
	}
	for i, staffID := range staffIDs {
		shift.Assignments = append(shift.Assignments, domain.ShiftAssignment{
			ID:      id*100 + int64(i),
			ShiftID: id,
			StaffID: staffID,
		})
	}
	return shift
}

func makeSchedule(month string, shifts ...*domain.ShiftDefinition) *domain.MonthSchedule {
	return &domain.MonthSchedule{
		OrganizationID: 1,
		Month:          month,
		Shifts:         shifts,
	}
}

func TestIsWeekend(t *testing.T) {
	saturday := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	friday := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)

	require.True(t, IsWeekend(saturday, domain.WeekendSatSun))
	require.True(t, IsWeekend(sunday, domain.WeekendSatSun))
	require.False(t, IsWeekend(friday, domain.WeekendSatSun))

	require.True(t, IsWeekend(friday, domain.WeekendFriSat))
	require.True(t, IsWeekend(saturday, domain.WeekendFriSat))
	require.False(t, IsWeekend(sunday, domain.WeekendFriSat))
}

func TestHasFullWeekendOff_AllWeekendsWorked(t *testing.T) {
	// 2026-03 的周六日：1, 7-8, 14-15, 21-22, 28-29
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

	hasOff, err := HasFullWeekendOff(makeSchedule("2026-03", shifts...), 42, domain.WeekendSatSun)
	require.NoError(t, err)
	require.False(t, hasOff)
}

func TestHasFullWeekendOff_OneFreeWeekend(t *testing.T) {
	// 只排了 14-15 之外的周末
	weekendDates := []string{
		"2026-03-01",
		"2026-03-07", "2026-03-08",
		"2026-03-21", "2026-03-22",
		"2026-03-28", "2026-03-29",
	}

	shifts := make([]*domain.ShiftDefinition, 0)
	for i, date := range weekendDates {
		shifts = append(shifts, makeShift(int64(i+1), date, "MORNING", "08:00:00", "12:00:00", "前台", 42))
	}

	hasOff, err := HasFullWeekendOff(makeSchedule("2026-03", shifts...), 42, domain.WeekendSatSun)
	require.NoError(t, err)
	require.True(t, hasOff)
}

func TestHasFullWeekendOff_TruncatedWeekendAtMonthStart(t *testing.T) {
	// 2026-03-01 是周日，月初被截断的周末只剩一天，
	// 只要这一天没有排班就算有一个完整的周末休息
	weekendDates := []string{
		"2026-03-07", "2026-03-08",
		"2026-03-14", "2026-03-15",
		"2026-03-21", "2026-03-22",
		"2026-03-28", "2026-03-29",
	}

	shifts := make([]*domain.ShiftDefinition, 0)
	for i, date := range weekendDates {
		shifts = append(shifts, makeShift(int64(i+1), date, "MORNING", "08:00:00", "12:00:00", "前台", 42))
	}

	hasOff, err := HasFullWeekendOff(makeSchedule("2026-03", shifts...), 42, domain.WeekendSatSun)
	require.NoError(t, err)
	require.True(t, hasOff)
}

func TestHasFullWeekendOff_PartialWeekendDoesNotCount(t *testing.T) {
	// 每个完整周末都只排一天，没有任何一个周末两天全空
	weekendDates := []string{
		"2026-03-01",
		"2026-03-07",
		"2026-03-14",
		"2026-03-21",
		"2026-03-28",
	}

	shifts := make([]*domain.ShiftDefinition, 0)
	for i, date := range weekendDates {
		shifts = append(shifts, makeShift(int64(i+1), date, "MORNING", "08:00:00", "12:00:00", "前台", 42))
	}

	hasOff, err := HasFullWeekendOff(makeSchedule("2026-03", shifts...), 42, domain.WeekendSatSun)
	require.NoError(t, err)
	require.False(t, hasOff)
}

func TestHasFullWeekendOff_FriSatDefinition(t *testing.T) {
	// FRI_SAT 定义下 2026-03 的周末：6-7, 13-14, 20-21, 27-28
	weekendDates := []string{
		"2026-03-06", "2026-03-07",
		"2026-03-13", "2026-03-14",
		"2026-03-20", "2026-03-21",
	}

	shifts := make([]*domain.ShiftDefinition, 0)
	for i, date := range weekendDates {
		shifts = append(shifts, makeShift(int64(i+1), date, "MORNING", "08:00:00", "12:00:00", "前台", 42))
	}

	// 27-28 没有排班
	hasOff, err := HasFullWeekendOff(makeSchedule("2026-03", shifts...), 42, domain.WeekendFriSat)
	require.NoError(t, err)
	require.True(t, hasOff)
}
