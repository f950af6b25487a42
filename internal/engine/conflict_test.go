package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
)

func makeTimeOff(id, staffID int64, startDate, endDate string, status domain.TimeOffStatus) *domain.TimeOffRequest {
	return &domain.TimeOffRequest{
		ID:        id,
		StaffID:   staffID,
		Type:      domain.TimeOffVacation,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    status,
		CreatedBy: staffID,
	}
}

func TestTimeOffConflicts_OnlyApproved(t *testing.T) {
	requests := []*domain.TimeOffRequest{
		makeTimeOff(1, 42, "2026-03-10", "2026-03-12", domain.TimeOffPending),
		makeTimeOff(2, 42, "2026-03-10", "2026-03-12", domain.TimeOffRejected),
		makeTimeOff(3, 42, "2026-03-10", "2026-03-12", domain.TimeOffApproved),
	}

	conflicts := TimeOffConflicts(requests, 42, "2026-03-11")
	require.Len(t, conflicts, 1)
	require.Equal(t, int64(3), conflicts[0].ID)
}

func TestTimeOffConflicts_BoundaryDatesInclusive(t *testing.T) {
	requests := []*domain.TimeOffRequest{
		makeTimeOff(1, 42, "2026-03-10", "2026-03-12", domain.TimeOffApproved),
	}

	require.Len(t, TimeOffConflicts(requests, 42, "2026-03-10"), 1)
	require.Len(t, TimeOffConflicts(requests, 42, "2026-03-12"), 1)
	require.Empty(t, TimeOffConflicts(requests, 42, "2026-03-09"))
	require.Empty(t, TimeOffConflicts(requests, 42, "2026-03-13"))
}

func TestTimeOffConflicts_OtherStaffExcluded(t *testing.T) {
	requests := []*domain.TimeOffRequest{
		makeTimeOff(1, 42, "2026-03-10", "2026-03-12", domain.TimeOffApproved),
	}

	require.Empty(t, TimeOffConflicts(requests, 43, "2026-03-11"))
}

func TestShiftOverlaps_HalfOpenIntervals(t *testing.T) {
	shifts := []*domain.ShiftDefinition{
		makeShift(1, "2026-03-10", "MORNING", "08:00:00", "12:00:00", "前台", 42),
	}

	// 首尾相接不算重叠
	require.Empty(t, ShiftOverlaps(shifts, 42, "2026-03-10", "12:00:00", "18:00:00", 2))
	require.Empty(t, ShiftOverlaps(shifts, 42, "2026-03-10", "06:00:00", "08:00:00", 2))

	// 有真正的交集才算重叠
	require.Len(t, ShiftOverlaps(shifts, 42, "2026-03-10", "11:00:00", "18:00:00", 2), 1)
	require.Len(t, ShiftOverlaps(shifts, 42, "2026-03-10", "09:00:00", "10:00:00", 2), 1)
}

func TestShiftOverlaps_ExcludeSelf(t *testing.T) {
	shifts := []*domain.ShiftDefinition{
		makeShift(1, "2026-03-10", "MORNING", "08:00:00", "12:00:00", "前台", 42),
	}

	// 重新校验班次 1 自身时要排除它的旧记录
	require.Empty(t, ShiftOverlaps(shifts, 42, "2026-03-10", "08:00:00", "12:00:00", 1))
}

func TestShiftOverlaps_DifferentDateOrStaff(t *testing.T) {
	shifts := []*domain.ShiftDefinition{
		makeShift(1, "2026-03-10", "MORNING", "08:00:00", "12:00:00", "前台", 42),
	}

	// 不同日期不算重叠
	require.Empty(t, ShiftOverlaps(shifts, 42, "2026-03-11", "08:00:00", "12:00:00", 2))
	// 员工没有被排入该班次时不算重叠
	require.Empty(t, ShiftOverlaps(shifts, 43, "2026-03-10", "08:00:00", "12:00:00", 2))
}
