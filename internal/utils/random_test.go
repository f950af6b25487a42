package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
)

func TestGenerateUsernameFromChineseName(t *testing.T) {
	for i := 0; i < 20; i++ {
		name := GenerateRandomChineseName()
		require.NotEmpty(t, name)

		username := GenerateUsernameFromChineseName(name)
		require.NotEmpty(t, username)
		// 用户名只应包含拼音字母和结尾的数字
		for _, r := range username {
			ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
			require.True(t, ok, "用户名包含非法字符: %q", username)
		}
	}
}

func TestGenerateRandomPassword(t *testing.T) {
	require.Len(t, GenerateRandomPassword(12), 12)
	require.Len(t, GenerateRandomPassword(1), 1)
}

func TestGenerateRandomOTP(t *testing.T) {
	for i := 0; i < 20; i++ {
		otp := GenerateRandomOTP()
		require.Len(t, otp, 6)
		for _, r := range otp {
			require.True(t, r >= '0' && r <= '9')
		}
	}
}

func TestGenerateRandomCoverageDayRules(t *testing.T) {
	rules := GenerateRandomCoverageDayRules()
	for _, rule := range rules {
		require.GreaterOrEqual(t, rule.Weekday, int32(0))
		require.LessOrEqual(t, rule.Weekday, int32(6))
		require.GreaterOrEqual(t, rule.RequiredCount, int32(1))
		require.True(t, rule.IsActive)
		require.NotEmpty(t, rule.ShiftCode)
		require.NotEmpty(t, rule.Station)
	}
}

func TestGenerateRandomMonthShifts(t *testing.T) {
	staffIDs := []int64{1, 2, 3}
	shifts := GenerateRandomMonthShifts(1, "2026-03", staffIDs)
	require.NotEmpty(t, shifts)

	for _, shift := range shifts {
		// 日期必须落在指定月份内且合法
		parsed, err := time.Parse(domain.DateLayout, shift.Date)
		require.NoError(t, err)
		require.Equal(t, "2026-03", parsed.Format(domain.MonthLayout))

		// 班次时间必须合法且结束晚于开始
		start, err := time.Parse(domain.ClockLayout, shift.StartTime)
		require.NoError(t, err)
		end, err := time.Parse(domain.ClockLayout, shift.EndTime)
		require.NoError(t, err)
		require.True(t, end.After(start))

		// 排班人员必须来自员工池且不重复
		seen := make(map[int64]bool)
		for _, assignment := range shift.Assignments {
			require.Contains(t, staffIDs, assignment.StaffID)
			require.False(t, seen[assignment.StaffID])
			seen[assignment.StaffID] = true
		}
	}
}

func TestGenerateRandomTimeOffRequest(t *testing.T) {
	for i := 0; i < 20; i++ {
		request := GenerateRandomTimeOffRequest(42, "2026-03")
		require.Equal(t, domain.TimeOffPending, request.Status)
		require.LessOrEqual(t, request.StartDate, request.EndDate)

		_, err := time.Parse(domain.DateLayout, request.StartDate)
		require.NoError(t, err)
		_, err = time.Parse(domain.DateLayout, request.EndDate)
		require.NoError(t, err)
	}
}

func TestGenerateRandomStaffScheduleRule(t *testing.T) {
	rule := GenerateRandomStaffScheduleRule(42, 1)
	require.Equal(t, int64(42), rule.StaffID)
	require.Equal(t, int64(1), rule.OrganizationID)
	require.Equal(t, domain.RotationNone, rule.RotationMode)
	for _, day := range rule.PreferredDaysOff {
		require.GreaterOrEqual(t, day, int32(0))
		require.LessOrEqual(t, day, int32(6))
	}
	if rule.MaxConsecutiveDays != nil {
		require.GreaterOrEqual(t, *rule.MaxConsecutiveDays, int32(1))
	}
}
