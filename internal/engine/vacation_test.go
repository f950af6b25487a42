package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
)

// 2026-03-01 是周日，2026-03-02 ~ 2026-03-06 是周一到周五

func TestCountDays_SingleDay(t *testing.T) {
	require.Equal(t, int32(1), CountDays("2026-03-02", "2026-03-02", domain.PolicyCalendar))
	require.Equal(t, int32(1), CountDays("2026-03-02", "2026-03-02", domain.PolicyBusiness))
}

func TestCountDays_Calendar(t *testing.T) {
	// 周一到周五
	require.Equal(t, int32(5), CountDays("2026-03-02", "2026-03-06", domain.PolicyCalendar))
	// 周一到周日，包含周末
	require.Equal(t, int32(7), CountDays("2026-03-02", "2026-03-08", domain.PolicyCalendar))
}

func TestCountDays_BusinessSkipsWeekend(t *testing.T) {
	// 周一到周日，周六周日不计入
	require.Equal(t, int32(5), CountDays("2026-03-02", "2026-03-08", domain.PolicyBusiness))
	// 周五到下周一，只有周五和周一计入
	require.Equal(t, int32(2), CountDays("2026-03-06", "2026-03-09", domain.PolicyBusiness))
	// 整段都落在周末
	require.Equal(t, int32(0), CountDays("2026-03-07", "2026-03-08", domain.PolicyBusiness))
}

func TestCountDays_InvalidInput(t *testing.T) {
	// 开始日期晚于结束日期
	require.Equal(t, int32(0), CountDays("2026-03-09", "2026-03-02", domain.PolicyCalendar))
	// 日期格式错误
	require.Equal(t, int32(0), CountDays("2026/03/02", "2026-03-06", domain.PolicyCalendar))
	require.Equal(t, int32(0), CountDays("2026-03-02", "bad", domain.PolicyBusiness))
}
