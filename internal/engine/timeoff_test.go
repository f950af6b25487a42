package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
)

func TestNewTimeOffRequest(t *testing.T) {
	request, err := NewTimeOffRequest(42, domain.TimeOffVacation, "2026-03-10", "2026-03-12", "年假", 42)
	require.NoError(t, err)
	require.Equal(t, domain.TimeOffPending, request.Status)
	require.Equal(t, int64(42), request.StaffID)
	require.Equal(t, int64(42), request.CreatedBy)
	require.Nil(t, request.DecidedBy)
	require.Nil(t, request.DayCount)
}

func TestNewTimeOffRequest_NormalizesUnpaddedDates(t *testing.T) {
	// 未补零的日期在入库前被重写为标准格式
	request, err := NewTimeOffRequest(42, domain.TimeOffVacation, "2026-3-7", "2026-3-9", "", 42)
	require.NoError(t, err)
	require.Equal(t, "2026-03-07", request.StartDate)
	require.Equal(t, "2026-03-09", request.EndDate)
}

func TestNewTimeOffRequest_InvalidInput(t *testing.T) {
	// 缺少员工
	_, err := NewTimeOffRequest(0, domain.TimeOffVacation, "2026-03-10", "2026-03-12", "", 1)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// 非法类型
	_, err = NewTimeOffRequest(42, domain.TimeOffType("HOLIDAY"), "2026-03-10", "2026-03-12", "", 42)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// 日期格式错误
	_, err = NewTimeOffRequest(42, domain.TimeOffSickLeave, "2026/03/10", "2026-03-12", "", 42)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// 开始日期晚于结束日期
	_, err = NewTimeOffRequest(42, domain.TimeOffOther, "2026-03-12", "2026-03-10", "", 42)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApproveTimeOff(t *testing.T) {
	request, err := NewTimeOffRequest(42, domain.TimeOffVacation, "2026-03-02", "2026-03-08", "", 42)
	require.NoError(t, err)

	require.NoError(t, ApproveTimeOff(request, 7, domain.PolicyCalendar))
	require.Equal(t, domain.TimeOffApproved, request.Status)
	require.NotNil(t, request.DecidedBy)
	require.Equal(t, int64(7), *request.DecidedBy)
	require.NotNil(t, request.DayCount)
	require.Equal(t, int32(7), *request.DayCount)
}

func TestApproveTimeOff_BusinessPolicy(t *testing.T) {
	request, err := NewTimeOffRequest(42, domain.TimeOffVacation, "2026-03-02", "2026-03-08", "", 42)
	require.NoError(t, err)

	// 周一到周日，BUSINESS 策略下只计 5 天
	require.NoError(t, ApproveTimeOff(request, 7, domain.PolicyBusiness))
	require.Equal(t, int32(5), *request.DayCount)
}

func TestApproveTimeOff_TerminalStateRejected(t *testing.T) {
	request, err := NewTimeOffRequest(42, domain.TimeOffVacation, "2026-03-10", "2026-03-12", "", 42)
	require.NoError(t, err)
	require.NoError(t, ApproveTimeOff(request, 7, domain.PolicyCalendar))

	// 终态之后不允许任何转移
	require.ErrorIs(t, ApproveTimeOff(request, 8, domain.PolicyCalendar), domain.ErrInvalidState)
	require.ErrorIs(t, RejectTimeOff(request, 8), domain.ErrInvalidState)

	// 终态字段不被失败的转移污染
	require.Equal(t, domain.TimeOffApproved, request.Status)
	require.Equal(t, int64(7), *request.DecidedBy)
}

func TestRejectTimeOff(t *testing.T) {
	request, err := NewTimeOffRequest(42, domain.TimeOffVacation, "2026-03-10", "2026-03-12", "", 42)
	require.NoError(t, err)

	require.NoError(t, RejectTimeOff(request, 7))
	require.Equal(t, domain.TimeOffRejected, request.Status)
	require.Equal(t, int64(7), *request.DecidedBy)
	// 驳回不计算天数
	require.Nil(t, request.DayCount)

	require.ErrorIs(t, ApproveTimeOff(request, 8, domain.PolicyCalendar), domain.ErrInvalidState)
}
