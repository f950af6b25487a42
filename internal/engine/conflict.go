package engine

import (
	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
)

// TimeOffConflicts 返回该员工所有覆盖指定日期的已批准请假。
// 日期格式固定为 "2006-01-02"，按字典序比较即按时间先后比较
func TimeOffConflicts(requests []*domain.TimeOffRequest, staffID int64, date string) []*domain.TimeOffRequest {
	conflicts := make([]*domain.TimeOffRequest, 0)
	for _, req := range requests {
		if req.StaffID != staffID || req.Status != domain.TimeOffApproved {
			continue
		}
		if req.StartDate <= date && date <= req.EndDate {
			conflicts = append(conflicts, req)
		}
	}
	return conflicts
}

// ShiftOverlaps 返回该员工在同一天内与给定时间段相交的其他班次。
// 区间按半开 [start, end) 比较：startA < endB && endA > startB。
// excludeShiftID 用于重新校验已编辑的班次时排除其自身的旧记录
func ShiftOverlaps(shifts []*domain.ShiftDefinition, staffID int64, date, startTime, endTime string, excludeShiftID int64) []*domain.ShiftDefinition {
	overlaps := make([]*domain.ShiftDefinition, 0)
	for _, shift := range shifts {
		if shift.ID == excludeShiftID || shift.Date != date {
			continue
		}

		assigned := false
		for _, assignment := range shift.Assignments {
			if assignment.StaffID == staffID {
				assigned = true
				break
			}
		}
		if !assigned {
			continue
		}

		if startTime < shift.EndTime && endTime > shift.StartTime {
			overlaps = append(overlaps, shift)
		}
	}
	return overlaps
}
