package engine

import (
	"time"

	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
)

// WeekendWeekdays 把周末定义映射到具体的星期集合
func WeekendWeekdays(def domain.WeekendDefinition) []time.Weekday {
	switch def {
	case domain.WeekendFriSat:
		return []time.Weekday{time.Friday, time.Saturday}
	default:
		return []time.Weekday{time.Saturday, time.Sunday}
	}
}

func IsWeekend(date time.Time, def domain.WeekendDefinition) bool {
	for _, wd := range WeekendWeekdays(def) {
		if date.Weekday() == wd {
			return true
		}
	}
	return false
}

// weekendRuns 把该月内的周末日期切分成若干段连续日期，
// 处理月初/月末截断导致一个"周末"只剩一天的情况
func weekendRuns(month string, def domain.WeekendDefinition) ([][]time.Time, error) {
	dates, err := monthDates(month)
	if err != nil {
		return nil, err
	}

	runs := make([][]time.Time, 0)
	var current []time.Time

	for _, d := range dates {
		if IsWeekend(d, def) {
			current = append(current, d)
			continue
		}
		if len(current) > 0 {
			runs = append(runs, current)
			current = nil
		}
	}
	if len(current) > 0 {
		runs = append(runs, current)
	}

	return runs, nil
}

// HasFullWeekendOff 判断该员工在这个月内是否存在至少一个完整周末没有任何排班
func HasFullWeekendOff(schedule *domain.MonthSchedule, staffID int64, def domain.WeekendDefinition) (bool, error) {
	runs, err := weekendRuns(schedule.Month, def)
	if err != nil {
		return false, err
	}

	// 先收集该员工有排班的日期
	assignedDates := make(map[string]bool)
	for _, shift := range schedule.Shifts {
		for _, assignment := range shift.Assignments {
			if assignment.StaffID == staffID {
				assignedDates[shift.Date] = true
				break
			}
		}
	}

	for _, run := range runs {
		free := true
		for _, d := range run {
			if assignedDates[d.Format(domain.DateLayout)] {
				free = false
				break
			}
		}
		if free {
			return true, nil
		}
	}

	return false, nil
}
