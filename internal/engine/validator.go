package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
)

// Snapshot 是一次校验所消费的全部数据。
// 快照必须在校验开始前一次性加载好，校验过程中不会也不允许再读存储，
// 这样对相同快照重复校验的输出才是完全一致的
type Snapshot struct {
	Schedule   *domain.MonthSchedule
	StaffRules map[int64]*domain.StaffScheduleRule
	OrgRule    *domain.OrganizationScheduleRule
	TimeOff    []*domain.TimeOffRequest
	DayRules   []*domain.CoverageDayRule
	Overrides  []*domain.CoverageDateOverride
}

// Validate 对一个月的排班执行全部合规检查，返回按 (日期, 员工, 规则) 排序的报告。
// 违规以结论的形式聚合返回，一个员工的违规不会阻断其他员工或其他规则的检查；
// 只有结构性非法的输入（结束时刻不晚于开始时刻、日期不在月份内等）才返回错误
func Validate(snapshot *Snapshot) (*domain.ValidationReport, error) {
	if snapshot == nil || snapshot.Schedule == nil {
		return nil, fmt.Errorf("%w: 缺少排班快照", domain.ErrInvalidInput)
	}

	monthFirst, err := time.ParseInLocation(domain.MonthLayout, snapshot.Schedule.Month, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: 月份格式错误 %q", domain.ErrInvalidInput, snapshot.Schedule.Month)
	}

	// 结构性检查。time.Parse 接受 "8:00:00" 这类未补零的写法，
	// 通过检查后立即重写为标准格式，后续的字典序比较才是可靠的
	for _, shift := range snapshot.Schedule.Shifts {
		d, err := parseDate(shift.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: 班次 %d 的日期格式错误", domain.ErrInvalidInput, shift.ID)
		}
		if d.Year() != monthFirst.Year() || d.Month() != monthFirst.Month() {
			return nil, fmt.Errorf("%w: 班次 %d 的日期不在月份 %s 内", domain.ErrInvalidInput, shift.ID, snapshot.Schedule.Month)
		}

		start, err := parseClock(shift.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: 班次 %d 的开始时刻格式错误", domain.ErrInvalidInput, shift.ID)
		}
		end, err := parseClock(shift.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: 班次 %d 的结束时刻格式错误", domain.ErrInvalidInput, shift.ID)
		}
		if !end.After(start) {
			return nil, fmt.Errorf("%w: 班次 %d 的结束时刻必须晚于开始时刻", domain.ErrInvalidInput, shift.ID)
		}

		shift.Date = d.Format(domain.DateLayout)
		shift.StartTime = start.Format(domain.ClockLayout)
		shift.EndTime = end.Format(domain.ClockLayout)
	}

	// 请假和覆盖例外的日期同样统一成标准格式
	for _, req := range snapshot.TimeOff {
		req.StartDate = canonicalDate(req.StartDate)
		req.EndDate = canonicalDate(req.EndDate)
	}
	for _, override := range snapshot.Overrides {
		override.Date = canonicalDate(override.Date)
	}

	// 组织规则缺失时按默认值处理：周六日为周末、周末休息只作提醒
	orgRule := snapshot.OrgRule
	if orgRule == nil {
		orgRule = &domain.OrganizationScheduleRule{
			OrganizationID:    snapshot.Schedule.OrganizationID,
			WeekendDefinition: domain.WeekendSatSun,
		}
	}

	findings := make([]domain.ValidationFinding, 0)

	// 逐个排班检查
	reportedPairs := make(map[[2]int64]bool)
	for _, shift := range snapshot.Schedule.Shifts {
		for _, assignment := range shift.Assignments {
			staffID := assignment.StaffID
			rule := snapshot.StaffRules[staffID]

			// 允许班次检查
			if rule != nil && len(rule.AllowedShiftCodes) > 0 && !containsString(rule.AllowedShiftCodes, shift.ShiftCode) {
				sid := staffID
				findings = append(findings, domain.ValidationFinding{
					Severity: domain.SeverityError,
					Rule:     domain.RuleAllowedShiftCode,
					StaffID:  &sid,
					Date:     shift.Date,
					Message:  fmt.Sprintf("员工 %d 不允许被排入班次 %s", staffID, shift.ShiftCode),
					Context:  domain.FindingContext{ShiftCode: shift.ShiftCode, ShiftID: shift.ID},
				})
			}

			// 请假冲突检查
			for _, conflict := range TimeOffConflicts(snapshot.TimeOff, staffID, shift.Date) {
				sid := staffID
				findings = append(findings, domain.ValidationFinding{
					Severity: domain.SeverityError,
					Rule:     domain.RuleTimeOffConflict,
					StaffID:  &sid,
					Date:     shift.Date,
					Message:  fmt.Sprintf("员工 %d 在已批准的请假期间被排班", staffID),
					Context:  domain.FindingContext{ShiftCode: shift.ShiftCode, ShiftID: shift.ID, TimeOffID: conflict.ID},
				})
			}

			// 班次重叠检查，按无序 ID 对去重，避免一对重叠被报告两次
			for _, other := range ShiftOverlaps(snapshot.Schedule.Shifts, staffID, shift.Date, shift.StartTime, shift.EndTime, shift.ID) {
				pair := [2]int64{shift.ID, other.ID}
				if pair[0] > pair[1] {
					pair[0], pair[1] = pair[1], pair[0]
				}
				if reportedPairs[pair] {
					continue
				}
				reportedPairs[pair] = true

				sid := staffID
				findings = append(findings, domain.ValidationFinding{
					Severity: domain.SeverityError,
					Rule:     domain.RuleShiftOverlap,
					StaffID:  &sid,
					Date:     shift.Date,
					Message:  fmt.Sprintf("员工 %d 在同一天被排入时间重叠的两个班次", staffID),
					Context:  domain.FindingContext{ShiftID: pair[0], OtherShiftID: pair[1]},
				})
			}
		}
	}

	// 逐个员工检查（每人只检查一次），按员工 ID 升序保证输出稳定
	staffIDs := collectStaffIDs(snapshot.Schedule)
	for _, staffID := range staffIDs {
		rule := snapshot.StaffRules[staffID]
		if rule == nil {
			continue
		}

		if rule.MaxConsecutiveDays != nil {
			runStart, runLength := longestConsecutiveRun(snapshot.Schedule, staffID)
			if runLength > *rule.MaxConsecutiveDays {
				sid := staffID
				findings = append(findings, domain.ValidationFinding{
					Severity: domain.SeverityError,
					Rule:     domain.RuleMaxConsecutiveDays,
					StaffID:  &sid,
					Date:     runStart,
					Message:  fmt.Sprintf("员工 %d 连续工作 %d 天，超过上限 %d 天", staffID, runLength, *rule.MaxConsecutiveDays),
					Context:  domain.FindingContext{RunLength: runLength, Limit: *rule.MaxConsecutiveDays},
				})
			}
		}

		if rule.RequireWeekendOff {
			hasOff, err := HasFullWeekendOff(snapshot.Schedule, staffID, orgRule.WeekendDefinition)
			if err != nil {
				return nil, err
			}
			if !hasOff {
				severity := domain.SeverityWarning
				if orgRule.EnforceWeekendOffHard {
					severity = domain.SeverityError
				}
				sid := staffID
				findings = append(findings, domain.ValidationFinding{
					Severity: severity,
					Rule:     domain.RuleWeekendOff,
					StaffID:  &sid,
					Date:     monthFirst.Format(domain.DateLayout),
					Message:  fmt.Sprintf("员工 %d 本月没有任何一个完整的周末休息", staffID),
				})
			}
		}
	}

	// 覆盖缺口与覆盖规则配置异常，每月只检查一次
	resolver := NewCoverageResolver(snapshot.DayRules, snapshot.Overrides)
	findings = append(findings, resolver.Anomalies()...)

	gaps, err := resolver.Gaps(snapshot.Schedule)
	if err != nil {
		return nil, err
	}
	findings = append(findings, gaps...)

	report := &domain.ValidationReport{
		Errors:   make([]domain.ValidationFinding, 0),
		Warnings: make([]domain.ValidationFinding, 0),
	}
	for _, finding := range findings {
		if finding.Severity == domain.SeverityError {
			report.Errors = append(report.Errors, finding)
		} else {
			report.Warnings = append(report.Warnings, finding)
		}
	}

	sortFindings(report.Errors)
	sortFindings(report.Warnings)

	return report, nil
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func collectStaffIDs(schedule *domain.MonthSchedule) []int64 {
	seen := make(map[int64]bool)
	ids := make([]int64, 0)
	for _, shift := range schedule.Shifts {
		for _, assignment := range shift.Assignments {
			if !seen[assignment.StaffID] {
				seen[assignment.StaffID] = true
				ids = append(ids, assignment.StaffID)
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// longestConsecutiveRun 返回该员工本月内最长连续工作段的起始日期和长度，
// 长度相同时取更早的一段
func longestConsecutiveRun(schedule *domain.MonthSchedule, staffID int64) (string, int32) {
	workedSet := make(map[string]bool)
	for _, shift := range schedule.Shifts {
		for _, assignment := range shift.Assignments {
			if assignment.StaffID == staffID {
				workedSet[shift.Date] = true
				break
			}
		}
	}

	worked := make([]string, 0, len(workedSet))
	for date := range workedSet {
		worked = append(worked, date)
	}
	sort.Strings(worked)

	var bestStart string
	var bestLength int32
	var runStart string
	var runLength int32

	for i, date := range worked {
		if i == 0 {
			runStart = date
			runLength = 1
		} else {
			prev, _ := parseDate(worked[i-1])
			cur, _ := parseDate(date)
			if cur.Sub(prev) == 24*time.Hour {
				runLength++
			} else {
				runStart = date
				runLength = 1
			}
		}

		if runLength > bestLength {
			bestStart = runStart
			bestLength = runLength
		}
	}

	return bestStart, bestLength
}

// 报告内按 (日期, 员工, 规则) 排序，组织级结论（无员工）排在同日期的个人结论之前
func sortFindings(findings []domain.ValidationFinding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Date != findings[j].Date {
			return findings[i].Date < findings[j].Date
		}

		var si, sj int64 = -1, -1
		if findings[i].StaffID != nil {
			si = *findings[i].StaffID
		}
		if findings[j].StaffID != nil {
			sj = *findings[j].StaffID
		}
		if si != sj {
			return si < sj
		}

		return findings[i].Rule < findings[j].Rule
	})
}
