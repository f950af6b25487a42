package engine

import (
	"fmt"
	"sort"

	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
)

type dayRuleKey struct {
	Weekday   int32
	ShiftCode string
	Station   string
}

type overrideKey struct {
	Date      string
	ShiftCode string
	Station   string
}

// CoverageResolver 把按星期的覆盖规则和按日期的覆盖替换合并成人数查询。
// 工位是区分键而不是回退维度：不带工位的规则不能满足带工位的需求，反之亦然
type CoverageResolver struct {
	dayRules  map[dayRuleKey]*domain.CoverageDayRule
	overrides map[overrideKey]*domain.CoverageDateOverride
	anomalies []domain.ValidationFinding
}

func NewCoverageResolver(dayRules []*domain.CoverageDayRule, overrides []*domain.CoverageDateOverride) *CoverageResolver {
	cr := &CoverageResolver{
		dayRules:  make(map[dayRuleKey]*domain.CoverageDayRule),
		overrides: make(map[overrideKey]*domain.CoverageDateOverride),
		anomalies: make([]domain.ValidationFinding, 0),
	}

	for _, rule := range dayRules {
		if !rule.IsActive {
			continue
		}

		key := dayRuleKey{Weekday: rule.Weekday, ShiftCode: rule.ShiftCode, Station: rule.Station}
		existing, exists := cr.dayRules[key]
		if !exists {
			cr.dayRules[key] = rule
			continue
		}

		// 同一个三元组上存在多条生效规则属于配置错误，
		// 取人数更大的那条（宁可多排不可少排），并上报一条 WARNING
		cr.anomalies = append(cr.anomalies, domain.ValidationFinding{
			Severity: domain.SeverityWarning,
			Rule:     domain.RuleDuplicateCoverage,
			Message:  fmt.Sprintf("星期 %d 的班次 %s 存在多条生效的覆盖规则", key.Weekday, key.ShiftCode),
			Context: domain.FindingContext{
				ShiftCode: key.ShiftCode,
				Station:   key.Station,
			},
		})
		if rule.RequiredCount > existing.RequiredCount {
			cr.dayRules[key] = rule
		}
	}

	for _, override := range overrides {
		key := overrideKey{Date: override.Date, ShiftCode: override.ShiftCode, Station: override.Station}
		cr.overrides[key] = override
	}

	return cr
}

// Anomalies 返回构造时发现的配置异常（重复规则），按班次代码排序
func (cr *CoverageResolver) Anomalies() []domain.ValidationFinding {
	anomalies := make([]domain.ValidationFinding, len(cr.anomalies))
	copy(anomalies, cr.anomalies)
	sort.SliceStable(anomalies, func(i, j int) bool {
		if anomalies[i].Context.ShiftCode != anomalies[j].Context.ShiftCode {
			return anomalies[i].Context.ShiftCode < anomalies[j].Context.ShiftCode
		}
		return anomalies[i].Context.Station < anomalies[j].Context.Station
	})
	return anomalies
}

// RequiredStaffing 解析 (日期, 班次代码, 工位) 需要的人数。
// 日期替换完全取代当天的星期规则，即使其人数为 0；
// 两者都没有命中时人数为 0，表示没有任何要求
func (cr *CoverageResolver) RequiredStaffing(date string, shiftCode string, station string) int32 {
	if override, exists := cr.overrides[overrideKey{Date: date, ShiftCode: shiftCode, Station: station}]; exists {
		return override.RequiredCount
	}

	d, err := parseDate(date)
	if err != nil {
		return 0
	}

	if rule, exists := cr.dayRules[dayRuleKey{Weekday: int32(d.Weekday()), ShiftCode: shiftCode, Station: station}]; exists {
		return rule.RequiredCount
	}

	return 0
}

// Gaps 对月度排班计算覆盖缺口。
// 需要检查的 (日期, 班次代码, 工位) 组合来自两处：月内日期命中的星期规则、月内的日期替换。
// 实际人数小于要求人数时产生一条 WARNING，达到或超过要求时不产生任何结论
func (cr *CoverageResolver) Gaps(schedule *domain.MonthSchedule) ([]domain.ValidationFinding, error) {
	dates, err := monthDates(schedule.Month)
	if err != nil {
		return nil, err
	}

	// 收集需要检查的组合
	tuples := make(map[overrideKey]bool)
	for _, d := range dates {
		for key := range cr.dayRules {
			if key.Weekday == int32(d.Weekday()) {
				tuples[overrideKey{Date: d.Format(domain.DateLayout), ShiftCode: key.ShiftCode, Station: key.Station}] = true
			}
		}
	}
	for key := range cr.overrides {
		d, err := parseDate(key.Date)
		if err != nil {
			continue
		}
		if d.Year() == dates[0].Year() && d.Month() == dates[0].Month() {
			tuples[key] = true
		}
	}

	// 统计每个组合的实际排班人数
	actualCounts := make(map[overrideKey]int32)
	for _, shift := range schedule.Shifts {
		key := overrideKey{Date: shift.Date, ShiftCode: shift.ShiftCode, Station: shift.Station}
		actualCounts[key] += int32(len(shift.Assignments))
	}

	findings := make([]domain.ValidationFinding, 0)
	for key := range tuples {
		required := cr.RequiredStaffing(key.Date, key.ShiftCode, key.Station)
		actual := actualCounts[key]
		if actual >= required {
			continue
		}

		findings = append(findings, domain.ValidationFinding{
			Severity: domain.SeverityWarning,
			Rule:     domain.RuleCoverageGap,
			Date:     key.Date,
			Message:  fmt.Sprintf("%s 的班次 %s 要求 %d 人，实际只排了 %d 人", key.Date, key.ShiftCode, required, actual),
			Context: domain.FindingContext{
				ShiftCode:     key.ShiftCode,
				Station:       key.Station,
				RequiredCount: required,
				ActualCount:   actual,
			},
		})
	}

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Date != findings[j].Date {
			return findings[i].Date < findings[j].Date
		}
		if findings[i].Context.ShiftCode != findings[j].Context.ShiftCode {
			return findings[i].Context.ShiftCode < findings[j].Context.ShiftCode
		}
		return findings[i].Context.Station < findings[j].Context.Station
	})

	return findings, nil
}
