package engine

import (
	"time"

	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
)

// CountDays 统计 [startDate, endDate] 闭区间内按策略计入的天数。
// 日期解析失败或 startDate 晚于 endDate 时返回 0，调用方把 0 当作"无可批准天数"处理，
// 因此这里不返回错误。
// 注意 BUSINESS 策略固定跳过周六和周日，与组织配置的周末定义无关
func CountDays(startDate, endDate string, policy domain.CountPolicy) int32 {
	start, err := parseDate(startDate)
	if err != nil {
		return 0
	}
	end, err := parseDate(endDate)
	if err != nil {
		return 0
	}
	if start.After(end) {
		return 0
	}

	var count int32
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if policy == domain.PolicyBusiness && (d.Weekday() == time.Saturday || d.Weekday() == time.Sunday) {
			continue
		}
		count++
	}

	return count
}
