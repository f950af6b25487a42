package engine

import (
	"fmt"
	"time"

	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
)

func parseDate(date string) (time.Time, error) {
	return time.ParseInLocation(domain.DateLayout, date, time.UTC)
}

func parseClock(clock string) (time.Time, error) {
	return time.Parse(domain.ClockLayout, clock)
}

// canonicalDate 把能解析的日期重写为补零后的标准格式。
// time.Parse 接受 "2026-3-7" 这类未补零的写法，直接做字典序比较会得到错误的先后关系，
// 所有参与比较的日期都必须先经过这里。解析失败时原样返回
func canonicalDate(date string) string {
	d, err := parseDate(date)
	if err != nil {
		return date
	}
	return d.Format(domain.DateLayout)
}

// monthDates 返回该月份内的所有日期（UTC），月份格式非法时返回错误
func monthDates(month string) ([]time.Time, error) {
	first, err := time.ParseInLocation(domain.MonthLayout, month, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: 月份格式错误 %q", domain.ErrInvalidInput, month)
	}

	dates := make([]time.Time, 0, 31)
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}

	return dates, nil
}
