package service

import (
	"fmt"
	"strings"
	"time"
)

const periodLayout = "2006-01"

// SettlementPeriod 结算周期，时间窗口为 [Start, End)
type SettlementPeriod struct {
	Key   string
	Start time.Time
	End   time.Time
}

// ParsePeriod 解析 YYYY-MM 结算周期
func ParsePeriod(raw string, loc *time.Location) (SettlementPeriod, error) {
	if loc == nil {
		loc = time.UTC
	}
	trimmed := strings.TrimSpace(raw)
	month, err := time.ParseInLocation(periodLayout, trimmed, loc)
	if err != nil || month.Format(periodLayout) != trimmed {
		return SettlementPeriod{}, ErrInvalidPeriod
	}
	return SettlementPeriod{
		Key:   trimmed,
		Start: month,
		End:   month.AddDate(0, 1, 0),
	}, nil
}

// PeriodOf 返回时间所在的结算周期
func PeriodOf(t time.Time, loc *time.Location) SettlementPeriod {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return SettlementPeriod{
		Key:   start.Format(periodLayout),
		Start: start,
		End:   start.AddDate(0, 1, 0),
	}
}

// Previous 返回上一个结算周期
func (p SettlementPeriod) Previous() SettlementPeriod {
	start := p.Start.AddDate(0, -1, 0)
	return SettlementPeriod{
		Key:   start.Format(periodLayout),
		Start: start,
		End:   p.Start,
	}
}

// LoadLocation 加载时区，失败回退 UTC
func LoadLocation(name string) *time.Location {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(trimmed)
	if err != nil {
		return time.UTC
	}
	return loc
}

// documentNumber 生成单据号，如 INV-12-2024-05
func documentNumber(prefix string, partnerID uint, period string) string {
	return fmt.Sprintf("%s-%d-%s", prefix, partnerID, period)
}
