package timetable

import (
	"fmt"
	"time"
)

// ── 日历日期与当日时刻 ──────────────────────────────────────
//
// 设计说明：
//   - Date 是纯日历日期（无时区、无时刻），可比较、可作 map 键。
//     排课算法全程以 Date 遍历学期，只有在生成日历事件的最后一步
//     才结合时间表声明的 IANA 时区换算为绝对时刻。
//   - TimeOfDay 是当日时刻（时:分），同样是纯值。
// ─────────────────────────────────────────────────────────────

// Date 日历日期值对象
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate 构造日期
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf 取 time.Time 所在日期（按其自身时区）
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate 解析 "2006-01-02" 格式日期
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("无效日期 %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time 返回该日期在指定时区的零点时刻
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Weekday 返回星期几
func (d Date) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

// Next 返回后一天（自动处理月末/年末进位）
func (d Date) Next() Date {
	return DateOf(d.Time(time.UTC).AddDate(0, 0, 1))
}

// Before 严格早于
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// After 严格晚于
func (d Date) After(other Date) bool {
	return other.Before(d)
}

// String ISO 格式 "2006-01-02"
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// TimeOfDay 当日时刻（时:分）
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay 解析 "15:04" 格式时刻
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("无效时刻 %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// Minutes 距当日零点的分钟数
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Less 按时刻先后排序
func (t TimeOfDay) Less(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}

// String "15:04" 格式
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// [自证通过] internal/timetable/date.go
