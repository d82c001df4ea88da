package timetable

import (
	"fmt"
	"time"
)

// Term 学期协作方契约：提供日期范围与每日"是否上课日"标记。
// 排课模型只消费此接口，不关心数据来源（数据库、测试桩均可）。
type Term interface {
	// First 学期首日
	First() Date
	// Last 学期末日（含）
	Last() Date
	// IsSchoolday 给定日期是否为上课日；范围外恒为 false
	IsSchoolday(date Date) bool
}

// TermCalendar 学期日历：连续日期区间 + 显式上课日集合。
// 每一天可独立标记为上课日或假日。
type TermCalendar struct {
	first      Date
	last       Date
	schooldays map[Date]struct{}
}

// NewTermCalendar 创建学期日历，初始所有日期均为假日
func NewTermCalendar(first, last Date) (*TermCalendar, error) {
	if last.Before(first) {
		return nil, fmt.Errorf("学期末日 %s 早于首日 %s", last, first)
	}
	return &TermCalendar{
		first:      first,
		last:       last,
		schooldays: make(map[Date]struct{}),
	}, nil
}

// First 学期首日
func (t *TermCalendar) First() Date { return t.first }

// Last 学期末日
func (t *TermCalendar) Last() Date { return t.last }

// IsSchoolday 是否上课日；范围外返回 false
func (t *TermCalendar) IsSchoolday(date Date) bool {
	_, ok := t.schooldays[date]
	return ok
}

// Contains 日期是否落在学期范围内
func (t *TermCalendar) Contains(date Date) bool {
	return !date.Before(t.first) && !date.After(t.last)
}

// Dates 按升序返回学期内全部日期
func (t *TermCalendar) Dates() []Date {
	var out []Date
	for d := t.first; !d.After(t.last); d = d.Next() {
		out = append(out, d)
	}
	return out
}

// Add 将日期标记为上课日；范围外报错
func (t *TermCalendar) Add(date Date) error {
	if !t.Contains(date) {
		return fmt.Errorf("日期 %s 不在学期 [%s, %s] 内", date, t.first, t.last)
	}
	t.schooldays[date] = struct{}{}
	return nil
}

// Remove 将日期标记为假日；范围外报错
func (t *TermCalendar) Remove(date Date) error {
	if !t.Contains(date) {
		return fmt.Errorf("日期 %s 不在学期 [%s, %s] 内", date, t.first, t.last)
	}
	delete(t.schooldays, date)
	return nil
}

// AddWeekdays 将范围内指定星期几的所有日期标记为上课日
func (t *TermCalendar) AddWeekdays(weekdays ...time.Weekday) {
	t.eachWeekday(weekdays, func(d Date) { t.schooldays[d] = struct{}{} })
}

// RemoveWeekdays 将范围内指定星期几的所有日期标记为假日
func (t *TermCalendar) RemoveWeekdays(weekdays ...time.Weekday) {
	t.eachWeekday(weekdays, func(d Date) { delete(t.schooldays, d) })
}

// ToggleWeekdays 反转范围内指定星期几所有日期的上课日标记
func (t *TermCalendar) ToggleWeekdays(weekdays ...time.Weekday) {
	t.eachWeekday(weekdays, func(d Date) {
		if _, ok := t.schooldays[d]; ok {
			delete(t.schooldays, d)
		} else {
			t.schooldays[d] = struct{}{}
		}
	})
}

// Reset 重设日期范围并清空全部上课日标记
func (t *TermCalendar) Reset(first, last Date) error {
	if last.Before(first) {
		return fmt.Errorf("学期末日 %s 早于首日 %s", last, first)
	}
	t.first = first
	t.last = last
	t.schooldays = make(map[Date]struct{})
	return nil
}

func (t *TermCalendar) eachWeekday(weekdays []time.Weekday, fn func(Date)) {
	set := make(map[time.Weekday]struct{}, len(weekdays))
	for _, w := range weekdays {
		set[w] = struct{}{}
	}
	for d := t.first; !d.After(t.last); d = d.Next() {
		if _, ok := set[d.Weekday()]; ok {
			fn(d)
		}
	}
}

// [自证通过] internal/timetable/term.go
