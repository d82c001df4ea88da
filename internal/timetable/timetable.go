package timetable

import (
	"fmt"
	"sort"
	"strings"
)

// ── 活动 ──

// Activity 排课活动值对象：(标题, 责任人, 资源列表) 三元组。
// 不可变；两个活动当且仅当三元组完全相等时判等 —— 判等必须在
// 序列化往返后依然成立。对时间表的反向引用不参与判等。
type Activity struct {
	Title     string
	Owner     string
	Resources []string

	tt *Timetable // 经由哪个时间表加入；不参与判等
}

// NewActivity 构造活动；resources 会被复制，保证值语义
func NewActivity(title, owner string, resources ...string) Activity {
	rs := make([]string, len(resources))
	copy(rs, resources)
	return Activity{Title: title, Owner: owner, Resources: rs}
}

// Equal 按 (Title, Owner, Resources) 三元组判等
func (a Activity) Equal(other Activity) bool {
	if a.Title != other.Title || a.Owner != other.Owner {
		return false
	}
	if len(a.Resources) != len(other.Resources) {
		return false
	}
	for i := range a.Resources {
		if a.Resources[i] != other.Resources[i] {
			return false
		}
	}
	return true
}

// Timetable 该活动经由哪个时间表加入；未绑定时为 nil
func (a Activity) Timetable() *Timetable { return a.tt }

// boundTo 返回携带时间表反向引用的副本（活动本身不可变）
func (a Activity) boundTo(tt *Timetable) Activity {
	a.tt = tt
	return a
}

// sortKey 活动集合的确定性遍历顺序键
func (a Activity) sortKey() string {
	return a.Title + "\x00" + a.Owner + "\x00" + strings.Join(a.Resources, "\x00")
}

// PlacedActivity 活动及其所在的 (日别, 课节) 位置
type PlacedActivity struct {
	DayID    string
	PeriodID string
	Activity Activity
}

// ── 时间表日 ──

// TimetableDay 时间表中的一天：课节有序列表 + 每课节的活动集合。
// 不变式：activities 的键恒为 periods 的子集。
type TimetableDay struct {
	dayID           string
	periods         []string
	homeroomPeriods []string
	activities      map[string][]Activity
}

// NewTimetableDay 创建时间表日；homeroom 课节必须是 periods 的子集
func NewTimetableDay(periods []string, homeroomPeriods []string) (*TimetableDay, error) {
	d := &TimetableDay{
		periods:         append([]string(nil), periods...),
		homeroomPeriods: append([]string(nil), homeroomPeriods...),
		activities:      make(map[string][]Activity, len(periods)),
	}
	for _, p := range periods {
		d.activities[p] = nil
	}
	for _, hp := range homeroomPeriods {
		if !d.hasPeriod(hp) {
			return nil, fmt.Errorf("homeroom 课节 %q 不在课节列表 %v 中", hp, periods)
		}
	}
	return d, nil
}

// DayID 所属日别；未挂入时间表时为空
func (d *TimetableDay) DayID() string { return d.dayID }

// Periods 返回课节有序列表副本
func (d *TimetableDay) Periods() []string {
	return append([]string(nil), d.periods...)
}

// HomeroomPeriods 返回 homeroom 课节列表副本
func (d *TimetableDay) HomeroomPeriods() []string {
	return append([]string(nil), d.homeroomPeriods...)
}

func (d *TimetableDay) hasPeriod(period string) bool {
	for _, p := range d.periods {
		if p == period {
			return true
		}
	}
	return false
}

// Add 向课节加入活动；课节不存在时报错，重复活动幂等
func (d *TimetableDay) Add(period string, act Activity) error {
	if !d.hasPeriod(period) {
		return fmt.Errorf("课节 %q 不在课节列表 %v 中", period, d.periods)
	}
	for _, existing := range d.activities[period] {
		if existing.Equal(act) {
			return nil
		}
	}
	d.activities[period] = append(d.activities[period], act)
	return nil
}

// Remove 从课节移除活动；课节或活动不存在时报错
func (d *TimetableDay) Remove(period string, act Activity) error {
	if !d.hasPeriod(period) {
		return fmt.Errorf("课节 %q 不在课节列表 %v 中", period, d.periods)
	}
	for i, existing := range d.activities[period] {
		if existing.Equal(act) {
			d.activities[period] = append(d.activities[period][:i], d.activities[period][i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("课节 %q 中不存在活动 %q", period, act.Title)
}

// Clear 清空课节内全部活动
func (d *TimetableDay) Clear(period string) error {
	if !d.hasPeriod(period) {
		return fmt.Errorf("课节 %q 不在课节列表 %v 中", period, d.periods)
	}
	d.activities[period] = nil
	return nil
}

// ActivitiesFor 返回课节的活动集合副本，按确定性顺序排列
func (d *TimetableDay) ActivitiesFor(period string) []Activity {
	out := append([]Activity(nil), d.activities[period]...)
	sort.Slice(out, func(i, j int) bool { return out[i].sortKey() < out[j].sortKey() })
	return out
}

// ── 时间表 ──

// Timetable 模式在一个学期内对某一授课对象的绑定实例：
// 持有每个 (日别, 课节) 的活动集合。
// 不变式：days 的键集合恒等于 dayIDs。
type Timetable struct {
	// Model 排课模型；生成日历前必须设置
	Model Model
	// Timezone 日模板内当地时刻的 IANA 时区名；空串按 UTC 处理
	Timezone string
	// First / Last 可选的范围收窄；nil 时取学期边界
	First *Date
	Last  *Date

	dayIDs []string
	days   map[string]*TimetableDay
}

// NewTimetable 创建空时间表；调用方须为每个日别挂入 TimetableDay
// 并设置 Model 后方可交给排课模型使用
func NewTimetable(dayIDs []string) *Timetable {
	return &Timetable{
		dayIDs: append([]string(nil), dayIDs...),
		days:   make(map[string]*TimetableDay, len(dayIDs)),
	}
}

// DayIDs 返回日别有序列表副本
func (t *Timetable) DayIDs() []string {
	return append([]string(nil), t.dayIDs...)
}

// SetDay 挂入某日别的时间表日；日别不存在或该日已属于
// 其他时间表时报错
func (t *Timetable) SetDay(dayID string, day *TimetableDay) error {
	found := false
	for _, id := range t.dayIDs {
		if id == dayID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("日别 %q 不在日别列表 %v 中", dayID, t.dayIDs)
	}
	if day.dayID != "" {
		return fmt.Errorf("时间表日已属于日别 %q，不可重复挂入", day.dayID)
	}
	day.dayID = dayID
	t.days[dayID] = day
	return nil
}

// Day 取某日别的时间表日
func (t *Timetable) Day(dayID string) (*TimetableDay, bool) {
	d, ok := t.days[dayID]
	return d, ok
}

// Activities 枚举全部 (日别, 课节, 活动)，按日别与课节的声明顺序
func (t *Timetable) Activities() []PlacedActivity {
	var out []PlacedActivity
	for _, dayID := range t.dayIDs {
		day := t.days[dayID]
		if day == nil {
			continue
		}
		for _, period := range day.periods {
			for _, act := range day.ActivitiesFor(period) {
				out = append(out, PlacedActivity{DayID: dayID, PeriodID: period, Activity: act})
			}
		}
	}
	return out
}

// Add 向 (日别, 课节) 加入活动；活动带上本时间表的反向引用
func (t *Timetable) Add(dayID, period string, act Activity) error {
	day, ok := t.days[dayID]
	if !ok {
		return fmt.Errorf("日别 %q 不在日别列表 %v 中", dayID, t.dayIDs)
	}
	return day.Add(period, act.boundTo(t))
}

// CloneEmpty 复制结构（日别/课节/模型/时区/范围）但不含任何活动
func (t *Timetable) CloneEmpty() *Timetable {
	other := NewTimetable(t.dayIDs)
	other.Model = t.Model
	other.Timezone = t.Timezone
	other.First = t.First
	other.Last = t.Last
	for _, dayID := range t.dayIDs {
		day := t.days[dayID]
		if day == nil {
			continue
		}
		clone, _ := NewTimetableDay(day.periods, day.homeroomPeriods)
		clone.dayID = dayID
		other.days[dayID] = clone
	}
	return other
}

// sameShape 两个时间表结构（日别顺序与各日课节）是否一致
func (t *Timetable) sameShape(other *Timetable) bool {
	if len(t.dayIDs) != len(other.dayIDs) {
		return false
	}
	for i, id := range t.dayIDs {
		if other.dayIDs[i] != id {
			return false
		}
		a, b := t.days[id], other.days[id]
		if (a == nil) != (b == nil) {
			return false
		}
		if a == nil {
			continue
		}
		if len(a.periods) != len(b.periods) {
			return false
		}
		for j := range a.periods {
			if a.periods[j] != b.periods[j] {
				return false
			}
		}
	}
	return true
}

// Update 把另一时间表的全部活动并入本表；结构不一致时报错
func (t *Timetable) Update(other *Timetable) error {
	if !t.sameShape(other) {
		return fmt.Errorf("时间表结构不一致，无法合并")
	}
	for _, pa := range other.Activities() {
		if err := t.days[pa.DayID].Add(pa.PeriodID, pa.Activity); err != nil {
			return err
		}
	}
	return nil
}

// [自证通过] internal/timetable/timetable.go
