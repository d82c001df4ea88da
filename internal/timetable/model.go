// Package timetable 实现排课引擎的核心：抽象"时间表日"序列与具体
// 日历日期之间的映射。
//
// 排课模型描述两层映射：日别 → 日历日期，以及课节 → 当日时刻。
// 共有三种模型：
//
//   - 顺序日模型（SequentialDays）：日别沿学期上课日依次循环，
//     假日被跳过且不消耗循环位置。例如 7 月 3 日是 Day 3、
//     7 月 4 日放假，则 7 月 5 日就是 Day 4。日模板按星期几索引。
//   - 顺序日别模板模型（SequentialDayID）：循环规则同上，
//     但日模板按日别而非星期几索引。
//   - 周模型（Weekly）：日别由星期几直接决定，周一恒为第 1 个
//     日别。未配置的星期（如周末）没有日别。
//
// 三种模型都支持两类例外：exceptionDays 以整套日模板覆盖某个具体
// 日期；exceptionDayIDs 强制某个具体日期使用指定日别 —— 对顺序
// 模型而言覆盖日仍会消耗一个循环位置，保证后续日期的循环偏移不变。
package timetable

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"time"
)

// 模型类别标识（持久层与 API 以此区分模型变体）
const (
	KindSequentialDays  = "sequential_days"
	KindSequentialDayID = "sequential_day_id"
	KindWeekly          = "weekly"
)

// AnyWeekday 按星期索引的日模板映射中的回退键：
// 未单独配置的星期统一使用该模板
const AnyWeekday = -1

// Period 解析后的课节：课节名 + 当日起始时刻 + 时长
type Period struct {
	ID       string
	Start    TimeOfDay
	Duration time.Duration
}

// Model 排课模型接口。模型自身不引用任何时间表，是可复用的纯逻辑，
// 学期与时间表在每次调用时传入；配置完成后应视为不可变，
// 可被多个调用方并发使用（循环游标是调用内部的局部状态）。
type Model interface {
	// Kind 模型类别标识
	Kind() string
	// DayIDs 日别有序列表
	DayIDs() []string
	// GetDayID 解析某日期的日别；非上课日返回 ok=false（正常结果而非错误）
	GetDayID(term Term, date Date) (string, bool)
	// DayAssignments 一次 O(学期长度) 扫描得到全部 日期→日别 映射，
	// 供需要反复查询的调用方缓存使用
	DayAssignments(term Term) map[Date]string
	// PeriodsInDay 解析某日期的课节及其时刻，按起始时刻排序
	PeriodsInDay(term Term, tt *Timetable, date Date) []Period
	// OriginalPeriodsInDay 同 PeriodsInDay，但无视例外日模板
	OriginalPeriodsInDay(term Term, tt *Timetable, date Date) []Period
	// CreateCalendar 为时间表生成只读日历；first/last 可进一步收窄范围
	CreateCalendar(term Term, tt *Timetable, first, last *Date) (*Calendar, error)
	// SetExceptionDay 以整套日模板覆盖某个具体日期
	SetExceptionDay(date Date, tpl *SchooldayTemplate)
	// SetExceptionDayID 强制某个具体日期使用指定日别
	SetExceptionDayID(date Date, dayID string)
}

// ── 模型公共骨架 ──

// dayStrategy 各模型变体需要提供的两个能力：
// 为日期指派日别，以及取该日期的"常规"日模板（不含例外日覆盖）
type dayStrategy interface {
	usesCursor() bool
	assignDayID(date Date, cur *cycleCursor) (string, bool)
	usualTemplate(date Date, dayID string) *SchooldayTemplate
}

// cycleCursor 顺序模型的循环位置。始终是单次调用的局部变量，
// 不挂在模型对象上 —— 这使同一模型实例可被并发使用
type cycleCursor struct {
	pos int
}

type modelBase struct {
	strategy        dayStrategy
	dayIDs          []string
	exceptionDays   map[Date]*SchooldayTemplate
	exceptionDayIDs map[Date]string
}

func (b *modelBase) init(dayIDs []string) {
	b.dayIDs = append([]string(nil), dayIDs...)
	b.exceptionDays = make(map[Date]*SchooldayTemplate)
	b.exceptionDayIDs = make(map[Date]string)
}

// DayIDs 日别有序列表副本
func (b *modelBase) DayIDs() []string {
	return append([]string(nil), b.dayIDs...)
}

// SetExceptionDay 以整套日模板覆盖某个具体日期
func (b *modelBase) SetExceptionDay(date Date, tpl *SchooldayTemplate) {
	b.exceptionDays[date] = tpl
}

// SetExceptionDayID 强制某个具体日期使用指定日别
func (b *modelBase) SetExceptionDayID(date Date, dayID string) {
	b.exceptionDayIDs[date] = dayID
}

// advance 取循环当前日别并前进一格
func (b *modelBase) advance(cur *cycleCursor) string {
	id := b.dayIDs[cur.pos%len(b.dayIDs)]
	cur.pos++
	return id
}

// sequentialAssign 顺序模型共用的日别指派：
// 例外日别直接返回覆盖值，但仍消耗一个循环位置，
// 保证后续上课日的循环偏移与无覆盖时一致
func (b *modelBase) sequentialAssign(date Date, cur *cycleCursor) (string, bool) {
	if id, ok := b.exceptionDayIDs[date]; ok {
		b.advance(cur)
		return id, true
	}
	return b.advance(cur), true
}

// getDayID 解析某日期的日别。概念上扫描始终从学期首日开始：
// cur 为 nil 时先把游标推进到 date 之前（非上课日不消耗位置）
func (b *modelBase) getDayID(term Term, date Date, cur *cycleCursor) (string, bool) {
	if cur == nil && b.strategy.usesCursor() {
		cur = &cycleCursor{}
		for d := term.First(); d.Before(date) && !d.After(term.Last()); d = d.Next() {
			if term.IsSchoolday(d) {
				b.strategy.assignDayID(d, cur)
			}
		}
	}
	if !term.IsSchoolday(date) {
		return "", false
	}
	return b.strategy.assignDayID(date, cur)
}

// GetDayID 解析某日期的日别；非上课日返回 ok=false
func (b *modelBase) GetDayID(term Term, date Date) (string, bool) {
	return b.getDayID(term, date, nil)
}

// DayAssignments 单次扫描得到全部 日期→日别 映射
func (b *modelBase) DayAssignments(term Term) map[Date]string {
	out := make(map[Date]string)
	var cur *cycleCursor
	if b.strategy.usesCursor() {
		cur = &cycleCursor{}
	}
	for d := term.First(); !d.After(term.Last()); d = d.Next() {
		if !term.IsSchoolday(d) {
			continue
		}
		if id, ok := b.strategy.assignDayID(d, cur); ok {
			out[d] = id
		}
	}
	return out
}

// periodsInDay 解析日别与课节列表。
//
// 课节时刻的解析规则（顺序敏感，不可"修正"为按名字匹配）：
// 模式日的课节有序列表与所选日模板的排序时段按位置逐一配对 ——
// 模板是匿名的时段序列，课节身份完全来自模式。例外日模板整套
// 替换常规模板，时段数少于课节数时多余课节被丢弃。
func (b *modelBase) periodsInDay(term Term, tt *Timetable, date Date, cur *cycleCursor, original bool) (string, []Period) {
	dayID, ok := b.getDayID(term, date, cur)
	if !ok {
		return "", nil
	}
	day, ok := tt.Day(dayID)
	if !ok {
		return dayID, nil
	}

	tpl := b.strategy.usualTemplate(date, dayID)
	if !original {
		if ex, exOK := b.exceptionDays[date]; exOK {
			tpl = ex
		}
	}
	if tpl == nil {
		return dayID, nil
	}

	slots := tpl.Slots()
	periods := day.Periods()
	n := len(periods)
	if len(slots) < n {
		n = len(slots)
	}
	out := make([]Period, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Period{ID: periods[i], Start: slots[i].Start, Duration: slots[i].Duration})
	}
	// 稳定排序：两课节起始时刻相同时保持配对顺序
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Minutes() < out[j].Start.Minutes()
	})
	return dayID, out
}

// PeriodsInDay 解析某日期的课节及其时刻
func (b *modelBase) PeriodsInDay(term Term, tt *Timetable, date Date) []Period {
	_, periods := b.periodsInDay(term, tt, date, nil, false)
	return periods
}

// OriginalPeriodsInDay 同 PeriodsInDay，但无视例外日模板
func (b *modelBase) OriginalPeriodsInDay(term Term, tt *Timetable, date Date) []Period {
	_, periods := b.periodsInDay(term, tt, date, nil, true)
	return periods
}

// CreateCalendar 为时间表生成只读日历。
//
// 为保证循环游标正确，全学期日期严格升序扫描一遍；
// 仅对落在 [first/时间表首日/学期首日, last/时间表末日/学期末日]
// 交集内的日期产出事件，范围外的上课日仍推进游标。
// 相同输入的两次调用产出完全相同的事件序列与事件 ID。
func (b *modelBase) CreateCalendar(term Term, tt *Timetable, first, last *Date) (*Calendar, error) {
	tz := tt.Timezone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("无效时区 %q: %w", tz, err)
	}

	lo, hi := term.First(), term.Last()
	if tt.First != nil {
		lo = *tt.First
	}
	if tt.Last != nil {
		hi = *tt.Last
	}
	if first != nil {
		lo = *first
	}
	if last != nil {
		hi = *last
	}

	var cur *cycleCursor
	if b.strategy.usesCursor() {
		cur = &cycleCursor{}
	}

	var events []CalendarEvent
	for d := term.First(); !d.After(term.Last()); d = d.Next() {
		if d.Before(lo) || d.After(hi) {
			// 范围外仍须推进游标，保持循环偏移一致
			if cur != nil && term.IsSchoolday(d) {
				b.strategy.assignDayID(d, cur)
			}
			continue
		}
		dayID, periods := b.periodsInDay(term, tt, d, cur, false)
		if len(periods) == 0 {
			continue
		}
		day, _ := tt.Day(dayID)
		for _, p := range periods {
			for _, act := range day.ActivitiesFor(p.ID) {
				start := time.Date(d.Year, d.Month, d.Day, p.Start.Hour, p.Start.Minute, 0, 0, loc).UTC()
				events = append(events, CalendarEvent{
					UniqueID: eventUID(act.Title, start, p.Duration),
					Start:    start,
					Duration: p.Duration,
					Title:    act.Title,
					DayID:    dayID,
					PeriodID: p.ID,
					Activity: act,
				})
			}
		}
	}
	return newCalendar(events), nil
}

// eventUID 由 (活动标题, UTC 起始时刻, 时长) 派生的内容稳定事件 ID。
// 派生日历的 ID 必须是函数式的而非随机的 —— 相同输入反复生成
// 必须得到逐字节相同的 ID，下游的差量同步依赖这一点
func eventUID(title string, start time.Time, duration time.Duration) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", title, start.UTC().Format(time.RFC3339), int64(duration/time.Second))))
	return hex.EncodeToString(sum[:16])
}

// ── 顺序日模型（日模板按星期几索引） ──

// SequentialDaysModel 顺序日模型：日别沿学期上课日依次循环，
// 假日被跳过且不消耗循环位置；日模板按星期几索引
type SequentialDaysModel struct {
	modelBase
	templates weekdayTemplates
}

// NewSequentialDaysModel 创建顺序日模型。
// templates 以星期索引（周一=0 … 周日=6），AnyWeekday 为回退键；
// 七个星期未配齐且无回退模板时立即报错（配置错误必须尽早暴露，
// 而不是拖到生成日历时）
func NewSequentialDaysModel(dayIDs []string, templates map[int]*SchooldayTemplate) (*SequentialDaysModel, error) {
	if len(dayIDs) == 0 {
		return nil, errors.New("顺序日模型的日别列表不能为空")
	}
	wt := weekdayTemplates(templates)
	if err := wt.validate(); err != nil {
		return nil, err
	}
	m := &SequentialDaysModel{templates: wt}
	m.init(dayIDs)
	m.strategy = m
	return m, nil
}

// Kind 模型类别标识
func (m *SequentialDaysModel) Kind() string { return KindSequentialDays }

func (m *SequentialDaysModel) usesCursor() bool { return true }

func (m *SequentialDaysModel) assignDayID(date Date, cur *cycleCursor) (string, bool) {
	return m.sequentialAssign(date, cur)
}

func (m *SequentialDaysModel) usualTemplate(date Date, _ string) *SchooldayTemplate {
	return m.templates.forDate(date)
}

// ── 顺序日别模板模型（日模板按日别索引） ──

// SequentialDayIDModel 循环规则与 SequentialDaysModel 相同，
// 但日模板按日别而非星期几索引
type SequentialDayIDModel struct {
	modelBase
	templates map[string]*SchooldayTemplate
}

// NewSequentialDayIDModel 创建顺序日别模板模型。
// 每个日别都必须有对应模板，缺失立即报错
func NewSequentialDayIDModel(dayIDs []string, templates map[string]*SchooldayTemplate) (*SequentialDayIDModel, error) {
	if len(dayIDs) == 0 {
		return nil, errors.New("顺序日别模板模型的日别列表不能为空")
	}
	for _, id := range dayIDs {
		if templates[id] == nil {
			return nil, fmt.Errorf("日别 %q 缺少日模板", id)
		}
	}
	m := &SequentialDayIDModel{templates: templates}
	m.init(dayIDs)
	m.strategy = m
	return m, nil
}

// Kind 模型类别标识
func (m *SequentialDayIDModel) Kind() string { return KindSequentialDayID }

func (m *SequentialDayIDModel) usesCursor() bool { return true }

func (m *SequentialDayIDModel) assignDayID(date Date, cur *cycleCursor) (string, bool) {
	return m.sequentialAssign(date, cur)
}

func (m *SequentialDayIDModel) usualTemplate(_ Date, dayID string) *SchooldayTemplate {
	// 例外日别可能指向未配置模板的日别，调用方按"无课节"处理
	return m.templates[dayID]
}

// ── 周模型 ──

// defaultWeeklyDayIDs 周模型缺省日别：周一至周五
var defaultWeeklyDayIDs = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// WeeklyModel 周模型：日别由星期几直接决定，无循环游标。
// 日别列表第 i 项对应星期 i（周一=0）；未覆盖的星期没有日别
type WeeklyModel struct {
	modelBase
	templates weekdayTemplates
}

// NewWeeklyModel 创建周模型；dayIDs 为 nil 时使用周一至周五缺省日别
func NewWeeklyModel(dayIDs []string, templates map[int]*SchooldayTemplate) (*WeeklyModel, error) {
	if dayIDs == nil {
		dayIDs = defaultWeeklyDayIDs
	}
	wt := weekdayTemplates(templates)
	if err := wt.validate(); err != nil {
		return nil, err
	}
	m := &WeeklyModel{templates: wt}
	m.init(dayIDs)
	m.strategy = m
	return m, nil
}

// Kind 模型类别标识
func (m *WeeklyModel) Kind() string { return KindWeekly }

func (m *WeeklyModel) usesCursor() bool { return false }

func (m *WeeklyModel) assignDayID(date Date, _ *cycleCursor) (string, bool) {
	if id, ok := m.exceptionDayIDs[date]; ok {
		return id, true
	}
	wd := mondayIndex(date.Weekday())
	if wd >= len(m.dayIDs) {
		return "", false
	}
	return m.dayIDs[wd], true
}

func (m *WeeklyModel) usualTemplate(date Date, _ string) *SchooldayTemplate {
	return m.templates.forDate(date)
}

// ── 按星期索引的日模板映射 ──

type weekdayTemplates map[int]*SchooldayTemplate

// validate 校验：要么配齐周一至周日七个模板，要么提供 AnyWeekday 回退
func (w weekdayTemplates) validate() error {
	if w[AnyWeekday] != nil {
		return nil
	}
	for wd := 0; wd < 7; wd++ {
		if w[wd] == nil {
			return fmt.Errorf("缺少星期 %d 的日模板，且无默认回退模板", wd)
		}
	}
	return nil
}

// forDate 取某日期的常规模板，未配置时回退到 AnyWeekday 模板
func (w weekdayTemplates) forDate(date Date) *SchooldayTemplate {
	if tpl := w[mondayIndex(date.Weekday())]; tpl != nil {
		return tpl
	}
	return w[AnyWeekday]
}

// mondayIndex 把 time.Weekday（周日=0）换算为周一=0 … 周日=6
func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// [自证通过] internal/timetable/model.go
