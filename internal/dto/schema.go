package dto

// ── 时间表模式模块 DTO ──

// SlotRequest 日模板时段
type SlotRequest struct {
	Start           string `json:"start"            binding:"required"` // "09:00"
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1,max=1440"`
}

// SchemaDayRequest 模式日定义；Periods 的顺序有意义
type SchemaDayRequest struct {
	DayID           string   `json:"day_id"           binding:"required,min=1,max=64"`
	Periods         []string `json:"periods"          binding:"required,min=1"`
	HomeroomPeriods []string `json:"homeroom_periods"`
}

// TemplateRequest 日模板定义。kind 决定键字段：
// weekday 需要 weekday（周一=0 … 周日=6），day_id 需要 day_ref，
// exception 需要 date，default 无键。
type TemplateRequest struct {
	Kind    string        `json:"kind"    binding:"required,oneof=default weekday day_id exception"`
	Weekday *int          `json:"weekday" binding:"omitempty,min=0,max=6"`
	DayRef  *string       `json:"day_ref"`
	Date    *string       `json:"date"` // "2010-09-07"
	Slots   []SlotRequest `json:"slots"  binding:"required"`
}

// CreateSchemaRequest 创建时间表模式请求（模式整棵一次提交）
type CreateSchemaRequest struct {
	Title     string             `json:"title"      binding:"required,min=2,max=100"`
	ModelKind string             `json:"model_kind" binding:"required,oneof=sequential_days sequential_day_id weekly"`
	Timezone  string             `json:"timezone"`
	Days      []SchemaDayRequest `json:"days"       binding:"required,min=1,dive"`
	Templates []TemplateRequest  `json:"templates"  binding:"required,min=1,dive"`
}

// SetExceptionDayRequest 设置例外日模板（整套覆盖某日期）
type SetExceptionDayRequest struct {
	Date  string        `json:"date"  binding:"required"`
	Slots []SlotRequest `json:"slots" binding:"required"`
}

// SetExceptionDayIDRequest 设置例外日别
type SetExceptionDayIDRequest struct {
	Date  string `json:"date"   binding:"required"`
	DayID string `json:"day_id" binding:"required,min=1,max=64"`
}

// SlotResponse 日模板时段响应
type SlotResponse struct {
	Start           string `json:"start"`
	DurationMinutes int    `json:"duration_minutes"`
}

// SchemaDayResponse 模式日响应
type SchemaDayResponse struct {
	DayID           string   `json:"day_id"`
	Periods         []string `json:"periods"`
	HomeroomPeriods []string `json:"homeroom_periods,omitempty"`
}

// TemplateResponse 日模板响应
type TemplateResponse struct {
	Kind    string         `json:"kind"`
	Weekday *int           `json:"weekday,omitempty"`
	DayRef  *string        `json:"day_ref,omitempty"`
	Date    *string        `json:"date,omitempty"`
	Slots   []SlotResponse `json:"slots"`
}

// ExceptionDayIDResponse 例外日别响应
type ExceptionDayIDResponse struct {
	Date  string `json:"date"`
	DayID string `json:"day_id"`
}

// SchemaResponse 时间表模式响应
type SchemaResponse struct {
	ID              string                   `json:"id"`
	Title           string                   `json:"title"`
	ModelKind       string                   `json:"model_kind"`
	Timezone        string                   `json:"timezone"`
	DayIDs          []string                 `json:"day_ids"`
	Days            []SchemaDayResponse      `json:"days,omitempty"`
	Templates       []TemplateResponse       `json:"templates,omitempty"`
	ExceptionDayIDs []ExceptionDayIDResponse `json:"exception_day_ids,omitempty"`
	CreatedAt       string                   `json:"created_at"`
}

// [自证通过] internal/dto/schema.go
