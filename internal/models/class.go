package models

// Class 班级模型
type Class struct {
	BaseModel
	Name          string `json:"name" gorm:"not null;size:100"`
	Code          string `json:"code" gorm:"unique;not null;size:30;index"`
	GradeLevel    int    `json:"grade_level" gorm:"not null"`          // 年级
	AcademicYear  string `json:"academic_year" gorm:"not null;size:20"` // 学年，如 "2026-2027"
	HeadTeacherID *uint  `json:"head_teacher_id" gorm:"index"`          // 班主任
	Capacity      int    `json:"capacity" gorm:"default:40"`
	Room          string `json:"room" gorm:"size:50"`
	Status        string `json:"status" gorm:"default:'active';size:20"`

	// 关联关系
	HeadTeacher *Teacher  `json:"head_teacher,omitempty" gorm:"foreignKey:HeadTeacherID"`
	Students    []Student `json:"students,omitempty" gorm:"foreignKey:ClassID"`
	Subjects    []Subject `json:"subjects,omitempty" gorm:"many2many:class_subjects;"`
}

// TableName 表名
func (c *Class) TableName() string {
	return "classes"
}

// 班级状态常量
const (
	ClassStatusActive   = "active"
	ClassStatusArchived = "archived"
)
