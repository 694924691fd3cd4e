package models

import "time"

// Teacher 教师模型
type Teacher struct {
	BaseModel
	UserID         uint       `json:"user_id" gorm:"not null;uniqueIndex"`
	EmployeeNumber string     `json:"employee_number" gorm:"unique;not null;size:30;index"`
	Qualification  string     `json:"qualification" gorm:"size:100"`
	Specialization string     `json:"specialization" gorm:"size:100"`
	HireDate       *time.Time `json:"hire_date"`
	Status         string     `json:"status" gorm:"default:'active';size:20"`

	// 关联关系
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Subjects []Subject `json:"subjects,omitempty" gorm:"many2many:teacher_subjects;"`
}

// TableName 表名
func (t *Teacher) TableName() string {
	return "teachers"
}

// 教师状态常量
const (
	TeacherStatusActive   = "active"
	TeacherStatusOnLeave  = "on_leave"
	TeacherStatusResigned = "resigned"
)
