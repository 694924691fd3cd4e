package models

import "time"

// Student 学生模型
type Student struct {
	BaseModel
	UserID         uint       `json:"user_id" gorm:"not null;uniqueIndex"`
	StudentNumber  string     `json:"student_number" gorm:"unique;not null;size:30;index"`
	ClassID        *uint      `json:"class_id" gorm:"index"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	Gender         string     `json:"gender" gorm:"size:10"`
	Address        string     `json:"address" gorm:"size:255"`
	EnrollmentDate *time.Time `json:"enrollment_date"`
	Status         string     `json:"status" gorm:"default:'enrolled';size:20"`

	// 关联关系
	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Class *Class `json:"class,omitempty" gorm:"foreignKey:ClassID"`
}

// TableName 表名
func (s *Student) TableName() string {
	return "students"
}

// 学生状态常量
const (
	StudentStatusEnrolled  = "enrolled"
	StudentStatusSuspended = "suspended"
	StudentStatusGraduated = "graduated"
	StudentStatusWithdrawn = "withdrawn"
)
