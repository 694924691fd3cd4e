package models

import "time"

// Grade 成绩模型
type Grade struct {
	BaseModel
	StudentID  uint       `json:"student_id" gorm:"not null;index"`
	SubjectID  uint       `json:"subject_id" gorm:"not null;index"`
	ClassID    uint       `json:"class_id" gorm:"not null;index"`
	TeacherID  uint       `json:"teacher_id" gorm:"not null;index"` // 录入成绩的教师
	Term       string     `json:"term" gorm:"not null;size:20"`     // 学期，如 "2026-2027-1"
	ExamType   string     `json:"exam_type" gorm:"not null;size:30"` // 考试类型
	Score      float64    `json:"score" gorm:"not null"`
	MaxScore   float64    `json:"max_score" gorm:"default:100"`
	Comment    string     `json:"comment" gorm:"size:255"`
	GradedAt   *time.Time `json:"graded_at"`

	// 关联关系
	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Subject *Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	Class   *Class   `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	Teacher *Teacher `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
}

// TableName 表名
func (g *Grade) TableName() string {
	return "grades"
}

// 考试类型常量
const (
	ExamTypeQuiz    = "quiz"
	ExamTypeMidterm = "midterm"
	ExamTypeFinal   = "final"
	ExamTypeHomework = "homework"
)
