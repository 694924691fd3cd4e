package models

import "time"

// Attendance 考勤记录模型
type Attendance struct {
	BaseModel
	StudentID  uint      `json:"student_id" gorm:"not null;index:idx_attendance_student_date"`
	ClassID    uint      `json:"class_id" gorm:"not null;index"`
	Date       time.Time `json:"date" gorm:"not null;index:idx_attendance_student_date"`
	Status     string    `json:"status" gorm:"not null;size:20"` // present, absent, late, excused
	Remark     string    `json:"remark" gorm:"size:255"`
	MarkedByID uint      `json:"marked_by_id" gorm:"not null"` // 记录考勤的教师

	// 关联关系
	Student  *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Class    *Class   `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	MarkedBy *Teacher `json:"marked_by,omitempty" gorm:"foreignKey:MarkedByID"`
}

// TableName 表名
func (a *Attendance) TableName() string {
	return "attendances"
}

// 考勤状态常量
const (
	AttendanceStatusPresent = "present"
	AttendanceStatusAbsent  = "absent"
	AttendanceStatusLate    = "late"
	AttendanceStatusExcused = "excused"
)
