package models

import "time"

// FeeRecord 缴费记录模型
type FeeRecord struct {
	BaseModel
	StudentID    uint       `json:"student_id" gorm:"not null;index"`
	FeeType      string     `json:"fee_type" gorm:"not null;size:30"` // tuition, activity, material, other
	Amount       float64    `json:"amount" gorm:"not null"`
	AcademicYear string     `json:"academic_year" gorm:"not null;size:20"` // 如 2025-2026
	Term         string     `json:"term" gorm:"not null;size:20"`
	Status       string     `json:"status" gorm:"not null;size:20;default:'pending'"` // pending, paid, overdue, waived
	DueDate      time.Time  `json:"due_date"`
	PaidAt       *time.Time `json:"paid_at"`
	Remark       string     `json:"remark" gorm:"size:255"`

	// 关联关系
	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// TableName 表名
func (f *FeeRecord) TableName() string {
	return "fee_records"
}

// 费用类型常量
const (
	FeeTypeTuition  = "tuition"
	FeeTypeActivity = "activity"
	FeeTypeMaterial = "material"
	FeeTypeOther    = "other"
)

// 缴费状态常量
const (
	FeeStatusPending = "pending"
	FeeStatusPaid    = "paid"
	FeeStatusOverdue = "overdue"
	FeeStatusWaived  = "waived"
)
