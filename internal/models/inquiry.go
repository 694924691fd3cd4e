package models

import "time"

// Inquiry 咨询工单模型（对外咨询/求助入口，匿名用户也可提交）
type Inquiry struct {
	BaseModel
	TicketNumber string     `json:"ticket_number" gorm:"uniqueIndex;not null;size:30"`
	Name         string     `json:"name" gorm:"not null;size:100"`
	Email        string     `json:"email" gorm:"not null;size:100"`
	Subject      string     `json:"subject" gorm:"not null;size:200"`
	Message      string     `json:"message" gorm:"type:text;not null"`
	Department   string     `json:"department" gorm:"not null;size:30;default:'general'"` // general, admissions, academic, finance
	Priority     string     `json:"priority" gorm:"not null;size:20;default:'normal'"`    // low, normal, high, urgent
	Status       string     `json:"status" gorm:"not null;size:20;index;default:'open'"`  // open, in_progress, resolved, closed
	AssignedToID *uint      `json:"assigned_to_id" gorm:"index"`
	ResolvedAt   *time.Time `json:"resolved_at"`

	// 关联关系
	AssignedTo *User            `json:"assigned_to,omitempty" gorm:"foreignKey:AssignedToID"`
	Comments   []InquiryComment `json:"comments,omitempty" gorm:"foreignKey:InquiryID"`
}

// TableName 表名
func (i *Inquiry) TableName() string {
	return "inquiries"
}

// InquiryComment 工单评论，内部评论只对工作人员可见
type InquiryComment struct {
	BaseModel
	InquiryID  uint   `json:"inquiry_id" gorm:"not null;index"`
	UserID     uint   `json:"user_id" gorm:"not null"`
	Comment    string `json:"comment" gorm:"type:text;not null"`
	IsInternal bool   `json:"is_internal" gorm:"not null;default:false"`

	// 关联关系
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName 表名
func (c *InquiryComment) TableName() string {
	return "inquiry_comments"
}

// 工单状态常量
const (
	InquiryStatusOpen       = "open"
	InquiryStatusInProgress = "in_progress"
	InquiryStatusResolved   = "resolved"
	InquiryStatusClosed     = "closed"
)

// 工单部门常量
const (
	InquiryDeptGeneral    = "general"
	InquiryDeptAdmissions = "admissions"
	InquiryDeptAcademic   = "academic"
	InquiryDeptFinance    = "finance"
)

// 工单优先级常量
const (
	InquiryPriorityLow    = "low"
	InquiryPriorityNormal = "normal"
	InquiryPriorityHigh   = "high"
	InquiryPriorityUrgent = "urgent"
)
