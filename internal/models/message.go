package models

import (
	"time"

	"gorm.io/datatypes"
)

// Message 站内消息/通知模型
type Message struct {
	BaseModel
	MessageID  string         `json:"message_id" gorm:"not null;uniqueIndex;size:36"` // UUID
	SenderID   *uint          `json:"sender_id"`                                      // 为空表示系统消息
	ReceiverID uint           `json:"receiver_id" gorm:"not null;index"`
	Type       string         `json:"type" gorm:"not null;size:20"` // notice, grade, attendance, fee, system
	Title      string         `json:"title" gorm:"not null;size:200"`
	Content    string         `json:"content" gorm:"type:text"`
	Extra      datatypes.JSON `json:"extra" gorm:"type:jsonb"` // 附加数据，如成绩ID、考勤日期等
	IsRead     bool           `json:"is_read" gorm:"default:false;index"`
	ReadAt     *time.Time     `json:"read_at"`

	// 关联关系
	Sender   *User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Receiver *User `json:"receiver,omitempty" gorm:"foreignKey:ReceiverID"`
}

// TableName 表名
func (m *Message) TableName() string {
	return "messages"
}

// 消息类型常量
const (
	MessageTypeNotice     = "notice"
	MessageTypeGrade      = "grade"
	MessageTypeAttendance = "attendance"
	MessageTypeFee        = "fee"
	MessageTypeSystem     = "system"
)
