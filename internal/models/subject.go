package models

// Subject 科目模型
type Subject struct {
	BaseModel
	Name        string `json:"name" gorm:"not null;size:100"`
	Code        string `json:"code" gorm:"unique;not null;size:30;index"`
	Description string `json:"description" gorm:"size:255"`
	Credits     int    `json:"credits" gorm:"default:1"`
	GradeLevel  int    `json:"grade_level"` // 适用年级，0表示不限
}

// TableName 表名
func (s *Subject) TableName() string {
	return "subjects"
}
