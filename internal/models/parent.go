package models

// Parent 家长模型
type Parent struct {
	BaseModel
	UserID     uint   `json:"user_id" gorm:"not null;uniqueIndex"`
	Occupation string `json:"occupation" gorm:"size:100"`
	WorkPhone  string `json:"work_phone" gorm:"size:20"`
	Address    string `json:"address" gorm:"size:255"`

	// 关联关系
	User     *User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Students []ParentStudent `json:"students,omitempty" gorm:"foreignKey:ParentID"`
}

// TableName 表名
func (p *Parent) TableName() string {
	return "parents"
}

// ParentStudent 家长与学生关联模型
type ParentStudent struct {
	BaseModel
	ParentID     uint   `json:"parent_id" gorm:"not null;uniqueIndex:idx_parent_student"`
	StudentID    uint   `json:"student_id" gorm:"not null;uniqueIndex:idx_parent_student"`
	Relationship string `json:"relationship" gorm:"size:20"` // father, mother, guardian
	IsPrimary    bool   `json:"is_primary" gorm:"default:false"`

	// 关联关系
	Parent  *Parent  `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// TableName 表名
func (ps *ParentStudent) TableName() string {
	return "parent_students"
}

// 家长关系常量
const (
	RelationshipFather   = "father"
	RelationshipMother   = "mother"
	RelationshipGuardian = "guardian"
)
