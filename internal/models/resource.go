package models

// LearningResource 教学资源模型（教师上传，全员可浏览）
type LearningResource struct {
	BaseModel
	Title       string `json:"title" gorm:"not null;size:200"`
	Description string `json:"description" gorm:"type:text"`
	FileURL     string `json:"file_url" gorm:"size:500"`
	VideoURL    string `json:"video_url" gorm:"size:500"`
	SubjectID   *uint  `json:"subject_id" gorm:"index"`
	GradeLevel  int    `json:"grade_level" gorm:"default:0"` // 0表示不限年级
	Category    string `json:"category" gorm:"not null;size:30;default:'other'"` // lesson_plan, worksheet, video, presentation, other
	Tags        string `json:"tags" gorm:"size:255"`
	UploadedBy  uint   `json:"uploaded_by" gorm:"not null;index"` // 上传教师ID

	// 关联关系
	Subject  *Subject          `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	Uploader *Teacher          `json:"uploader,omitempty" gorm:"foreignKey:UploadedBy"`
	Ratings  []ResourceRating  `json:"ratings,omitempty" gorm:"foreignKey:ResourceID"`
	Comments []ResourceComment `json:"comments,omitempty" gorm:"foreignKey:ResourceID"`
}

// TableName 表名
func (r *LearningResource) TableName() string {
	return "learning_resources"
}

// ResourceRating 资源评分，每个用户对同一资源只保留一条
type ResourceRating struct {
	BaseModel
	ResourceID uint `json:"resource_id" gorm:"not null;uniqueIndex:idx_resource_rating_user"`
	UserID     uint `json:"user_id" gorm:"not null;uniqueIndex:idx_resource_rating_user"`
	Rating     int  `json:"rating" gorm:"not null"` // 1-5

	// 关联关系
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName 表名
func (r *ResourceRating) TableName() string {
	return "resource_ratings"
}

// ResourceComment 资源评论
type ResourceComment struct {
	BaseModel
	ResourceID uint   `json:"resource_id" gorm:"not null;index"`
	UserID     uint   `json:"user_id" gorm:"not null"`
	Comment    string `json:"comment" gorm:"type:text;not null"`

	// 关联关系
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName 表名
func (c *ResourceComment) TableName() string {
	return "resource_comments"
}

// 资源分类常量
const (
	ResourceCategoryLessonPlan   = "lesson_plan"
	ResourceCategoryWorksheet    = "worksheet"
	ResourceCategoryVideo        = "video"
	ResourceCategoryPresentation = "presentation"
	ResourceCategoryOther        = "other"
)
