package services

import (
	"fmt"

	"schoolhub/internal/database"
	"schoolhub/internal/models"
	"schoolhub/pkg/cache"

	"gorm.io/gorm"
)

type ResourceService struct {
	db    *gorm.DB
	cache *cache.Manager
}

// ResourceRatingSummary 资源评分汇总
type ResourceRatingSummary struct {
	ResourceID  uint    `json:"resource_id"`
	Average     float64 `json:"average"`
	RatingCount int64   `json:"rating_count"`
}

func NewResourceService() *ResourceService {
	return &ResourceService{
		db:    database.GetDB(),
		cache: database.GetCacheManager(),
	}
}

// ========== 资源CRUD ==========

// Create 创建教学资源，uploadedBy为上传教师ID
func (s *ResourceService) Create(uploadedBy uint, title, description, fileURL, videoURL string, subjectID *uint, gradeLevel int, category, tags string) (*models.LearningResource, error) {
	if category == "" {
		category = models.ResourceCategoryOther
	}
	switch category {
	case models.ResourceCategoryLessonPlan, models.ResourceCategoryWorksheet,
		models.ResourceCategoryVideo, models.ResourceCategoryPresentation,
		models.ResourceCategoryOther:
	default:
		return nil, fmt.Errorf("资源分类不正确")
	}

	if subjectID != nil {
		var subjectCount int64
		s.db.Model(&models.Subject{}).Where("id = ?", *subjectID).Count(&subjectCount)
		if subjectCount == 0 {
			return nil, fmt.Errorf("科目不存在")
		}
	}

	resource := &models.LearningResource{
		Title:       title,
		Description: description,
		FileURL:     fileURL,
		VideoURL:    videoURL,
		SubjectID:   subjectID,
		GradeLevel:  gradeLevel,
		Category:    category,
		Tags:        tags,
		UploadedBy:  uploadedBy,
	}

	err := s.db.Create(resource).Error
	return resource, err
}

// GetByID 根据ID获取资源
func (s *ResourceService) GetByID(id uint) (*models.LearningResource, error) {
	var resource models.LearningResource
	err := s.db.Preload("Subject").Preload("Uploader").Preload("Uploader.User").First(&resource, id).Error
	return &resource, err
}

// GetWithFiltersAndPage 分页查询资源
func (s *ResourceService) GetWithFiltersAndPage(subjectID *uint, gradeLevel int, category, keyword string, page, pageSize int) ([]*models.LearningResource, int64, error) {
	var resources []*models.LearningResource
	var total int64

	query := s.db.Model(&models.LearningResource{})

	if subjectID != nil {
		query = query.Where("subject_id = ?", *subjectID)
	}
	if gradeLevel > 0 {
		query = query.Where("grade_level = ? OR grade_level = 0", gradeLevel)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("title LIKE ? OR tags LIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Subject").Preload("Uploader").
		Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&resources).Error
	if err != nil {
		return nil, 0, err
	}

	return resources, total, nil
}

// Update 更新资源信息
func (s *ResourceService) Update(id uint, title, description, fileURL, videoURL, category, tags string) (*models.LearningResource, error) {
	resource, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if title != "" {
		resource.Title = title
	}
	if description != "" {
		resource.Description = description
	}
	if fileURL != "" {
		resource.FileURL = fileURL
	}
	if videoURL != "" {
		resource.VideoURL = videoURL
	}
	if category != "" {
		switch category {
		case models.ResourceCategoryLessonPlan, models.ResourceCategoryWorksheet,
			models.ResourceCategoryVideo, models.ResourceCategoryPresentation,
			models.ResourceCategoryOther:
		default:
			return nil, fmt.Errorf("资源分类不正确")
		}
		resource.Category = category
	}
	if tags != "" {
		resource.Tags = tags
	}

	err = s.db.Save(resource).Error
	return resource, err
}

// Delete 删除资源及其评分评论
func (s *ResourceService) Delete(id uint) error {
	resource, err := s.GetByID(id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("resource_id = ?", id).Delete(&models.ResourceRating{}).Error; err != nil {
			return err
		}
		if err := tx.Where("resource_id = ?", id).Delete(&models.ResourceComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(resource).Error
	})
	if err != nil {
		return err
	}

	s.cache.Delete(fmt.Sprintf("resource:%d:rating", id))
	return nil
}

// IsUploader 判断用户是否是资源的上传者（按教师档案归属）
func (s *ResourceService) IsUploader(resourceID, userID uint) (bool, error) {
	resource, err := s.GetByID(resourceID)
	if err != nil {
		return false, err
	}

	var teacher models.Teacher
	if err := s.db.Where("user_id = ?", userID).First(&teacher).Error; err != nil {
		return false, nil
	}
	return teacher.ID == resource.UploadedBy, nil
}

// ========== 评分 ==========

// Rate 给资源评分，同一用户重复评分时覆盖
func (s *ResourceService) Rate(resourceID, userID uint, rating int) (*models.ResourceRating, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("评分必须在1-5之间")
	}

	if _, err := s.GetByID(resourceID); err != nil {
		return nil, err
	}

	var record models.ResourceRating
	err := s.db.Where("resource_id = ? AND user_id = ?", resourceID, userID).First(&record).Error
	if err == nil {
		record.Rating = rating
		err = s.db.Save(&record).Error
	} else if err == gorm.ErrRecordNotFound {
		record = models.ResourceRating{
			ResourceID: resourceID,
			UserID:     userID,
			Rating:     rating,
		}
		err = s.db.Create(&record).Error
	}
	if err != nil {
		return nil, err
	}

	s.cache.Delete(fmt.Sprintf("resource:%d:rating", resourceID))
	return &record, nil
}

// GetRatings 获取资源全部评分
func (s *ResourceService) GetRatings(resourceID uint) ([]*models.ResourceRating, error) {
	var ratings []*models.ResourceRating
	err := s.db.Preload("User").Where("resource_id = ?", resourceID).
		Order("created_at DESC").Find(&ratings).Error
	return ratings, err
}

// GetRatingSummary 获取资源评分汇总（带缓存）
func (s *ResourceService) GetRatingSummary(resourceID uint) (*ResourceRatingSummary, error) {
	cacheKey := fmt.Sprintf("resource:%d:rating", resourceID)

	var summary ResourceRatingSummary
	if s.cache.Get(cacheKey, &summary) {
		return &summary, nil
	}

	type row struct {
		Average float64
		Count   int64
	}
	var r row
	err := s.db.Model(&models.ResourceRating{}).
		Select("COALESCE(AVG(rating), 0) as average, COUNT(*) as count").
		Where("resource_id = ?", resourceID).Scan(&r).Error
	if err != nil {
		return nil, err
	}

	summary = ResourceRatingSummary{
		ResourceID:  resourceID,
		Average:     r.Average,
		RatingCount: r.Count,
	}

	s.cache.Set(cacheKey, &summary, 300)
	return &summary, nil
}

// ========== 评论 ==========

// AddComment 添加资源评论
func (s *ResourceService) AddComment(resourceID, userID uint, comment string) (*models.ResourceComment, error) {
	if _, err := s.GetByID(resourceID); err != nil {
		return nil, err
	}

	record := &models.ResourceComment{
		ResourceID: resourceID,
		UserID:     userID,
		Comment:    comment,
	}

	err := s.db.Create(record).Error
	return record, err
}

// GetComments 获取资源评论
func (s *ResourceService) GetComments(resourceID uint) ([]*models.ResourceComment, error) {
	var comments []*models.ResourceComment
	err := s.db.Preload("User").Where("resource_id = ?", resourceID).
		Order("created_at ASC").Find(&comments).Error
	return comments, err
}
