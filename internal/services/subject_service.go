package services

import (
	"fmt"

	"schoolhub/internal/database"
	"schoolhub/internal/models"

	"gorm.io/gorm"
)

type SubjectService struct {
	db *gorm.DB
}

func NewSubjectService() *SubjectService {
	return &SubjectService{
		db: database.GetDB(),
	}
}

// Create 创建科目
func (s *SubjectService) Create(name, code, description string, credits, gradeLevel int) (*models.Subject, error) {
	var codeCount int64
	s.db.Model(&models.Subject{}).Where("code = ?", code).Count(&codeCount)
	if codeCount > 0 {
		return nil, fmt.Errorf("科目代码已存在")
	}

	if credits <= 0 {
		credits = 1
	}

	subject := &models.Subject{
		Name:        name,
		Code:        code,
		Description: description,
		Credits:     credits,
		GradeLevel:  gradeLevel,
	}

	err := s.db.Create(subject).Error
	return subject, err
}

// GetByID 根据ID获取科目
func (s *SubjectService) GetByID(id uint) (*models.Subject, error) {
	var subject models.Subject
	err := s.db.First(&subject, id).Error
	return &subject, err
}

// GetWithPage 分页获取科目
func (s *SubjectService) GetWithPage(gradeLevel int, keyword string, page, pageSize int) ([]*models.Subject, int64, error) {
	var subjects []*models.Subject
	var total int64

	query := s.db.Model(&models.Subject{})

	if gradeLevel > 0 {
		query = query.Where("grade_level = ? OR grade_level = 0", gradeLevel)
	}
	if keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("name LIKE ? OR code LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("code").Offset(offset).Limit(pageSize).Find(&subjects).Error
	if err != nil {
		return nil, 0, err
	}

	return subjects, total, nil
}

// Update 更新科目
func (s *SubjectService) Update(id uint, name, description string, credits, gradeLevel int) (*models.Subject, error) {
	subject, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	subject.Name = name
	subject.Description = description
	subject.Credits = credits
	subject.GradeLevel = gradeLevel

	err = s.db.Save(subject).Error
	return subject, err
}

// Delete 删除科目
func (s *SubjectService) Delete(id uint) error {
	var gradeCount int64
	s.db.Model(&models.Grade{}).Where("subject_id = ?", id).Count(&gradeCount)
	if gradeCount > 0 {
		return fmt.Errorf("该科目存在成绩记录，无法删除")
	}

	return s.db.Delete(&models.Subject{}, id).Error
}
