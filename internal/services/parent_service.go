package services

import (
	"fmt"

	"schoolhub/internal/database"
	"schoolhub/internal/models"

	"gorm.io/gorm"
)

type ParentService struct {
	db *gorm.DB
}

func NewParentService() *ParentService {
	return &ParentService{
		db: database.GetDB(),
	}
}

// ========== 基础CRUD方法 ==========

// Create 创建家长档案
func (s *ParentService) Create(userID uint, occupation, workPhone, address string) (*models.Parent, error) {
	var userCount int64
	s.db.Model(&models.User{}).Where("id = ?", userID).Count(&userCount)
	if userCount == 0 {
		return nil, fmt.Errorf("用户不存在")
	}

	var existCount int64
	s.db.Model(&models.Parent{}).Where("user_id = ?", userID).Count(&existCount)
	if existCount > 0 {
		return nil, fmt.Errorf("该用户已有家长档案")
	}

	parent := &models.Parent{
		UserID:     userID,
		Occupation: occupation,
		WorkPhone:  workPhone,
		Address:    address,
	}

	err := s.db.Create(parent).Error
	return parent, err
}

// GetByID 根据ID获取家长（附带关联学生）
func (s *ParentService) GetByID(id uint) (*models.Parent, error) {
	var parent models.Parent
	err := s.db.Preload("User").Preload("Students").Preload("Students.Student").
		Preload("Students.Student.User").First(&parent, id).Error
	return &parent, err
}

// GetByUserID 根据用户ID获取家长档案
func (s *ParentService) GetByUserID(userID uint) (*models.Parent, error) {
	var parent models.Parent
	err := s.db.Preload("Students").Preload("Students.Student").
		Where("user_id = ?", userID).First(&parent).Error
	return &parent, err
}

// Update 更新家长档案
func (s *ParentService) Update(id uint, occupation, workPhone, address string) (*models.Parent, error) {
	parent, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	parent.Occupation = occupation
	parent.WorkPhone = workPhone
	parent.Address = address

	err = s.db.Save(parent).Error
	return parent, err
}

// Delete 删除家长档案（连带解除学生关联）
func (s *ParentService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id = ?", id).Delete(&models.ParentStudent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Parent{}, id).Error
	})
}

// ========== 家长学生关联 ==========

// LinkStudent 关联家长与学生
func (s *ParentService) LinkStudent(parentID, studentID uint, relationship string, isPrimary bool) (*models.ParentStudent, error) {
	switch relationship {
	case models.RelationshipFather, models.RelationshipMother, models.RelationshipGuardian:
	default:
		return nil, fmt.Errorf("家长关系不正确")
	}

	var parentCount int64
	s.db.Model(&models.Parent{}).Where("id = ?", parentID).Count(&parentCount)
	if parentCount == 0 {
		return nil, fmt.Errorf("家长不存在")
	}

	var studentCount int64
	s.db.Model(&models.Student{}).Where("id = ?", studentID).Count(&studentCount)
	if studentCount == 0 {
		return nil, fmt.Errorf("学生不存在")
	}

	var existCount int64
	s.db.Model(&models.ParentStudent{}).
		Where("parent_id = ? AND student_id = ?", parentID, studentID).Count(&existCount)
	if existCount > 0 {
		return nil, fmt.Errorf("关联已存在")
	}

	link := &models.ParentStudent{
		ParentID:     parentID,
		StudentID:    studentID,
		Relationship: relationship,
		IsPrimary:    isPrimary,
	}

	err := s.db.Create(link).Error
	return link, err
}

// UnlinkStudent 解除家长与学生的关联
func (s *ParentService) UnlinkStudent(parentID, studentID uint) error {
	result := s.db.Where("parent_id = ? AND student_id = ?", parentID, studentID).
		Delete(&models.ParentStudent{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("关联不存在")
	}
	return nil
}

// GetChildren 获取家长名下的全部学生
func (s *ParentService) GetChildren(parentID uint) ([]models.Student, error) {
	var links []models.ParentStudent
	if err := s.db.Preload("Student").Preload("Student.User").Preload("Student.Class").
		Where("parent_id = ?", parentID).Find(&links).Error; err != nil {
		return nil, err
	}

	students := make([]models.Student, 0, len(links))
	for _, link := range links {
		if link.Student != nil {
			students = append(students, *link.Student)
		}
	}
	return students, nil
}

// IsLinkedToStudent 检查家长是否关联了指定学生（家长只能查看自己孩子的数据）
func (s *ParentService) IsLinkedToStudent(parentUserID, studentID uint) (bool, error) {
	parent, err := s.GetByUserID(parentUserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}

	var count int64
	err = s.db.Model(&models.ParentStudent{}).
		Where("parent_id = ? AND student_id = ?", parent.ID, studentID).Count(&count).Error
	return count > 0, err
}
