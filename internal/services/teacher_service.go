package services

import (
	"fmt"
	"time"

	"schoolhub/internal/database"
	"schoolhub/internal/models"

	"gorm.io/gorm"
)

type TeacherService struct {
	db *gorm.DB
}

func NewTeacherService() *TeacherService {
	return &TeacherService{
		db: database.GetDB(),
	}
}

// ========== 基础CRUD方法 ==========

// Create 创建教师档案
func (s *TeacherService) Create(userID uint, employeeNumber, qualification, specialization string, hireDate *time.Time) (*models.Teacher, error) {
	var userCount int64
	s.db.Model(&models.User{}).Where("id = ?", userID).Count(&userCount)
	if userCount == 0 {
		return nil, fmt.Errorf("用户不存在")
	}

	var numberCount int64
	s.db.Model(&models.Teacher{}).Where("employee_number = ?", employeeNumber).Count(&numberCount)
	if numberCount > 0 {
		return nil, fmt.Errorf("工号已存在")
	}

	var existCount int64
	s.db.Model(&models.Teacher{}).Where("user_id = ?", userID).Count(&existCount)
	if existCount > 0 {
		return nil, fmt.Errorf("该用户已有教师档案")
	}

	teacher := &models.Teacher{
		UserID:         userID,
		EmployeeNumber: employeeNumber,
		Qualification:  qualification,
		Specialization: specialization,
		HireDate:       hireDate,
		Status:         models.TeacherStatusActive,
	}

	err := s.db.Create(teacher).Error
	return teacher, err
}

// GetByID 根据ID获取教师（附带用户和科目信息）
func (s *TeacherService) GetByID(id uint) (*models.Teacher, error) {
	var teacher models.Teacher
	err := s.db.Preload("User").Preload("Subjects").First(&teacher, id).Error
	return &teacher, err
}

// GetByUserID 根据用户ID获取教师档案
func (s *TeacherService) GetByUserID(userID uint) (*models.Teacher, error) {
	var teacher models.Teacher
	err := s.db.Preload("Subjects").Where("user_id = ?", userID).First(&teacher).Error
	return &teacher, err
}

// GetWithFiltersAndPage 分页获取教师
func (s *TeacherService) GetWithFiltersAndPage(status, keyword string, page, pageSize int) ([]*models.Teacher, int64, error) {
	var teachers []*models.Teacher
	var total int64

	query := s.db.Model(&models.Teacher{})

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		like := "%" + keyword + "%"
		query = query.Joins("JOIN users ON users.id = teachers.user_id").
			Where("teachers.employee_number LIKE ? OR users.name LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("User").Preload("Subjects").
		Order("teachers.created_at DESC").Offset(offset).Limit(pageSize).Find(&teachers).Error
	if err != nil {
		return nil, 0, err
	}

	return teachers, total, nil
}

// Update 更新教师档案
func (s *TeacherService) Update(id uint, qualification, specialization, status string) (*models.Teacher, error) {
	teacher, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	switch status {
	case models.TeacherStatusActive, models.TeacherStatusOnLeave, models.TeacherStatusResigned:
	default:
		return nil, fmt.Errorf("教师状态不正确")
	}

	teacher.Qualification = qualification
	teacher.Specialization = specialization
	teacher.Status = status

	err = s.db.Save(teacher).Error
	return teacher, err
}

// Delete 删除教师档案
func (s *TeacherService) Delete(id uint) error {
	// 担任班主任的教师不允许删除
	var classCount int64
	s.db.Model(&models.Class{}).Where("head_teacher_id = ?", id).Count(&classCount)
	if classCount > 0 {
		return fmt.Errorf("该教师担任班主任，无法删除")
	}

	return s.db.Delete(&models.Teacher{}, id).Error
}

// ========== 科目分配 ==========

// AssignSubjects 设置教师授课科目（全量替换）
func (s *TeacherService) AssignSubjects(teacherID uint, subjectIDs []uint) error {
	teacher, err := s.GetByID(teacherID)
	if err != nil {
		return err
	}

	var subjects []models.Subject
	if len(subjectIDs) > 0 {
		if err := s.db.Find(&subjects, subjectIDs).Error; err != nil {
			return err
		}
		if len(subjects) != len(subjectIDs) {
			return fmt.Errorf("部分科目不存在")
		}
	}

	return s.db.Model(teacher).Association("Subjects").Replace(subjects)
}

// GetSubjects 获取教师授课科目
func (s *TeacherService) GetSubjects(teacherID uint) ([]models.Subject, error) {
	teacher, err := s.GetByID(teacherID)
	if err != nil {
		return nil, err
	}
	return teacher.Subjects, nil
}
