package services

import (
	"fmt"
	"time"

	"schoolhub/internal/database"
	"schoolhub/internal/models"
	"schoolhub/pkg/cache"

	"gorm.io/gorm"
)

type StudentService struct {
	db    *gorm.DB
	cache *cache.Manager
}

func NewStudentService() *StudentService {
	return &StudentService{
		db:    database.GetDB(),
		cache: database.GetCacheManager(),
	}
}

// ========== 基础CRUD方法 ==========

// Create 创建学生档案（需先存在对应的用户）
func (s *StudentService) Create(userID uint, studentNumber string, classID *uint, gender, address string, dateOfBirth *time.Time) (*models.Student, error) {
	// 检查用户是否存在
	var userCount int64
	s.db.Model(&models.User{}).Where("id = ?", userID).Count(&userCount)
	if userCount == 0 {
		return nil, fmt.Errorf("用户不存在")
	}

	// 检查学号是否重复
	var numberCount int64
	s.db.Model(&models.Student{}).Where("student_number = ?", studentNumber).Count(&numberCount)
	if numberCount > 0 {
		return nil, fmt.Errorf("学号已存在")
	}

	// 检查是否重复建档
	var existCount int64
	s.db.Model(&models.Student{}).Where("user_id = ?", userID).Count(&existCount)
	if existCount > 0 {
		return nil, fmt.Errorf("该用户已有学生档案")
	}

	if classID != nil {
		if err := s.checkClassExists(*classID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	student := &models.Student{
		UserID:         userID,
		StudentNumber:  studentNumber,
		ClassID:        classID,
		Gender:         gender,
		Address:        address,
		DateOfBirth:    dateOfBirth,
		EnrollmentDate: &now,
		Status:         models.StudentStatusEnrolled,
	}

	err := s.db.Create(student).Error
	return student, err
}

// GetByID 根据ID获取学生（附带用户和班级信息）
func (s *StudentService) GetByID(id uint) (*models.Student, error) {
	var student models.Student
	err := s.db.Preload("User").Preload("Class").First(&student, id).Error
	return &student, err
}

// GetByStudentNumber 根据学号获取学生
func (s *StudentService) GetByStudentNumber(number string) (*models.Student, error) {
	var student models.Student
	err := s.db.Preload("User").Where("student_number = ?", number).First(&student).Error
	return &student, err
}

// GetByUserID 根据用户ID获取学生档案
func (s *StudentService) GetByUserID(userID uint) (*models.Student, error) {
	var student models.Student
	err := s.db.Preload("Class").Where("user_id = ?", userID).First(&student).Error
	return &student, err
}

// GetWithFiltersAndPage 分页获取学生
func (s *StudentService) GetWithFiltersAndPage(classID *uint, status, keyword string, page, pageSize int) ([]*models.Student, int64, error) {
	var students []*models.Student
	var total int64

	query := s.db.Model(&models.Student{})

	if classID != nil {
		query = query.Where("class_id = ?", *classID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		// 按学号或姓名模糊搜索
		like := "%" + keyword + "%"
		query = query.Joins("JOIN users ON users.id = students.user_id").
			Where("students.student_number LIKE ? OR users.name LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("User").Preload("Class").
		Order("students.created_at DESC").Offset(offset).Limit(pageSize).Find(&students).Error
	if err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

// Update 更新学生档案
func (s *StudentService) Update(id uint, gender, address, status string, dateOfBirth *time.Time) (*models.Student, error) {
	student, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	switch status {
	case models.StudentStatusEnrolled, models.StudentStatusSuspended,
		models.StudentStatusGraduated, models.StudentStatusWithdrawn:
	default:
		return nil, fmt.Errorf("学生状态不正确")
	}

	student.Gender = gender
	student.Address = address
	student.Status = status
	student.DateOfBirth = dateOfBirth

	err = s.db.Save(student).Error
	return student, err
}

// Delete 删除学生档案
func (s *StudentService) Delete(id uint) error {
	// 有成绩记录的学生不允许删除
	var gradeCount int64
	s.db.Model(&models.Grade{}).Where("student_id = ?", id).Count(&gradeCount)
	if gradeCount > 0 {
		return fmt.Errorf("该学生存在成绩记录，无法删除")
	}

	return s.db.Delete(&models.Student{}, id).Error
}

// ========== 班级分配 ==========

// AssignToClass 把学生分配到班级
func (s *StudentService) AssignToClass(studentID, classID uint) (*models.Student, error) {
	student, err := s.GetByID(studentID)
	if err != nil {
		return nil, err
	}

	if err := s.checkClassExists(classID); err != nil {
		return nil, err
	}

	student.ClassID = &classID
	if err := s.db.Save(student).Error; err != nil {
		return nil, err
	}

	// 班级名单变了，相关缓存失效
	s.cache.InvalidatePattern(fmt.Sprintf("class:%d:*", classID))

	return student, nil
}

// RemoveFromClass 把学生从班级移除
func (s *StudentService) RemoveFromClass(studentID uint) (*models.Student, error) {
	student, err := s.GetByID(studentID)
	if err != nil {
		return nil, err
	}

	oldClassID := student.ClassID
	student.ClassID = nil
	if err := s.db.Save(student).Error; err != nil {
		return nil, err
	}

	if oldClassID != nil {
		s.cache.InvalidatePattern(fmt.Sprintf("class:%d:*", *oldClassID))
	}

	return student, nil
}

func (s *StudentService) checkClassExists(classID uint) error {
	var count int64
	s.db.Model(&models.Class{}).Where("id = ?", classID).Count(&count)
	if count == 0 {
		return fmt.Errorf("班级不存在")
	}
	return nil
}
