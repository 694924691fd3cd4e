package services

import (
	"fmt"

	"schoolhub/internal/database"
	"schoolhub/internal/models"
	"schoolhub/pkg/cache"

	"gorm.io/gorm"
)

type ClassService struct {
	db    *gorm.DB
	cache *cache.Manager
}

// ClassRoster 班级名单（缓存的聚合视图）
type ClassRoster struct {
	ClassID      uint     `json:"class_id"`
	ClassName    string   `json:"class_name"`
	HeadTeacher  string   `json:"head_teacher"`
	StudentCount int      `json:"student_count"`
	Students     []Member `json:"students"`
}

// Member 班级名单成员
type Member struct {
	StudentID     uint   `json:"student_id"`
	StudentNumber string `json:"student_number"`
	Name          string `json:"name"`
}

func NewClassService() *ClassService {
	return &ClassService{
		db:    database.GetDB(),
		cache: database.GetCacheManager(),
	}
}

// ========== 基础CRUD方法 ==========

// Create 创建班级
func (s *ClassService) Create(name, code string, gradeLevel int, academicYear string, capacity int, room string) (*models.Class, error) {
	var codeCount int64
	s.db.Model(&models.Class{}).Where("code = ?", code).Count(&codeCount)
	if codeCount > 0 {
		return nil, fmt.Errorf("班级代码已存在")
	}

	if capacity <= 0 {
		capacity = 40
	}

	class := &models.Class{
		Name:         name,
		Code:         code,
		GradeLevel:   gradeLevel,
		AcademicYear: academicYear,
		Capacity:     capacity,
		Room:         room,
		Status:       models.ClassStatusActive,
	}

	err := s.db.Create(class).Error
	return class, err
}

// GetByID 根据ID获取班级
func (s *ClassService) GetByID(id uint) (*models.Class, error) {
	var class models.Class
	err := s.db.Preload("HeadTeacher").Preload("HeadTeacher.User").Preload("Subjects").First(&class, id).Error
	return &class, err
}

// GetWithFiltersAndPage 分页获取班级
func (s *ClassService) GetWithFiltersAndPage(gradeLevel int, academicYear, status string, page, pageSize int) ([]*models.Class, int64, error) {
	var classes []*models.Class
	var total int64

	query := s.db.Model(&models.Class{})

	if gradeLevel > 0 {
		query = query.Where("grade_level = ?", gradeLevel)
	}
	if academicYear != "" {
		query = query.Where("academic_year = ?", academicYear)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("HeadTeacher").Preload("HeadTeacher.User").
		Order("grade_level, code").Offset(offset).Limit(pageSize).Find(&classes).Error
	if err != nil {
		return nil, 0, err
	}

	return classes, total, nil
}

// Update 更新班级
func (s *ClassService) Update(id uint, name string, capacity int, room, status string) (*models.Class, error) {
	class, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	switch status {
	case models.ClassStatusActive, models.ClassStatusArchived:
	default:
		return nil, fmt.Errorf("班级状态不正确")
	}

	class.Name = name
	class.Capacity = capacity
	class.Room = room
	class.Status = status

	if err := s.db.Save(class).Error; err != nil {
		return nil, err
	}

	s.invalidateRoster(id)
	return class, nil
}

// Delete 删除班级
func (s *ClassService) Delete(id uint) error {
	// 还有学生的班级不允许删除
	var studentCount int64
	s.db.Model(&models.Student{}).Where("class_id = ?", id).Count(&studentCount)
	if studentCount > 0 {
		return fmt.Errorf("班级内还有学生，无法删除")
	}

	if err := s.db.Delete(&models.Class{}, id).Error; err != nil {
		return err
	}

	s.invalidateRoster(id)
	return nil
}

// ========== 班主任与科目 ==========

// SetHeadTeacher 设置班主任
func (s *ClassService) SetHeadTeacher(classID, teacherID uint) (*models.Class, error) {
	class, err := s.GetByID(classID)
	if err != nil {
		return nil, err
	}

	var teacherCount int64
	s.db.Model(&models.Teacher{}).Where("id = ?", teacherID).Count(&teacherCount)
	if teacherCount == 0 {
		return nil, fmt.Errorf("教师不存在")
	}

	class.HeadTeacherID = &teacherID
	if err := s.db.Save(class).Error; err != nil {
		return nil, err
	}

	s.invalidateRoster(classID)
	return class, nil
}

// AssignSubjects 设置班级开设科目（全量替换）
func (s *ClassService) AssignSubjects(classID uint, subjectIDs []uint) error {
	class, err := s.GetByID(classID)
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

	return s.db.Model(class).Association("Subjects").Replace(subjects)
}

// ========== 班级名单 ==========

// GetRoster 获取班级名单（带缓存的聚合查询）
func (s *ClassService) GetRoster(classID uint) (*ClassRoster, error) {
	cacheKey := fmt.Sprintf("class:%d:roster", classID)

	var roster ClassRoster
	if s.cache.Get(cacheKey, &roster) {
		return &roster, nil
	}

	class, err := s.GetByID(classID)
	if err != nil {
		return nil, err
	}

	var students []models.Student
	if err := s.db.Preload("User").Where("class_id = ?", classID).
		Order("student_number").Find(&students).Error; err != nil {
		return nil, err
	}

	roster = ClassRoster{
		ClassID:      class.ID,
		ClassName:    class.Name,
		StudentCount: len(students),
		Students:     make([]Member, 0, len(students)),
	}
	if class.HeadTeacher != nil && class.HeadTeacher.User != nil {
		roster.HeadTeacher = class.HeadTeacher.User.Name
	}
	for _, st := range students {
		m := Member{StudentID: st.ID, StudentNumber: st.StudentNumber}
		if st.User != nil {
			m.Name = st.User.Name
		}
		roster.Students = append(roster.Students, m)
	}

	s.cache.Set(cacheKey, &roster, 300)
	return &roster, nil
}

// GetAllIDs 获取全部班级ID（缓存预热用）
func (s *ClassService) GetAllIDs() ([]uint, error) {
	var ids []uint
	err := s.db.Model(&models.Class{}).Pluck("id", &ids).Error
	return ids, err
}

func (s *ClassService) invalidateRoster(classID uint) {
	s.cache.InvalidatePattern(fmt.Sprintf("class:%d:*", classID))
}
