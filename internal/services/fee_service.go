package services

import (
	"fmt"
	"time"

	"schoolhub/internal/database"
	"schoolhub/internal/models"

	"gorm.io/gorm"
)

type FeeService struct {
	db *gorm.DB
}

// FeeStats 缴费统计
type FeeStats struct {
	TotalAmount   float64 `json:"total_amount"`
	PaidAmount    float64 `json:"paid_amount"`
	PendingAmount float64 `json:"pending_amount"`
	OverdueCount  int64   `json:"overdue_count"`
}

func NewFeeService() *FeeService {
	return &FeeService{
		db: database.GetDB(),
	}
}

// ========== 基础CRUD方法 ==========

// Create 创建缴费记录
func (s *FeeService) Create(studentID uint, feeType string, amount float64, academicYear, term string, dueDate time.Time, remark string) (*models.FeeRecord, error) {
	switch feeType {
	case models.FeeTypeTuition, models.FeeTypeActivity, models.FeeTypeMaterial, models.FeeTypeOther:
	default:
		return nil, fmt.Errorf("费用类型不正确")
	}
	if amount <= 0 {
		return nil, fmt.Errorf("金额必须大于0")
	}

	var studentCount int64
	s.db.Model(&models.Student{}).Where("id = ?", studentID).Count(&studentCount)
	if studentCount == 0 {
		return nil, fmt.Errorf("学生不存在")
	}

	record := &models.FeeRecord{
		StudentID:    studentID,
		FeeType:      feeType,
		Amount:       amount,
		AcademicYear: academicYear,
		Term:         term,
		Status:       models.FeeStatusPending,
		DueDate:      dueDate,
		Remark:       remark,
	}

	err := s.db.Create(record).Error
	return record, err
}

// GetByID 根据ID获取缴费记录
func (s *FeeService) GetByID(id uint) (*models.FeeRecord, error) {
	var record models.FeeRecord
	err := s.db.Preload("Student").Preload("Student.User").First(&record, id).Error
	return &record, err
}

// GetWithFiltersAndPage 分页查询缴费记录
func (s *FeeService) GetWithFiltersAndPage(studentID *uint, feeType, status, academicYear string, page, pageSize int) ([]*models.FeeRecord, int64, error) {
	var records []*models.FeeRecord
	var total int64

	query := s.db.Model(&models.FeeRecord{})

	if studentID != nil {
		query = query.Where("student_id = ?", *studentID)
	}
	if feeType != "" {
		query = query.Where("fee_type = ?", feeType)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if academicYear != "" {
		query = query.Where("academic_year = ?", academicYear)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Student").Preload("Student.User").
		Order("due_date DESC").Offset(offset).Limit(pageSize).Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ========== 状态流转 ==========

// MarkPaid 标记已缴费
func (s *FeeService) MarkPaid(id uint) (*models.FeeRecord, error) {
	record, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if record.Status == models.FeeStatusPaid {
		return nil, fmt.Errorf("该记录已缴费")
	}

	now := time.Now()
	record.Status = models.FeeStatusPaid
	record.PaidAt = &now

	err = s.db.Save(record).Error
	return record, err
}

// Waive 减免费用
func (s *FeeService) Waive(id uint, remark string) (*models.FeeRecord, error) {
	record, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if record.Status == models.FeeStatusPaid {
		return nil, fmt.Errorf("已缴费记录不能减免")
	}

	record.Status = models.FeeStatusWaived
	record.Remark = remark

	err = s.db.Save(record).Error
	return record, err
}

// MarkOverdue 把逾期未缴的记录批量标记为逾期，返回标记数量
func (s *FeeService) MarkOverdue() (int64, error) {
	result := s.db.Model(&models.FeeRecord{}).
		Where("status = ? AND due_date < ?", models.FeeStatusPending, time.Now()).
		Update("status", models.FeeStatusOverdue)
	return result.RowsAffected, result.Error
}

// ========== 统计 ==========

// GetStats 获取学年缴费统计
func (s *FeeService) GetStats(academicYear string) (*FeeStats, error) {
	stats := &FeeStats{}

	base := s.db.Model(&models.FeeRecord{})
	if academicYear != "" {
		base = base.Where("academic_year = ?", academicYear)
	}

	type row struct {
		Status string
		Total  float64
		Count  int64
	}
	var rows []row
	if err := base.Select("status, SUM(amount) as total, COUNT(*) as count").
		Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, r := range rows {
		switch r.Status {
		case models.FeeStatusPaid:
			stats.PaidAmount = r.Total
		case models.FeeStatusPending:
			stats.PendingAmount = r.Total
		case models.FeeStatusOverdue:
			stats.PendingAmount += r.Total
			stats.OverdueCount = r.Count
		}
		if r.Status != models.FeeStatusWaived {
			stats.TotalAmount += r.Total
		}
	}

	return stats, nil
}
