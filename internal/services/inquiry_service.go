package services

import (
	"fmt"
	"time"

	"schoolhub/internal/database"
	"schoolhub/internal/models"

	"gorm.io/gorm"
)

type InquiryService struct {
	db *gorm.DB
}

func NewInquiryService() *InquiryService {
	return &InquiryService{
		db: database.GetDB(),
	}
}

// ========== 工单创建与查询 ==========

// Create 创建咨询工单，自动生成工单号 INQ-YYYYMMDD-NNNN
func (s *InquiryService) Create(name, email, subject, message, department, priority string) (*models.Inquiry, error) {
	if department == "" {
		department = models.InquiryDeptGeneral
	}
	switch department {
	case models.InquiryDeptGeneral, models.InquiryDeptAdmissions,
		models.InquiryDeptAcademic, models.InquiryDeptFinance:
	default:
		return nil, fmt.Errorf("部门不正确")
	}

	if priority == "" {
		priority = models.InquiryPriorityNormal
	}
	switch priority {
	case models.InquiryPriorityLow, models.InquiryPriorityNormal,
		models.InquiryPriorityHigh, models.InquiryPriorityUrgent:
	default:
		return nil, fmt.Errorf("优先级不正确")
	}

	inquiry := &models.Inquiry{
		Name:       name,
		Email:      email,
		Subject:    subject,
		Message:    message,
		Department: department,
		Priority:   priority,
		Status:     models.InquiryStatusOpen,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Inquiry{}).Count(&count).Error; err != nil {
			return err
		}
		inquiry.TicketNumber = fmt.Sprintf("INQ-%s-%04d", time.Now().Format("20060102"), count+1)
		return tx.Create(inquiry).Error
	})
	if err != nil {
		return nil, err
	}

	return inquiry, nil
}

// GetByID 根据ID获取工单
func (s *InquiryService) GetByID(id uint) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	err := s.db.Preload("AssignedTo").First(&inquiry, id).Error
	return &inquiry, err
}

// GetByTicketNumber 根据工单号获取工单
func (s *InquiryService) GetByTicketNumber(ticketNumber string) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	err := s.db.Preload("AssignedTo").Where("ticket_number = ?", ticketNumber).First(&inquiry).Error
	return &inquiry, err
}

// GetWithFiltersAndPage 分页查询工单
func (s *InquiryService) GetWithFiltersAndPage(status, department string, page, pageSize int) ([]*models.Inquiry, int64, error) {
	var inquiries []*models.Inquiry
	var total int64

	query := s.db.Model(&models.Inquiry{})

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if department != "" {
		query = query.Where("department = ?", department)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("AssignedTo").
		Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&inquiries).Error
	if err != nil {
		return nil, 0, err
	}

	return inquiries, total, nil
}

// Update 更新工单内容
func (s *InquiryService) Update(id uint, subject, message, department, priority string) (*models.Inquiry, error) {
	inquiry, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if subject != "" {
		inquiry.Subject = subject
	}
	if message != "" {
		inquiry.Message = message
	}
	if department != "" {
		switch department {
		case models.InquiryDeptGeneral, models.InquiryDeptAdmissions,
			models.InquiryDeptAcademic, models.InquiryDeptFinance:
		default:
			return nil, fmt.Errorf("部门不正确")
		}
		inquiry.Department = department
	}
	if priority != "" {
		switch priority {
		case models.InquiryPriorityLow, models.InquiryPriorityNormal,
			models.InquiryPriorityHigh, models.InquiryPriorityUrgent:
		default:
			return nil, fmt.Errorf("优先级不正确")
		}
		inquiry.Priority = priority
	}

	err = s.db.Save(inquiry).Error
	return inquiry, err
}

// ========== 工单流转 ==========

// Assign 指派工单给处理人，自动把open状态推进为in_progress
func (s *InquiryService) Assign(id, assigneeID uint) (*models.Inquiry, error) {
	inquiry, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	var userCount int64
	s.db.Model(&models.User{}).Where("id = ?", assigneeID).Count(&userCount)
	if userCount == 0 {
		return nil, fmt.Errorf("处理人不存在")
	}

	inquiry.AssignedToID = &assigneeID
	if inquiry.Status == models.InquiryStatusOpen {
		inquiry.Status = models.InquiryStatusInProgress
	}

	err = s.db.Save(inquiry).Error
	return inquiry, err
}

// UpdateStatus 更新工单状态，首次进入resolved时记录解决时间
func (s *InquiryService) UpdateStatus(id uint, status string) (*models.Inquiry, error) {
	switch status {
	case models.InquiryStatusOpen, models.InquiryStatusInProgress,
		models.InquiryStatusResolved, models.InquiryStatusClosed:
	default:
		return nil, fmt.Errorf("状态不正确")
	}

	inquiry, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	inquiry.Status = status
	if status == models.InquiryStatusResolved && inquiry.ResolvedAt == nil {
		now := time.Now()
		inquiry.ResolvedAt = &now
	}

	err = s.db.Save(inquiry).Error
	return inquiry, err
}

// ========== 工单评论 ==========

// AddComment 添加工单评论
func (s *InquiryService) AddComment(inquiryID, userID uint, comment string, isInternal bool) (*models.InquiryComment, error) {
	if _, err := s.GetByID(inquiryID); err != nil {
		return nil, err
	}

	record := &models.InquiryComment{
		InquiryID:  inquiryID,
		UserID:     userID,
		Comment:    comment,
		IsInternal: isInternal,
	}

	err := s.db.Create(record).Error
	return record, err
}

// GetComments 获取工单评论，includeInternal为false时过滤内部评论
func (s *InquiryService) GetComments(inquiryID uint, includeInternal bool) ([]*models.InquiryComment, error) {
	if _, err := s.GetByID(inquiryID); err != nil {
		return nil, err
	}

	var comments []*models.InquiryComment
	query := s.db.Preload("User").Where("inquiry_id = ?", inquiryID)
	if !includeInternal {
		query = query.Where("is_internal = ?", false)
	}
	err := query.Order("created_at ASC").Find(&comments).Error
	return comments, err
}
