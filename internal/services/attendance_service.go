package services

import (
	"fmt"
	"time"

	"schoolhub/internal/database"
	"schoolhub/internal/models"
	"schoolhub/pkg/cache"

	"gorm.io/gorm"
)

type AttendanceService struct {
	db    *gorm.DB
	cache *cache.Manager
}

// AttendanceSummary 学生考勤汇总
type AttendanceSummary struct {
	StudentID uint    `json:"student_id"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Present   int64   `json:"present"`
	Absent    int64   `json:"absent"`
	Late      int64   `json:"late"`
	Excused   int64   `json:"excused"`
	Rate      float64 `json:"rate"` // 出勤率（present+late+excused占比）
}

func NewAttendanceService() *AttendanceService {
	return &AttendanceService{
		db:    database.GetDB(),
		cache: database.GetCacheManager(),
	}
}

// ========== 考勤记录 ==========

// Mark 记录单个学生某日考勤，同一学生同一天重复记录时覆盖状态
func (s *AttendanceService) Mark(studentID, classID uint, date time.Time, status, remark string, markedByID uint) (*models.Attendance, error) {
	switch status {
	case models.AttendanceStatusPresent, models.AttendanceStatusAbsent,
		models.AttendanceStatusLate, models.AttendanceStatusExcused:
	default:
		return nil, fmt.Errorf("考勤状态不正确")
	}

	var studentCount int64
	s.db.Model(&models.Student{}).Where("id = ?", studentID).Count(&studentCount)
	if studentCount == 0 {
		return nil, fmt.Errorf("学生不存在")
	}

	// 按日期归一化到当天零点
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	var record models.Attendance
	err := s.db.Where("student_id = ? AND date = ?", studentID, day).First(&record).Error
	if err == nil {
		record.Status = status
		record.Remark = remark
		record.MarkedByID = markedByID
		if err := s.db.Save(&record).Error; err != nil {
			return nil, err
		}
	} else if err == gorm.ErrRecordNotFound {
		record = models.Attendance{
			StudentID:  studentID,
			ClassID:    classID,
			Date:       day,
			Status:     status,
			Remark:     remark,
			MarkedByID: markedByID,
		}
		if err := s.db.Create(&record).Error; err != nil {
			return nil, err
		}
	} else {
		return nil, err
	}

	s.invalidateStudent(studentID)
	return &record, nil
}

// MarkBatch 整班批量记录考勤
func (s *AttendanceService) MarkBatch(classID uint, date time.Time, statuses map[uint]string, markedByID uint) (int, error) {
	marked := 0
	for studentID, status := range statuses {
		if _, err := s.Mark(studentID, classID, date, status, "", markedByID); err != nil {
			return marked, fmt.Errorf("记录学生%d考勤失败: %v", studentID, err)
		}
		marked++
	}
	return marked, nil
}

// GetWithFiltersAndPage 分页查询考勤记录
func (s *AttendanceService) GetWithFiltersAndPage(studentID, classID *uint, status string, from, to *time.Time, page, pageSize int) ([]*models.Attendance, int64, error) {
	var records []*models.Attendance
	var total int64

	query := s.db.Model(&models.Attendance{})

	if studentID != nil {
		query = query.Where("student_id = ?", *studentID)
	}
	if classID != nil {
		query = query.Where("class_id = ?", *classID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if from != nil {
		query = query.Where("date >= ?", *from)
	}
	if to != nil {
		query = query.Where("date <= ?", *to)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Student").Preload("Student.User").
		Order("date DESC").Offset(offset).Limit(pageSize).Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ========== 考勤汇总 ==========

// GetStudentSummary 获取学生时段考勤汇总（带缓存）
func (s *AttendanceService) GetStudentSummary(studentID uint, from, to time.Time) (*AttendanceSummary, error) {
	cacheKey := fmt.Sprintf("attendance:%d:summary:%s:%s",
		studentID, from.Format("20060102"), to.Format("20060102"))

	var summary AttendanceSummary
	if s.cache.Get(cacheKey, &summary) {
		return &summary, nil
	}

	summary = AttendanceSummary{
		StudentID: studentID,
		From:      from.Format("2006-01-02"),
		To:        to.Format("2006-01-02"),
	}

	base := s.db.Model(&models.Attendance{}).
		Where("student_id = ? AND date >= ? AND date <= ?", studentID, from, to)

	base.Session(&gorm.Session{}).Where("status = ?", models.AttendanceStatusPresent).Count(&summary.Present)
	base.Session(&gorm.Session{}).Where("status = ?", models.AttendanceStatusAbsent).Count(&summary.Absent)
	base.Session(&gorm.Session{}).Where("status = ?", models.AttendanceStatusLate).Count(&summary.Late)
	base.Session(&gorm.Session{}).Where("status = ?", models.AttendanceStatusExcused).Count(&summary.Excused)

	total := summary.Present + summary.Absent + summary.Late + summary.Excused
	if total > 0 {
		summary.Rate = float64(summary.Present+summary.Late+summary.Excused) / float64(total) * 100
	}

	s.cache.Set(cacheKey, &summary, 300)
	return &summary, nil
}

func (s *AttendanceService) invalidateStudent(studentID uint) {
	s.cache.InvalidatePattern(fmt.Sprintf("attendance:%d:*", studentID))
}
