package services

import (
	"fmt"
	"time"

	"schoolhub/internal/database"
	"schoolhub/internal/models"
	"schoolhub/pkg/cache"

	"gorm.io/gorm"
)

type GradeService struct {
	db    *gorm.DB
	cache *cache.Manager
	// 报告单的进程内热缓存，Redis不可用时仍然有效
	reportCards *cache.LRUCache

	cachedReportCard func(args ...interface{}) (*ReportCard, error)
}

// ReportCard 学生成绩报告单（按学期聚合）
type ReportCard struct {
	StudentID     uint                `json:"student_id"`
	StudentNumber string              `json:"student_number"`
	StudentName   string              `json:"student_name"`
	Term          string              `json:"term"`
	Subjects      []SubjectGradeEntry `json:"subjects"`
	OverallAvg    float64             `json:"overall_avg"`
	GeneratedAt   time.Time           `json:"generated_at"`
}

// SubjectGradeEntry 报告单中的单科成绩
type SubjectGradeEntry struct {
	SubjectID   uint    `json:"subject_id"`
	SubjectName string  `json:"subject_name"`
	Average     float64 `json:"average"`
	Highest     float64 `json:"highest"`
	Lowest      float64 `json:"lowest"`
	ExamCount   int     `json:"exam_count"`
}

// ClassGradeStats 班级单科成绩统计
type ClassGradeStats struct {
	ClassID      uint    `json:"class_id"`
	SubjectID    uint    `json:"subject_id"`
	Term         string  `json:"term"`
	Average      float64 `json:"average"`
	Highest      float64 `json:"highest"`
	Lowest       float64 `json:"lowest"`
	StudentCount int     `json:"student_count"`
}

// reportCardTTL 报告单缓存时长（秒），本地LRU副本同样受此约束，
// 跨实例的失效只能删除Redis键，过期上限保证其他实例的本地副本最终淘汰
const reportCardTTL = 600

func NewGradeService() *GradeService {
	s := &GradeService{
		db:          database.GetDB(),
		cache:       database.GetCacheManager(),
		reportCards: cache.NewLRUCacheWithTTL(128, reportCardTTL*time.Second),
	}

	// 报告单聚合查询较重，记忆化10分钟
	s.cachedReportCard = cache.Cached(s.cache, "report_card",
		func(args ...interface{}) (*ReportCard, error) {
			return s.buildReportCard(args[0].(uint), args[1].(string))
		},
		cache.WithTTL(reportCardTTL),
		cache.WithKeyFunc(func(args ...interface{}) string {
			return fmt.Sprintf("report_card:%d:%s", args[0].(uint), args[1].(string))
		}),
	)

	return s
}

// ========== 成绩录入 ==========

// Record 录入一条成绩
func (s *GradeService) Record(studentID, subjectID, classID, teacherID uint, term, examType string, score, maxScore float64) (*models.Grade, error) {
	switch examType {
	case models.ExamTypeQuiz, models.ExamTypeMidterm, models.ExamTypeFinal, models.ExamTypeHomework:
	default:
		return nil, fmt.Errorf("考试类型不正确")
	}

	if maxScore <= 0 {
		maxScore = 100
	}
	if score < 0 || score > maxScore {
		return nil, fmt.Errorf("分数超出有效范围")
	}

	var studentCount int64
	s.db.Model(&models.Student{}).Where("id = ?", studentID).Count(&studentCount)
	if studentCount == 0 {
		return nil, fmt.Errorf("学生不存在")
	}

	now := time.Now()
	grade := &models.Grade{
		StudentID: studentID,
		SubjectID: subjectID,
		ClassID:   classID,
		TeacherID: teacherID,
		Term:      term,
		ExamType:  examType,
		Score:     score,
		MaxScore:  maxScore,
		GradedAt:  &now,
	}

	if err := s.db.Create(grade).Error; err != nil {
		return nil, err
	}

	s.invalidateStudentTerm(studentID, term)
	return grade, nil
}

// Update 修正一条成绩
func (s *GradeService) Update(id uint, score float64, comment string) (*models.Grade, error) {
	var grade models.Grade
	if err := s.db.First(&grade, id).Error; err != nil {
		return nil, err
	}

	if score < 0 || score > grade.MaxScore {
		return nil, fmt.Errorf("分数超出有效范围")
	}

	grade.Score = score
	grade.Comment = comment
	if err := s.db.Save(&grade).Error; err != nil {
		return nil, err
	}

	s.invalidateStudentTerm(grade.StudentID, grade.Term)
	return &grade, nil
}

// Delete 删除一条成绩
func (s *GradeService) Delete(id uint) error {
	var grade models.Grade
	if err := s.db.First(&grade, id).Error; err != nil {
		return err
	}

	if err := s.db.Delete(&grade).Error; err != nil {
		return err
	}

	s.invalidateStudentTerm(grade.StudentID, grade.Term)
	return nil
}

// GetWithFiltersAndPage 分页查询成绩
func (s *GradeService) GetWithFiltersAndPage(studentID, subjectID, classID *uint, term, examType string, page, pageSize int) ([]*models.Grade, int64, error) {
	var grades []*models.Grade
	var total int64

	query := s.db.Model(&models.Grade{})

	if studentID != nil {
		query = query.Where("student_id = ?", *studentID)
	}
	if subjectID != nil {
		query = query.Where("subject_id = ?", *subjectID)
	}
	if classID != nil {
		query = query.Where("class_id = ?", *classID)
	}
	if term != "" {
		query = query.Where("term = ?", term)
	}
	if examType != "" {
		query = query.Where("exam_type = ?", examType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Subject").Preload("Student").Preload("Student.User").
		Order("graded_at DESC").Offset(offset).Limit(pageSize).Find(&grades).Error
	if err != nil {
		return nil, 0, err
	}

	return grades, total, nil
}

// ========== 报告单与统计 ==========

// GetReportCard 获取学生学期报告单
// 查找顺序：进程内LRU → Redis记忆化 → 数据库聚合
func (s *GradeService) GetReportCard(studentID uint, term string) (*ReportCard, error) {
	lruKey := fmt.Sprintf("%d:%s", studentID, term)
	if v, ok := s.reportCards.Get(lruKey); ok {
		return v.(*ReportCard), nil
	}

	card, err := s.cachedReportCard(studentID, term)
	if err != nil {
		return nil, err
	}

	s.reportCards.Put(lruKey, card)
	return card, nil
}

func (s *GradeService) buildReportCard(studentID uint, term string) (*ReportCard, error) {
	var student models.Student
	if err := s.db.Preload("User").First(&student, studentID).Error; err != nil {
		return nil, err
	}

	var grades []models.Grade
	if err := s.db.Preload("Subject").
		Where("student_id = ? AND term = ?", studentID, term).
		Find(&grades).Error; err != nil {
		return nil, err
	}

	card := &ReportCard{
		StudentID:     student.ID,
		StudentNumber: student.StudentNumber,
		Term:          term,
		GeneratedAt:   time.Now(),
	}
	if student.User != nil {
		card.StudentName = student.User.Name
	}

	// 按科目聚合
	type acc struct {
		name    string
		sum     float64
		highest float64
		lowest  float64
		count   int
	}
	bySubject := make(map[uint]*acc)
	order := make([]uint, 0)
	for _, g := range grades {
		// 统一折算为百分制再聚合
		pct := g.Score / g.MaxScore * 100
		a, ok := bySubject[g.SubjectID]
		if !ok {
			a = &acc{highest: pct, lowest: pct}
			if g.Subject != nil {
				a.name = g.Subject.Name
			}
			bySubject[g.SubjectID] = a
			order = append(order, g.SubjectID)
		}
		a.sum += pct
		a.count++
		if pct > a.highest {
			a.highest = pct
		}
		if pct < a.lowest {
			a.lowest = pct
		}
	}

	var overallSum float64
	for _, subjectID := range order {
		a := bySubject[subjectID]
		avg := a.sum / float64(a.count)
		overallSum += avg
		card.Subjects = append(card.Subjects, SubjectGradeEntry{
			SubjectID:   subjectID,
			SubjectName: a.name,
			Average:     avg,
			Highest:     a.highest,
			Lowest:      a.lowest,
			ExamCount:   a.count,
		})
	}
	if len(card.Subjects) > 0 {
		card.OverallAvg = overallSum / float64(len(card.Subjects))
	}

	return card, nil
}

// GetClassStats 获取班级单科成绩统计
func (s *GradeService) GetClassStats(classID, subjectID uint, term string) (*ClassGradeStats, error) {
	cacheKey := fmt.Sprintf("class:%d:stats:%d:%s", classID, subjectID, term)

	var stats ClassGradeStats
	if s.cache.Get(cacheKey, &stats) {
		return &stats, nil
	}

	var grades []models.Grade
	if err := s.db.Where("class_id = ? AND subject_id = ? AND term = ?", classID, subjectID, term).
		Find(&grades).Error; err != nil {
		return nil, err
	}

	stats = ClassGradeStats{ClassID: classID, SubjectID: subjectID, Term: term}
	students := make(map[uint]struct{})
	var sum float64
	for i, g := range grades {
		pct := g.Score / g.MaxScore * 100
		sum += pct
		if i == 0 {
			stats.Highest = pct
			stats.Lowest = pct
		}
		if pct > stats.Highest {
			stats.Highest = pct
		}
		if pct < stats.Lowest {
			stats.Lowest = pct
		}
		students[g.StudentID] = struct{}{}
	}
	if len(grades) > 0 {
		stats.Average = sum / float64(len(grades))
	}
	stats.StudentCount = len(students)

	s.cache.Set(cacheKey, &stats, 600)
	return &stats, nil
}

// 成绩变动后相关缓存全部失效
func (s *GradeService) invalidateStudentTerm(studentID uint, term string) {
	s.reportCards.Clear()
	s.cache.Delete(fmt.Sprintf("report_card:%d:%s", studentID, term))
	s.cache.InvalidatePattern("class:*:stats:*")
}
