package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"schoolhub/internal/services"
	"schoolhub/pkg/pagination"
	"schoolhub/pkg/rbac"
	"schoolhub/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type GradeHandler struct {
	service        *services.GradeService
	studentService *services.StudentService
	parentService  *services.ParentService
}

func NewGradeHandler(service *services.GradeService, studentService *services.StudentService, parentService *services.ParentService) *GradeHandler {
	return &GradeHandler{
		service:        service,
		studentService: studentService,
		parentService:  parentService,
	}
}

// RecordGradeRequest 录入成绩请求
type RecordGradeRequest struct {
	StudentID uint    `json:"student_id" binding:"required"`
	SubjectID uint    `json:"subject_id" binding:"required"`
	ClassID   uint    `json:"class_id" binding:"required"`
	TeacherID uint    `json:"teacher_id" binding:"required"`
	Term      string  `json:"term" binding:"required,max=20"`
	ExamType  string  `json:"exam_type" binding:"required,oneof=quiz midterm final homework"`
	Score     float64 `json:"score" binding:"min=0"`
	MaxScore  float64 `json:"max_score"`
}

// UpdateGradeRequest 修正成绩请求
type UpdateGradeRequest struct {
	Score   float64 `json:"score" binding:"min=0"`
	Comment string  `json:"comment" binding:"max=255"`
}

// Record 录入成绩
func (h *GradeHandler) Record(c *gin.Context) {
	var req RecordGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 解析验证错误，提供更友好的提示
		if validationErr, ok := err.(validator.ValidationErrors); ok {
			errorMsg := "参数验证失败"
			for _, fieldErr := range validationErr {
				switch fieldErr.Field() {
				case "ExamType":
					errorMsg = "考试类型必须是 quiz、midterm、final 或 homework"
				case "Term":
					errorMsg = "学期不能为空，且长度不超过20个字符"
				case "Score":
					errorMsg = "分数不能为负数"
				default:
					errorMsg = fmt.Sprintf("字段 %s 验证失败", fieldErr.Field())
				}
				break // 只返回第一个错误
			}
			response.BadRequest(c, errorMsg)
			return
		}
		response.BadRequest(c, "请求参数格式错误")
		return
	}

	grade, err := h.service.Record(req.StudentID, req.SubjectID, req.ClassID, req.TeacherID,
		req.Term, req.ExamType, req.Score, req.MaxScore)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, grade)
}

// Update 修正成绩
func (h *GradeHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	grade, err := h.service.Update(uint(id), req.Score, req.Comment)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "成绩记录不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, grade)
}

// Delete 删除成绩
func (h *GradeHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	if err := h.service.Delete(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "成绩记录不存在")
			return
		}
		response.ServerError(c, "删除失败")
		return
	}

	response.Success(c, gin.H{"message": "删除成功"})
}

// List 分页查询成绩
func (h *GradeHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	term := c.Query("term")
	examType := c.Query("exam_type")

	parseOptionalID := func(name string) (*uint, bool) {
		str := c.Query(name)
		if str == "" {
			return nil, true
		}
		v, err := strconv.ParseUint(str, 10, 32)
		if err != nil {
			return nil, false
		}
		id := uint(v)
		return &id, true
	}

	studentID, ok := parseOptionalID("student_id")
	if !ok {
		response.BadRequest(c, "学生ID格式错误")
		return
	}
	subjectID, ok := parseOptionalID("subject_id")
	if !ok {
		response.BadRequest(c, "科目ID格式错误")
		return
	}
	classID, ok := parseOptionalID("class_id")
	if !ok {
		response.BadRequest(c, "班级ID格式错误")
		return
	}

	grades, total, err := h.service.GetWithFiltersAndPage(studentID, subjectID, classID, term, examType, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, grades, pageInfo)
}

// GetReportCard 获取学生学期报告单
// 学生只能查自己的，家长只能查自己孩子的
func (h *GradeHandler) GetReportCard(c *gin.Context) {
	studentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	term := c.Query("term")
	if term == "" {
		response.BadRequest(c, "缺少学期参数")
		return
	}

	if !h.canViewStudent(c, uint(studentID)) {
		response.Forbidden(c, "只能查看本人或子女的数据")
		return
	}

	card, err := h.service.GetReportCard(uint(studentID), term)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "学生不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, card)
}

// GetClassStats 获取班级单科成绩统计
func (h *GradeHandler) GetClassStats(c *gin.Context) {
	classID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	subjectID, err := strconv.ParseUint(c.Query("subject_id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "科目ID格式错误")
		return
	}

	term := c.Query("term")
	if term == "" {
		response.BadRequest(c, "缺少学期参数")
		return
	}

	stats, err := h.service.GetClassStats(uint(classID), uint(subjectID), term)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, stats)
}

// canViewStudent 校验当前用户是否能查看指定学生的数据
func (h *GradeHandler) canViewStudent(c *gin.Context, studentID uint) bool {
	role, _ := c.Get("role")
	userID, _ := c.Get("user_id")

	switch rbac.Role(role.(string)) {
	case rbac.RoleAdmin, rbac.RoleTeacher:
		return true
	case rbac.RoleStudent:
		student, err := h.studentService.GetByUserID(userID.(uint))
		return err == nil && student.ID == studentID
	case rbac.RoleParent:
		linked, err := h.parentService.IsLinkedToStudent(userID.(uint), studentID)
		return err == nil && linked
	}
	return false
}
