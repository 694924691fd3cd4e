package handlers

import (
	"strconv"
	"time"

	"schoolhub/internal/services"
	"schoolhub/pkg/pagination"
	"schoolhub/pkg/response"

	"github.com/gin-gonic/gin"
)

type AttendanceHandler struct {
	service        *services.AttendanceService
	studentService *services.StudentService
	parentService  *services.ParentService
}

func NewAttendanceHandler(service *services.AttendanceService, studentService *services.StudentService, parentService *services.ParentService) *AttendanceHandler {
	return &AttendanceHandler{
		service:        service,
		studentService: studentService,
		parentService:  parentService,
	}
}

// MarkAttendanceRequest 记录考勤请求
type MarkAttendanceRequest struct {
	StudentID  uint   `json:"student_id" binding:"required"`
	ClassID    uint   `json:"class_id" binding:"required"`
	Date       string `json:"date" binding:"required"` // 格式 2006-01-02
	Status     string `json:"status" binding:"required,oneof=present absent late excused"`
	Remark     string `json:"remark" binding:"max=255"`
	MarkedByID uint   `json:"marked_by_id" binding:"required"`
}

// MarkBatchRequest 整班批量考勤请求
type MarkBatchRequest struct {
	ClassID    uint            `json:"class_id" binding:"required"`
	Date       string          `json:"date" binding:"required"`
	Statuses   map[uint]string `json:"statuses" binding:"required"`
	MarkedByID uint            `json:"marked_by_id" binding:"required"`
}

// Mark 记录单个学生考勤
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.BadRequest(c, "日期格式错误")
		return
	}

	record, err := h.service.Mark(req.StudentID, req.ClassID, date, req.Status, req.Remark, req.MarkedByID)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, record)
}

// MarkBatch 整班批量记录考勤
func (h *AttendanceHandler) MarkBatch(c *gin.Context) {
	var req MarkBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.BadRequest(c, "日期格式错误")
		return
	}

	marked, err := h.service.MarkBatch(req.ClassID, date, req.Statuses, req.MarkedByID)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, gin.H{"marked": marked})
}

// List 分页查询考勤记录
func (h *AttendanceHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	status := c.Query("status")

	var studentID, classID *uint
	if str := c.Query("student_id"); str != "" {
		v, err := strconv.ParseUint(str, 10, 32)
		if err != nil {
			response.BadRequest(c, "学生ID格式错误")
			return
		}
		id := uint(v)
		studentID = &id
	}
	if str := c.Query("class_id"); str != "" {
		v, err := strconv.ParseUint(str, 10, 32)
		if err != nil {
			response.BadRequest(c, "班级ID格式错误")
			return
		}
		id := uint(v)
		classID = &id
	}

	var from, to *time.Time
	if str := c.Query("from"); str != "" {
		t, err := time.Parse("2006-01-02", str)
		if err != nil {
			response.BadRequest(c, "起始日期格式错误")
			return
		}
		from = &t
	}
	if str := c.Query("to"); str != "" {
		t, err := time.Parse("2006-01-02", str)
		if err != nil {
			response.BadRequest(c, "结束日期格式错误")
			return
		}
		to = &t
	}

	records, total, err := h.service.GetWithFiltersAndPage(studentID, classID, status, from, to, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, records, pageInfo)
}

// GetStudentSummary 获取学生时段考勤汇总
func (h *AttendanceHandler) GetStudentSummary(c *gin.Context) {
	studentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		response.BadRequest(c, "起始日期格式错误")
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		response.BadRequest(c, "结束日期格式错误")
		return
	}

	summary, err := h.service.GetStudentSummary(uint(studentID), from, to)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, summary)
}
