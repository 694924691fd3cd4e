package handlers

import (
	"errors"
	"strconv"
	"time"

	"schoolhub/internal/services"
	"schoolhub/pkg/pagination"
	"schoolhub/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FeeHandler struct {
	service *services.FeeService
}

func NewFeeHandler(service *services.FeeService) *FeeHandler {
	return &FeeHandler{
		service: service,
	}
}

// CreateFeeRequest 创建缴费记录请求
type CreateFeeRequest struct {
	StudentID    uint    `json:"student_id" binding:"required"`
	FeeType      string  `json:"fee_type" binding:"required,oneof=tuition activity material other"`
	Amount       float64 `json:"amount" binding:"required,gt=0"`
	AcademicYear string  `json:"academic_year" binding:"required,max=20"`
	Term         string  `json:"term" binding:"required,max=20"`
	DueDate      string  `json:"due_date" binding:"required"` // 格式 2006-01-02
	Remark       string  `json:"remark" binding:"max=255"`
}

// WaiveFeeRequest 减免费用请求
type WaiveFeeRequest struct {
	Remark string `json:"remark" binding:"required,max=255"`
}

// Create 创建缴费记录
func (h *FeeHandler) Create(c *gin.Context) {
	var req CreateFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		response.BadRequest(c, "截止日期格式错误")
		return
	}

	record, err := h.service.Create(req.StudentID, req.FeeType, req.Amount, req.AcademicYear, req.Term, dueDate, req.Remark)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, record)
}

// GetByID 获取缴费记录详情
func (h *FeeHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	record, err := h.service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "缴费记录不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, record)
}

// List 分页查询缴费记录
func (h *FeeHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	feeType := c.Query("fee_type")
	status := c.Query("status")
	academicYear := c.Query("academic_year")

	var studentID *uint
	if str := c.Query("student_id"); str != "" {
		v, err := strconv.ParseUint(str, 10, 32)
		if err != nil {
			response.BadRequest(c, "学生ID格式错误")
			return
		}
		id := uint(v)
		studentID = &id
	}

	records, total, err := h.service.GetWithFiltersAndPage(studentID, feeType, status, academicYear, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, records, pageInfo)
}

// MarkPaid 标记已缴费
func (h *FeeHandler) MarkPaid(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	record, err := h.service.MarkPaid(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "缴费记录不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, record)
}

// Waive 减免费用
func (h *FeeHandler) Waive(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req WaiveFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	record, err := h.service.Waive(uint(id), req.Remark)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "缴费记录不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, record)
}

// GetStats 获取学年缴费统计
func (h *FeeHandler) GetStats(c *gin.Context) {
	academicYear := c.Query("academic_year")

	stats, err := h.service.GetStats(academicYear)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, stats)
}
