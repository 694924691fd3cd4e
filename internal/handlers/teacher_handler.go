package handlers

import (
	"errors"
	"strconv"

	"schoolhub/internal/services"
	"schoolhub/pkg/pagination"
	"schoolhub/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TeacherHandler struct {
	service *services.TeacherService
}

func NewTeacherHandler(service *services.TeacherService) *TeacherHandler {
	return &TeacherHandler{
		service: service,
	}
}

// CreateTeacherRequest 创建教师档案请求
type CreateTeacherRequest struct {
	UserID         uint   `json:"user_id" binding:"required"`
	EmployeeNumber string `json:"employee_number" binding:"required,max=30"`
	Qualification  string `json:"qualification" binding:"max=100"`
	Specialization string `json:"specialization" binding:"max=100"`
	HireDate       string `json:"hire_date"` // 格式 2006-01-02
}

// UpdateTeacherRequest 更新教师档案请求
type UpdateTeacherRequest struct {
	Qualification  string `json:"qualification" binding:"max=100"`
	Specialization string `json:"specialization" binding:"max=100"`
	Status         string `json:"status" binding:"required,oneof=active on_leave resigned"`
}

// AssignSubjectsRequest 分配科目请求
type AssignSubjectsRequest struct {
	SubjectIDs []uint `json:"subject_ids" binding:"required"`
}

// Create 创建教师档案
func (h *TeacherHandler) Create(c *gin.Context) {
	var req CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	hireDate, err := parseDate(req.HireDate)
	if err != nil {
		response.BadRequest(c, "入职日期格式错误")
		return
	}

	teacher, err := h.service.Create(req.UserID, req.EmployeeNumber, req.Qualification, req.Specialization, hireDate)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, teacher)
}

// GetByID 获取教师详情
func (h *TeacherHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	teacher, err := h.service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "教师不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, teacher)
}

// List 分页获取教师列表
func (h *TeacherHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	status := c.Query("status")
	keyword := c.Query("keyword")

	teachers, total, err := h.service.GetWithFiltersAndPage(status, keyword, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, teachers, pageInfo)
}

// Update 更新教师档案
func (h *TeacherHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	teacher, err := h.service.Update(uint(id), req.Qualification, req.Specialization, req.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "教师不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, teacher)
}

// Delete 删除教师档案
func (h *TeacherHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	if err := h.service.Delete(uint(id)); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, gin.H{"message": "删除成功"})
}

// AssignSubjects 设置教师授课科目
func (h *TeacherHandler) AssignSubjects(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req AssignSubjectsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if err := h.service.AssignSubjects(uint(id), req.SubjectIDs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "教师不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, gin.H{"message": "科目分配成功"})
}
