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

type SubjectHandler struct {
	service *services.SubjectService
}

func NewSubjectHandler(service *services.SubjectService) *SubjectHandler {
	return &SubjectHandler{
		service: service,
	}
}

// CreateSubjectRequest 创建科目请求
type CreateSubjectRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Code        string `json:"code" binding:"required,max=30"`
	Description string `json:"description" binding:"max=255"`
	Credits     int    `json:"credits"`
	GradeLevel  int    `json:"grade_level" binding:"min=0,max=12"`
}

// UpdateSubjectRequest 更新科目请求
type UpdateSubjectRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=255"`
	Credits     int    `json:"credits" binding:"required,min=1"`
	GradeLevel  int    `json:"grade_level" binding:"min=0,max=12"`
}

// Create 创建科目
func (h *SubjectHandler) Create(c *gin.Context) {
	var req CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	subject, err := h.service.Create(req.Name, req.Code, req.Description, req.Credits, req.GradeLevel)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, subject)
}

// GetByID 获取科目详情
func (h *SubjectHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	subject, err := h.service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "科目不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, subject)
}

// List 分页获取科目列表
func (h *SubjectHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	keyword := c.Query("keyword")

	gradeLevel := 0
	if gradeLevelStr := c.Query("grade_level"); gradeLevelStr != "" {
		v, err := strconv.Atoi(gradeLevelStr)
		if err != nil {
			response.BadRequest(c, "年级格式错误")
			return
		}
		gradeLevel = v
	}

	subjects, total, err := h.service.GetWithPage(gradeLevel, keyword, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, subjects, pageInfo)
}

// Update 更新科目
func (h *SubjectHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	subject, err := h.service.Update(uint(id), req.Name, req.Description, req.Credits, req.GradeLevel)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "科目不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, subject)
}

// Delete 删除科目
func (h *SubjectHandler) Delete(c *gin.Context) {
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
