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

type ClassHandler struct {
	service *services.ClassService
}

func NewClassHandler(service *services.ClassService) *ClassHandler {
	return &ClassHandler{
		service: service,
	}
}

// CreateClassRequest 创建班级请求
type CreateClassRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	Code         string `json:"code" binding:"required,max=30"`
	GradeLevel   int    `json:"grade_level" binding:"required,min=1,max=12"`
	AcademicYear string `json:"academic_year" binding:"required,max=20"`
	Capacity     int    `json:"capacity"`
	Room         string `json:"room" binding:"max=50"`
}

// UpdateClassRequest 更新班级请求
type UpdateClassRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
	Room     string `json:"room" binding:"max=50"`
	Status   string `json:"status" binding:"required,oneof=active archived"`
}

// SetHeadTeacherRequest 设置班主任请求
type SetHeadTeacherRequest struct {
	TeacherID uint `json:"teacher_id" binding:"required"`
}

// Create 创建班级
func (h *ClassHandler) Create(c *gin.Context) {
	var req CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	class, err := h.service.Create(req.Name, req.Code, req.GradeLevel, req.AcademicYear, req.Capacity, req.Room)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, class)
}

// GetByID 获取班级详情
func (h *ClassHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	class, err := h.service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "班级不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, class)
}

// List 分页获取班级列表
func (h *ClassHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	academicYear := c.Query("academic_year")
	status := c.Query("status")

	gradeLevel := 0
	if gradeLevelStr := c.Query("grade_level"); gradeLevelStr != "" {
		v, err := strconv.Atoi(gradeLevelStr)
		if err != nil {
			response.BadRequest(c, "年级格式错误")
			return
		}
		gradeLevel = v
	}

	classes, total, err := h.service.GetWithFiltersAndPage(gradeLevel, academicYear, status, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, classes, pageInfo)
}

// Update 更新班级
func (h *ClassHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	class, err := h.service.Update(uint(id), req.Name, req.Capacity, req.Room, req.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "班级不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, class)
}

// Delete 删除班级
func (h *ClassHandler) Delete(c *gin.Context) {
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

// SetHeadTeacher 设置班主任
func (h *ClassHandler) SetHeadTeacher(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req SetHeadTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	class, err := h.service.SetHeadTeacher(uint(id), req.TeacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "班级不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, class)
}

// AssignSubjects 设置班级开设科目
func (h *ClassHandler) AssignSubjects(c *gin.Context) {
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
			response.NotFound(c, "班级不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, gin.H{"message": "科目分配成功"})
}

// GetRoster 获取班级名单
func (h *ClassHandler) GetRoster(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	roster, err := h.service.GetRoster(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "班级不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, roster)
}
