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

type StudentHandler struct {
	service *services.StudentService
}

func NewStudentHandler(service *services.StudentService) *StudentHandler {
	return &StudentHandler{
		service: service,
	}
}

// CreateStudentRequest 创建学生档案请求
type CreateStudentRequest struct {
	UserID        uint   `json:"user_id" binding:"required"`
	StudentNumber string `json:"student_number" binding:"required,max=30"`
	ClassID       *uint  `json:"class_id"`
	Gender        string `json:"gender" binding:"omitempty,oneof=male female"`
	Address       string `json:"address" binding:"max=255"`
	DateOfBirth   string `json:"date_of_birth"` // 格式 2006-01-02
}

// UpdateStudentRequest 更新学生档案请求
type UpdateStudentRequest struct {
	Gender      string `json:"gender" binding:"omitempty,oneof=male female"`
	Address     string `json:"address" binding:"max=255"`
	Status      string `json:"status" binding:"required,oneof=enrolled suspended graduated withdrawn"`
	DateOfBirth string `json:"date_of_birth"`
}

// AssignClassRequest 分配班级请求
type AssignClassRequest struct {
	ClassID uint `json:"class_id" binding:"required"`
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create 创建学生档案
func (h *StudentHandler) Create(c *gin.Context) {
	var req CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	dateOfBirth, err := parseDate(req.DateOfBirth)
	if err != nil {
		response.BadRequest(c, "出生日期格式错误")
		return
	}

	student, err := h.service.Create(req.UserID, req.StudentNumber, req.ClassID, req.Gender, req.Address, dateOfBirth)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, student)
}

// GetByID 获取学生详情
func (h *StudentHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	student, err := h.service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "学生不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, student)
}

// List 分页获取学生列表
func (h *StudentHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	status := c.Query("status")
	keyword := c.Query("keyword")

	var classID *uint
	if classIDStr := c.Query("class_id"); classIDStr != "" {
		id, err := strconv.ParseUint(classIDStr, 10, 32)
		if err != nil {
			response.BadRequest(c, "班级ID格式错误")
			return
		}
		v := uint(id)
		classID = &v
	}

	students, total, err := h.service.GetWithFiltersAndPage(classID, status, keyword, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, students, pageInfo)
}

// Update 更新学生档案
func (h *StudentHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	dateOfBirth, err := parseDate(req.DateOfBirth)
	if err != nil {
		response.BadRequest(c, "出生日期格式错误")
		return
	}

	student, err := h.service.Update(uint(id), req.Gender, req.Address, req.Status, dateOfBirth)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "学生不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, student)
}

// Delete 删除学生档案
func (h *StudentHandler) Delete(c *gin.Context) {
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

// AssignClass 把学生分配到班级
func (h *StudentHandler) AssignClass(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req AssignClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	student, err := h.service.AssignToClass(uint(id), req.ClassID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "学生不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, student)
}

// RemoveFromClass 把学生从班级移除
func (h *StudentHandler) RemoveFromClass(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	student, err := h.service.RemoveFromClass(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "学生不存在")
			return
		}
		response.ServerError(c, "操作失败")
		return
	}

	response.Success(c, student)
}
