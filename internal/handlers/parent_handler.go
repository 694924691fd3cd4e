package handlers

import (
	"errors"
	"strconv"

	"schoolhub/internal/services"
	"schoolhub/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ParentHandler struct {
	service *services.ParentService
}

func NewParentHandler(service *services.ParentService) *ParentHandler {
	return &ParentHandler{
		service: service,
	}
}

// CreateParentRequest 创建家长档案请求
type CreateParentRequest struct {
	UserID     uint   `json:"user_id" binding:"required"`
	Occupation string `json:"occupation" binding:"max=100"`
	WorkPhone  string `json:"work_phone" binding:"max=20"`
	Address    string `json:"address" binding:"max=255"`
}

// UpdateParentRequest 更新家长档案请求
type UpdateParentRequest struct {
	Occupation string `json:"occupation" binding:"max=100"`
	WorkPhone  string `json:"work_phone" binding:"max=20"`
	Address    string `json:"address" binding:"max=255"`
}

// LinkStudentRequest 关联学生请求
type LinkStudentRequest struct {
	StudentID    uint   `json:"student_id" binding:"required"`
	Relationship string `json:"relationship" binding:"required,oneof=father mother guardian"`
	IsPrimary    bool   `json:"is_primary"`
}

// Create 创建家长档案
func (h *ParentHandler) Create(c *gin.Context) {
	var req CreateParentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	parent, err := h.service.Create(req.UserID, req.Occupation, req.WorkPhone, req.Address)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, parent)
}

// GetByID 获取家长详情
func (h *ParentHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	parent, err := h.service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "家长不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, parent)
}

// Update 更新家长档案
func (h *ParentHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateParentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	parent, err := h.service.Update(uint(id), req.Occupation, req.WorkPhone, req.Address)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "家长不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, parent)
}

// Delete 删除家长档案
func (h *ParentHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	if err := h.service.Delete(uint(id)); err != nil {
		response.ServerError(c, "删除失败")
		return
	}

	response.Success(c, gin.H{"message": "删除成功"})
}

// LinkStudent 关联学生
func (h *ParentHandler) LinkStudent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req LinkStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	link, err := h.service.LinkStudent(uint(id), req.StudentID, req.Relationship, req.IsPrimary)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, link)
}

// UnlinkStudent 解除学生关联
func (h *ParentHandler) UnlinkStudent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	studentID, err := strconv.ParseUint(c.Param("student_id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "学生ID格式错误")
		return
	}

	if err := h.service.UnlinkStudent(uint(id), uint(studentID)); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, gin.H{"message": "解除关联成功"})
}

// GetChildren 获取家长名下的学生
func (h *ParentHandler) GetChildren(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	children, err := h.service.GetChildren(uint(id))
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, children)
}

// GetMyChildren 家长查看自己名下的学生
func (h *ParentHandler) GetMyChildren(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "请先登录")
		return
	}

	parent, err := h.service.GetByUserID(userID.(uint))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "家长档案不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	children, err := h.service.GetChildren(parent.ID)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, children)
}
