package handlers

import (
	"errors"
	"strconv"

	"schoolhub/internal/services"
	"schoolhub/pkg/pagination"
	"schoolhub/pkg/rbac"
	"schoolhub/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type InquiryHandler struct {
	service *services.InquiryService
}

func NewInquiryHandler(service *services.InquiryService) *InquiryHandler {
	return &InquiryHandler{
		service: service,
	}
}

// CreateInquiryRequest 创建工单请求（无需登录）
type CreateInquiryRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	Email      string `json:"email" binding:"required,email,max=100"`
	Subject    string `json:"subject" binding:"required,max=200"`
	Message    string `json:"message" binding:"required"`
	Department string `json:"department" binding:"omitempty,oneof=general admissions academic finance"`
	Priority   string `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
}

// UpdateInquiryRequest 更新工单请求
type UpdateInquiryRequest struct {
	Subject    string `json:"subject" binding:"omitempty,max=200"`
	Message    string `json:"message"`
	Department string `json:"department" binding:"omitempty,oneof=general admissions academic finance"`
	Priority   string `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
}

// AssignInquiryRequest 指派工单请求
type AssignInquiryRequest struct {
	AssigneeID uint `json:"assignee_id" binding:"required"`
}

// UpdateInquiryStatusRequest 更新工单状态请求
type UpdateInquiryStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open in_progress resolved closed"`
}

// AddInquiryCommentRequest 添加工单评论请求
type AddInquiryCommentRequest struct {
	Comment    string `json:"comment" binding:"required"`
	IsInternal bool   `json:"is_internal"`
}

// isStaff 管理员和教师可以看到全部工单和内部评论
func isStaff(c *gin.Context) bool {
	role, _ := c.Get("role")
	r, ok := role.(string)
	return ok && (rbac.Role(r) == rbac.RoleAdmin || rbac.Role(r) == rbac.RoleTeacher)
}

// Create 创建工单
func (h *InquiryHandler) Create(c *gin.Context) {
	var req CreateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	inquiry, err := h.service.Create(req.Name, req.Email, req.Subject, req.Message, req.Department, req.Priority)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, inquiry)
}

// List 分页获取工单列表
func (h *InquiryHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	status := c.Query("status")
	department := c.Query("department")

	inquiries, total, err := h.service.GetWithFiltersAndPage(status, department, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, inquiries, pageInfo)
}

// GetByID 获取工单详情
func (h *InquiryHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	inquiry, err := h.service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "工单不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, inquiry)
}

// GetByTicket 根据工单号获取工单
func (h *InquiryHandler) GetByTicket(c *gin.Context) {
	ticketNumber := c.Param("ticket_number")

	inquiry, err := h.service.GetByTicketNumber(ticketNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "工单不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, inquiry)
}

// Update 更新工单
func (h *InquiryHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	inquiry, err := h.service.Update(uint(id), req.Subject, req.Message, req.Department, req.Priority)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "工单不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, inquiry)
}

// Assign 指派工单
func (h *InquiryHandler) Assign(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req AssignInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	inquiry, err := h.service.Assign(uint(id), req.AssigneeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "工单不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, inquiry)
}

// UpdateStatus 更新工单状态（管理员或被指派人）
func (h *InquiryHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateInquiryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	inquiry, err := h.service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "工单不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	role, _ := c.Get("role")
	userID, _ := c.Get("user_id")
	if rbac.Role(role.(string)) != rbac.RoleAdmin {
		if inquiry.AssignedToID == nil || *inquiry.AssignedToID != userID.(uint) {
			response.Forbidden(c, "只有管理员或被指派人可以更新工单状态")
			return
		}
	}

	updated, err := h.service.UpdateStatus(uint(id), req.Status)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, updated)
}

// AddComment 添加工单评论，内部评论仅限工作人员
func (h *InquiryHandler) AddComment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req AddInquiryCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if req.IsInternal && !isStaff(c) {
		response.Forbidden(c, "只有工作人员可以添加内部评论")
		return
	}

	userID, _ := c.Get("user_id")
	comment, err := h.service.AddComment(uint(id), userID.(uint), req.Comment, req.IsInternal)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "工单不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, comment)
}

// GetComments 获取工单评论，非工作人员看不到内部评论
func (h *InquiryHandler) GetComments(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	comments, err := h.service.GetComments(uint(id), isStaff(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "工单不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, comments)
}
