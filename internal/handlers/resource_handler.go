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

type ResourceHandler struct {
	service        *services.ResourceService
	teacherService *services.TeacherService
}

func NewResourceHandler(service *services.ResourceService, teacherService *services.TeacherService) *ResourceHandler {
	return &ResourceHandler{
		service:        service,
		teacherService: teacherService,
	}
}

// CreateResourceRequest 创建资源请求
type CreateResourceRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	FileURL     string `json:"file_url" binding:"omitempty,max=500"`
	VideoURL    string `json:"video_url" binding:"omitempty,max=500"`
	SubjectID   *uint  `json:"subject_id"`
	GradeLevel  int    `json:"grade_level" binding:"omitempty,min=0,max=12"`
	Category    string `json:"category" binding:"omitempty,oneof=lesson_plan worksheet video presentation other"`
	Tags        string `json:"tags" binding:"omitempty,max=255"`
}

// UpdateResourceRequest 更新资源请求
type UpdateResourceRequest struct {
	Title       string `json:"title" binding:"omitempty,max=200"`
	Description string `json:"description"`
	FileURL     string `json:"file_url" binding:"omitempty,max=500"`
	VideoURL    string `json:"video_url" binding:"omitempty,max=500"`
	Category    string `json:"category" binding:"omitempty,oneof=lesson_plan worksheet video presentation other"`
	Tags        string `json:"tags" binding:"omitempty,max=255"`
}

// RateResourceRequest 资源评分请求
type RateResourceRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

// AddResourceCommentRequest 资源评论请求
type AddResourceCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// canModify 只有管理员或上传者本人可以修改/删除资源
func (h *ResourceHandler) canModify(c *gin.Context, resourceID uint) (bool, error) {
	role, _ := c.Get("role")
	if rbac.Role(role.(string)) == rbac.RoleAdmin {
		return true, nil
	}
	userID, _ := c.Get("user_id")
	return h.service.IsUploader(resourceID, userID.(uint))
}

// Create 创建资源（仅教师）
func (h *ResourceHandler) Create(c *gin.Context) {
	var req CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	userID, _ := c.Get("user_id")
	teacher, err := h.teacherService.GetByUserID(userID.(uint))
	if err != nil {
		response.BadRequest(c, "教师档案不存在")
		return
	}

	resource, err := h.service.Create(teacher.ID, req.Title, req.Description, req.FileURL, req.VideoURL,
		req.SubjectID, req.GradeLevel, req.Category, req.Tags)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, resource)
}

// List 分页获取资源列表
func (h *ResourceHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	category := c.Query("category")
	keyword := c.Query("keyword")

	var subjectID *uint
	if v := c.Query("subject_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			response.BadRequest(c, "科目ID格式错误")
			return
		}
		u := uint(id)
		subjectID = &u
	}

	gradeLevel := 0
	if v := c.Query("grade_level"); v != "" {
		level, err := strconv.Atoi(v)
		if err != nil || level < 0 {
			response.BadRequest(c, "年级格式错误")
			return
		}
		gradeLevel = level
	}

	resources, total, err := h.service.GetWithFiltersAndPage(subjectID, gradeLevel, category, keyword, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, resources, pageInfo)
}

// GetByID 获取资源详情
func (h *ResourceHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	resource, err := h.service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "资源不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, resource)
}

// Update 更新资源（管理员或上传者）
func (h *ResourceHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	allowed, err := h.canModify(c, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "资源不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}
	if !allowed {
		response.Forbidden(c, "只有上传者或管理员可以修改资源")
		return
	}

	var req UpdateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	resource, err := h.service.Update(uint(id), req.Title, req.Description, req.FileURL, req.VideoURL, req.Category, req.Tags)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, resource)
}

// Delete 删除资源（管理员或上传者）
func (h *ResourceHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	allowed, err := h.canModify(c, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "资源不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}
	if !allowed {
		response.Forbidden(c, "只有上传者或管理员可以删除资源")
		return
	}

	if err := h.service.Delete(uint(id)); err != nil {
		response.ServerError(c, "删除失败")
		return
	}

	response.Success(c, gin.H{"message": "删除成功"})
}

// Rate 给资源评分
func (h *ResourceHandler) Rate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req RateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	userID, _ := c.Get("user_id")
	rating, err := h.service.Rate(uint(id), userID.(uint), req.Rating)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "资源不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, rating)
}

// GetRatings 获取资源评分列表及汇总
func (h *ResourceHandler) GetRatings(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	summary, err := h.service.GetRatingSummary(uint(id))
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	ratings, err := h.service.GetRatings(uint(id))
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, gin.H{
		"summary": summary,
		"ratings": ratings,
	})
}

// AddComment 添加资源评论
func (h *ResourceHandler) AddComment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req AddResourceCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	userID, _ := c.Get("user_id")
	comment, err := h.service.AddComment(uint(id), userID.(uint), req.Comment)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "资源不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, comment)
}

// GetComments 获取资源评论
func (h *ResourceHandler) GetComments(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	comments, err := h.service.GetComments(uint(id))
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, comments)
}
