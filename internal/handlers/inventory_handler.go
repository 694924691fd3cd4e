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

type InventoryHandler struct {
	service *services.InventoryService
}

func NewInventoryHandler(service *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		service: service,
	}
}

// CreateInventoryRequest 创建物品请求
type CreateInventoryRequest struct {
	Name      string  `json:"name" binding:"required,max=100"`
	Code      string  `json:"code" binding:"required,max=50"`
	Category  string  `json:"category" binding:"required,oneof=equipment book furniture consumable"`
	Quantity  int     `json:"quantity" binding:"min=0"`
	UnitPrice float64 `json:"unit_price" binding:"min=0"`
	Location  string  `json:"location" binding:"max=100"`
}

// UpdateInventoryRequest 更新物品请求
type UpdateInventoryRequest struct {
	Name      string  `json:"name" binding:"required,max=100"`
	UnitPrice float64 `json:"unit_price" binding:"min=0"`
	Location  string  `json:"location" binding:"max=100"`
}

// AdjustQuantityRequest 调整库存请求
type AdjustQuantityRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// Create 创建物品
func (h *InventoryHandler) Create(c *gin.Context) {
	var req CreateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	item, err := h.service.Create(req.Name, req.Code, req.Category, req.Quantity, req.UnitPrice, req.Location)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, item)
}

// GetByID 获取物品详情
func (h *InventoryHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	item, err := h.service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "物品不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, item)
}

// List 分页查询物品
func (h *InventoryHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	category := c.Query("category")
	status := c.Query("status")
	keyword := c.Query("keyword")

	items, total, err := h.service.GetWithFiltersAndPage(category, status, keyword, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, items, pageInfo)
}

// Update 更新物品信息
func (h *InventoryHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	item, err := h.service.Update(uint(id), req.Name, req.UnitPrice, req.Location)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "物品不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, item)
}

// AdjustQuantity 调整库存数量
func (h *InventoryHandler) AdjustQuantity(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req AdjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	item, err := h.service.AdjustQuantity(uint(id), req.Delta)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "物品不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, item)
}

// Retire 报废物品
func (h *InventoryHandler) Retire(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	item, err := h.service.Retire(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "物品不存在")
			return
		}
		response.ServerError(c, "操作失败")
		return
	}

	response.Success(c, item)
}

// Delete 删除物品
func (h *InventoryHandler) Delete(c *gin.Context) {
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
