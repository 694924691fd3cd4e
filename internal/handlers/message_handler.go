package handlers

import (
	"errors"

	"schoolhub/internal/services"
	"schoolhub/pkg/pagination"
	"schoolhub/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MessageHandler struct {
	service *services.MessageService
}

func NewMessageHandler(service *services.MessageService) *MessageHandler {
	return &MessageHandler{
		service: service,
	}
}

// SendMessageRequest 发送消息请求
type SendMessageRequest struct {
	ReceiverID uint                   `json:"receiver_id" binding:"required"`
	Type       string                 `json:"type" binding:"required,oneof=notice grade attendance fee system"`
	Title      string                 `json:"title" binding:"required,max=200"`
	Content    string                 `json:"content"`
	Extra      map[string]interface{} `json:"extra"`
}

// BroadcastRequest 群发消息请求
type BroadcastRequest struct {
	ReceiverIDs []uint `json:"receiver_ids" binding:"required,min=1"`
	Type        string `json:"type" binding:"required,oneof=notice grade attendance fee system"`
	Title       string `json:"title" binding:"required,max=200"`
	Content     string `json:"content"`
}

// Send 发送消息
func (h *MessageHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	userID, _ := c.Get("user_id")
	senderID := userID.(uint)

	message, err := h.service.Send(&senderID, req.ReceiverID, req.Type, req.Title, req.Content, req.Extra)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, message)
}

// Broadcast 群发消息
func (h *MessageHandler) Broadcast(c *gin.Context) {
	var req BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	userID, _ := c.Get("user_id")
	senderID := userID.(uint)

	sent, failed, err := h.service.Broadcast(&senderID, req.ReceiverIDs, req.Type, req.Title, req.Content)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, gin.H{"sent": sent, "failed": failed})
}

// Inbox 分页获取收件箱
func (h *MessageHandler) Inbox(c *gin.Context) {
	userID, _ := c.Get("user_id")
	params := pagination.ParsePageParams(c)
	msgType := c.Query("type")
	unreadOnly := c.Query("unread_only") == "true"

	messages, total, err := h.service.GetInboxWithPage(userID.(uint), msgType, unreadOnly, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, messages, pageInfo)
}

// UnreadCount 获取未读消息数
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	userID, _ := c.Get("user_id")

	count, err := h.service.GetUnreadCount(userID.(uint))
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, gin.H{"unread": count})
}

// MarkRead 标记单条消息已读
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, _ := c.Get("user_id")
	messageID := c.Param("message_id")

	if err := h.service.MarkRead(messageID, userID.(uint)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "消息不存在")
			return
		}
		response.ServerError(c, "操作失败")
		return
	}

	response.Success(c, gin.H{"message": "已标记为已读"})
}

// MarkAllRead 标记全部消息已读
func (h *MessageHandler) MarkAllRead(c *gin.Context) {
	userID, _ := c.Get("user_id")

	marked, err := h.service.MarkAllRead(userID.(uint))
	if err != nil {
		response.ServerError(c, "操作失败")
		return
	}

	response.Success(c, gin.H{"marked": marked})
}
