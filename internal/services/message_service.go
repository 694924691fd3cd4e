package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"schoolhub/internal/database"
	"schoolhub/internal/models"
	"schoolhub/pkg/cache"
	"schoolhub/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MessageService struct {
	db    *gorm.DB
	cache *cache.Manager
}

func NewMessageService() *MessageService {
	return &MessageService{
		db:    database.GetDB(),
		cache: database.GetCacheManager(),
	}
}

// ========== 消息发送 ==========

// Send 发送消息给指定用户，senderID为nil表示系统消息
// 落库后推送到Redis频道，供WebSocket实时通道转发
func (s *MessageService) Send(senderID *uint, receiverID uint, msgType, title, content string, extra map[string]interface{}) (*models.Message, error) {
	switch msgType {
	case models.MessageTypeNotice, models.MessageTypeGrade, models.MessageTypeAttendance,
		models.MessageTypeFee, models.MessageTypeSystem:
	default:
		return nil, fmt.Errorf("消息类型不正确")
	}

	var receiverCount int64
	s.db.Model(&models.User{}).Where("id = ?", receiverID).Count(&receiverCount)
	if receiverCount == 0 {
		return nil, fmt.Errorf("接收用户不存在")
	}

	message := &models.Message{
		MessageID:  uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Type:       msgType,
		Title:      title,
		Content:    content,
	}

	if extra != nil {
		data, err := json.Marshal(extra)
		if err != nil {
			return nil, fmt.Errorf("附加数据编码失败: %v", err)
		}
		message.Extra = datatypes.JSON(data)
	}

	if err := s.db.Create(message).Error; err != nil {
		return nil, err
	}

	s.publish(message)
	s.cache.Delete(fmt.Sprintf("user:%d:unread_count", receiverID))

	return message, nil
}

// Broadcast 群发消息给多个用户，单个接收者失败不中断其余接收者
// 返回成功数和失败数
func (s *MessageService) Broadcast(senderID *uint, receiverIDs []uint, msgType, title, content string) (int, int, error) {
	switch msgType {
	case models.MessageTypeNotice, models.MessageTypeGrade, models.MessageTypeAttendance,
		models.MessageTypeFee, models.MessageTypeSystem:
	default:
		return 0, 0, fmt.Errorf("消息类型不正确")
	}

	sent, failed := 0, 0
	for _, receiverID := range receiverIDs {
		if _, err := s.Send(senderID, receiverID, msgType, title, content, nil); err != nil {
			failed++
			logger.GetLogger().Warnf("群发消息失败 receiver_id=%d: %v", receiverID, err)
			continue
		}
		sent++
	}
	return sent, failed, nil
}

// publish 推送消息到接收者的实时频道，Redis不可用时静默跳过
func (s *MessageService) publish(message *models.Message) {
	client := s.cache.GetClient()
	if client == nil {
		return
	}

	payload, err := json.Marshal(message)
	if err != nil {
		logger.GetLogger().Errorf("消息推送编码失败 message_id=%s: %v", message.MessageID, err)
		return
	}

	channel := NotifyChannel(message.ReceiverID)
	if err := client.Publish(context.Background(), channel, payload).Err(); err != nil {
		logger.GetLogger().Errorf("消息推送失败 channel=%s: %v", channel, err)
	}
}

// NotifyChannel 用户实时消息的Redis频道名
func NotifyChannel(userID uint) string {
	return fmt.Sprintf("notify:user:%d", userID)
}

// ========== 消息查询 ==========

// GetByMessageID 根据消息UUID获取消息
func (s *MessageService) GetByMessageID(messageID string) (*models.Message, error) {
	var message models.Message
	err := s.db.Preload("Sender").Where("message_id = ?", messageID).First(&message).Error
	return &message, err
}

// GetInboxWithPage 分页获取用户收件箱
func (s *MessageService) GetInboxWithPage(receiverID uint, msgType string, unreadOnly bool, page, pageSize int) ([]*models.Message, int64, error) {
	var messages []*models.Message
	var total int64

	query := s.db.Model(&models.Message{}).Where("receiver_id = ?", receiverID)

	if msgType != "" {
		query = query.Where("type = ?", msgType)
	}
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Sender").
		Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// GetUnreadCount 获取未读消息数（带缓存）
func (s *MessageService) GetUnreadCount(receiverID uint) (int64, error) {
	cacheKey := fmt.Sprintf("user:%d:unread_count", receiverID)

	var count int64
	if s.cache.Get(cacheKey, &count) {
		return count, nil
	}

	err := s.db.Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).Count(&count).Error
	if err != nil {
		return 0, err
	}

	s.cache.Set(cacheKey, count, 60)
	return count, nil
}

// ========== 已读标记 ==========

// MarkRead 标记单条消息已读（只能标记自己的消息）
func (s *MessageService) MarkRead(messageID string, receiverID uint) error {
	var message models.Message
	err := s.db.Where("message_id = ? AND receiver_id = ?", messageID, receiverID).First(&message).Error
	if err != nil {
		return err
	}

	if message.IsRead {
		return nil
	}

	now := time.Now()
	message.IsRead = true
	message.ReadAt = &now
	if err := s.db.Save(&message).Error; err != nil {
		return err
	}

	s.cache.Delete(fmt.Sprintf("user:%d:unread_count", receiverID))
	return nil
}

// MarkAllRead 标记用户全部消息已读
func (s *MessageService) MarkAllRead(receiverID uint) (int64, error) {
	now := time.Now()
	result := s.db.Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now})
	if result.Error != nil {
		return 0, result.Error
	}

	s.cache.Delete(fmt.Sprintf("user:%d:unread_count", receiverID))
	return result.RowsAffected, nil
}
