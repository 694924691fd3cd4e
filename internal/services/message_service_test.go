package services

import (
	"testing"

	"schoolhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendRejectsUnknownReceiver(t *testing.T) {
	db := newTestDB(t)
	svc := &MessageService{db: db, cache: newNoopCache()}

	_, err := svc.Send(nil, 99999, models.MessageTypeNotice, "测试", "内容", nil)
	assert.Error(t, err)
}

func TestBroadcastSkipsFailedReceivers(t *testing.T) {
	db := newTestDB(t)
	svc := &MessageService{db: db, cache: newNoopCache()}

	u1 := createTestUser(t, db, "recv1", "student")
	u2 := createTestUser(t, db, "recv2", "student")

	// 中间夹一个不存在的接收者，后面的接收者仍然要收到
	sent, failed, err := svc.Broadcast(nil, []uint{u1.ID, 99999, u2.ID},
		models.MessageTypeNotice, "放假通知", "下周一调休")
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, 1, failed)

	var count int64
	db.Model(&models.Message{}).Where("receiver_id = ?", u2.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestBroadcastRejectsInvalidType(t *testing.T) {
	db := newTestDB(t)
	svc := &MessageService{db: db, cache: newNoopCache()}

	u1 := createTestUser(t, db, "recv1", "student")

	sent, failed, err := svc.Broadcast(nil, []uint{u1.ID}, "bogus", "标题", "内容")
	assert.Error(t, err)
	assert.Equal(t, 0, sent)
	assert.Equal(t, 0, failed)

	var count int64
	db.Model(&models.Message{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestMarkReadOnlyOwnMessages(t *testing.T) {
	db := newTestDB(t)
	svc := &MessageService{db: db, cache: newNoopCache()}

	u1 := createTestUser(t, db, "owner", "student")
	u2 := createTestUser(t, db, "other", "student")

	message, err := svc.Send(nil, u1.ID, models.MessageTypeSystem, "系统通知", "内容", nil)
	require.NoError(t, err)

	// 别人的消息标记不到
	assert.Error(t, svc.MarkRead(message.MessageID, u2.ID))

	require.NoError(t, svc.MarkRead(message.MessageID, u1.ID))
	stored, err := svc.GetByMessageID(message.MessageID)
	require.NoError(t, err)
	assert.True(t, stored.IsRead)
	assert.NotNil(t, stored.ReadAt)
}
