package services

import (
	"fmt"
	"testing"
	"time"

	"schoolhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInquiryGeneratesTicketNumber(t *testing.T) {
	db := newTestDB(t)
	svc := &InquiryService{db: db}

	first, err := svc.Create("张三", "zhangsan@example.com", "入学咨询", "请问插班怎么办理", "", "")
	require.NoError(t, err)

	datePart := time.Now().Format("20060102")
	assert.Equal(t, fmt.Sprintf("INQ-%s-0001", datePart), first.TicketNumber)
	assert.Equal(t, models.InquiryStatusOpen, first.Status)
	assert.Equal(t, models.InquiryDeptGeneral, first.Department)
	assert.Equal(t, models.InquiryPriorityNormal, first.Priority)

	second, err := svc.Create("李四", "lisi@example.com", "学费问题", "学费能分期吗", models.InquiryDeptFinance, models.InquiryPriorityHigh)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("INQ-%s-0002", datePart), second.TicketNumber)

	found, err := svc.GetByTicketNumber(second.TicketNumber)
	require.NoError(t, err)
	assert.Equal(t, second.ID, found.ID)
}

func TestCreateInquiryRejectsBadDepartment(t *testing.T) {
	db := newTestDB(t)
	svc := &InquiryService{db: db}

	_, err := svc.Create("张三", "zhangsan@example.com", "标题", "内容", "hr", "")
	assert.Error(t, err)
}

func TestAssignInquiryPromotesOpenStatus(t *testing.T) {
	db := newTestDB(t)
	svc := &InquiryService{db: db}

	staff := createTestUser(t, db, "staff", "admin")
	inquiry, err := svc.Create("张三", "zhangsan@example.com", "标题", "内容", "", "")
	require.NoError(t, err)

	assigned, err := svc.Assign(inquiry.ID, staff.ID)
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedToID)
	assert.Equal(t, staff.ID, *assigned.AssignedToID)
	assert.Equal(t, models.InquiryStatusInProgress, assigned.Status)

	// 处理人必须存在
	_, err = svc.Assign(inquiry.ID, 99999)
	assert.Error(t, err)
}

func TestResolveInquirySetsResolvedAt(t *testing.T) {
	db := newTestDB(t)
	svc := &InquiryService{db: db}

	inquiry, err := svc.Create("张三", "zhangsan@example.com", "标题", "内容", "", "")
	require.NoError(t, err)

	resolved, err := svc.UpdateStatus(inquiry.ID, models.InquiryStatusResolved)
	require.NoError(t, err)
	require.NotNil(t, resolved.ResolvedAt)
	firstResolvedAt := *resolved.ResolvedAt

	// 再次进入resolved不重置解决时间
	reopened, err := svc.UpdateStatus(inquiry.ID, models.InquiryStatusOpen)
	require.NoError(t, err)
	assert.Equal(t, models.InquiryStatusOpen, reopened.Status)

	again, err := svc.UpdateStatus(inquiry.ID, models.InquiryStatusResolved)
	require.NoError(t, err)
	require.NotNil(t, again.ResolvedAt)
	assert.Equal(t, firstResolvedAt.Unix(), again.ResolvedAt.Unix())

	_, err = svc.UpdateStatus(inquiry.ID, "archived")
	assert.Error(t, err)
}

func TestInquiryCommentsFilterInternal(t *testing.T) {
	db := newTestDB(t)
	svc := &InquiryService{db: db}

	staff := createTestUser(t, db, "staff", "admin")
	inquiry, err := svc.Create("张三", "zhangsan@example.com", "标题", "内容", "", "")
	require.NoError(t, err)

	_, err = svc.AddComment(inquiry.ID, staff.ID, "已收到，处理中", false)
	require.NoError(t, err)
	_, err = svc.AddComment(inquiry.ID, staff.ID, "需要财务部确认", true)
	require.NoError(t, err)

	visible, err := svc.GetComments(inquiry.ID, false)
	require.NoError(t, err)
	assert.Len(t, visible, 1)
	assert.Equal(t, "已收到，处理中", visible[0].Comment)

	all, err := svc.GetComments(inquiry.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
