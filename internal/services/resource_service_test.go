package services

import (
	"testing"

	"schoolhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateResourceValidatesCategory(t *testing.T) {
	db := newTestDB(t)
	svc := &ResourceService{db: db, cache: newNoopCache()}

	teacher := createTestTeacher(t, db, "teacher1", "T001")

	resource, err := svc.Create(teacher.ID, "函数专题讲义", "", "", "", nil, 9, "", "数学,函数")
	require.NoError(t, err)
	assert.Equal(t, models.ResourceCategoryOther, resource.Category)

	_, err = svc.Create(teacher.ID, "无效分类", "", "", "", nil, 0, "podcast", "")
	assert.Error(t, err)
}

func TestRateResourceValidatesRange(t *testing.T) {
	db := newTestDB(t)
	svc := &ResourceService{db: db, cache: newNoopCache()}

	teacher := createTestTeacher(t, db, "teacher1", "T001")
	user := createTestUser(t, db, "student1", "student")
	resource, err := svc.Create(teacher.ID, "讲义", "", "", "", nil, 0, models.ResourceCategoryLessonPlan, "")
	require.NoError(t, err)

	_, err = svc.Rate(resource.ID, user.ID, 0)
	assert.Error(t, err)
	_, err = svc.Rate(resource.ID, user.ID, 6)
	assert.Error(t, err)
}

func TestRateResourceOverwritesPerUser(t *testing.T) {
	db := newTestDB(t)
	svc := &ResourceService{db: db, cache: newNoopCache()}

	teacher := createTestTeacher(t, db, "teacher1", "T001")
	user := createTestUser(t, db, "student1", "student")
	resource, err := svc.Create(teacher.ID, "讲义", "", "", "", nil, 0, models.ResourceCategoryLessonPlan, "")
	require.NoError(t, err)

	_, err = svc.Rate(resource.ID, user.ID, 3)
	require.NoError(t, err)
	_, err = svc.Rate(resource.ID, user.ID, 5)
	require.NoError(t, err)

	var count int64
	db.Model(&models.ResourceRating{}).Where("resource_id = ?", resource.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	summary, err := svc.GetRatingSummary(resource.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, summary.Average)
	assert.Equal(t, int64(1), summary.RatingCount)
}

func TestRatingSummaryAverages(t *testing.T) {
	db := newTestDB(t)
	svc := &ResourceService{db: db, cache: newNoopCache()}

	teacher := createTestTeacher(t, db, "teacher1", "T001")
	u1 := createTestUser(t, db, "student1", "student")
	u2 := createTestUser(t, db, "student2", "student")
	resource, err := svc.Create(teacher.ID, "讲义", "", "", "", nil, 0, models.ResourceCategoryWorksheet, "")
	require.NoError(t, err)

	_, err = svc.Rate(resource.ID, u1.ID, 4)
	require.NoError(t, err)
	_, err = svc.Rate(resource.ID, u2.ID, 2)
	require.NoError(t, err)

	summary, err := svc.GetRatingSummary(resource.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, summary.Average)
	assert.Equal(t, int64(2), summary.RatingCount)

	// 没有评分的资源汇总为0
	empty, err := svc.Create(teacher.ID, "未评分讲义", "", "", "", nil, 0, models.ResourceCategoryOther, "")
	require.NoError(t, err)
	summary, err = svc.GetRatingSummary(empty.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.Average)
	assert.Equal(t, int64(0), summary.RatingCount)
}

func TestIsUploader(t *testing.T) {
	db := newTestDB(t)
	svc := &ResourceService{db: db, cache: newNoopCache()}

	uploader := createTestTeacher(t, db, "teacher1", "T001")
	other := createTestTeacher(t, db, "teacher2", "T002")
	student := createTestUser(t, db, "student1", "student")

	resource, err := svc.Create(uploader.ID, "讲义", "", "", "", nil, 0, models.ResourceCategoryLessonPlan, "")
	require.NoError(t, err)

	ok, err := svc.IsUploader(resource.ID, uploader.UserID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsUploader(resource.ID, other.UserID)
	require.NoError(t, err)
	assert.False(t, ok)

	// 没有教师档案的用户不是上传者
	ok, err = svc.IsUploader(resource.ID, student.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteResourceRemovesRatingsAndComments(t *testing.T) {
	db := newTestDB(t)
	svc := &ResourceService{db: db, cache: newNoopCache()}

	teacher := createTestTeacher(t, db, "teacher1", "T001")
	user := createTestUser(t, db, "student1", "student")
	resource, err := svc.Create(teacher.ID, "讲义", "", "", "", nil, 0, models.ResourceCategoryLessonPlan, "")
	require.NoError(t, err)

	_, err = svc.Rate(resource.ID, user.ID, 4)
	require.NoError(t, err)
	_, err = svc.AddComment(resource.ID, user.ID, "讲得很清楚")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(resource.ID))

	var ratings, comments int64
	db.Model(&models.ResourceRating{}).Where("resource_id = ?", resource.ID).Count(&ratings)
	db.Model(&models.ResourceComment{}).Where("resource_id = ?", resource.ID).Count(&comments)
	assert.Equal(t, int64(0), ratings)
	assert.Equal(t, int64(0), comments)
}
