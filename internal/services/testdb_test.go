package services

import (
	"fmt"
	"testing"

	"schoolhub/internal/models"
	"schoolhub/pkg/cache"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB 每个测试独享的内存数据库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Teacher{},
		&models.Class{},
		&models.Student{},
		&models.Subject{},
		&models.Message{},
		&models.Inquiry{},
		&models.InquiryComment{},
		&models.LearningResource{},
		&models.ResourceRating{},
		&models.ResourceComment{},
	))

	return db
}

// newNoopCache 不可用的缓存管理器，所有操作降级为直通
func newNoopCache() *cache.Manager {
	return cache.NewManagerWithClient(nil, &cache.Config{KeyPrefix: "test:", DefaultTTL: 60})
}

func createTestUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@test.local",
		Name:     username,
		Role:     role,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, user.SetPassword("Secret@123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestTeacher(t *testing.T, db *gorm.DB, username, employeeNumber string) *models.Teacher {
	t.Helper()

	user := createTestUser(t, db, username, "teacher")
	teacher := &models.Teacher{
		UserID:         user.ID,
		EmployeeNumber: employeeNumber,
		Status:         models.TeacherStatusActive,
	}
	require.NoError(t, db.Create(teacher).Error)
	return teacher
}
