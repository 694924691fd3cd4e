package database

import (
	"schoolhub/internal/models"
	"schoolhub/pkg/logger"
)

// Migrate 执行数据库迁移
func Migrate() error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting database migration...")

	err := DB.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Teacher{},
		&models.Class{},
		&models.Subject{},
		&models.Grade{},
		&models.Attendance{},
		&models.Parent{},
		&models.ParentStudent{},
		&models.Message{},
		&models.FeeRecord{},
		&models.InventoryItem{},
		&models.Inquiry{},
		&models.InquiryComment{},
		&models.LearningResource{},
		&models.ResourceRating{},
		&models.ResourceComment{},
	)

	if err != nil {
		appLogger.Errorf("Database migration failed: %v", err)
		return err
	}

	appLogger.Info("Database migration completed successfully")

	// 种子数据初始化将在 main.go 中单独调用，避免循环依赖

	return nil
}
