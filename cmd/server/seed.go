package main

import (
	"fmt"

	"schoolhub/internal/database"
	"schoolhub/internal/models"
	"schoolhub/pkg/logger"
	"schoolhub/pkg/rbac"

	"gorm.io/gorm"
)

// seedData 初始化种子数据
func seedData() error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting seed data initialization...")

	db := database.GetDB()

	// 1. 创建默认管理员用户
	if err := createDefaultAdmin(db); err != nil {
		return fmt.Errorf("创建默认管理员失败: %v", err)
	}

	// 2. 创建基础科目
	if err := createDefaultSubjects(db); err != nil {
		return fmt.Errorf("创建基础科目失败: %v", err)
	}

	appLogger.Info("Seed data initialization completed successfully")
	return nil
}

// createDefaultAdmin 创建默认管理员用户
func createDefaultAdmin(db *gorm.DB) error {
	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count > 0 {
		logger.GetLogger().Info("默认管理员已存在，跳过创建")
		return nil
	}

	admin := &models.User{
		Username: "admin",
		Email:    "admin@schoolhub.local",
		Name:     "系统管理员",
		Role:     string(rbac.RoleAdmin),
		Status:   models.UserStatusActive,
	}

	// 默认密码，首次登录后应立即修改
	if err := admin.SetPassword("Admin@123"); err != nil {
		return err
	}

	if err := db.Create(admin).Error; err != nil {
		return err
	}

	logger.GetLogger().Info("默认管理员创建成功 (username: admin)")
	return nil
}

// createDefaultSubjects 创建基础科目
func createDefaultSubjects(db *gorm.DB) error {
	var count int64
	db.Model(&models.Subject{}).Count(&count)
	if count > 0 {
		logger.GetLogger().Info("科目已存在，跳过创建")
		return nil
	}

	defaultSubjects := []models.Subject{
		{Name: "语文", Code: "CHN", Credits: 4},
		{Name: "数学", Code: "MATH", Credits: 4},
		{Name: "英语", Code: "ENG", Credits: 4},
		{Name: "物理", Code: "PHY", Credits: 3},
		{Name: "化学", Code: "CHEM", Credits: 3},
		{Name: "生物", Code: "BIO", Credits: 3},
		{Name: "历史", Code: "HIST", Credits: 2},
		{Name: "地理", Code: "GEO", Credits: 2},
		{Name: "体育", Code: "PE", Credits: 2},
	}

	if err := db.Create(&defaultSubjects).Error; err != nil {
		return err
	}

	logger.GetLogger().Infof("基础科目创建成功，共%d门", len(defaultSubjects))
	return nil
}
