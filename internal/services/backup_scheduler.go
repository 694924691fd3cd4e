package services

import (
	"fmt"

	"schoolhub/internal/backup"
	"schoolhub/internal/database"
	"schoolhub/pkg/cache"
	"schoolhub/pkg/config"
	"schoolhub/pkg/logger"

	"github.com/robfig/cron/v3"
)

// BackupScheduler 备份调度器
// 按配置的cron表达式自动执行全量备份、增量备份和过期清理。
// 多实例部署时通过Redis锁保证同一时刻只有一个实例执行备份。
type BackupScheduler struct {
	manager *backup.Manager
	cache   *cache.Manager
	cfg     config.BackupConfig
	cron    *cron.Cron
	running bool
}

// 备份调度锁的持有时间（秒），覆盖一次备份的最长预期耗时
const backupLockTTL = 1800

// NewBackupScheduler 创建备份调度器
func NewBackupScheduler(manager *backup.Manager) *BackupScheduler {
	return &BackupScheduler{
		manager: manager,
		cache:   database.GetCacheManager(),
		cfg:     config.GetConfig().Backup,
		cron:    cron.New(),
	}
}

// Start 启动调度器
func (s *BackupScheduler) Start() error {
	if s.running {
		return fmt.Errorf("调度器已经在运行")
	}

	log := logger.GetLogger()

	if _, err := s.cron.AddFunc(s.cfg.FullCron, func() {
		s.runLocked("full", func() {
			records := s.manager.CreateFullBackup()
			log.Infof("定时全量备份完成，共%d条记录", len(records))
		})
	}); err != nil {
		return fmt.Errorf("注册全量备份任务失败: %v", err)
	}

	if _, err := s.cron.AddFunc(s.cfg.IncrementalCron, func() {
		s.runLocked("incremental", func() {
			records := s.manager.CreateIncrementalBackup()
			log.Infof("定时增量备份完成，共%d条记录", len(records))
		})
	}); err != nil {
		return fmt.Errorf("注册增量备份任务失败: %v", err)
	}

	if _, err := s.cron.AddFunc(s.cfg.CleanupCron, func() {
		s.runLocked("cleanup", func() {
			s.manager.CleanupOldBackups()
			log.Info("定时备份清理完成")
		})
	}); err != nil {
		return fmt.Errorf("注册清理任务失败: %v", err)
	}

	s.cron.Start()
	s.running = true

	log.Infof("备份调度器启动成功 full=%q incremental=%q cleanup=%q",
		s.cfg.FullCron, s.cfg.IncrementalCron, s.cfg.CleanupCron)
	return nil
}

// Stop 停止调度器
func (s *BackupScheduler) Stop() {
	if !s.running {
		return
	}

	logger.GetLogger().Info("停止备份调度器")
	s.cron.Stop()
	s.running = false
}

// runLocked 抢到Redis锁才执行任务；Redis不可用时退化为直接执行
func (s *BackupScheduler) runLocked(job string, fn func()) {
	lockKey := fmt.Sprintf("backup:lock:%s", job)

	if s.cache.Available() {
		if !s.cache.SetNX(lockKey, 1, backupLockTTL) {
			logger.GetLogger().Infof("备份任务 %s 已由其他实例执行，跳过", job)
			return
		}
		defer s.cache.Delete(lockKey)
	}

	fn()
}
