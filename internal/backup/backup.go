package backup

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"schoolhub/pkg/config"
	"schoolhub/pkg/logger"
)

// Type 备份类型
type Type string

const (
	TypeFull         Type = "full"
	TypeIncremental  Type = "incremental"
	TypeDifferential Type = "differential"
)

// Status 备份状态
type Status string

const (
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
	StatusInProgress Status = "in_progress"
	StatusPartial    Status = "partial"
)

// Record 一次备份尝试的记录
// 备份ID在操作开始前生成，无论成败保持不变；失败的备份同样写入目录账本，
// 保证账本不会悄悄丢失任何一次备份尝试。记录写入后不再修改。
type Record struct {
	BackupID  string                 `json:"backup_id"`
	Type      Type                   `json:"backup_type"`
	Timestamp time.Time              `json:"timestamp"`
	Status    Status                 `json:"status"`
	SizeBytes int64                  `json:"size_bytes"`
	FilePath  string                 `json:"file_path"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// Config 备份配置
type Config struct {
	// 数据库连接
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// 备份设置
	Dir           string   // 备份目录
	RetentionDays int      // 保留天数
	Compression   bool     // 是否gzip压缩数据库备份
	PgDumpBin     string   // pg_dump可执行文件
	PsqlBin       string   // psql可执行文件
	FilePaths     []string // 文件备份源路径

	// S3镜像（Bucket为空时不启用）
	S3Bucket     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

// ConfigFromApp 从应用配置构建备份配置
func ConfigFromApp(cfg *config.Config) *Config {
	return &Config{
		DBHost:        cfg.Database.Host,
		DBPort:        cfg.Database.Port,
		DBUser:        cfg.Database.User,
		DBPassword:    cfg.Database.Password,
		DBName:        cfg.Database.DBName,
		Dir:           cfg.Backup.Dir,
		RetentionDays: cfg.Backup.RetentionDays,
		Compression:   cfg.Backup.Compression,
		PgDumpBin:     cfg.Backup.PgDumpBin,
		PsqlBin:       cfg.Backup.PsqlBin,
		FilePaths:     cfg.Backup.FilePaths,
		S3Bucket:      cfg.Backup.S3Bucket,
		S3Region:      cfg.Backup.S3Region,
		AWSAccessKey:  cfg.Backup.AWSAccessKey,
		AWSSecretKey:  cfg.Backup.AWSSecretKey,
	}
}

// Manager 备份管理器
// 所有操作为同步阻塞执行，应从后台任务或调度器调用，不要放在用户请求路径上。
type Manager struct {
	cfg         *Config
	db          *databaseBackup
	files       *fileBackup
	s3          *s3Mirror
	catalogPath string
}

// NewManager 创建备份管理器
func NewManager(cfg *Config) (*Manager, error) {
	if cfg.PgDumpBin == "" {
		cfg.PgDumpBin = "pg_dump"
	}
	if cfg.PsqlBin == "" {
		cfg.PsqlBin = "psql"
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, err
	}

	return &Manager{
		cfg:         cfg,
		db:          &databaseBackup{cfg: cfg},
		files:       &fileBackup{cfg: cfg},
		s3:          newS3Mirror(cfg),
		catalogPath: filepath.Join(cfg.Dir, "backup_log.json"),
	}, nil
}

// CreateFullBackup 创建全量备份（数据库+文件）
// 两个子备份串行执行，单个失败不阻止另一个；两条记录都写入账本并返回
func (m *Manager) CreateFullBackup() []Record {
	return m.createBackup(TypeFull)
}

// CreateIncrementalBackup 创建增量备份
// 当前未跟踪上次备份检查点，行为与全量备份一致，仅类型标记不同
func (m *Manager) CreateIncrementalBackup() []Record {
	return m.createBackup(TypeIncremental)
}

func (m *Manager) createBackup(backupType Type) []Record {
	log := logger.GetLogger()
	log.Infof("开始%s备份", backupType)

	records := []Record{
		m.db.create(backupType),
		m.files.create(backupType),
	}

	// 成功的产物镜像到S3（失败只记日志，不影响备份结果）
	if m.s3 != nil {
		for _, record := range records {
			if record.Status == StatusSuccess {
				m.s3.upload(&record)
			}
		}
	}

	if err := m.appendRecords(records); err != nil {
		log.Errorf("备份账本写入失败: %v", err)
	}

	return records
}

// RestoreFromBackup 从指定备份恢复
// scope取值：database、files、full；full要求两者都成功，
// 且一侧失败时不回滚另一侧已完成的恢复（无两阶段原子性）。
func (m *Manager) RestoreFromBackup(backupID, scope string) bool {
	log := logger.GetLogger()
	log.Infof("开始恢复备份: %s (scope=%s)", backupID, scope)

	switch scope {
	case "database":
		files := m.findBackupFiles(backupID, "db_")
		if len(files) == 0 {
			log.Errorf("未找到数据库备份: %s", backupID)
			return false
		}
		return m.db.restore(files[0])

	case "files":
		dirs := m.findBackupDirs(backupID, "files_")
		if len(dirs) == 0 {
			log.Errorf("未找到文件备份: %s", backupID)
			return false
		}
		// 文件恢复暂为占位实现，只定位产物不执行回拷
		log.Infof("文件恢复将从该目录执行: %s", dirs[0])
		return true

	default: // full
		dbOK := m.RestoreFromBackup(backupID, "database")
		filesOK := m.RestoreFromBackup(backupID, "files")
		return dbOK && filesOK
	}
}

// DownloadFromMirror 从S3镜像下载指定备份到本地目录
func (m *Manager) DownloadFromMirror(backupType Type, backupID, localDir string) bool {
	if m.s3 == nil {
		logger.GetLogger().Warn("S3镜像未配置，无法下载")
		return false
	}
	return m.s3.download(backupType, backupID, localDir)
}

// CleanupOldBackups 按保留策略清理本地过期备份
// 直接删除，无确认、无演练模式；只清理产物，账本文件不在清理范围内
func (m *Manager) CleanupOldBackups() {
	log := logger.GetLogger()
	log.Info("开始清理过期备份")

	cutoff := time.Now().AddDate(0, 0, -m.cfg.RetentionDays)

	entries, err := os.ReadDir(m.cfg.Dir)
	if err != nil {
		log.Errorf("读取备份目录失败: %v", err)
		return
	}

	for _, entry := range entries {
		if entry.Name() == filepath.Base(m.catalogPath) {
			continue
		}

		itemPath := filepath.Join(m.cfg.Dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		if entry.IsDir() {
			// 只清理备份产物目录
			if !strings.HasPrefix(entry.Name(), "db_") && !strings.HasPrefix(entry.Name(), "files_") {
				continue
			}
			if err := os.RemoveAll(itemPath); err != nil {
				log.Errorf("删除过期备份目录失败 %s: %v", entry.Name(), err)
				continue
			}
			log.Infof("已删除过期备份目录: %s", entry.Name())
		} else {
			if err := os.Remove(itemPath); err != nil {
				log.Errorf("删除过期备份文件失败 %s: %v", entry.Name(), err)
				continue
			}
			log.Infof("已删除过期备份文件: %s", entry.Name())
		}
	}
}

// findBackupFiles 按ID子串和前缀查找备份文件
func (m *Manager) findBackupFiles(backupID, prefix string) []string {
	var files []string
	entries, err := os.ReadDir(m.cfg.Dir)
	if err != nil {
		return files
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), prefix) && strings.Contains(entry.Name(), backupID) {
			files = append(files, filepath.Join(m.cfg.Dir, entry.Name()))
		}
	}
	return files
}

// findBackupDirs 按ID子串和前缀查找备份目录
func (m *Manager) findBackupDirs(backupID, prefix string) []string {
	var dirs []string
	entries, err := os.ReadDir(m.cfg.Dir)
	if err != nil {
		return dirs
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), prefix) && strings.Contains(entry.Name(), backupID) {
			dirs = append(dirs, filepath.Join(m.cfg.Dir, entry.Name()))
		}
	}
	return dirs
}

// newBackupID 生成备份ID：前缀_类型_时间戳
func newBackupID(prefix string, backupType Type, ts time.Time) string {
	return prefix + "_" + string(backupType) + "_" + ts.Format("20060102_150405")
}
