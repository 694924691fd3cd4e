package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"schoolhub/pkg/logger"
)

// fileBackup 文件备份：把配置的源路径拷贝进带时间戳的目标目录
type fileBackup struct {
	cfg *Config
}

// create 执行一次文件备份
// 源路径不存在时记警告跳过，不算失败
func (b *fileBackup) create(backupType Type) Record {
	log := logger.GetLogger()
	timestamp := time.Now()
	backupID := newBackupID("files", backupType, timestamp)
	backupDir := filepath.Join(b.cfg.Dir, backupID)

	record := Record{
		BackupID:  backupID,
		Type:      backupType,
		Timestamp: timestamp,
		Status:    StatusInProgress,
		FilePath:  backupDir,
		Metadata: map[string]interface{}{
			"source_paths": b.cfg.FilePaths,
		},
	}

	log.Infof("开始%s文件备份: %s", backupType, backupID)

	if err := os.MkdirAll(backupDir, 0755); err != nil {
		record.Status = StatusFailed
		record.Metadata["error"] = fmt.Sprintf("create backup dir: %v", err)
		return record
	}

	var totalSize int64
	var filesCopied int

	for _, sourcePath := range b.cfg.FilePaths {
		info, err := os.Stat(sourcePath)
		if err != nil {
			log.Warnf("备份源路径不存在，已跳过: %s", sourcePath)
			continue
		}

		destPath := filepath.Join(backupDir, filepath.Base(sourcePath))

		var size int64
		var count int
		if info.IsDir() {
			size, count, err = copyDir(sourcePath, destPath)
		} else {
			size, err = copyFile(sourcePath, destPath)
			count = 1
		}
		if err != nil {
			log.Errorf("文件备份失败 %s: %v", sourcePath, err)
			record.Status = StatusFailed
			record.Metadata["error"] = fmt.Sprintf("copy %s: %v", sourcePath, err)
			return record
		}

		totalSize += size
		filesCopied += count
	}

	record.Status = StatusSuccess
	record.SizeBytes = totalSize
	record.Metadata["files_copied"] = filesCopied
	log.Infof("文件备份完成: %s (%d bytes, %d files)", backupID, totalSize, filesCopied)
	return record
}

// copyFile 拷贝单个文件，返回字节数
func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	n, err := io.Copy(out, in)
	if err != nil {
		return 0, err
	}

	// 保留原文件权限
	if info, err := os.Stat(src); err == nil {
		_ = os.Chmod(dst, info.Mode())
	}
	return n, nil
}

// copyDir 递归拷贝目录，返回总字节数和文件数
func copyDir(src, dst string) (int64, int, error) {
	var totalSize int64
	var count int

	err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			return os.MkdirAll(target, info.Mode())
		}

		size, err := copyFile(path, target)
		if err != nil {
			return err
		}
		totalSize += size
		count++
		return nil
	})

	return totalSize, count, err
}
