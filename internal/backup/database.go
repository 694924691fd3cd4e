package backup

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"schoolhub/pkg/logger"
)

// databaseBackup 数据库备份：shell方式调用pg_dump/psql，不走驱动API
type databaseBackup struct {
	cfg *Config
}

// create 执行一次数据库备份
// 失败不向上抛错，返回status=failed的记录，错误信息写入metadata
func (b *databaseBackup) create(backupType Type) Record {
	log := logger.GetLogger()
	timestamp := time.Now()
	backupID := newBackupID("db", backupType, timestamp)
	backupPath := filepath.Join(b.cfg.Dir, backupID+".sql")

	record := Record{
		BackupID:  backupID,
		Type:      backupType,
		Timestamp: timestamp,
		Status:    StatusInProgress,
		FilePath:  backupPath,
		Metadata: map[string]interface{}{
			"database":   b.cfg.DBName,
			"host":       b.cfg.DBHost,
			"compressed": b.cfg.Compression,
		},
	}

	log.Infof("开始%s数据库备份: %s", backupType, backupID)

	cmd := exec.Command(b.cfg.PgDumpBin,
		"-h", b.cfg.DBHost,
		"-p", b.cfg.DBPort,
		"-U", b.cfg.DBUser,
		"-d", b.cfg.DBName,
		"-f", backupPath,
		"--no-password",
	)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+b.cfg.DBPassword)

	if output, err := cmd.CombinedOutput(); err != nil {
		log.Errorf("数据库备份失败 %s: %v", backupID, err)
		record.Status = StatusFailed
		record.Metadata["error"] = fmt.Sprintf("pg_dump failed: %v: %s", err, strings.TrimSpace(string(output)))
		return record
	}

	// 压缩产物
	if b.cfg.Compression {
		compressed, err := compressFile(backupPath)
		if err != nil {
			log.Errorf("备份压缩失败 %s: %v", backupID, err)
			record.Status = StatusFailed
			record.Metadata["error"] = fmt.Sprintf("compress failed: %v", err)
			return record
		}
		backupPath = compressed
		record.FilePath = backupPath
	}

	info, err := os.Stat(backupPath)
	if err != nil {
		record.Status = StatusFailed
		record.Metadata["error"] = fmt.Sprintf("stat backup file: %v", err)
		return record
	}

	record.Status = StatusSuccess
	record.SizeBytes = info.Size()
	log.Infof("数据库备份完成: %s (%d bytes)", backupID, record.SizeBytes)
	return record
}

// restore 从备份文件恢复数据库
func (b *databaseBackup) restore(backupPath string) bool {
	log := logger.GetLogger()
	log.Infof("开始数据库恢复: %s", backupPath)

	if _, err := os.Stat(backupPath); err != nil {
		log.Errorf("备份文件不存在: %s", backupPath)
		return false
	}

	// gzip压缩的备份先解压到临时文件
	restorePath := backupPath
	if strings.HasSuffix(backupPath, ".gz") {
		tempPath, err := decompressFile(backupPath)
		if err != nil {
			log.Errorf("备份解压失败: %v", err)
			return false
		}
		defer os.Remove(tempPath)
		restorePath = tempPath
	}

	cmd := exec.Command(b.cfg.PsqlBin,
		"-h", b.cfg.DBHost,
		"-p", b.cfg.DBPort,
		"-U", b.cfg.DBUser,
		"-d", b.cfg.DBName,
		"-f", restorePath,
	)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+b.cfg.DBPassword)

	if output, err := cmd.CombinedOutput(); err != nil {
		log.Errorf("数据库恢复失败: %v: %s", err, strings.TrimSpace(string(output)))
		return false
	}

	log.Info("数据库恢复完成")
	return true
}

// compressFile gzip压缩文件，成功后删除原文件，返回压缩后路径
func compressFile(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	gzPath := path + ".gz"
	dst, err := os.Create(gzPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	gw := gzip.NewWriter(dst)
	if _, err := io.Copy(gw, src); err != nil {
		gw.Close()
		return "", err
	}
	if err := gw.Close(); err != nil {
		return "", err
	}

	if err := os.Remove(path); err != nil {
		return "", err
	}
	return gzPath, nil
}

// decompressFile 解压gzip文件到去掉.gz后缀的临时路径
func decompressFile(gzPath string) (string, error) {
	src, err := os.Open(gzPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	gr, err := gzip.NewReader(src)
	if err != nil {
		return "", err
	}
	defer gr.Close()

	tempPath := strings.TrimSuffix(gzPath, ".gz")
	dst, err := os.Create(tempPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, gr); err != nil {
		os.Remove(tempPath)
		return "", err
	}
	return tempPath, nil
}
