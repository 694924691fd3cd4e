package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePgDump 生成一个假pg_dump脚本：把SQL文本写入-f参数指定的文件
func fakePgDump(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	script := filepath.Join(dir, "pg_dump")
	content := `#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-f" ]; then out="$2"; fi
  shift
done
echo "-- fake dump" > "$out"
`
	require.NoError(t, os.WriteFile(script, []byte(content), 0755))
	return script
}

// fakePsql 生成一个假psql脚本：把-f参数追加到marker文件，便于断言调用
func fakePsql(t *testing.T, marker string) string {
	t.Helper()
	dir := t.TempDir()
	script := filepath.Join(dir, "psql")
	content := `#!/bin/sh
while [ $# -gt 0 ]; do
  if [ "$1" = "-f" ]; then echo "$2" >> "` + marker + `"; fi
  shift
done
`
	require.NoError(t, os.WriteFile(script, []byte(content), 0755))
	return script
}

// newTestManager 构建指向临时目录的备份管理器
func newTestManager(t *testing.T, mutate func(*Config)) *Manager {
	t.Helper()

	srcDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("hello"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(srcDir, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "nested", "b.txt"), []byte("world"), 0644))

	cfg := &Config{
		DBHost:        "localhost",
		DBPort:        "5432",
		DBUser:        "postgres",
		DBPassword:    "secret",
		DBName:        "schoolhub_test",
		Dir:           t.TempDir(),
		RetentionDays: 30,
		Compression:   false,
		PgDumpBin:     fakePgDump(t),
		PsqlBin:       "psql",
		FilePaths:     []string{srcDir},
	}
	if mutate != nil {
		mutate(cfg)
	}

	m, err := NewManager(cfg)
	require.NoError(t, err)
	return m
}

func TestCreateFullBackupSuccess(t *testing.T) {
	m := newTestManager(t, nil)

	records := m.CreateFullBackup()
	require.Len(t, records, 2)

	dbRecord, fileRecord := records[0], records[1]
	assert.Equal(t, StatusSuccess, dbRecord.Status)
	assert.Equal(t, TypeFull, dbRecord.Type)
	assert.Contains(t, dbRecord.BackupID, "db_full_")
	assert.Greater(t, dbRecord.SizeBytes, int64(0))
	assert.FileExists(t, dbRecord.FilePath)

	assert.Equal(t, StatusSuccess, fileRecord.Status)
	assert.Contains(t, fileRecord.BackupID, "files_full_")
	assert.Equal(t, 2, fileRecord.Metadata["files_copied"])
	assert.Equal(t, int64(len("hello")+len("world")), fileRecord.SizeBytes)
	assert.DirExists(t, fileRecord.FilePath)

	// 两条记录都进了账本
	listed, err := m.ListBackups()
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestCreateFullBackupWithCompression(t *testing.T) {
	m := newTestManager(t, func(cfg *Config) {
		cfg.Compression = true
	})

	records := m.CreateFullBackup()
	require.Len(t, records, 2)
	assert.Equal(t, StatusSuccess, records[0].Status)
	assert.Contains(t, records[0].FilePath, ".sql.gz")
	assert.FileExists(t, records[0].FilePath)

	// 未压缩的原始文件已删除
	raw := records[0].FilePath[:len(records[0].FilePath)-len(".gz")]
	assert.NoFileExists(t, raw)
}

func TestCreateFullBackupDatabaseFailure(t *testing.T) {
	m := newTestManager(t, func(cfg *Config) {
		cfg.PgDumpBin = "/definitely/not/a/real/pg_dump"
	})

	records := m.CreateFullBackup()
	require.Len(t, records, 2)

	// 数据库备份失败但仍产生记录，文件备份照常进行
	assert.Equal(t, StatusFailed, records[0].Status)
	assert.Contains(t, records[0].Metadata["error"], "pg_dump failed")
	assert.NotEmpty(t, records[0].BackupID)
	assert.Equal(t, StatusSuccess, records[1].Status)

	// 账本不丢失失败的尝试
	listed, err := m.ListBackups()
	require.NoError(t, err)
	require.Len(t, listed, 2)
	statuses := []Status{listed[0].Status, listed[1].Status}
	assert.Contains(t, statuses, StatusFailed)
	assert.Contains(t, statuses, StatusSuccess)
}

func TestIncrementalBackupTaggedButFullPipeline(t *testing.T) {
	m := newTestManager(t, nil)

	records := m.CreateIncrementalBackup()
	require.Len(t, records, 2)
	assert.Equal(t, TypeIncremental, records[0].Type)
	assert.Contains(t, records[0].BackupID, "db_incremental_")
	assert.Equal(t, StatusSuccess, records[0].Status)
}

func TestFileBackupSkipsMissingSource(t *testing.T) {
	m := newTestManager(t, func(cfg *Config) {
		cfg.FilePaths = append(cfg.FilePaths, "/no/such/path/anywhere")
	})

	records := m.CreateFullBackup()
	require.Len(t, records, 2)

	// 缺失的源路径只是跳过，不导致失败
	assert.Equal(t, StatusSuccess, records[1].Status)
	assert.Equal(t, 2, records[1].Metadata["files_copied"])
}

func TestListBackupsSortedNewestFirst(t *testing.T) {
	m := newTestManager(t, nil)

	base := time.Date(2026, 5, 1, 2, 0, 0, 0, time.UTC)
	require.NoError(t, m.appendRecords([]Record{
		{BackupID: "db_full_old", Type: TypeFull, Timestamp: base, Status: StatusSuccess},
		{BackupID: "db_full_new", Type: TypeFull, Timestamp: base.Add(2 * time.Hour), Status: StatusFailed},
		{BackupID: "db_full_mid", Type: TypeFull, Timestamp: base.Add(time.Hour), Status: StatusSuccess},
	}))

	listed, err := m.ListBackups()
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "db_full_new", listed[0].BackupID)
	assert.Equal(t, "db_full_mid", listed[1].BackupID)
	assert.Equal(t, "db_full_old", listed[2].BackupID)

	// 状态按写入时的结果保留
	assert.Equal(t, StatusFailed, listed[0].Status)
}

func TestListBackupsEmptyCatalog(t *testing.T) {
	m := newTestManager(t, nil)

	listed, err := m.ListBackups()
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestCleanupOldBackups(t *testing.T) {
	m := newTestManager(t, func(cfg *Config) {
		cfg.RetentionDays = 7
	})

	oldTime := time.Now().AddDate(0, 0, -10)

	// 过期的文件产物和目录产物
	oldFile := filepath.Join(m.cfg.Dir, "db_full_20260101_020000.sql")
	require.NoError(t, os.WriteFile(oldFile, []byte("old"), 0644))
	require.NoError(t, os.Chtimes(oldFile, oldTime, oldTime))

	oldDir := filepath.Join(m.cfg.Dir, "files_full_20260101_020000")
	require.NoError(t, os.MkdirAll(oldDir, 0755))
	require.NoError(t, os.Chtimes(oldDir, oldTime, oldTime))

	// 窗口内的产物
	recentFile := filepath.Join(m.cfg.Dir, "db_full_20260801_020000.sql")
	require.NoError(t, os.WriteFile(recentFile, []byte("recent"), 0644))

	// 账本文件（过期也不清理）
	require.NoError(t, m.appendRecords([]Record{{BackupID: "db_full_20260101_020000"}}))
	require.NoError(t, os.Chtimes(m.catalogPath, oldTime, oldTime))

	m.CleanupOldBackups()

	assert.NoFileExists(t, oldFile)
	assert.NoDirExists(t, oldDir)
	assert.FileExists(t, recentFile)
	assert.FileExists(t, m.catalogPath)

	// 账本仍列出被清理的备份（账本是尝试历史的超集）
	listed, err := m.ListBackups()
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestRestoreDatabase(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "psql_calls")
	m := newTestManager(t, func(cfg *Config) {
		cfg.PsqlBin = fakePsql(t, marker)
	})

	// 先做一次备份得到产物
	records := m.CreateFullBackup()
	require.Equal(t, StatusSuccess, records[0].Status)

	// 用ID时间戳子串定位恢复
	backupID := records[0].BackupID[len("db_full_"):]
	assert.True(t, m.RestoreFromBackup(backupID, "database"))

	// psql确实被调用且指向备份文件
	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Contains(t, string(data), records[0].FilePath)
}

func TestRestoreCompressedDatabase(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "psql_calls")
	m := newTestManager(t, func(cfg *Config) {
		cfg.Compression = true
		cfg.PsqlBin = fakePsql(t, marker)
	})

	records := m.CreateFullBackup()
	require.Equal(t, StatusSuccess, records[0].Status)

	backupID := records[0].BackupID[len("db_full_"):]
	assert.True(t, m.RestoreFromBackup(backupID, "database"))

	// 解压出的临时.sql文件用于恢复，恢复后被清理
	tempPath := records[0].FilePath[:len(records[0].FilePath)-len(".gz")]
	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Contains(t, string(data), tempPath)
	assert.NoFileExists(t, tempPath)
}

func TestRestoreFilesLocatesArtifact(t *testing.T) {
	m := newTestManager(t, nil)

	records := m.CreateFullBackup()
	require.Equal(t, StatusSuccess, records[1].Status)

	backupID := records[1].BackupID[len("files_full_"):]
	// 文件恢复为占位实现：找到产物即返回true
	assert.True(t, m.RestoreFromBackup(backupID, "files"))
	assert.False(t, m.RestoreFromBackup("20000101_000000", "files"))
}

func TestRestoreFullRequiresBoth(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "psql_calls")
	m := newTestManager(t, func(cfg *Config) {
		cfg.PsqlBin = fakePsql(t, marker)
	})

	// 手工放置同一时间戳的两侧产物
	dbFile := filepath.Join(m.cfg.Dir, "db_full_20260101_020000.sql")
	require.NoError(t, os.WriteFile(dbFile, []byte("-- dump"), 0644))
	filesDir := filepath.Join(m.cfg.Dir, "files_full_20260101_020000")
	require.NoError(t, os.MkdirAll(filesDir, 0755))

	// 两侧产物都在：full恢复成功
	assert.True(t, m.RestoreFromBackup("20260101_020000", "full"))

	// 删除数据库产物后full恢复失败
	require.NoError(t, os.Remove(dbFile))
	assert.False(t, m.RestoreFromBackup("20260101_020000", "full"))
}

func TestRestoreUnknownIDFails(t *testing.T) {
	m := newTestManager(t, nil)
	assert.False(t, m.RestoreFromBackup("19990101_000000", "database"))
}
